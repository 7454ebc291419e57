package ranking

import "testing"

func TestMergeBest_BestQuartileWins(t *testing.T) {
	entries := []Entry{
		{Title: "Acta Informatica", Key: "acta informatica", Quartile: Q3, Rank: 900},
		{Title: "Acta Informatica", Key: "acta informatica", Quartile: Q2, Rank: 500},
	}

	merged := MergeBest(entries)
	if len(merged) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(merged))
	}
	if merged[0].Quartile != Q2 {
		t.Errorf("expected best quartile Q2 to win, got %s", merged[0].Quartile)
	}
	if merged[0].Rank != 500 {
		t.Errorf("expected rank 500, got %d", merged[0].Rank)
	}
}

func TestMergeBest_RankBreaksQuartileTie(t *testing.T) {
	entries := []Entry{
		{Title: "Acta Informatica", Key: "acta informatica", Quartile: Q1, Rank: 300},
		{Title: "Acta Informatica", Key: "acta informatica", Quartile: Q1, Rank: 120},
	}

	merged := MergeBest(entries)
	if len(merged) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(merged))
	}
	if merged[0].Rank != 120 {
		t.Errorf("expected lower rank 120 to win, got %d", merged[0].Rank)
	}
}

func TestMergeBest_FirstWinsOnFullTie(t *testing.T) {
	entries := []Entry{
		{Title: "Acta Informatica", Key: "acta informatica", Quartile: Q1, Rank: 120},
		{Title: "ACTA INFORMATICA", Key: "acta informatica", Quartile: Q1, Rank: 120},
	}

	merged := MergeBest(entries)
	if len(merged) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(merged))
	}
	if merged[0].Title != "Acta Informatica" {
		t.Errorf("expected first-seen entry to survive a full tie, got %q", merged[0].Title)
	}
}

func TestMergeBest_SortOrder(t *testing.T) {
	entries := []Entry{
		{Title: "Delta", Key: "delta", Quartile: Q2, Rank: 400},
		{Title: "Alpha", Key: "alpha", Quartile: Q1, Rank: 50},
		{Title: "Gamma", Key: "gamma", Quartile: Q1}, // no rank, sorts after ranked Q1
		{Title: "Beta", Key: "beta", Quartile: Q1, Rank: 10},
	}

	merged := MergeBest(entries)
	got := make([]string, len(merged))
	for i, e := range merged {
		got[i] = e.Title
	}
	want := []string{"Beta", "Alpha", "Gamma", "Delta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("merge order = %v, want %v", got, want)
		}
	}
}

func TestMergeBest_Empty(t *testing.T) {
	if merged := MergeBest(nil); len(merged) != 0 {
		t.Errorf("expected no entries, got %d", len(merged))
	}
}

func TestRankLess(t *testing.T) {
	tests := []struct {
		a, b int
		want bool
	}{
		{1, 2, true},
		{2, 1, false},
		{5, 0, true},  // ranked beats unranked
		{0, 5, false}, // unranked sorts last
		{0, 0, false},
	}
	for _, tt := range tests {
		if got := rankLess(tt.a, tt.b); got != tt.want {
			t.Errorf("rankLess(%d, %d) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
