package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slrkit/sjrmatch/internal/config"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Get and set global configuration",
	Long: fmt.Sprintf(`Get and set global configuration stored in %s.

Keys: %s

Examples:
  sjrmatch config set sjr_dir ~/review/sjr
  sjrmatch config get sjr_dir
  sjrmatch config get`, config.GlobalConfigPath(), strings.Join(config.ValidKeys, ", ")),
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show configuration (all keys, or one)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration key",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadGlobal()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	if len(args) == 0 {
		if humanOutput {
			for _, key := range config.ValidKeys {
				value, _ := cfg.Get(key)
				fmt.Printf("%s: %s\n", key, value)
			}
			return nil
		}
		return outputJSON(cfg)
	}

	value, err := cfg.Get(args[0])
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if humanOutput {
		fmt.Println(value)
		return nil
	}
	return outputJSON(map[string]string{args[0]: value})
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.LoadGlobal()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if err := cfg.Set(key, value); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := config.SaveGlobal(cfg); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Set %s = %s\n", key, value)
		return nil
	}
	return outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
}
