package main

// Exit codes shared by all commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing directory, invalid keys)
	ExitDataError   = 3 // Data error (unreadable input, no usable columns)
)
