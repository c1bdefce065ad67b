package main

// Defaults for CLI commands.
const (
	DefaultSimilarLimit = 5
	DefaultHistoryDays  = 30
	DefaultAuditLimit   = 50
)

// Valid output formats.
var validFormats = []string{"text", "json"}
