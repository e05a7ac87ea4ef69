// Package logging provides logging utilities for stampwall.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("fetching source", "source", name, "url", url)
//	logging.Warn("verifier rejected signature", "url", url, "code", code)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Fetching %d sources...", n)
//	logging.UserSuccess("Rendered %d rules", n)
//	logging.UserWarning("No data from source %s", name)
//	logging.UserError("Failed to read config: %v", err)
//
// All user output goes to stderr by default, because stdout carries the
// rendered rules. SetUserOutput redirects it (tests use a buffer).
//
// # Status Indicators
//
// User functions prepend status indicators, colored when the destination
// is a terminal:
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
package logging
