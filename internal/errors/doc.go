// Package errors provides typed errors with exit codes for stampwall.
//
// # Error Types
//
// StampwallError is the base error type that wraps an error with an exit code:
//
//	type StampwallError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
//	ExitSuccess       = 0 // Success
//	ExitGeneralError  = 1 // General/unknown errors
//	ExitConfigError   = 2 // Configuration could not be read or parsed
//	ExitFetchFailed   = 3 // A source could not be fetched or verified
//	ExitVerifierError = 4 // Verifier is misconfigured
//	ExitOutputError   = 5 // Rules could not be written
//
// Per-source fetch failures during a render are not errors at this level:
// they are skipped and reported in the run summary. Only the verify command
// turns them into ExitFetchFailed.
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
