// Package errors provides structured, actionable error messages for dropzone.
//
// Every error carries a code (e.g., "E120") that maps to a registered
// template with a short message, a longer explanation and a category.
// Callers attach a detail, a suggestion or a wrapped cause:
//
//	err := errors.New("E120").
//	    WithDetail("Failed to parse dropzone.json: unexpected EOF").
//	    WithSuggestion("Check that dropzone.json is valid JSON")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E120: Invalid configuration file
//	//
//	//   Failed to parse dropzone.json: unexpected EOF
//	//
//	//   Hint: Check that dropzone.json is valid JSON
//
// # Error Categories
//
//   - config: dropzone.json loading and validation
//   - storage: staging backends (memory, disk, s3)
//   - request: malformed or oversized browser events
//   - session: unknown or expired widget sessions
//   - cli: command line usage
package errors
