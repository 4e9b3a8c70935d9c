// Package apperrors provides a small error tree for the query client. Errors are
// created from a root with New and refined into children, so that errors.Is on any
// descendant matches every ancestor. Each error can carry a process exit code used
// by command-line front ends.
package apperrors

// Error extends the standard error interface with chaining helpers. All methods
// return a new Error and leave the receiver untouched.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	New(msg string) Error                  // child error with a new message
	Msg(msg string) Error                  // child error that also wraps the receiver
	MsgErr(msg string, err ...error) Error // child error with message, wrapping extra errors
	Err(err ...error) Error                // receiver's message, wrapping extra errors
	Suffix(string) Error                   // appends ": suffix" to the message
	SetExitCode(int) Error                 // sets the exit code
	ExitCode() int                         // exit code, inherited from the parent when unset
	ErrorAll() string                      // message followed by all wrapped errors
	UnwrapAll() []error                    // wrapped errors, in order
}
