package app

import "errors"

// ExitError carries a process exit code through the error chain.
type ExitError struct {
	Code int
	Err  error
}

func (e ExitError) Error() string {
	if e.Err == nil {
		return "exit"
	}
	return e.Err.Error()
}

func (e ExitError) Unwrap() error {
	return e.Err
}

func Exit(code int) error {
	return ExitError{Code: code}
}

func ExitWithError(code int, err error) error {
	return ExitError{Code: code, Err: err}
}

// ExitCode maps err to a process exit code and the message to print, if any.
// A nil error is 0 and an error without an ExitError in its chain is 1.
func ExitCode(err error) (int, string) {
	if err == nil {
		return 0, ""
	}
	var ee ExitError
	if errors.As(err, &ee) {
		if ee.Err != nil && ee.Code != 0 {
			return ee.Code, ee.Err.Error()
		}
		return ee.Code, ""
	}
	return 1, err.Error()
}
