package core

import "fmt"

// ContractError is the panic value raised when calling code breaks an API
// contract (double lock, realizing a valid resource twice, ...). It is not
// meant to be recovered from outside tests.
type ContractError struct {
	Msg string
}

func (e *ContractError) Error() string {
	return "contract violation: " + e.Msg
}

// Assert panics with a *ContractError when cond is false.
func Assert(cond bool, format string, args ...interface{}) {
	if cond {
		return
	}
	msg := fmt.Sprintf(format, args...)
	LogError("assertion failed: %s", msg)
	panic(&ContractError{Msg: msg})
}
