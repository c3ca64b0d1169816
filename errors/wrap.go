package errors

import (
	stderrors "errors"
)

// Is, As and Join forward to the standard library so that callers import a
// single errors package.

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}

func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// IsAny reports whether err matches at least one of targets.
func IsAny(err error, targets ...error) bool {
	if err == nil {
		return false
	}
	for _, target := range targets {
		if stderrors.Is(err, target) {
			return true
		}
	}
	return false
}

// AsType returns the first error of type T in err's chain.
func AsType[T error](err error) (T, bool) {
	var target T
	ok := stderrors.As(err, &target)
	return target, ok
}
