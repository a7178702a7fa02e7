package errors

import stderrors "errors"

// Is, As and New forward to the standard library so callers only import this package.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

func New(text string) error { return stderrors.New(text) }

func Join(errs ...error) error { return stderrors.Join(errs...) }
