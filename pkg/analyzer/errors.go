package analyzer

import (
	"errors"
)

var (
	// ErrInvalidType is returned when the input is not a string (including nil).
	ErrInvalidType = errors.New("input must be a string")

	// ErrEmptyInput is returned when the input is empty or only whitespace.
	ErrEmptyInput = errors.New("input text cannot be empty")

	// ErrNoValidWords is returned when no token survives cleaning.
	// errors.Is(ErrNoValidWords, ErrEmptyInput) reports true.
	ErrNoValidWords error = noValidWordsError{}
)

type noValidWordsError struct{}

func (noValidWordsError) Error() string {
	return "input text contains no valid words"
}

func (noValidWordsError) Is(target error) bool {
	return target == ErrEmptyInput
}
