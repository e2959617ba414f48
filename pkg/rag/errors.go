package rag

import "errors"

var (
	// ErrGeneration is returned when a completion call used for rewriting
	// or composing fails; the pipeline aborts rather than degrade silently.
	ErrGeneration = errors.New("text generation failed")
	// ErrVerification is returned when a relevance judgment call itself fails.
	// A "No" judgment is a valid outcome, not an error.
	ErrVerification = errors.New("relevance verification failed")
	// ErrTimeout is returned when the pipeline budget expires mid-flight.
	ErrTimeout = errors.New("pipeline timed out")
)
