// ABOUTME: Sentinel errors shared by the classifier, knowledge store and chat engine
// ABOUTME: Callers wrap them with %w and match with errors.Is
package models

import "errors"

var (
	// User input errors.
	ErrIncompleteSubmission = errors.New("incomplete submission")
	ErrUnknownQuestion      = errors.New("unknown question")
	ErrInvalidSelection     = errors.New("invalid selection")

	// Configuration and integrity errors.
	ErrUnknownType       = errors.New("unknown personality type")
	ErrStoreLoad         = errors.New("knowledge base load failed")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrInvalidK          = errors.New("k must be a positive integer")

	// Transient dependency errors.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	ErrModelUnavailable     = errors.New("language model unavailable")
)
