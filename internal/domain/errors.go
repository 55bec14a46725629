package domain

import "errors"

var (
	// ErrConfigNotFound is returned when no configuration file exists in the
	// working directory or any of its parents. It is fatal for a run.
	ErrConfigNotFound = errors.New("no parlint configuration found")

	// ErrIncompleteResults marks an engine response that does not cover its
	// chunk exactly once per file.
	ErrIncompleteResults = errors.New("engine returned incomplete results")

	// ErrWorkerPanic marks a worker whose engine call panicked.
	ErrWorkerPanic = errors.New("worker panicked")
)
