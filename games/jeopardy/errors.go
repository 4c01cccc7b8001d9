/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package jeopardy

import "errors"

var (
	// ErrNetwork is returned when a trivia source is unreachable or answers
	// with a non-success status.
	ErrNetwork = errors.New("trivia source unavailable")

	// ErrDataShape is returned when a payload is missing required fields.
	ErrDataShape = errors.New("malformed category data")

	// ErrDimensionMismatch is returned when the board dimensions exceed the
	// loaded data.
	ErrDimensionMismatch = errors.New("board dimensions exceed available data")

	// ErrIndexOutOfRange means a coordinate fell outside the board. Cell
	// coordinates are fixed when the board is built, so this is always a bug.
	ErrIndexOutOfRange = errors.New("coordinate out of range")

	// ErrStaleLoad is returned when committing a load that a later restart
	// has replaced.
	ErrStaleLoad = errors.New("load superseded by a newer restart")

	// ErrNoBoard is returned when revealing before any board has loaded.
	ErrNoBoard = errors.New("no board loaded")

	// ErrSampleSize is returned when asked to sample more items than exist.
	ErrSampleSize = errors.New("sample size exceeds population")
)
