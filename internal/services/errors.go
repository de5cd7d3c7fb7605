package services

import "errors"

// Typed failures of the AOtD core. Handlers map these onto transport codes;
// nothing below this package inspects error strings.
var (
	// ErrAlreadySelected: a pick already exists for today; selection made no
	// mutation.
	ErrAlreadySelected = errors.New("album of the day already selected")

	// ErrNoEligibleAlbums: the candidate pool was exhausted before a valid
	// draw. A legitimate terminal outcome, not a system error; operators
	// alert on it to refill the submission pool.
	ErrNoEligibleAlbums = errors.New("no albums eligible for selection")

	// ErrPickMismatch: a review was submitted for a day/album pair that is
	// not an actual daily pick.
	ErrPickMismatch = errors.New("album is not the pick for that day")

	// ErrInvalidScore: score outside [0, 10] or off the configured step.
	ErrInvalidScore = errors.New("score must be between 0 and 10 in half-point steps")

	// ErrNotFound: unknown album, day, or user reference.
	ErrNotFound = errors.New("not found")
)
