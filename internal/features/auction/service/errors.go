package service

import "errors"

// Validation errors: malformed operator input. Recoverable, reported to the
// invoking operator, never mutate state.
var (
	ErrIncompleteDraft   = errors.New("draft is missing title, description, minimum bid or end time")
	ErrPastDeadline      = errors.New("end time must be in the future")
	ErrInvalidColor      = errors.New("color must be a 6-digit hex value")
	ErrInvalidAmount     = errors.New("amount must be a positive number")
	ErrInvalidTimeFormat = errors.New("unrecognized time format, expected 'HH:MM' or 'YYYY-MM-DD HH:MM' or 'DD-MM-YYYY HH:MM'")
)

// Bid errors: recoverable, reported to the bidder, no mutation occurs.
var (
	ErrAuctionNotFound = errors.New("auction not found or already finished")
	ErrAuctionClosed   = errors.New("auction has already ended")
	ErrBelowMinimum    = errors.New("bid is below the minimum")
	ErrNotHighEnough   = errors.New("bid must exceed the current leading bid")
)
