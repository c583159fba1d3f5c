package services

import "errors"

var (
	ErrBookingNotFound   = errors.New("booking_not_found")
	ErrSlotOverlap       = errors.New("slot_overlapped")
	ErrInvalidBooking    = errors.New("invalid_booking")
	ErrInvalidSettings   = errors.New("invalid_settings")
	ErrNoCourtsAvailable = errors.New("no_courts_available")
	ErrPartialCourts     = errors.New("fewer_courts_available")
	ErrSubmitInProgress  = errors.New("submit_in_progress")
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrSessionNotFound   = errors.New("session_not_found")
)
