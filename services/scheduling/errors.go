package scheduling

import "errors"

var (
	ErrInvalidDateRange    = errors.New("invalid date range")
	ErrMissingPractitioner = errors.New("practitioner id is required")
)

// maxListDays bounds a single time-slot query.
const maxListDays = 92
