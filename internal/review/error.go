package review

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrMissingComment = errors.New("review comment is required")

	// -- Database & Operation Failures --
	ErrFailedListReviews  = errors.New("failed to list reviews")
	ErrFailedCreateReview = errors.New("failed to create review")
)
