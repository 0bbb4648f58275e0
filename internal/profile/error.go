package profile

import "errors"

var (
	// -- Authentication/Authorization --
	ErrUnauthenticated = errors.New("user not authenticated")

	// -- Resource State --
	ErrProfileNotFound = errors.New("profile not found")

	// -- Database & Operation Failures --
	ErrResolutionFailed = errors.New("failed to resolve identity")
)
