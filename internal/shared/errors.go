package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrMissingKey    = fmt.Errorf("missing migration key")

	// Authentication errors
	ErrAuthFailed = fmt.Errorf("authentication failed")

	// Remote transfer errors
	ErrRemoteRequest      = fmt.Errorf("remote request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Import errors
	ErrCreateFailed     = fmt.Errorf("local create failed")
	ErrUnresolvedParent = fmt.Errorf("parent term could not be resolved")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
