package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrConfiguration = fmt.Errorf("configuration error")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthentication      = fmt.Errorf("authentication error")
	ErrCredentialsExist    = fmt.Errorf("credential file already exists")
	ErrAuthorizationDenied = fmt.Errorf("authorization denied")

	// API and service errors
	ErrUpstream           = fmt.Errorf("upstream error")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
