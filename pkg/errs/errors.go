package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer  = http.StatusInternalServerError
	ErrStatusClient          = http.StatusBadRequest
	ErrStatusNotLoggedIn     = http.StatusUnauthorized
	ErrStatusNoPermission    = http.StatusForbidden
	ErrStatusUnauthorized    = http.StatusUnauthorized
	ErrStatusNotFound        = http.StatusNotFound
	ErrStatusConflict        = http.StatusBadRequest
	ErrStatusTooManyRequests = http.StatusTooManyRequests
)

var (
	ErrInternalServer     = errors.New("Internal server error")
	ErrClient             = errors.New("Bad request")
	ErrNotLoggedIn        = errors.New("Unauthorized access")
	ErrInvalidCredentials = errors.New("Invalid username or password")
	ErrInvalidToken       = errors.New("Invalid token")
	ErrExpiredToken       = errors.New("Token has expired")
	ErrForbidden          = errors.New("Forbidden access")
	ErrNotFound           = errors.New("Resource not found")
	ErrAccountNotFound    = errors.New("Account not found")
	ErrSalesOrderNotFound = errors.New("Sales order not found")
	ErrUserAlreadyExists  = errors.New("User already exists")
	ErrAlreadySubmitted   = errors.New("Sales order has already been submitted")
	ErrNotSubmitted       = errors.New("Sales order has not been submitted")
	ErrTerminalStatus     = errors.New("Sales order is already approved or rejected")
	ErrInvalidStageName   = errors.New("Stage name is required")
	ErrTooManyRequests    = errors.New("Too many requests")
)

var errorMap = map[error]int{
	ErrInternalServer:     ErrStatusInternalServer,
	ErrClient:             ErrStatusClient,
	ErrNotLoggedIn:        ErrStatusNotLoggedIn,
	ErrInvalidCredentials: ErrStatusUnauthorized,
	ErrInvalidToken:       ErrStatusUnauthorized,
	ErrExpiredToken:       ErrStatusUnauthorized,
	ErrForbidden:          ErrStatusNoPermission,
	ErrNotFound:           ErrStatusNotFound,
	ErrAccountNotFound:    ErrStatusNotFound,
	ErrSalesOrderNotFound: ErrStatusNotFound,
	ErrUserAlreadyExists:  ErrStatusConflict,
	ErrAlreadySubmitted:   ErrStatusClient,
	ErrNotSubmitted:       ErrStatusClient,
	ErrTerminalStatus:     ErrStatusClient,
	ErrInvalidStageName:   ErrStatusClient,
	ErrTooManyRequests:    ErrStatusTooManyRequests,
}

// Resolve returns the registered error that err wraps, or ErrInternalServer.
func Resolve(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errorMap[err]; ok {
		return err
	}
	for known := range errorMap {
		if errors.Is(err, known) {
			return known
		}
	}
	return ErrInternalServer
}

func GetErrorStatusCode(err error) int {
	return errorMap[Resolve(err)]
}
