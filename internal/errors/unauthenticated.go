package errors

import "net/http"

var ErrUnauthenticated = &Exception{
	Message:    "Unauthenticated.",
	StatusCode: http.StatusUnauthorized,
}

var ErrInvalidCredentials = &Exception{
	Message:    "Invalid login credentials",
	StatusCode: http.StatusUnauthorized,
}
