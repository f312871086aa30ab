package errors

import "net/http"

var ErrForbidden = &Exception{
	Message:    "Unauthorized",
	StatusCode: http.StatusForbidden,
}
