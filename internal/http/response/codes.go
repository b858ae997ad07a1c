package response

import "net/http"

const (
	CodeOK              = http.StatusOK
	CodeCreated         = http.StatusCreated
	CodeBadRequest      = http.StatusBadRequest
	CodeNotFound        = http.StatusNotFound
	CodeTooManyRequests = http.StatusTooManyRequests
	CodeInternal        = http.StatusInternalServerError
	CodeUnavailable     = http.StatusServiceUnavailable
)
