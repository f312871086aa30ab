package errors

import "net/http"

// ErrAttachmentNotFound is returned when the task has no attachment reference.
var ErrAttachmentNotFound = &Exception{
	Message:    "No attachment associated with this task.",
	StatusCode: http.StatusNotFound,
}

// ErrAttachmentMissing is returned when the task references a blob the
// attachment store no longer holds.
var ErrAttachmentMissing = &Exception{
	Message:    "The file does not exist on the server.",
	StatusCode: http.StatusNotFound,
}

// ErrNoAttachment is returned when detaching from a task that has nothing
// attached.
var ErrNoAttachment = &Exception{
	Message:    "No attachment found.",
	StatusCode: http.StatusNotFound,
}
