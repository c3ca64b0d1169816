package errors

// HTTP shaped constructors. Token packages map their failure classes onto
// these codes: malformed input is 400, failed verification is 401.

func BadRequest(format string, args ...any) *Error {
	return New(400, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return New(401, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(403, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(404, format, args...)
}

func UnprocessableEntity(format string, args ...any) *Error {
	return New(422, format, args...)
}

func Internal(format string, args ...any) *Error {
	return New(500, format, args...)
}

func NotImplemented(format string, args ...any) *Error {
	return New(501, format, args...)
}

func ServiceUnavailable(format string, args ...any) *Error {
	return New(503, format, args...)
}

func BadRequestWithMetadata(metadata map[string]string, format string, args ...any) *Error {
	return NewWithMetadata(400, metadata, format, args...)
}

func UnauthorizedWithMetadata(metadata map[string]string, format string, args ...any) *Error {
	return NewWithMetadata(401, metadata, format, args...)
}

// IsClientError reports whether err carries a 4xx code.
func IsClientError(err error) bool {
	c := Code(err)
	return c >= 400 && c < 500
}

// IsServerError reports whether err carries a 5xx code.
func IsServerError(err error) bool {
	return Code(err) >= 500
}
