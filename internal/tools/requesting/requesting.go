package requesting

// IsSuccess reports whether a status code counts as a successful booking
// API response.
func IsSuccess(code int) bool {
	return code >= 200 && code <= 299
}
