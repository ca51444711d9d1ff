package errors

const (
	HttpInternalError       = "internal_error"
	HttpInvalidJsonError    = "invalid_json"
	HttpInvalidRequestError = "invalid_request"
	HttpNotFoundError       = "not_found"
	HttpMissingDeviceError  = "missing_device"
	HttpQuotaExceededError  = "quota_exceeded"
	HttpUnavailableError    = "store_unavailable"
)

// ErrorResponse is the error response body for every API error.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
