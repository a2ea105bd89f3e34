package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
// Codes are "<MODULE>_<NNN>"; the module prefix groups related failures.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeRateLimited        ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeFeatureDisabled    ErrorCode = "COMMON_015"
)

// Interaction pipeline error codes
const (
	ErrCodeMalformedPayload    ErrorCode = "INT_001"
	ErrCodeUpstreamUnavailable ErrorCode = "INT_002"
	ErrCodeViewerUnavailable   ErrorCode = "INT_003"
	ErrCodeSyncFailed          ErrorCode = "INT_004"
	ErrCodeLoadSuperseded      ErrorCode = "INT_005"
	ErrCodeSnapshotFailed      ErrorCode = "INT_006"
	ErrCodeViewNotFound        ErrorCode = "INT_007"
	ErrCodeInvalidMode         ErrorCode = "INT_008"
)

// Short aliases used at call sites.
const (
	CodeOK                 = ErrorCode("OK")
	CodeUnknown            = ErrorCode("UNKNOWN")
	CodeInternal           = ErrCodeInternal
	CodeInvalidParam       = ErrCodeBadRequest
	CodeNotFound           = ErrCodeNotFound
	CodeConflict           = ErrCodeConflict
	CodeServiceUnavailable = ErrCodeServiceUnavailable
	CodeRateLimited        = ErrCodeRateLimited

	CodeMalformedPayload    = ErrCodeMalformedPayload
	CodeUpstreamUnavailable = ErrCodeUpstreamUnavailable
	CodeViewerUnavailable   = ErrCodeViewerUnavailable
	CodeSyncFailed          = ErrCodeSyncFailed
	CodeLoadSuperseded      = ErrCodeLoadSuperseded
	CodeSnapshotFailed      = ErrCodeSnapshotFailed
	CodeViewNotFound        = ErrCodeViewNotFound
	CodeInvalidMode         = ErrCodeInvalidMode
)

// ErrorCodeHTTPStatus maps each code to the HTTP status the API layer returns.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeSerialization:      http.StatusBadRequest,
	ErrCodeRateLimited:        http.StatusTooManyRequests,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeFeatureDisabled:    http.StatusNotImplemented,

	ErrCodeMalformedPayload:    http.StatusBadRequest,
	ErrCodeUpstreamUnavailable: http.StatusBadGateway,
	ErrCodeViewerUnavailable:   http.StatusConflict,
	ErrCodeSyncFailed:          http.StatusBadGateway,
	ErrCodeLoadSuperseded:      http.StatusConflict,
	ErrCodeSnapshotFailed:      http.StatusInternalServerError,
	ErrCodeViewNotFound:        http.StatusNotFound,
	ErrCodeInvalidMode:         http.StatusBadRequest,
}

// ErrorCodeMessage holds the default message per code.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization error",
	ErrCodeRateLimited:        "rate limit exceeded",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeFeatureDisabled:    "feature disabled",

	ErrCodeMalformedPayload:    "malformed interaction payload",
	ErrCodeUpstreamUnavailable: "interaction upstream unavailable",
	ErrCodeViewerUnavailable:   "viewer not mounted",
	ErrCodeSyncFailed:          "viewer synchronization failed",
	ErrCodeLoadSuperseded:      "load superseded by a newer request",
	ErrCodeSnapshotFailed:      "layout snapshot export failed",
	ErrCodeViewNotFound:        "view not found",
	ErrCodeInvalidMode:         "invalid selection mode",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
