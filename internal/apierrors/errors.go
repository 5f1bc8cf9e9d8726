// Package apierrors renders the error envelope from spec §6.4:
// {"error": string, "code"?: string, ...context}.
package apierrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// APIError is a structured error carrying an HTTP status, a stable code,
// and arbitrary JSON context merged into the response envelope.
type APIError struct {
	Status  int
	Message string
	Code    string
	Context map[string]interface{}
}

func (e *APIError) Error() string {
	return e.Message
}

// New builds an APIError with no extra context.
func New(status int, message, code string) *APIError {
	return &APIError{Status: status, Message: message, Code: code}
}

// WithContext returns a copy of e with additional context fields merged in.
func (e *APIError) WithContext(fields map[string]interface{}) *APIError {
	merged := make(map[string]interface{}, len(e.Context)+len(fields))
	for k, v := range e.Context {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &APIError{Status: e.Status, Message: e.Message, Code: e.Code, Context: merged}
}

// Respond writes the error envelope to the response. 5xx responses get a
// correlation_id per spec §6.4; it is generated fresh if the caller didn't
// already attach one as context.
func Respond(c *gin.Context, err *APIError) {
	body := gin.H{"error": err.Message}
	if err.Code != "" {
		body["code"] = err.Code
	}
	for k, v := range err.Context {
		body[k] = v
	}
	if err.Status >= 500 {
		if _, ok := body["correlation_id"]; !ok {
			body["correlation_id"] = uuid.New().String()
		}
	}
	c.JSON(err.Status, body)
}

// Common, stable error constructors used across the HTTP surface.

func FieldValidationFailed(issues interface{}) *APIError {
	return &APIError{
		Status:  http.StatusUnprocessableEntity,
		Message: "request failed field validation",
		Code:    "FIELD_VALIDATION_FAILED",
		Context: map[string]interface{}{"issues": issues},
	}
}

func BadRequestFieldValidation(message string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Message: message,
		Code:    "FIELD_VALIDATION_FAILED",
	}
}

func UnsupportedFormSchema(issues []string) *APIError {
	return &APIError{
		Status:  http.StatusUnprocessableEntity,
		Message: "form schema is not supported",
		Code:    "UNSUPPORTED_FORM_SCHEMA",
		Context: map[string]interface{}{"issues": issues},
	}
}

func RateLimited() *APIError {
	return &APIError{
		Status:  http.StatusTooManyRequests,
		Message: "too many submissions, try again later",
		Code:    "RATE_LIMITED",
	}
}

func RateLimitCheckFailed() *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Message: "rate limit check failed",
		Code:    "RATE_LIMIT_CHECK_FAILED",
	}
}

func Internal(code, message string) *APIError {
	if message == "" {
		message = "internal error"
	}
	return &APIError{Status: http.StatusInternalServerError, Message: message, Code: code}
}

func NotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: message}
}

func Forbidden(code, message string) *APIError {
	return &APIError{Status: http.StatusForbidden, Message: message, Code: code}
}

func Conflict(code, message string) *APIError {
	return &APIError{Status: http.StatusConflict, Message: message, Code: code}
}

// PlanFeatureDisabled is §4.4 step 7's disabled-feature branch.
func PlanFeatureDisabled(feature, upgradeURL string) *APIError {
	return &APIError{
		Status:  http.StatusForbidden,
		Message: "this feature is not available on your plan",
		Code:    "PLAN_FEATURE_DISABLED",
		Context: map[string]interface{}{"feature": feature, "upgrade_url": upgradeURL},
	}
}

// PlanLimitExceeded is §4.4 step 7's over-limit branch.
func PlanLimitExceeded(feature string, current, allowed int64, upgradeURL string) *APIError {
	return &APIError{
		Status:  http.StatusForbidden,
		Message: "plan limit exceeded",
		Code:    "PLAN_LIMIT_EXCEEDED",
		Context: map[string]interface{}{
			"feature": feature, "current": current, "allowed": allowed, "upgrade_url": upgradeURL,
		},
	}
}
