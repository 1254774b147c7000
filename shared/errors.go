package shared

import (
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// ErrorCategory represents different types of errors that can occur
type ErrorCategory string

const (
	ErrorCategoryNetwork    ErrorCategory = "network"
	ErrorCategoryDatabase   ErrorCategory = "database"
	ErrorCategoryValidation ErrorCategory = "validation"
	ErrorCategoryProcessing ErrorCategory = "processing"
	ErrorCategoryTimeout    ErrorCategory = "timeout"
)

// Error codes used across the ingestion pipeline.
const (
	CodeMalformedRow     = "MALFORMED_ROW"
	CodeDuplicateKey     = "DUPLICATE_INTERN_ID"
	CodeTransportFailure = "TRANSPORT_FAILURE"
	CodeDecodeFailure    = "DECODE_FAILURE"
)

// ServiceError represents a standardized error with additional context
type ServiceError struct {
	Category    ErrorCategory `json:"category"`
	Code        string        `json:"code"`
	Message     string        `json:"message"`
	Timestamp   time.Time     `json:"timestamp"`
	ServiceName string        `json:"service_name"`
	Operation   string        `json:"operation"`
	Retryable   bool          `json:"retryable"`
	Cause       error         `json:"-"` // Original error, not serialized
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// NewServiceError creates a new service error
func NewServiceError(category ErrorCategory, code, message, serviceName, operation string, retryable bool, cause error) *ServiceError {
	return &ServiceError{
		Category:    category,
		Code:        code,
		Message:     message,
		Timestamp:   time.Now(),
		ServiceName: serviceName,
		Operation:   operation,
		Retryable:   retryable,
		Cause:       cause,
	}
}

// NewTransportError wraps a remote download failure. Retryable: the next
// scheduled sync cycle proceeds normally.
func NewTransportError(operation string, cause error) *ServiceError {
	return NewServiceError(ErrorCategoryNetwork, CodeTransportFailure,
		fmt.Sprintf("remote download failed: %v", cause),
		"sheet-sync", operation, true, cause)
}

// NewDecodeError wraps a spreadsheet parse failure. No partial ingestion
// happens for the batch that failed to decode.
func NewDecodeError(operation string, cause error) *ServiceError {
	return NewServiceError(ErrorCategoryProcessing, CodeDecodeFailure,
		fmt.Sprintf("spreadsheet could not be decoded: %v", cause),
		"sheet-sync", operation, false, cause)
}

// NewDuplicateInternIDError surfaces a unique-constraint collision on
// intern_id outside the upsert path, naming the offending identifier.
func NewDuplicateInternIDError(internID string, cause error) *ServiceError {
	return NewServiceError(ErrorCategoryDatabase, CodeDuplicateKey,
		fmt.Sprintf("This Intern ID %q already exists in the database. Please use a different Intern ID or leave it blank.", internID),
		"candidate-service", "create", false, cause)
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// IsRetryable returns whether the error is retryable
func (e *ServiceError) IsRetryable() bool {
	return e.Retryable
}

// LogError logs the error with structured fields
func (e *ServiceError) LogError() {
	logrus.WithFields(logrus.Fields{
		"error_category":   e.Category,
		"error_code":       e.Code,
		"error_message":    e.Message,
		"service_name":     e.ServiceName,
		"operation":        e.Operation,
		"retryable":        e.Retryable,
		"underlying_error": e.Cause,
	}).Error("Service error occurred")
}
