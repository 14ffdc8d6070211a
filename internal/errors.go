package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound       ErrorType = "NOT_FOUND"
	ErrorTypeConflict       ErrorType = "CONFLICT"
	ErrorTypeStateMachine   ErrorType = "INVALID_STATE_TRANSITION"
	ErrorTypeDataIntegrity  ErrorType = "DATA_INTEGRITY_ERROR"
	ErrorTypePartialFailure ErrorType = "PARTIAL_FAILURE"
	ErrorTypeInternal       ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidOrigin    ErrorCode = "INVALID_ORIGIN"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"

	ErrCodeQualificationNotFound ErrorCode = "QUALIFICATION_NOT_FOUND"
	ErrCodeEmployeeNotFound      ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeTrainingNotFound      ErrorCode = "TRAINING_NOT_FOUND"
	ErrCodeTrainerEntryNotFound  ErrorCode = "TRAINER_ENTRY_NOT_FOUND"
	ErrCodeLedgerEntryNotFound   ErrorCode = "LEDGER_ENTRY_NOT_FOUND"

	ErrCodeTrainerHasAssignments ErrorCode = "TRAINER_HAS_ASSIGNMENTS"
	ErrCodeInvalidTrainer        ErrorCode = "INVALID_TRAINER"
	ErrCodeNoDocuments           ErrorCode = "NO_DOCUMENTS"
	ErrCodeFutureDate            ErrorCode = "FUTURE_DATE"
	ErrCodeAlreadyCompleted      ErrorCode = "ALREADY_COMPLETED"
	ErrCodeDanglingReference     ErrorCode = "DANGLING_REFERENCE"
	ErrCodeGrantsPartiallyFailed ErrorCode = "GRANTS_PARTIALLY_FAILED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewStateTransitionError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeStateMachine,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewDataIntegrityError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeDataIntegrity,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrQualificationNotFound = NewNotFoundError("qualification not found", ErrCodeQualificationNotFound)
	ErrEmployeeNotFound      = NewNotFoundError("employee not found", ErrCodeEmployeeNotFound)
	ErrTrainingNotFound      = NewNotFoundError("training not found", ErrCodeTrainingNotFound)
	ErrTrainerEntryNotFound  = NewNotFoundError("trainer assignment not found", ErrCodeTrainerEntryNotFound)

	ErrTrainerHasAssignments = NewStateTransitionError("trainer flag cannot change while qualification assignments exist", ErrCodeTrainerHasAssignments)
	ErrAlreadyCompleted      = NewStateTransitionError("training is already completed", ErrCodeAlreadyCompleted)

	ErrInvalidTrainer = NewValidationError("trainer is not authorized for this qualification", ErrCodeInvalidTrainer)
	ErrNoDocuments    = NewValidationError("at least one document is required to complete a training", ErrCodeNoDocuments)
	ErrFutureDate     = NewValidationError("completion date cannot be in the future", ErrCodeFutureDate)
)

// PartialFailureError reports which participant grants failed during a
// training completion so the caller can retry just that subset.
type PartialFailureError struct {
	TrainingID        int64           `json:"training_id"`
	FailedEmployeeIDs []int64         `json:"failed_employee_ids"`
	Reasons           map[int64]error `json:"-"`
}

func NewPartialFailureError(trainingID int64, reasons map[int64]error) *PartialFailureError {
	ids := make([]int64, 0, len(reasons))
	for id := range reasons {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return &PartialFailureError{
		TrainingID:        trainingID,
		FailedEmployeeIDs: ids,
		Reasons:           reasons,
	}
}

func (e *PartialFailureError) Error() string {
	parts := make([]string, 0, len(e.FailedEmployeeIDs))
	for _, id := range e.FailedEmployeeIDs {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	return fmt.Sprintf("training %d completed but grants failed for employees [%s]", e.TrainingID, strings.Join(parts, ", "))
}

func (e *PartialFailureError) AppError() *AppError {
	return &AppError{
		Type:       ErrorTypePartialFailure,
		Code:       ErrCodeGrantsPartiallyFailed,
		Message:    e.Error(),
		Details:    map[string]interface{}{"training_id": e.TrainingID, "failed_employee_ids": e.FailedEmployeeIDs},
		StatusCode: http.StatusInternalServerError,
	}
}

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	if pf, ok := err.(*PartialFailureError); ok {
		return pf.AppError(), true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
