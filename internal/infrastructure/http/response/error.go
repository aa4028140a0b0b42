package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JakTech215/crm-app-sub000/internal/application/task"
	"github.com/JakTech215/crm-app-sub000/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []ErrorField `json:"details,omitempty"`
}

// ErrorField describes a field-specific error.
type ErrorField struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// Error sends a generic error response.
func Error(w http.ResponseWriter, code, message string, statusCode int) {
	write(w, statusCode, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// ValidationError sends a 400 validation error with field details.
func ValidationError(w http.ResponseWriter, field, issue string) {
	write(w, http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "VALIDATION_ERROR",
			Message: "validation failed",
			Details: []ErrorField{{Field: field, Issue: issue}},
		},
	})
}

// BadRequest sends a 400 Bad Request error.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, "INVALID_REQUEST", message, http.StatusBadRequest)
}

// NotFound sends a 404 Not Found error.
func NotFound(w http.ResponseWriter, resource string) {
	Error(w, "NOT_FOUND", resource+" not found", http.StatusNotFound)
}

// Conflict sends a 409 Conflict error.
func Conflict(w http.ResponseWriter, message string) {
	Error(w, "CONFLICT", message, http.StatusConflict)
}

// InternalError logs err and sends a generic 500.
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		slog.ErrorContext(r.Context(), "internal server error", slog.Any("error", err))
	}
	Error(w, "INTERNAL_ERROR", "an internal error occurred", http.StatusInternalServerError)
}

// PartialFailure reports a multi-step operation that stopped midway. The
// steps already applied are named so the caller can reconcile.
func PartialFailure(w http.ResponseWriter, r *http.Request, stepErr *task.StepError) {
	slog.ErrorContext(r.Context(), "operation stopped midway",
		slog.String("op", stepErr.Op),
		slog.String("step", stepErr.Step),
		slog.String("task_id", stepErr.TaskID),
		slog.Int("done", stepErr.Done),
		slog.Any("error", stepErr.Err))
	write(w, http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{
			Code:    "PARTIAL_FAILURE",
			Message: fmt.Sprintf("%s stopped after %d completed steps", stepErr.Op, stepErr.Done),
			Details: []ErrorField{{Field: "step", Issue: stepErr.Step}},
		},
	})
}

// FromDomainError maps domain errors to HTTP responses.
func FromDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var stepErr *task.StepError
	if errors.As(err, &stepErr) {
		PartialFailure(w, r, stepErr)
		return
	}

	switch {
	// Validation errors (400)
	case errors.Is(err, domain.ErrTitleRequired):
		ValidationError(w, "title", "required field missing")
	case errors.Is(err, domain.ErrTitleTooLong):
		ValidationError(w, "title", "must be 255 characters or less")
	case errors.Is(err, domain.ErrInvalidID):
		ValidationError(w, "id", "invalid ID format")
	case errors.Is(err, domain.ErrInvalidTaskStatus), errors.Is(err, domain.ErrStatusRequired):
		ValidationError(w, "status", err.Error())
	case errors.Is(err, domain.ErrInvalidTaskPriority):
		ValidationError(w, "priority", "invalid priority level")
	case errors.Is(err, domain.ErrInvalidRecurrenceUnit),
		errors.Is(err, domain.ErrInvalidRecurrenceFrequency),
		errors.Is(err, domain.ErrRecurrenceRequired),
		errors.Is(err, domain.ErrRecurrenceMismatch):
		ValidationError(w, "recurrence", err.Error())
	case errors.Is(err, domain.ErrInvalidDependencyType):
		ValidationError(w, "dependency_type", "invalid dependency type")
	case errors.Is(err, domain.ErrSelfDependency):
		ValidationError(w, "depends_on_task_id", "task cannot depend on itself")
	case errors.Is(err, domain.ErrInvalidZoom):
		ValidationError(w, "zoom", "must be day, week or month")
	case errors.Is(err, domain.ErrMissingDate):
		ValidationError(w, "date", err.Error())
	case errors.Is(err, domain.ErrNotRecurring),
		errors.Is(err, domain.ErrNotSeriesRoot),
		errors.Is(err, domain.ErrTooManyOccurrences):
		BadRequest(w, err.Error())

	// Not found errors (404)
	case errors.Is(err, domain.ErrTaskNotFound):
		NotFound(w, "task")
	case errors.Is(err, domain.ErrTemplateNotFound):
		NotFound(w, "template")
	case errors.Is(err, domain.ErrDependencyNotFound):
		NotFound(w, "dependency")
	case errors.Is(err, domain.ErrNotFound):
		NotFound(w, "resource")

	// Graph conflicts (409)
	case errors.Is(err, domain.ErrDependencyCycle):
		Conflict(w, err.Error())

	default:
		InternalError(w, r, err)
	}
}
