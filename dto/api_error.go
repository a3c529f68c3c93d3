package dto

// APIErrorResponse is the error envelope returned on every non-2xx response.
// ErrorCode is a stable machine-readable identifier; Message is for humans.
type APIErrorResponse struct {
	Message   string    `json:"message"`
	ErrorCode ErrorCode `json:"error_code,omitempty"`
}

type ErrorCode string

const (
	UnknownErrorCode        ErrorCode = "unknown_error"
	BadRequestCode          ErrorCode = "bad_request"
	UnauthorizedCode        ErrorCode = "unauthorized"
	ForbiddenCode           ErrorCode = "forbidden"
	NotFoundCode            ErrorCode = "not_found"
	ConflictCode            ErrorCode = "conflict"
	UnprocessableEntityCode ErrorCode = "unprocessable_entity"
	InvalidTransitionCode   ErrorCode = "invalid_status_transition"
	DecisionFrozenCode      ErrorCode = "decision_frozen"
	DecisionAlreadyGrouped  ErrorCode = "decision_already_in_change_set"
	ChangeSetEmptyCode      ErrorCode = "change_set_empty"
	ExportCascadeFailedCode ErrorCode = "export_cascade_failed"
)
