package models

import (
	"github.com/cockroachdb/errors"
)

// Base errors, related to default API status codes
var (
	// BadParameterError is rendered with the http status code 400
	BadParameterError = errors.New("bad parameter")

	// UnAuthorizedError is rendered with the http status code 401
	UnAuthorizedError = errors.New("unauthorized")

	// ForbiddenError is rendered with the http status code 403
	ForbiddenError = errors.New("forbidden")

	// NotFoundError is rendered with the http status code 404
	NotFoundError = errors.New("not found")

	// ConflictError is rendered with the http status code 409
	ConflictError = errors.New("duplicate value")

	// UnprocessableEntityError is rendered with the http status code 422
	UnprocessableEntityError = errors.New("unprocessable entity")
)

// DB related errors
var ErrIgnoreRollBackError = errors.New("ignore rollback error")

// Error kinds of the decision/change-set core. Every operation failure is
// wrapped in exactly one of these so the API layer can always render a
// distinguishable error code.
var (
	ValidationError        = errors.Wrap(BadParameterError, "validation error")
	InvalidTransitionError = errors.Wrap(UnprocessableEntityError, "illegal status transition")
	InvalidStateError      = errors.Wrap(UnprocessableEntityError, "operation not allowed in current state")
	IntegrityError         = errors.New("integrity error")
)

// Decision lifecycle errors
var (
	ErrUnknownEntityType = errors.Wrap(ValidationError, "unknown entity type")
	ErrUnknownActionType = errors.Wrap(ValidationError, "unknown action type")
	ErrMissingEntityId   = errors.Wrap(ValidationError, "entity id is required")

	ErrDecisionNotDraft = errors.Wrap(InvalidTransitionError, "decision is not a draft")
	ErrDecisionFrozen   = errors.Wrap(InvalidStateError,
		"decision has been exported or applied and can no longer be edited")
	ErrDecisionApplied        = errors.Wrap(InvalidTransitionError, "decision has been applied")
	ErrDecisionNotDeletable   = errors.Wrap(InvalidStateError, "exported or applied decisions cannot be deleted")
	ErrDecisionNotCurrent     = errors.Wrap(InvalidStateError, "decision version has been superseded")
	ErrDecisionAlreadyClaimed = errors.Wrap(ConflictError, "decision is attached to another change set")
)

// Change set lifecycle errors
var (
	ErrChangeSetNameRequired = errors.Wrap(ValidationError, "change set name is required")
	ErrChangeSetNotDraft     = errors.Wrap(InvalidStateError, "change set is not a draft")
	ErrChangeSetEmpty        = errors.Wrap(InvalidStateError, "change set has no decisions")
	ErrChangeSetNotApproved  = errors.Wrap(InvalidTransitionError, "change set is not approved")
	ErrChangeSetNotExported  = errors.Wrap(InvalidTransitionError, "change set is not exported")
	ErrChangeSetApplied      = errors.Wrap(InvalidStateError, "change set has been applied")
	ErrExportCascadeFailed   = errors.Wrap(IntegrityError, "export cascade could not complete atomically")
)
