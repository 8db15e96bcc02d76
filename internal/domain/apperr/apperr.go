// Package apperr defines the catalog error taxonomy. Every error carries a
// short machine-readable reason code, distinct from the human message, so
// the admin UI can branch without parsing prose.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
	KindIO
)

// Reason codes surfaced to callers.
const (
	ReasonNameRequired    = "name-required"
	ReasonAlbumNameExists = "album-name-exists"
	ReasonAlbumIDExists   = "album-id-exists"
	ReasonAlbumNotFound   = "album-not-found"
	ReasonTagNameExists   = "tag-name-exists"
	ReasonTagIDExists     = "tag-id-exists"
	ReasonTagNotFound     = "tag-not-found"
	ReasonUnknownAlbumID  = "unknown-albumId"
	ReasonUnknownTagID    = "unknown-tagId"
	ReasonDuplicate       = "duplicate"
	ReasonDuplicateName   = "duplicate-name"
	ReasonPhotoNotFound   = "photo-not-found"
	ReasonIOError         = "io-error"
)

type Error struct {
	Kind    Kind
	Reason  string
	Message string
	// ConflictWith держит запись, с которой случился конфликт.
	ConflictWith any

	err error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Reason, e.Message, e.err)
	}

	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *Error) Unwrap() error {
	return e.err
}

func Validation(reason, message string) *Error {
	return &Error{Kind: KindValidation, Reason: reason, Message: message}
}

func Conflict(reason, message string) *Error {
	return &Error{Kind: KindConflict, Reason: reason, Message: message}
}

// ConflictWith is Conflict carrying the record the request collided with.
func ConflictWith(reason, message string, with any) *Error {
	return &Error{Kind: KindConflict, Reason: reason, Message: message, ConflictWith: with}
}

func NotFound(reason, message string) *Error {
	return &Error{Kind: KindNotFound, Reason: reason, Message: message}
}

func IO(message string, err error) *Error {
	return &Error{Kind: KindIO, Reason: ReasonIOError, Message: message, err: err}
}

// From extracts an *Error from err's chain.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}

	return nil, false
}

func IsKind(err error, k Kind) bool {
	e, ok := From(err)
	return ok && e.Kind == k
}

func Reason(err error) string {
	if e, ok := From(err); ok {
		return e.Reason
	}

	return ""
}
