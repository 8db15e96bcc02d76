package response

import (
	"net/http"

	"gallery_admin/internal/domain/apperr"
)

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrInternal = ErrorResponse{
		Status:  "error",
		Error:   "internal_error",
		Details: "Internal server error",
	}
)

// FromError переводит ошибку каталога в HTTP-статус и тело ответа. Код
// причины (apperr.Reason) уходит в поле error как есть, чтобы UI мог
// ветвиться без разбора текста.
func FromError(err error) (int, ErrorResponse) {
	e, ok := apperr.From(err)
	if !ok {
		return http.StatusInternalServerError, ErrInternal
	}

	resp := ErrorResponse{
		Status:       "error",
		Error:        e.Reason,
		Details:      e.Message,
		ConflictWith: e.ConflictWith,
	}

	switch e.Kind {
	case apperr.KindValidation:
		return http.StatusBadRequest, resp
	case apperr.KindConflict:
		return http.StatusConflict, resp
	case apperr.KindNotFound:
		return http.StatusNotFound, resp
	default:
		return http.StatusInternalServerError, resp
	}
}
