package httpadapter

import (
	"net/http"

	"github.com/kalamitra/heritage-verify/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrSubmissionNotFound),
		domain.IsKind(err, domain.ErrPackNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrAlreadyResolved):
		return http.StatusConflict
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
