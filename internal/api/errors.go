package api

import (
	"errors"
	"net/http"

	"github.com/MikeSquared-Agency/brief/internal/form"
	"github.com/MikeSquared-Agency/brief/internal/ingest"
	"github.com/MikeSquared-Agency/brief/internal/locale"
	"github.com/MikeSquared-Agency/brief/internal/session"
	"github.com/MikeSquared-Agency/brief/internal/wizard"
)

var errUnknownEvent = errors.New("unknown event type")

// errorCode maps a domain error to its wire code and HTTP status.
func errorCode(err error) (string, int) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return "not_found", http.StatusNotFound
	case errors.Is(err, wizard.ErrValidationBlocked):
		return "validation_blocked", http.StatusConflict
	case errors.Is(err, wizard.ErrIllegalTransition):
		return "illegal_transition", http.StatusConflict
	case errors.Is(err, wizard.ErrGenerationPending):
		return "generation_pending", http.StatusConflict
	case errors.Is(err, form.ErrInvalidPurpose):
		return "invalid_purpose", http.StatusConflict
	case errors.Is(err, form.ErrInvalidClarification):
		return "invalid_clarification", http.StatusConflict
	case errors.Is(err, ingest.ErrUnsupportedFileType):
		return "unsupported_file_type", http.StatusUnsupportedMediaType
	case errors.Is(err, locale.ErrUnknownLocale):
		return "unknown_locale", http.StatusBadRequest
	case errors.Is(err, errUnknownEvent):
		return "unknown_event", http.StatusBadRequest
	default:
		return "internal", http.StatusInternalServerError
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	code, status := errorCode(err)
	writeError(w, status, code, err.Error())
}
