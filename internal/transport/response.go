package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"convenz-admin/internal/apperr"
)

type ErrorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, message string, details map[string]string) {
	WriteJSON(w, status, ErrorResponse{
		Message: message,
		Details: details,
	})
}

const internalMessage = "internal server error"

// WriteAppError translates err through the apperr taxonomy and writes it.
// The underlying cause of internal errors is only included when expose is set.
func WriteAppError(w http.ResponseWriter, err error, expose bool) int {
	return writeAppError(w, err, internalMessage, expose)
}

func writeAppError(w http.ResponseWriter, err error, publicMessage string, expose bool) int {
	appErr := apperr.As(err)
	status := appErr.Kind.Status()

	resp := ErrorResponse{
		Message: appErr.Message,
		Details: appErr.Details,
	}
	if appErr.Kind == apperr.KindInternal {
		resp.Message = publicMessage
		if expose && appErr.Err != nil {
			resp.Error = appErr.Err.Error()
		}
	}

	WriteJSON(w, status, resp)
	return status
}

// Fail is the single error path for handlers: it logs err under op and
// writes the translated response.
func Fail(w http.ResponseWriter, log *slog.Logger, op string, err error, expose bool) {
	FailWithMessage(w, log, op, err, internalMessage, expose)
}

// FailWithMessage is Fail with a caller-chosen message for internal errors.
// Client errors keep their own message.
func FailWithMessage(w http.ResponseWriter, log *slog.Logger, op string, err error, publicMessage string, expose bool) {
	appErr := apperr.As(err)
	if appErr.Kind == apperr.KindInternal {
		log.Error(op+": failed", slog.String("error", err.Error()))
	} else {
		log.Warn(op+": "+appErr.Message, slog.String("kind", appErr.Kind.String()))
	}
	writeAppError(w, err, publicMessage, expose)
}
