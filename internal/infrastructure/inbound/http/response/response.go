package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"rollup-blog-service/internal/domain/custom_errors"
	ports "rollup-blog-service/internal/domain/ports/output"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, log ports.Logger, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("Failed to encode response", slog.String("error", err.Error()))
	}
}

func WriteError(w http.ResponseWriter, log ports.Logger, statusCode int, errorType, message string) {
	WriteJSON(w, log, statusCode, ErrorResponse{
		Error:   errorType,
		Message: message,
	})
}

// HandleServiceError maps service errors to HTTP responses.
func HandleServiceError(w http.ResponseWriter, log ports.Logger, err error) {
	switch {
	case errors.Is(err, custom_errors.ErrInvalidInput):
		WriteError(w, log, http.StatusBadRequest, "InvalidRequest", err.Error())
	case errors.Is(err, custom_errors.ErrPostNotFound):
		WriteError(w, log, http.StatusNotFound, "PostNotFound", custom_errors.ErrPostNotFound.Error())
	case errors.Is(err, custom_errors.ErrPublicationNotFound):
		WriteError(w, log, http.StatusNotFound, "PublicationNotFound", custom_errors.ErrPublicationNotFound.Error())
	case errors.Is(err, custom_errors.ErrEditUnsupported):
		WriteError(w, log, http.StatusNotImplemented, "EditUnsupported", custom_errors.ErrEditUnsupported.Error())
	case errors.Is(err, custom_errors.ErrLedgerUnavailable):
		WriteError(w, log, http.StatusServiceUnavailable, "LedgerUnavailable", custom_errors.ErrLedgerUnavailable.Error())
	case errors.Is(err, custom_errors.ErrStoreUnavailable):
		WriteError(w, log, http.StatusServiceUnavailable, "StoreUnavailable", custom_errors.ErrStoreUnavailable.Error())
	case errors.Is(err, custom_errors.ErrSignerUnavailable):
		WriteError(w, log, http.StatusServiceUnavailable, "SignerUnavailable", custom_errors.ErrSignerUnavailable.Error())
	case errors.Is(err, custom_errors.ErrTransactionRejected):
		WriteError(w, log, http.StatusConflict, "TransactionRejected", custom_errors.ErrTransactionRejected.Error())
	case errors.Is(err, custom_errors.ErrRefreshSuperseded):
		WriteError(w, log, http.StatusConflict, "RefreshSuperseded", custom_errors.ErrRefreshSuperseded.Error())
	case errors.Is(err, custom_errors.ErrTransactionReverted):
		WriteError(w, log, http.StatusBadGateway, "TransactionReverted", custom_errors.ErrTransactionReverted.Error())
	case errors.Is(err, custom_errors.ErrLedgerCall):
		WriteError(w, log, http.StatusBadGateway, "LedgerCallFailed", custom_errors.ErrLedgerCall.Error())
	case errors.Is(err, custom_errors.ErrContentFetch):
		WriteError(w, log, http.StatusBadGateway, "ContentFetchFailed", custom_errors.ErrContentFetch.Error())
	case errors.Is(err, custom_errors.ErrStoreUpload):
		WriteError(w, log, http.StatusBadGateway, "ContentUploadFailed", custom_errors.ErrStoreUpload.Error())
	default:
		log.Error("Unexpected service error", slog.String("error", err.Error()))
		WriteError(w, log, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}
