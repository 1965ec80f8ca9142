package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/AdamBeresnev/pose-backend/internal/logger"
	"go.uber.org/zap"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Detail string `json:"detail"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	logger.Error(msg, zap.Error(err))
	WriteJSON(w, http.StatusInternalServerError, ErrorBody{Detail: "Internal Server Error"})
}

func Unauthorized(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		logger.Warn("unauthorized", zap.String("message", msg), zap.Error(err))
	} else {
		logger.Warn("unauthorized", zap.String("message", msg))
	}
	w.Header().Set("WWW-Authenticate", "Bearer")
	WriteJSON(w, http.StatusUnauthorized, ErrorBody{Detail: msg})
}

func NotFound(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		logger.Warn("not found", zap.String("message", msg), zap.Error(err))
	} else {
		logger.Warn("not found", zap.String("message", msg))
	}
	WriteJSON(w, http.StatusNotFound, ErrorBody{Detail: msg})
}
