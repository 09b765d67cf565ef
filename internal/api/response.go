package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/retention/core"
	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/internal/ingest"
	"github.com/huangsam/retention/internal/logger"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, contract.ErrNotFound), errors.Is(err, contract.ErrNoBatch):
		return http.StatusNotFound
	case errors.Is(err, ingest.ErrUnparseable):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrContractViolation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes the error body and stops the handler chain.
func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		message = "internal server error"
	}
	c.AbortWithStatusJSON(status, errorResponse{Code: status, Message: message})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Code: http.StatusBadRequest, Message: message})
}
