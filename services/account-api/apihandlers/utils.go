package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"

	usermanagement "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management"
	"github.com/gin-gonic/gin"
)

// writeServiceError maps workflow errors onto HTTP status codes. The response
// body carries the stable error code so clients can react without parsing the
// message.
func writeServiceError(c *gin.Context, err error) {
	var appErr *usermanagement.AppError
	if !errors.As(err, &appErr) {
		slog.Error("unexpected error", slog.String("path", c.Request.URL.Path), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case usermanagement.KindNotAuthorized:
		status = http.StatusUnauthorized
	case usermanagement.KindValidation:
		status = http.StatusBadRequest
	case usermanagement.KindNotFound:
		status = http.StatusNotFound
	case usermanagement.KindConflict:
		status = http.StatusConflict
	case usermanagement.KindIntegrationFailure:
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError || status == http.StatusBadGateway {
		slog.Error("request failed", slog.String("path", c.Request.URL.Path), slog.String("code", appErr.Code), slog.String("error", appErr.Error()))
	}

	c.JSON(status, gin.H{"code": appErr.Code, "error": appErr.Message})
}
