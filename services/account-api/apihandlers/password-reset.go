package apihandlers

import (
	"log/slog"
	"net/http"

	usermanagement "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management"
	"github.com/gin-gonic/gin"
)

type InitiatePasswordResetReq struct {
	Username string `json:"username"`
}

type CompletePasswordResetReq struct {
	ResetToken string `json:"resetToken"`
	Password   string `json:"password"`
}

func (h *HttpEndpoints) initiatePasswordReset(c *gin.Context) {
	h.handleInitiatePasswordReset(c, false)
}

func (h *HttpEndpoints) initiateAdminPasswordReset(c *gin.Context) {
	h.handleInitiatePasswordReset(c, true)
}

func (h *HttpEndpoints) handleInitiatePasswordReset(c *gin.Context, adminChannel bool) {
	var req InitiatePasswordResetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Username == "" {
		slog.Error("missing required fields")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	var challenge *usermanagement.TwoFactorChallenge
	var err error
	if adminChannel {
		challenge, err = h.authService.InitiateAdminPasswordReset(c.Request.Context(), req.Username)
	} else {
		challenge, err = h.authService.InitiatePasswordReset(c.Request.Context(), req.Username)
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"otp": challenge})
}

func (h *HttpEndpoints) completePasswordReset(c *gin.Context) {
	var req CompletePasswordResetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.authService.CompletePasswordReset(c.Request.Context(), usermanagement.CompletePasswordResetRequest{
		ResetToken: req.ResetToken,
		Password:   req.Password,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
