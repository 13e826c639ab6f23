package apihandlers

import (
	"log/slog"
	"net/http"

	mw "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/apihelpers/middlewares"
	usermanagement "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management"
	umUtils "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management/utils"
	"github.com/gin-gonic/gin"
)

func (h *HttpEndpoints) AddAuthAPI(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", mw.RequirePayload(), h.login)
		authGroup.POST("/admin-login", mw.RequirePayload(), h.adminLogin)

		authGroup.POST("/two-factor", mw.RequirePayload(), h.twoFactorLogin)
		authGroup.POST("/admin-two-factor", mw.RequirePayload(), h.adminTwoFactorLogin)
		authGroup.POST("/two-factor/completion", mw.RequirePayload(), h.twoFactorCompletion)

		authGroup.POST("/password-reset/initiate", mw.RequirePayload(), h.initiatePasswordReset)
		authGroup.POST("/admin-password-reset/initiate", mw.RequirePayload(), h.initiateAdminPasswordReset)
		authGroup.POST("/password-reset/complete", mw.RequirePayload(), h.completePasswordReset)
	}
}

type LoginReq struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DeviceID    string `json:"deviceId"`
	ChannelCode string `json:"channelCode"`
}

type TwoFactorLoginReq struct {
	Username                string `json:"username"`
	Password                string `json:"password"`
	IsPrivacyPolicyAccepted *bool  `json:"isPrivacyPolicyAccepted"`
}

type TwoFactorCompletionReq struct {
	OtpCode      string `json:"otpCode"`
	OtpDisplayID string `json:"otpDisplayId"`
	DeviceID     string `json:"deviceId"`
	ChannelCode  string `json:"channelCode"`
}

func (h *HttpEndpoints) login(c *gin.Context) {
	h.handleLogin(c, false)
}

func (h *HttpEndpoints) adminLogin(c *gin.Context) {
	h.handleLogin(c, true)
}

func (h *HttpEndpoints) handleLogin(c *gin.Context, adminChannel bool) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Username == "" || req.Password == "" {
		slog.Error("missing required fields")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}
	if req.ChannelCode != "" && !umUtils.CheckChannelCodeFormat(req.ChannelCode) {
		slog.Error("invalid channel code", slog.String("channelCode", req.ChannelCode))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel code"})
		return
	}

	loginReq := usermanagement.LoginRequest{
		Username:    req.Username,
		Password:    req.Password,
		DeviceID:    req.DeviceID,
		IPAddress:   c.ClientIP(),
		ChannelCode: req.ChannelCode,
	}

	var result *usermanagement.AuthenticationResult
	var err error
	if adminChannel {
		result, err = h.authService.AdminLogin(c.Request.Context(), loginReq)
	} else {
		result, err = h.authService.Login(c.Request.Context(), loginReq)
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": result.Token, "user": result.User})
}

func (h *HttpEndpoints) twoFactorLogin(c *gin.Context) {
	h.handleTwoFactorLogin(c, false)
}

func (h *HttpEndpoints) adminTwoFactorLogin(c *gin.Context) {
	h.handleTwoFactorLogin(c, true)
}

func (h *HttpEndpoints) handleTwoFactorLogin(c *gin.Context, adminChannel bool) {
	var req TwoFactorLoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Username == "" || req.Password == "" {
		slog.Error("missing required fields")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	twoFactorReq := usermanagement.TwoFactorLoginRequest{
		Username:                req.Username,
		Password:                req.Password,
		IsPrivacyPolicyAccepted: req.IsPrivacyPolicyAccepted,
	}

	var challenge *usermanagement.TwoFactorChallenge
	var err error
	if adminChannel {
		challenge, err = h.authService.AdminTwoFactorLogin(c.Request.Context(), twoFactorReq)
	} else {
		challenge, err = h.authService.TwoFactorLogin(c.Request.Context(), twoFactorReq)
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"otp": challenge})
}

func (h *HttpEndpoints) twoFactorCompletion(c *gin.Context) {
	var req TwoFactorCompletionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.OtpCode == "" || req.OtpDisplayID == "" {
		slog.Error("missing required fields")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	result, err := h.authService.TwoFactorCompletion(c.Request.Context(), usermanagement.TwoFactorCompletionRequest{
		OtpCode:      req.OtpCode,
		OtpDisplayID: req.OtpDisplayID,
		DeviceID:     req.DeviceID,
		IPAddress:    c.ClientIP(),
		ChannelCode:  req.ChannelCode,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": result.Token, "user": result.User})
}
