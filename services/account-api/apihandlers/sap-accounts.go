package apihandlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/apihelpers"
	mw "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/apihelpers/middlewares"
	jwthandling "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/jwt-handling"
	messagingTypes "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/messaging/types"
	usermanagement "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management"
	umTypes "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management/types"
	"github.com/gin-gonic/gin"
)

func (h *HttpEndpoints) AddSapAccountAPI(rg *gin.RouterGroup) {
	sapAccountsGroup := rg.Group("/sap-accounts")
	sapAccountsGroup.Use(mw.GetAndValidateAccountUserJWT(h.tokenSignKey))
	{
		sapAccountsGroup.GET("", h.getSapAccounts)
		sapAccountsGroup.POST("/link", mw.RequirePayload(), h.linkSapAccount)
		sapAccountsGroup.POST("/link/validate-otp", mw.RequirePayload(), h.validateLinkAccountOTP)
		sapAccountsGroup.PUT("/:sapAccountID/rename", mw.RequirePayload(), h.renameSapAccount)
		sapAccountsGroup.DELETE("/:sapAccountID", h.unlinkSapAccount)
		sapAccountsGroup.POST("/deletion-request", mw.RequirePayload(), h.createDeletionRequest)
	}
}

type LinkSapAccountReq struct {
	CompanyCode   string `json:"companyCode"`
	CountryCode   string `json:"countryCode"`
	AccountNumber string `json:"accountNumber"`
	FriendlyName  string `json:"friendlyName"`
}

type ValidateLinkAccountOTPReq struct {
	OtpCode      string `json:"otpCode"`
	OtpDisplayID string `json:"otpDisplayId"`
}

type RenameSapAccountReq struct {
	FriendlyName string `json:"friendlyName"`
}

type DeletionRequestReq struct {
	SapNumber string `json:"sapNumber"`
	Reason    string `json:"reason"`
}

func (h *HttpEndpoints) tokenClaims(c *gin.Context) *jwthandling.AccountUserClaims {
	tokenValue, ok := c.Get("validatedToken")
	if !ok {
		return nil
	}
	return tokenValue.(*jwthandling.AccountUserClaims)
}

func (h *HttpEndpoints) getSapAccounts(c *gin.Context) {
	claims := h.tokenClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
		return
	}

	query, err := apihelpers.ParsePaginatedQueryFromCtx(c)
	if err != nil {
		slog.Error("failed to parse query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accounts, totalCount, err := h.userDBConn.GetSapAccountsForUser(claims.Subject, query.Page, query.Limit)
	if err != nil {
		slog.Error("failed to list linked accounts", slog.String("userID", claims.Subject), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sapAccounts": accounts,
		"pagination": gin.H{
			"page":       query.Page,
			"limit":      query.Limit,
			"totalCount": totalCount,
		},
	})
}

func (h *HttpEndpoints) linkSapAccount(c *gin.Context) {
	claims := h.tokenClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
		return
	}

	var req LinkSapAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.CompanyCode == "" || req.CountryCode == "" || req.AccountNumber == "" {
		slog.Error("missing required fields")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	challenge, err := h.authService.LinkSapAccount(c.Request.Context(), usermanagement.LinkSapAccountRequest{
		UserID:        claims.Subject,
		CompanyCode:   req.CompanyCode,
		CountryCode:   req.CountryCode,
		AccountNumber: req.AccountNumber,
		FriendlyName:  req.FriendlyName,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"otp": challenge})
}

func (h *HttpEndpoints) validateLinkAccountOTP(c *gin.Context) {
	var req ValidateLinkAccountOTPReq
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

	account, err := h.authService.ValidateLinkAccountOTP(c.Request.Context(), req.OtpCode, req.OtpDisplayID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sapAccount": account})
}

func (h *HttpEndpoints) renameSapAccount(c *gin.Context) {
	claims := h.tokenClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
		return
	}

	var req RenameSapAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.FriendlyName == "" {
		slog.Error("missing required fields")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	sapAccountID := c.Param("sapAccountID")
	account, err := h.userDBConn.GetSapAccountByID(sapAccountID)
	if err != nil || account.UserID != claims.Subject {
		c.JSON(http.StatusNotFound, gin.H{"code": usermanagement.CODE_SAP_ACCOUNT_NOT_FOUND, "error": "no linked account was found"})
		return
	}

	if err := h.userDBConn.UpdateSapAccountFriendlyName(claims.Subject, sapAccountID, req.FriendlyName); err != nil {
		slog.Error("failed to rename linked account", slog.String("sapAccountID", sapAccountID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	h.publishSapAccountEvent(c, messagingTypes.TOPIC_SAP_ACCOUNT_UPDATED, account, req.FriendlyName)

	c.JSON(http.StatusOK, gin.H{"message": "linked account updated"})
}

func (h *HttpEndpoints) unlinkSapAccount(c *gin.Context) {
	claims := h.tokenClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
		return
	}

	sapAccountID := c.Param("sapAccountID")
	account, err := h.userDBConn.GetSapAccountByID(sapAccountID)
	if err != nil || account.UserID != claims.Subject {
		c.JSON(http.StatusNotFound, gin.H{"code": usermanagement.CODE_SAP_ACCOUNT_NOT_FOUND, "error": "no linked account was found"})
		return
	}

	count, err := h.userDBConn.CountSapAccountsForUser(claims.Subject)
	if err != nil {
		slog.Error("failed to count linked accounts", slog.String("userID", claims.Subject), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if count < 2 {
		c.JSON(http.StatusConflict, gin.H{"code": usermanagement.CODE_SAP_ACCOUNT_LAST_REMAINING, "error": "the last linked account cannot be removed"})
		return
	}

	if err := h.userDBConn.DeleteSapAccount(claims.Subject, sapAccountID); err != nil {
		slog.Error("failed to unlink account", slog.String("sapAccountID", sapAccountID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	h.publishSapAccountEvent(c, messagingTypes.TOPIC_SAP_ACCOUNT_DELETED, account, account.FriendlyName)

	c.JSON(http.StatusOK, gin.H{"message": "linked account removed"})
}

func (h *HttpEndpoints) createDeletionRequest(c *gin.Context) {
	claims := h.tokenClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
		return
	}

	var req DeletionRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SapNumber == "" {
		slog.Error("missing required fields")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	request, err := h.userDBConn.CreateDeletionRequest(&umTypes.DeletionRequest{
		UserID:    claims.Subject,
		SapNumber: req.SapNumber,
		Reason:    req.Reason,
		CreatedAt: time.Now().Unix(),
	})
	if err != nil {
		slog.Error("failed to create deletion request", slog.String("userID", claims.Subject), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if err := h.publisher.Publish(c.Request.Context(), messagingTypes.TOPIC_DELETION_REQUEST_CREATED, messagingTypes.DeletionRequestMessage{
		UserID:      request.UserID,
		SapNumber:   request.SapNumber,
		Reason:      request.Reason,
		RequestedAt: time.Now().UTC(),
	}); err != nil {
		slog.Warn("failed to publish deletion request event", slog.String("error", err.Error()))
	}

	c.JSON(http.StatusOK, gin.H{"message": "deletion request created"})
}

func (h *HttpEndpoints) publishSapAccountEvent(c *gin.Context, topic string, account *umTypes.SapAccount, friendlyName string) {
	if err := h.publisher.Publish(c.Request.Context(), topic, messagingTypes.SapAccountMessage{
		UserID:       account.UserID,
		SapAccountID: account.ID.Hex(),
		SapNumber:    account.SapNumber,
		CompanyCode:  account.CompanyCode,
		CountryCode:  account.CountryCode,
		FriendlyName: friendlyName,
		OccurredAt:   time.Now().UTC(),
	}); err != nil {
		slog.Warn("failed to publish linked account event", slog.String("topic", topic), slog.String("error", err.Error()))
	}
}
