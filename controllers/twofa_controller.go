package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Juli03-22/lookaly-fullstack/clients"
	"github.com/Juli03-22/lookaly-fullstack/middleware"
)

// TwoFAAPI is the two-factor management surface of the upstream.
type TwoFAAPI interface {
	SetupTwoFA(ctx context.Context, token string) (*clients.TwoFASetup, error)
	ConfirmTwoFA(ctx context.Context, token, code string) error
	DisableTwoFA(ctx context.Context, token, code string) error
	TwoFAStatus(ctx context.Context, token string) (bool, error)
}

// TwoFAController manages TOTP enrollment. After confirm/disable it
// refreshes the stored identity so the totp_enabled flag stays current.
type TwoFAController struct {
	api  TwoFAAPI
	auth AuthManager
}

func NewTwoFAController(api TwoFAAPI, auth AuthManager) *TwoFAController {
	return &TwoFAController{api: api, auth: auth}
}

// Setup generates a new TOTP secret and QR code. 2FA is not active until
// the first code is confirmed.
func (t *TwoFAController) Setup(c *gin.Context) {
	session := middleware.CurrentSession(c)

	setup, err := t.api.SetupTwoFA(c.Request.Context(), session.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, setup)
}

type codeRequest struct {
	Code string `json:"code" binding:"required"`
}

// Confirm validates the first TOTP code and activates 2FA.
func (t *TwoFAController) Confirm(c *gin.Context) {
	session := middleware.CurrentSession(c)

	var req codeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if err := t.api.ConfirmTwoFA(c.Request.Context(), session.Token, req.Code); err != nil {
		respondError(c, err)
		return
	}

	_, _ = t.auth.Refresh(c.Request.Context(), middleware.SessionID(c))
	c.JSON(http.StatusOK, gin.H{"message": "2FA enabled"})
}

// Disable deactivates 2FA, requiring a currently valid code.
func (t *TwoFAController) Disable(c *gin.Context) {
	session := middleware.CurrentSession(c)

	var req codeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if err := t.api.DisableTwoFA(c.Request.Context(), session.Token, req.Code); err != nil {
		respondError(c, err)
		return
	}

	_, _ = t.auth.Refresh(c.Request.Context(), middleware.SessionID(c))
	c.JSON(http.StatusOK, gin.H{"message": "2FA disabled"})
}

// Status reports whether 2FA is active for the current identity.
func (t *TwoFAController) Status(c *gin.Context) {
	session := middleware.CurrentSession(c)

	enabled, err := t.api.TwoFAStatus(c.Request.Context(), session.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totp_enabled": enabled})
}
