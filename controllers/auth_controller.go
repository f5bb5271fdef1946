package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Juli03-22/lookaly-fullstack/apperrors"
	"github.com/Juli03-22/lookaly-fullstack/middleware"
	"github.com/Juli03-22/lookaly-fullstack/models"
)

// AuthManager is the session store surface the auth handlers need.
type AuthManager interface {
	Authenticate(ctx context.Context, sid, email, password, totpCode string) (*models.Session, error)
	Adopt(ctx context.Context, sid, token string) (*models.Session, error)
	Register(ctx context.Context, sid, name, email, password string) (*models.Session, error)
	Logout(ctx context.Context, sid string) error
	Refresh(ctx context.Context, sid string) (*models.Session, error)
}

// OAuthAPI is the OAuth surface of the upstream.
type OAuthAPI interface {
	GoogleAuthURL(ctx context.Context) (string, error)
}

type AuthController struct {
	auth  AuthManager
	oauth OAuthAPI
}

func NewAuthController(auth AuthManager, oauth OAuthAPI) *AuthController {
	return &AuthController{auth: auth, oauth: oauth}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	TOTPCode string `json:"totp_code"`
}

// Login exchanges credentials for a session. Accounts with two-factor
// enabled get a 428 until the TOTP code is supplied alongside the same
// credentials.
func (a *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	session, err := a.auth.Authenticate(c.Request.Context(), middleware.SessionID(c), req.Email, req.Password, req.TOTPCode)
	if err != nil {
		if apperrors.IsSecondFactorRequired(err) {
			c.JSON(http.StatusPreconditionRequired, gin.H{"error": "2fa_required", "totp_required": true})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": session.User})
}

// GoogleAuthURL hands the client the Google authorization URL so it can
// start the OAuth redirect dance against the upstream.
func (a *AuthController) GoogleAuthURL(c *gin.Context) {
	url, err := a.oauth.GoogleAuthURL(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

type adoptRequest struct {
	Token string `json:"token" binding:"required"`
}

// AdoptToken establishes a session from a token issued out-of-band, as
// the Google OAuth callback does when it redirects back with a JWT. The
// token is validated against the upstream before the slot is written.
func (a *AuthController) AdoptToken(c *gin.Context) {
	var req adoptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	session, err := a.auth.Adopt(c.Request.Context(), middleware.SessionID(c), req.Token)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": session.User})
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// Register creates an account and logs it in immediately.
func (a *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	session, err := a.auth.Register(c.Request.Context(), middleware.SessionID(c), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": session.User})
}

// Logout tears down all client state for this tab. Upstream notification
// failures are already swallowed by the session store.
func (a *AuthController) Logout(c *gin.Context) {
	if err := a.auth.Logout(c.Request.Context(), middleware.SessionID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

// Me returns the current identity.
func (a *AuthController) Me(c *gin.Context) {
	session := middleware.CurrentSession(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, session.User)
}

// RefreshMe re-fetches the identity profile. Stale data is returned as-is
// when the upstream is unreachable.
func (a *AuthController) RefreshMe(c *gin.Context) {
	session, err := a.auth.Refresh(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, session.User)
}
