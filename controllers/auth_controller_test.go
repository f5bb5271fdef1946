package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Juli03-22/lookaly-fullstack/apperrors"
	"github.com/Juli03-22/lookaly-fullstack/middleware"
	"github.com/Juli03-22/lookaly-fullstack/models"
)

// --- Mock Service ---

type MockAuthManager struct{ mock.Mock }

func (m *MockAuthManager) Authenticate(ctx context.Context, sid, email, password, totpCode string) (*models.Session, error) {
	args := m.Called(ctx, sid, email, password, totpCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}
func (m *MockAuthManager) Adopt(ctx context.Context, sid, token string) (*models.Session, error) {
	args := m.Called(ctx, sid, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}
func (m *MockAuthManager) Register(ctx context.Context, sid, name, email, password string) (*models.Session, error) {
	args := m.Called(ctx, sid, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}
func (m *MockAuthManager) Logout(ctx context.Context, sid string) error {
	args := m.Called(ctx, sid)
	return args.Error(0)
}
func (m *MockAuthManager) Refresh(ctx context.Context, sid string) (*models.Session, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

type MockOAuthAPI struct{ mock.Mock }

func (m *MockOAuthAPI) GoogleAuthURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// stubResolver plays the session middleware's storage side.
type stubResolver struct {
	session *models.Session
}

func (s *stubResolver) Current(_ context.Context, _ string) (*models.Session, error) {
	return s.session, nil
}

func newAuthRouter(controller *AuthController, session *models.Session) *gin.Engine {
	router := gin.New()
	router.Use(middleware.ResolveSession(&stubResolver{session: session}))
	router.POST("/auth/login", controller.Login)
	router.POST("/auth/register", controller.Register)
	router.GET("/auth/google/url", controller.GoogleAuthURL)
	router.POST("/auth/token", controller.AdoptToken)
	router.POST("/auth/logout", controller.Logout)
	router.GET("/auth/me", controller.Me)
	return router
}

func doJSON(router *gin.Engine, method, path, payload string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", "tab-1")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestLoginController(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success - 200 OK", func(t *testing.T) {
		// Arrange
		mockAuth := new(MockAuthManager)
		session := &models.Session{Token: "opaque-token", User: models.Identity{ID: "7", Name: "Julia"}}
		mockAuth.On("Authenticate", mock.Anything, "tab-1", "julia@example.com", "secret123", "").Return(session, nil).Once()

		router := newAuthRouter(NewAuthController(mockAuth, new(MockOAuthAPI)), nil)

		// Act
		recorder := doJSON(router, http.MethodPost, "/auth/login", `{"email": "julia@example.com", "password": "secret123"}`)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Julia")
		mockAuth.AssertExpectations(t)
	})

	t.Run("Second Factor Required - 428 With Signal", func(t *testing.T) {
		// Arrange
		mockAuth := new(MockAuthManager)
		mockAuth.On("Authenticate", mock.Anything, "tab-1", "julia@example.com", "secret123", "").Return(nil, apperrors.ErrSecondFactorRequired).Once()

		router := newAuthRouter(NewAuthController(mockAuth, new(MockOAuthAPI)), nil)

		// Act
		recorder := doJSON(router, http.MethodPost, "/auth/login", `{"email": "julia@example.com", "password": "secret123"}`)

		// Assert
		assert.Equal(t, http.StatusPreconditionRequired, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "totp_required")
		mockAuth.AssertExpectations(t)
	})

	t.Run("Invalid Credentials - 401", func(t *testing.T) {
		// Arrange
		mockAuth := new(MockAuthManager)
		mockAuth.On("Authenticate", mock.Anything, "tab-1", "julia@example.com", "wrong", "").Return(nil, apperrors.ErrInvalidCredentials).Once()

		router := newAuthRouter(NewAuthController(mockAuth, new(MockOAuthAPI)), nil)

		// Act
		recorder := doJSON(router, http.MethodPost, "/auth/login", `{"email": "julia@example.com", "password": "wrong"}`)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		mockAuth.AssertExpectations(t)
	})

	t.Run("Missing Password - 400", func(t *testing.T) {
		// Arrange
		mockAuth := new(MockAuthManager)
		router := newAuthRouter(NewAuthController(mockAuth, new(MockOAuthAPI)), nil)

		// Act
		recorder := doJSON(router, http.MethodPost, "/auth/login", `{"email": "julia@example.com"}`)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockAuth.AssertNotCalled(t, "Authenticate")
	})
}

func TestRegisterController(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success - 201 Created", func(t *testing.T) {
		// Arrange
		mockAuth := new(MockAuthManager)
		session := &models.Session{Token: "opaque-token", User: models.Identity{ID: "8", Name: "Ana"}}
		mockAuth.On("Register", mock.Anything, "tab-1", "Ana", "ana@example.com", "secret123").Return(session, nil).Once()

		router := newAuthRouter(NewAuthController(mockAuth, new(MockOAuthAPI)), nil)

		// Act
		recorder := doJSON(router, http.MethodPost, "/auth/register", `{"name": "Ana", "email": "ana@example.com", "password": "secret123"}`)

		// Assert
		assert.Equal(t, http.StatusCreated, recorder.Code)
		mockAuth.AssertExpectations(t)
	})

	t.Run("Short Password - 400", func(t *testing.T) {
		// Arrange
		mockAuth := new(MockAuthManager)
		router := newAuthRouter(NewAuthController(mockAuth, new(MockOAuthAPI)), nil)

		// Act
		recorder := doJSON(router, http.MethodPost, "/auth/register", `{"name": "Ana", "email": "ana@example.com", "password": "short"}`)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockAuth.AssertNotCalled(t, "Register")
	})

	t.Run("Duplicate Email - 422", func(t *testing.T) {
		// Arrange
		mockAuth := new(MockAuthManager)
		mockAuth.On("Register", mock.Anything, "tab-1", "Ana", "ana@example.com", "secret123").
			Return(nil, apperrors.NewValidationError("El correo ya está registrado")).Once()

		router := newAuthRouter(NewAuthController(mockAuth, new(MockOAuthAPI)), nil)

		// Act
		recorder := doJSON(router, http.MethodPost, "/auth/register", `{"name": "Ana", "email": "ana@example.com", "password": "secret123"}`)

		// Assert
		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		mockAuth.AssertExpectations(t)
	})
}

func TestLogoutController(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Clears The Session Cookie - 204", func(t *testing.T) {
		// Arrange
		mockAuth := new(MockAuthManager)
		mockAuth.On("Logout", mock.Anything, "tab-1").Return(nil).Once()

		router := newAuthRouter(NewAuthController(mockAuth, new(MockOAuthAPI)), nil)

		// Act
		recorder := doJSON(router, http.MethodPost, "/auth/logout", ``)

		// Assert
		assert.Equal(t, http.StatusNoContent, recorder.Code)
		cookies := recorder.Result().Cookies()
		found := false
		for _, cookie := range cookies {
			if cookie.Name == middleware.SessionCookie && cookie.MaxAge < 0 {
				found = true
			}
		}
		assert.True(t, found)
		mockAuth.AssertExpectations(t)
	})
}

func TestMeController(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Anonymous - 401", func(t *testing.T) {
		// Arrange
		router := newAuthRouter(NewAuthController(new(MockAuthManager), new(MockOAuthAPI)), nil)

		// Act
		recorder := doJSON(router, http.MethodGet, "/auth/me", ``)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("Authenticated - 200 With Identity", func(t *testing.T) {
		// Arrange
		session := &models.Session{Token: "opaque-token", User: models.Identity{ID: "7", Email: "julia@example.com"}}
		router := newAuthRouter(NewAuthController(new(MockAuthManager), new(MockOAuthAPI)), session)

		// Act
		recorder := doJSON(router, http.MethodGet, "/auth/me", ``)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "julia@example.com")
	})
}

func TestGoogleAuthURLController(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Proxies The Authorization URL - 200", func(t *testing.T) {
		// Arrange
		mockOAuth := new(MockOAuthAPI)
		mockOAuth.On("GoogleAuthURL", mock.Anything).Return("https://accounts.google.com/o/oauth2/v2/auth?client_id=abc", nil).Once()

		router := newAuthRouter(NewAuthController(new(MockAuthManager), mockOAuth), nil)

		// Act
		recorder := doJSON(router, http.MethodGet, "/auth/google/url", ``)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "accounts.google.com")
		mockOAuth.AssertExpectations(t)
	})

	t.Run("Unconfigured Upstream - 502", func(t *testing.T) {
		// Arrange
		mockOAuth := new(MockOAuthAPI)
		mockOAuth.On("GoogleAuthURL", mock.Anything).
			Return("", &apperrors.UpstreamError{Status: http.StatusServiceUnavailable, Body: "Google OAuth no está configurado"}).Once()

		router := newAuthRouter(NewAuthController(new(MockAuthManager), mockOAuth), nil)

		// Act
		recorder := doJSON(router, http.MethodGet, "/auth/google/url", ``)

		// Assert
		assert.Equal(t, http.StatusBadGateway, recorder.Code)
		mockOAuth.AssertExpectations(t)
	})
}

func TestAdoptTokenController(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("OAuth Callback Token - 200 With Identity", func(t *testing.T) {
		// Arrange
		mockAuth := new(MockAuthManager)
		session := &models.Session{Token: "oauth-issued-token", User: models.Identity{ID: "7", Name: "Julia"}}
		mockAuth.On("Adopt", mock.Anything, "tab-1", "oauth-issued-token").Return(session, nil).Once()

		router := newAuthRouter(NewAuthController(mockAuth, new(MockOAuthAPI)), nil)

		// Act
		recorder := doJSON(router, http.MethodPost, "/auth/token", `{"token": "oauth-issued-token"}`)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Julia")
		mockAuth.AssertExpectations(t)
	})

	t.Run("Rejected Token - 401", func(t *testing.T) {
		// Arrange
		mockAuth := new(MockAuthManager)
		mockAuth.On("Adopt", mock.Anything, "tab-1", "forged-token").Return(nil, apperrors.ErrInvalidCredentials).Once()

		router := newAuthRouter(NewAuthController(mockAuth, new(MockOAuthAPI)), nil)

		// Act
		recorder := doJSON(router, http.MethodPost, "/auth/token", `{"token": "forged-token"}`)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		mockAuth.AssertExpectations(t)
	})

	t.Run("Missing Token - 400", func(t *testing.T) {
		// Arrange
		mockAuth := new(MockAuthManager)
		router := newAuthRouter(NewAuthController(mockAuth, new(MockOAuthAPI)), nil)

		// Act
		recorder := doJSON(router, http.MethodPost, "/auth/token", `{}`)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockAuth.AssertNotCalled(t, "Adopt")
	})
}
