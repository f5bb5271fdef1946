package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Juli03-22/lookaly-fullstack/apperrors"
	"github.com/Juli03-22/lookaly-fullstack/models"
)

func newTestClient(handler http.Handler) (*APIClient, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewAPIClient(srv.URL, 5*time.Second), srv
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Sends OAuth2 Form Encoding With TOTP As Query", func(t *testing.T) {
		// Arrange
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/login", r.URL.Path)
			assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "julia@example.com", r.PostForm.Get("username"))
			assert.Equal(t, "secret123", r.PostForm.Get("password"))
			assert.Equal(t, "123456", r.URL.Query().Get("totp_code"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token": "opaque-token", "token_type": "bearer"}`))
		}))
		defer srv.Close()

		// Act
		token, err := client.Login(ctx, "julia@example.com", "secret123", "123456")

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, "opaque-token", token)
	})

	t.Run("401 Maps To Invalid Credentials", func(t *testing.T) {
		// Arrange
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail": "Correo o contraseña incorrectos"}`))
		}))
		defer srv.Close()

		// Act
		_, err := client.Login(ctx, "julia@example.com", "wrong", "")

		// Assert
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("428 Maps To Second Factor Required", func(t *testing.T) {
		// Arrange
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusPreconditionRequired)
			w.Write([]byte(`{"detail": "2fa_required"}`))
		}))
		defer srv.Close()

		// Act
		_, err := client.Login(ctx, "julia@example.com", "secret123", "")

		// Assert
		assert.True(t, apperrors.IsSecondFactorRequired(err))
	})

	t.Run("Bad TOTP Code Maps To Invalid Second Factor", func(t *testing.T) {
		// Arrange
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail": "Código 2FA incorrecto"}`))
		}))
		defer srv.Close()

		// Act
		_, err := client.Login(ctx, "julia@example.com", "secret123", "999999")

		// Assert
		assert.ErrorIs(t, err, apperrors.ErrInvalidSecondFactor)
	})
}

func TestMe(t *testing.T) {
	ctx := context.Background()

	t.Run("Decodes Numeric ID And Sends Bearer Token", func(t *testing.T) {
		// Arrange
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/me", r.URL.Path)
			assert.Equal(t, "Bearer opaque-token", r.Header.Get("Authorization"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id": 7, "name": "Julia", "email": "julia@example.com", "is_admin": false, "totp_enabled": true, "role": "analista"}`))
		}))
		defer srv.Close()

		// Act
		identity, err := client.Me(ctx, "opaque-token")

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, "7", identity.ID)
		assert.Equal(t, "Julia", identity.Name)
		assert.True(t, identity.TOTPEnabled)
		if assert.NotNil(t, identity.Role) {
			assert.Equal(t, "analista", *identity.Role)
		}
	})
}

func TestGoogleAuthURL(t *testing.T) {
	ctx := context.Background()

	t.Run("Decodes The Authorization URL", func(t *testing.T) {
		// Arrange
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/google/url", r.URL.Path)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"url": "https://accounts.google.com/o/oauth2/v2/auth?client_id=abc"}`))
		}))
		defer srv.Close()

		// Act
		url, err := client.GoogleAuthURL(ctx)

		// Assert
		assert.NoError(t, err)
		assert.Contains(t, url, "accounts.google.com")
	})

	t.Run("503 When OAuth Is Unconfigured Maps To Upstream Error", func(t *testing.T) {
		// Arrange
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"detail": "Google OAuth no está configurado"}`))
		}))
		defer srv.Close()

		// Act
		_, err := client.GoogleAuthURL(ctx)

		// Assert
		var ue *apperrors.UpstreamError
		if assert.ErrorAs(t, err, &ue) {
			assert.Equal(t, http.StatusServiceUnavailable, ue.Status)
		}
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("422 Detail List Maps To Field Errors", func(t *testing.T) {
		// Arrange
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"detail": [{"loc": ["body", "email"], "msg": "value is not a valid email address"}]}`))
		}))
		defer srv.Close()

		// Act
		_, err := client.Register(ctx, "Julia", "not-an-email", "secret123")

		// Assert
		var ve *apperrors.ValidationError
		if assert.ErrorAs(t, err, &ve) {
			assert.Len(t, ve.Fields, 1)
			assert.Equal(t, "email", ve.Fields[0].Field)
		}
	})

	t.Run("400 Detail String Maps To Validation Error", func(t *testing.T) {
		// Arrange
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail": "El correo ya está registrado"}`))
		}))
		defer srv.Close()

		// Act
		_, err := client.Register(ctx, "Julia", "julia@example.com", "secret123")

		// Assert
		var ve *apperrors.ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("Encodes Filters As Query Parameters", func(t *testing.T) {
		// Arrange
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/products", r.URL.Path)
			q := r.URL.Query()
			assert.Equal(t, "2", q.Get("page"))
			assert.Equal(t, "12", q.Get("size"))
			assert.Equal(t, models.CategoryMakeup, q.Get("category"))
			assert.Equal(t, "labial", q.Get("search"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"items": [{"id": "m01", "name": "Labial Mate"}], "total": 1, "page": 2, "size": 12, "pages": 1}`))
		}))
		defer srv.Close()

		// Act
		list, err := client.ListProducts(ctx, ProductQuery{Page: 2, Size: 12, Category: models.CategoryMakeup, Search: "labial"})

		// Assert
		assert.NoError(t, err)
		assert.Len(t, list.Items, 1)
		assert.Equal(t, "Labial Mate", list.Items[0].Name)
	})

	t.Run("404 Maps To Not Found", func(t *testing.T) {
		// Arrange
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail": "Producto no encontrado"}`))
		}))
		defer srv.Close()

		// Act
		_, err := client.GetProduct(ctx, "missing")

		// Assert
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("5xx Maps To Upstream Error", func(t *testing.T) {
		// Arrange
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		// Act
		_, err := client.ListBrands(ctx)

		// Assert
		var ue *apperrors.UpstreamError
		if assert.ErrorAs(t, err, &ue) {
			assert.Equal(t, http.StatusServiceUnavailable, ue.Status)
		}
	})
}
