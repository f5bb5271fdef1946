package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/Juli03-22/lookaly-fullstack/apperrors"
	"github.com/Juli03-22/lookaly-fullstack/models"
)

// UpstreamAuth is the slice of the upstream API the session store needs.
type UpstreamAuth interface {
	Login(ctx context.Context, email, password, totpCode string) (string, error)
	Me(ctx context.Context, token string) (*models.Identity, error)
	Register(ctx context.Context, name, email, password string) (*models.Identity, error)
	Logout(ctx context.Context, token string) error
}

// SessionStore is the tab-scoped durable slot for Credential + Identity.
type SessionStore interface {
	Get(ctx context.Context, sid string) (*models.Session, error)
	Save(ctx context.Context, sid string, session *models.Session, ttl time.Duration) error
	Delete(ctx context.Context, sid string) error
}

// CartWiper deletes a cart slot. Logout needs it to clear durable state.
type CartWiper interface {
	Delete(ctx context.Context, owner string) error
}

// CacheFlusher empties cached catalog data. Logout needs it too.
type CacheFlusher interface {
	Flush(ctx context.Context) error
}

// SessionService manages the lifecycle of the authenticated session: one
// Identity + Credential per browser tab, mirrored into the session slot.
type SessionService struct {
	api        UpstreamAuth
	sessions   SessionStore
	carts      CartWiper
	cache      CacheFlusher
	defaultTTL time.Duration
	log        *zap.Logger
}

func NewSessionService(api UpstreamAuth, sessions SessionStore, carts CartWiper, cache CacheFlusher, defaultTTL time.Duration, log *zap.Logger) *SessionService {
	return &SessionService{
		api:        api,
		sessions:   sessions,
		carts:      carts,
		cache:      cache,
		defaultTTL: defaultTTL,
		log:        log,
	}
}

// Authenticate exchanges credentials for a bearer token, fetches the
// identity profile with it and mirrors both into the session slot.
//
// Accounts with two-factor enabled fail with ErrSecondFactorRequired until
// the caller re-submits the same email/password together with a TOTP code;
// that signal must not be treated as a generic authentication failure.
func (s *SessionService) Authenticate(ctx context.Context, sid, email, password, totpCode string) (*models.Session, error) {
	token, err := s.api.Login(ctx, email, password, totpCode)
	if err != nil {
		return nil, err
	}

	user, err := s.api.Me(ctx, token)
	if err != nil {
		return nil, err
	}

	session := &models.Session{Token: token, User: *user}
	if err := s.sessions.Save(ctx, sid, session, s.sessionTTL(token)); err != nil {
		return nil, err
	}
	return session, nil
}

// Adopt establishes a session from an externally issued token, as handed
// back by the Google OAuth callback. The token is validated by fetching
// the profile with it; the slot is then filled exactly like a password
// login.
func (s *SessionService) Adopt(ctx context.Context, sid, token string) (*models.Session, error) {
	if token == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.api.Me(ctx, token)
	if err != nil {
		return nil, err
	}

	session := &models.Session{Token: token, User: *user}
	if err := s.sessions.Save(ctx, sid, session, s.sessionTTL(token)); err != nil {
		return nil, err
	}
	return session, nil
}

// Register creates the account upstream and immediately authenticates with
// the same credentials. Upstream rejections surface as *ValidationError.
func (s *SessionService) Register(ctx context.Context, sid, name, email, password string) (*models.Session, error) {
	if _, err := s.api.Register(ctx, name, email, password); err != nil {
		return nil, err
	}
	return s.Authenticate(ctx, sid, email, password, "")
}

// Logout notifies the upstream best-effort, then unconditionally clears the
// session slot, the identity's cart slot, the guest cart for this tab and
// the catalog cache. Network failures never abort the local teardown.
func (s *SessionService) Logout(ctx context.Context, sid string) error {
	session, err := s.sessions.Get(ctx, sid)
	if err != nil {
		s.log.Warn("logout: session read failed", zap.Error(err))
	}

	if session != nil {
		if err := s.api.Logout(ctx, session.Token); err != nil {
			s.log.Warn("logout: upstream notification failed", zap.Error(err))
		}
	}

	var firstErr error
	if err := s.sessions.Delete(ctx, sid); err != nil {
		firstErr = err
	}
	if session != nil {
		if err := s.carts.Delete(ctx, session.User.ID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := s.carts.Delete(ctx, GuestOwner(sid)); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := s.cache.Flush(ctx); err != nil {
		s.log.Warn("logout: cache flush failed", zap.Error(err))
	}
	return firstErr
}

// Refresh re-fetches the identity profile with the held credential. It is a
// silent no-op when anonymous or when the fetch fails: a stale identity is
// preferred over an error during passive refresh.
func (s *SessionService) Refresh(ctx context.Context, sid string) (*models.Session, error) {
	session, err := s.sessions.Get(ctx, sid)
	if err != nil || session == nil {
		return nil, nil
	}

	user, err := s.api.Me(ctx, session.Token)
	if err != nil {
		s.log.Debug("refresh: profile fetch failed, keeping stale identity", zap.Error(err))
		return session, nil
	}

	session.User = *user
	if err := s.sessions.Save(ctx, sid, session, s.sessionTTL(session.Token)); err != nil {
		s.log.Warn("refresh: session save failed", zap.Error(err))
	}
	return session, nil
}

// Current restores the session for a tab. A missing, expired or corrupt
// slot yields an anonymous session (nil), never an error.
func (s *SessionService) Current(ctx context.Context, sid string) (*models.Session, error) {
	session, err := s.sessions.Get(ctx, sid)
	if err != nil {
		s.log.Warn("session restore failed, starting anonymous", zap.Error(err))
		return nil, nil
	}
	return session, nil
}

// sessionTTL sizes the slot TTL from the token's exp claim so the stored
// credential never outlives the token. The signature is not checked here;
// the upstream is the verifier.
func (s *SessionService) sessionTTL(token string) time.Duration {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return s.defaultTTL
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return s.defaultTTL
	}
	ttl := time.Until(time.Unix(int64(exp), 0))
	if ttl <= 0 {
		return s.defaultTTL
	}
	return ttl
}
