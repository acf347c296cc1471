package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avitali/borsellino/internal/adapter"
	"github.com/avitali/borsellino/internal/logger"
	"github.com/avitali/borsellino/internal/store"
	"github.com/avitali/borsellino/models"
)

type authService struct {
	account *AccountState
	tokens  store.TokenRepository
	adapter adapter.ServerAdapter
	logger  *logger.Logger
}

func NewAuthService(account *AccountState, tokens store.TokenRepository, serverAdapter adapter.ServerAdapter, logger *logger.Logger) AuthService {
	return &authService{account: account, tokens: tokens, adapter: serverAdapter, logger: logger}
}

// Bootstrap implements [AuthService]. A stored token whose exp claim is
// already past is discarded without a round trip; any other token is
// verified against GET /me. The profile fetch is generation-guarded: if a
// logout committed while it was in flight, the late result is dropped and
// the session stays anonymous.
func (s *authService) Bootstrap(ctx context.Context) error {
	token, err := s.tokens.Get(ctx)
	if err != nil {
		s.logger.Err(err).Str("func", "authService.Bootstrap").Msg("failed to read stored token")
		token = ""
	}

	if token == "" {
		s.account.setAnonymous()
		return nil
	}

	if tokenExpired(token) {
		s.logger.Debug().Str("func", "authService.Bootstrap").Msg("stored token already expired, discarding")
		if err := s.tokens.Clear(ctx); err != nil {
			s.logger.Err(err).Str("func", "authService.Bootstrap").Msg("failed to clear expired token")
		}
		s.account.setAnonymous()
		return nil
	}

	s.adapter.SetToken(token)
	s.account.setLoading()
	gen := s.account.Generation()

	user, err := s.adapter.GetProfile(ctx)
	if gen != s.account.Generation() {
		// a logout (or a competing login) committed meanwhile
		s.logger.Debug().Str("func", "authService.Bootstrap").Msg("discarding stale bootstrap result")
		return nil
	}
	if err != nil {
		s.Logout()
		return fmt.Errorf("bootstrap profile: %w", err)
	}

	s.account.setAuthenticatedIf(gen, user)
	return nil
}

// Login implements [AuthService]. On failure no state transition happens:
// the caller formats *adapter.ValidationError field details or shows the
// generic error, and the session stays where it was.
func (s *authService) Login(ctx context.Context, email, password string) error {
	resp, err := s.adapter.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	s.commitSession(ctx, resp)
	return nil
}

// Register implements [AuthService]. An empty country defaults to "Italia",
// mirroring the server-side schema default.
func (s *authService) Register(ctx context.Context, req models.RegisterRequest) error {
	if req.Country == "" {
		req.Country = "Italia"
	}

	resp, err := s.adapter.Register(ctx, req)
	if err != nil {
		return err
	}

	s.commitSession(ctx, resp)
	return nil
}

// commitSession persists the fresh token and commits the authenticated
// state. A persistence failure only costs restart survival, so it is logged
// rather than failing the login.
func (s *authService) commitSession(ctx context.Context, resp models.AuthResponse) {
	if err := s.tokens.Set(ctx, resp.AccessToken); err != nil {
		s.logger.Err(err).Str("func", "authService.commitSession").Msg("failed to persist session token")
	}
	s.account.setAuthenticated(resp.User)
}

// Logout implements [AuthService]. It is synchronous and cannot fail: the
// adapter token is dropped, the durable slot is cleared best-effort, and the
// session settles on anonymous (bumping the generation so stale in-flight
// results are discarded).
func (s *authService) Logout() {
	s.adapter.SetToken("")
	if err := s.tokens.Clear(context.Background()); err != nil {
		s.logger.Err(err).Str("func", "authService.Logout").Msg("failed to clear stored token")
	}
	s.account.setAnonymous()
}

// RefreshProfile implements [AuthService].
func (s *authService) RefreshProfile(ctx context.Context) error {
	if s.account.State() != StateAuthenticated {
		return ErrNotAuthenticated
	}

	gen := s.account.Generation()
	user, err := s.adapter.GetProfile(ctx)
	if gen != s.account.Generation() {
		return nil
	}
	if err != nil {
		s.Logout()
		return fmt.Errorf("refresh profile: %w", err)
	}

	s.account.replaceProfileIf(gen, user)
	return nil
}

// tokenExpired peeks at the exp claim without verifying the signature; the
// client cannot verify it anyway and only wants to skip a doomed round trip.
// Tokens without a readable exp claim are left for the server to judge.
func tokenExpired(token string) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(time.Now())
}
