package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/avitali/borsellino/internal/config"
	"github.com/avitali/borsellino/internal/logger"
	"github.com/avitali/borsellino/internal/store"
	"github.com/avitali/borsellino/models"
)

// renewalHeader is the response header carrying a sliding-session token
// renewal. The server may attach it to any authenticated response; the
// client must adopt it before the response is handed to the caller so no
// follow-up request goes out with a revoked token.
const renewalHeader = "X-New-Token"

type httpServerAdapter struct {
	client *resty.Client
	tokens store.TokenRepository
	logger *logger.Logger

	mu    sync.RWMutex
	token string
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// adapterCfg.ServerURL and configures the underlying resty client with the
// resolved base URL and request timeout. tokens receives every server-issued
// token renewal.
//
// Returns an error if adapterCfg.ServerURL is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, tokens store.TokenRepository, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter server url: %w", err)
	}

	cli := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &httpServerAdapter{client: cli, tokens: tokens, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed)
// for use in the Authorization header of all subsequent authenticated
// requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter]. It returns the bearer token currently
// held by the adapter, or an empty string if none has been set.
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Login implements [ServerAdapter]. It POSTs the credentials to POST /login.
// On success the access token from the response body is stored via SetToken.
func (h *httpServerAdapter) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	var authResp models.AuthResponse

	r := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&authResp)

	resp, err := h.execute(ctx, r, http.MethodPost, "/login")
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AuthResponse{}, err
	}

	h.SetToken(authResp.AccessToken)
	return authResp, nil
}

// Register implements [ServerAdapter]. It POSTs the full registration payload
// to POST /register. Same token handling as Login.
func (h *httpServerAdapter) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	var authResp models.AuthResponse

	r := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&authResp)

	resp, err := h.execute(ctx, r, http.MethodPost, "/register")
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("register request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AuthResponse{}, err
	}

	h.SetToken(authResp.AccessToken)
	return authResp, nil
}

// GetProfile implements [ServerAdapter]. It GETs the authenticated profile
// from GET /me. Requires a valid bearer token.
func (h *httpServerAdapter) GetProfile(ctx context.Context) (models.User, error) {
	var user models.User

	resp, err := h.execute(ctx, h.authedRequest(ctx).SetResult(&user), http.MethodGet, "/me")
	if err != nil {
		return models.User{}, fmt.Errorf("profile request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return user, nil
}

// GetTransactions implements [ServerAdapter]. It GETs the transaction history
// from GET /transactions, ordered newest first by the server.
func (h *httpServerAdapter) GetTransactions(ctx context.Context) ([]models.Transaction, error) {
	var transactions []models.Transaction

	resp, err := h.execute(ctx, h.authedRequest(ctx).SetResult(&transactions), http.MethodGet, "/transactions")
	if err != nil {
		return nil, fmt.Errorf("transactions request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return transactions, nil
}

// Transfer implements [ServerAdapter]. It POSTs the transfer order to
// POST /transfer and returns the created transaction.
func (h *httpServerAdapter) Transfer(ctx context.Context, req models.TransferRequest) (models.Transaction, error) {
	var tx models.Transaction

	r := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&tx)

	resp, err := h.execute(ctx, r, http.MethodPost, "/transfer")
	if err != nil {
		return models.Transaction{}, fmt.Errorf("transfer request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Transaction{}, err
	}

	return tx, nil
}

// Recharge implements [ServerAdapter]. It POSTs the recharge order to
// POST /recharge and returns the created transaction.
func (h *httpServerAdapter) Recharge(ctx context.Context, req models.RechargeRequest) (models.Transaction, error) {
	var tx models.Transaction

	r := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&tx)

	resp, err := h.execute(ctx, r, http.MethodPost, "/recharge")
	if err != nil {
		return models.Transaction{}, fmt.Errorf("recharge request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Transaction{}, err
	}

	return tx, nil
}

// GetCards implements [ServerAdapter]. It GETs the saved-card snapshot from
// GET /cards.
func (h *httpServerAdapter) GetCards(ctx context.Context) (models.CardListResponse, error) {
	var cards models.CardListResponse

	resp, err := h.execute(ctx, h.authedRequest(ctx).SetResult(&cards), http.MethodGet, "/cards")
	if err != nil {
		return models.CardListResponse{}, fmt.Errorf("cards request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.CardListResponse{}, err
	}

	return cards, nil
}

// SetDefaultCard implements [ServerAdapter]. It PUTs to
// PUT /cards/{id}/default.
func (h *httpServerAdapter) SetDefaultCard(ctx context.Context, cardID int64) error {
	resp, err := h.execute(ctx, h.authedRequest(ctx), http.MethodPut, fmt.Sprintf("/cards/%d/default", cardID))
	if err != nil {
		return fmt.Errorf("set default card request: %w", err)
	}

	return mapHTTPError(resp)
}

// DeleteCard implements [ServerAdapter]. It sends DELETE /cards/{id}.
func (h *httpServerAdapter) DeleteCard(ctx context.Context, cardID int64) error {
	resp, err := h.execute(ctx, h.authedRequest(ctx), http.MethodDelete, fmt.Sprintf("/cards/%d", cardID))
	if err != nil {
		return fmt.Errorf("delete card request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// execute performs the request and applies the two transport-wide rules:
// network-level failures surface as ErrConnection, and a renewal header on
// any response (success or HTTP error) is adopted before the response is
// returned.
func (h *httpServerAdapter) execute(ctx context.Context, req *resty.Request, method, url string) (*resty.Response, error) {
	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	h.adoptRenewedToken(ctx, resp)
	return resp, nil
}

// adoptRenewedToken applies a sliding-session renewal: the in-memory token is
// swapped first so the immediately following request already uses it, then
// the durable slot is updated. A persistence failure is logged but does not
// fail the calling request.
func (h *httpServerAdapter) adoptRenewedToken(ctx context.Context, resp *resty.Response) {
	newToken := resp.Header().Get(renewalHeader)
	if newToken == "" {
		return
	}

	h.SetToken(newToken)
	if err := h.tokens.Set(ctx, newToken); err != nil {
		h.logger.Err(err).
			Str("func", "httpServerAdapter.adoptRenewedToken").
			Msg("failed to persist renewed session token")
	}
}
