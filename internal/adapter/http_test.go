package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avitali/borsellino/internal/config"
	"github.com/avitali/borsellino/internal/logger"
	"github.com/avitali/borsellino/models"
)

// memTokens is an in-memory TokenRepository standing in for the sqlite slot.
type memTokens struct {
	mu    sync.Mutex
	token string
	sets  int
}

func (m *memTokens) Get(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memTokens) Set(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.sets++
	return nil
}

func (m *memTokens) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

func newTestAdapter(t *testing.T, serverURL string) (*httpServerAdapter, *memTokens) {
	t.Helper()
	tokens := &memTokens{}
	adapterCfg := config.ClientAdapter{ServerURL: serverURL}

	a, err := NewHTTPServerAdapter(adapterCfg, tokens, logger.Nop())
	require.NoError(t, err)
	return a.(*httpServerAdapter), tokens
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestLogin_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@x.com", req.Email)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.AuthResponse{
			AccessToken: "T1",
			User:        models.User{ID: 7, Email: "a@x.com", Balance: 100},
		})
	}))
	defer srv.Close()

	a, _ := newTestAdapter(t, srv.URL)
	got, err := a.Login(context.Background(), models.LoginRequest{Email: "a@x.com", Password: "secret12"})

	require.NoError(t, err)
	assert.Equal(t, "T1", a.Token())
	assert.Equal(t, int64(7), got.User.ID)
	assert.Equal(t, 100.0, got.User.Balance)
}

func TestLogin_ValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(models.ValidationResponse{
			Detail: []models.FieldError{{Field: "email", Message: "already registered"}},
		})
	}))
	defer srv.Close()

	a, _ := newTestAdapter(t, srv.URL)
	_, err := a.Login(context.Background(), models.LoginRequest{Email: "a@x.com", Password: "x"})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "email", ve.Fields[0].Field)
	assert.Equal(t, "already registered", ve.Fields[0].Message)
	assert.Empty(t, a.Token(), "token must stay empty on failed login")
}

func TestLogin_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Credenziali non valide"}`))
	}))
	defer srv.Close()

	a, _ := newTestAdapter(t, srv.URL)
	_, err := a.Login(context.Background(), models.LoginRequest{Email: "a@x.com", Password: "bad"})

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogin_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	a, _ := newTestAdapter(t, srv.URL)
	_, err := a.Login(context.Background(), models.LoginRequest{Email: "a@x.com", Password: "x"})

	assert.ErrorIs(t, err, ErrConnection)
}

// ── Register ─────────────────────────────────────────────────────────────────

func TestRegister_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/register", r.URL.Path)

		var req models.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Mario", req.FirstName)
		assert.Equal(t, "Italia", req.Country)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.AuthResponse{
			AccessToken: "T-REG",
			User:        models.User{Email: "m@x.com"},
		})
	}))
	defer srv.Close()

	a, _ := newTestAdapter(t, srv.URL)
	got, err := a.Register(context.Background(), models.RegisterRequest{
		Email: "m@x.com", Password: "secret12", FirstName: "Mario", LastName: "Rossi",
		PhoneNumber: "3331234567", DateOfBirth: "1990-01-01",
		Address: "Via Roma 1", City: "Milano", PostalCode: "20100", Country: "Italia",
	})

	require.NoError(t, err)
	assert.Equal(t, "T-REG", a.Token())
	assert.Equal(t, "m@x.com", got.User.Email)
}

// ── Sliding session ──────────────────────────────────────────────────────────

func TestGetProfile_AdoptsRenewalHeader(t *testing.T) {
	var seenAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAuth = append(seenAuth, r.Header.Get("Authorization"))

		if len(seenAuth) == 1 {
			w.Header().Set(renewalHeader, "T2")
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.User{ID: 1, Balance: 42})
	}))
	defer srv.Close()

	a, tokens := newTestAdapter(t, srv.URL)
	a.SetToken("T1")

	_, err := a.GetProfile(context.Background())
	require.NoError(t, err)

	// renewal stored exactly once and used on the immediately following call
	assert.Equal(t, "T2", a.Token())
	assert.Equal(t, "T2", tokens.token)
	assert.Equal(t, 1, tokens.sets)

	_, err = a.GetProfile(context.Background())
	require.NoError(t, err)
	require.Len(t, seenAuth, 2)
	assert.Equal(t, "Bearer T1", seenAuth[0])
	assert.Equal(t, "Bearer T2", seenAuth[1])
	assert.Equal(t, 1, tokens.sets, "absent header must not rewrite the slot")
}

func TestTransfer_RenewalAdoptedEvenOnDomainError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(renewalHeader, "T-RENEWED")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "Saldo insufficiente"}`))
	}))
	defer srv.Close()

	a, tokens := newTestAdapter(t, srv.URL)
	a.SetToken("T1")

	_, err := a.Transfer(context.Background(), models.TransferRequest{ToEmail: "b@x.com", Amount: 10})

	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "Saldo insufficiente", de.Detail)
	assert.Equal(t, "T-RENEWED", tokens.token)
}

// ── Money movement ───────────────────────────────────────────────────────────

func TestTransfer_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transfer", r.URL.Path)
		assert.Equal(t, "Bearer T1", r.Header.Get("Authorization"))

		var req models.TransferRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 25.5, req.Amount)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.Transaction{ID: 3, Amount: 25.5, Type: models.TransactionTransfer})
	}))
	defer srv.Close()

	a, _ := newTestAdapter(t, srv.URL)
	a.SetToken("T1")

	tx, err := a.Transfer(context.Background(), models.TransferRequest{ToEmail: "b@x.com", Amount: 25.5})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionTransfer, tx.Type)
}

func TestRecharge_SavedCardSendsTokenOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "tok_saved", body["card_token"])
		assert.NotContains(t, body, "card_data")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.Transaction{ID: 4, Amount: 50, Type: models.TransactionRecharge})
	}))
	defer srv.Close()

	a, _ := newTestAdapter(t, srv.URL)
	a.SetToken("T1")

	tx, err := a.Recharge(context.Background(), models.RechargeRequest{Amount: 50, CardToken: "tok_saved"})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionRecharge, tx.Type)
}

func TestGetTransactions_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]models.Transaction{
			{ID: 2, Amount: 50, Type: models.TransactionRecharge},
			{ID: 1, Amount: 10, Type: models.TransactionTransfer},
		})
	}))
	defer srv.Close()

	a, _ := newTestAdapter(t, srv.URL)
	a.SetToken("T1")

	txs, err := a.GetTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, int64(2), txs[0].ID)
}

// ── Cards ────────────────────────────────────────────────────────────────────

func TestGetCards_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cards", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.CardListResponse{
			Cards: []models.Card{{ID: 1, CardLast4: "4242", CardBrand: "Visa", IsDefault: true}},
			Total: 1,
		})
	}))
	defer srv.Close()

	a, _ := newTestAdapter(t, srv.URL)
	a.SetToken("T1")

	got, err := a.GetCards(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Cards, 1)
	assert.True(t, got.Cards[0].IsDefault)
}

func TestSetDefaultCard_Path(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/cards/42/default", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a, _ := newTestAdapter(t, srv.URL)
	a.SetToken("T1")

	require.NoError(t, a.SetDefaultCard(context.Background(), 42))
}

func TestDeleteCard_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/cards/9", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "Carta non trovata"}`))
	}))
	defer srv.Close()

	a, _ := newTestAdapter(t, srv.URL)
	a.SetToken("T1")

	err := a.DeleteCard(context.Background(), 9)
	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, http.StatusNotFound, de.Status)
}

// ── Error mapping ────────────────────────────────────────────────────────────

func TestGetProfile_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a, _ := newTestAdapter(t, srv.URL)
	a.SetToken("T1")

	_, err := a.GetProfile(context.Background())
	assert.ErrorIs(t, err, ErrServer)
}

func TestNewHTTPServerAdapter_BadBaseURL(t *testing.T) {
	_, err := NewHTTPServerAdapter(config.ClientAdapter{ServerURL: "   "}, &memTokens{}, logger.Nop())
	assert.Error(t, err)
}

func TestNormalizeBaseURL_SchemePrepended(t *testing.T) {
	got, err := normalizeBaseURL("localhost:8000")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", got)
}
