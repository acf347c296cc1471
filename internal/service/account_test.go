package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avitali/borsellino/models"
)

// ── State transitions ────────────────────────────────────────────────────────

func TestAccountState_InitialState(t *testing.T) {
	a := NewAccountState()

	assert.Equal(t, StateAnonymous, a.State())
	assert.Zero(t, a.Balance())
	assert.Empty(t, a.History())

	_, ok := a.Profile()
	assert.False(t, ok)
}

func TestAccountState_SetAuthenticated(t *testing.T) {
	a := NewAccountState()
	a.setAuthenticated(models.User{ID: 7, Email: "mario@example.com", Balance: 100})

	assert.Equal(t, StateAuthenticated, a.State())
	assert.Equal(t, 100.0, a.Balance())

	profile, ok := a.Profile()
	require.True(t, ok)
	assert.Equal(t, "mario@example.com", profile.Email)
}

func TestAccountState_SetAnonymous_DropsProfileAndHistory(t *testing.T) {
	a := NewAccountState()
	a.setAuthenticated(models.User{ID: 7, Balance: 100})
	require.True(t, a.setHistoryIf(a.Generation(), []models.Transaction{{ID: 1}}))

	a.setAnonymous()

	assert.Equal(t, StateAnonymous, a.State())
	assert.Zero(t, a.Balance())
	assert.Empty(t, a.History())
	_, ok := a.Profile()
	assert.False(t, ok)
}

func TestAccountState_ProfileReturnsCopy(t *testing.T) {
	a := NewAccountState()
	a.setAuthenticated(models.User{Email: "mario@example.com"})

	profile, ok := a.Profile()
	require.True(t, ok)
	profile.Email = "mutated@example.com"

	fresh, _ := a.Profile()
	assert.Equal(t, "mario@example.com", fresh.Email)
}

// ── Generation guard ─────────────────────────────────────────────────────────

func TestAccountState_GenerationBumpsOnlyOnCommittedTransitions(t *testing.T) {
	a := NewAccountState()
	start := a.Generation()

	a.setLoading()
	assert.Equal(t, start, a.Generation(), "loading is not a committed transition")

	a.setAuthenticated(models.User{})
	assert.Equal(t, start+1, a.Generation())

	a.setAnonymous()
	assert.Equal(t, start+2, a.Generation())
}

func TestAccountState_SetAuthenticatedIf_StaleGenerationDiscarded(t *testing.T) {
	a := NewAccountState()
	a.setLoading()
	gen := a.Generation()

	// A logout commits while the profile fetch is in flight.
	a.setAnonymous()

	applied := a.setAuthenticatedIf(gen, models.User{Balance: 100})
	assert.False(t, applied)
	assert.Equal(t, StateAnonymous, a.State())
	assert.Zero(t, a.Balance())
}

func TestAccountState_ReplaceProfileIf(t *testing.T) {
	a := NewAccountState()
	a.setAuthenticated(models.User{Balance: 100})
	gen := a.Generation()

	require.True(t, a.replaceProfileIf(gen, models.User{Balance: 250}))
	assert.Equal(t, 250.0, a.Balance())

	a.setAnonymous()
	assert.False(t, a.replaceProfileIf(gen, models.User{Balance: 999}))
	assert.Zero(t, a.Balance())
}

func TestAccountState_SetHistoryIf_RequiresAuthenticated(t *testing.T) {
	a := NewAccountState()
	gen := a.Generation()

	assert.False(t, a.setHistoryIf(gen, []models.Transaction{{ID: 1}}))
	assert.Empty(t, a.History())
}

// ── Apply-delta reconciliation ───────────────────────────────────────────────

func TestAccountState_ApplyTransactionIf(t *testing.T) {
	a := NewAccountState()
	a.setAuthenticated(models.User{Balance: 100})
	gen := a.Generation()

	tx := models.Transaction{ID: 42, Amount: 30, Type: models.TransactionTransfer}
	require.True(t, a.applyTransactionIf(gen, -30, tx))

	assert.Equal(t, 70.0, a.Balance())
	history := a.History()
	require.Len(t, history, 1)
	assert.Equal(t, int64(42), history[0].ID)
}

func TestAccountState_ApplyTransactionIf_PrependsNewestFirst(t *testing.T) {
	a := NewAccountState()
	a.setAuthenticated(models.User{Balance: 100})
	gen := a.Generation()

	require.True(t, a.applyTransactionIf(gen, 10, models.Transaction{ID: 1}))
	require.True(t, a.applyTransactionIf(gen, 10, models.Transaction{ID: 2}))

	history := a.History()
	require.Len(t, history, 2)
	assert.Equal(t, int64(2), history[0].ID)
	assert.Equal(t, int64(1), history[1].ID)
}

func TestAccountState_ApplyTransactionIf_StaleGenerationDiscarded(t *testing.T) {
	a := NewAccountState()
	a.setAuthenticated(models.User{Balance: 100})
	gen := a.Generation()

	a.setAnonymous()
	a.setAuthenticated(models.User{Balance: 500})

	applied := a.applyTransactionIf(gen, -30, models.Transaction{ID: 42})
	assert.False(t, applied)
	assert.Equal(t, 500.0, a.Balance())
	assert.Empty(t, a.History())
}

// ── Subscribe ────────────────────────────────────────────────────────────────

func TestAccountState_Subscribe_NotifiesOnMutation(t *testing.T) {
	a := NewAccountState()
	ch := a.Subscribe()

	a.setAuthenticated(models.User{Balance: 100})

	select {
	case <-ch:
	default:
		t.Fatal("expected a change notification")
	}
}

func TestAccountState_Subscribe_CoalescesSignals(t *testing.T) {
	a := NewAccountState()
	ch := a.Subscribe()

	a.setAuthenticated(models.User{Balance: 100})
	a.setAnonymous()
	a.setAuthenticated(models.User{Balance: 200})

	// Buffer of one: the pending signal covers all three mutations.
	<-ch
	select {
	case <-ch:
		t.Fatal("expected notifications to coalesce into one pending signal")
	default:
	}
}
