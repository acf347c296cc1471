package tui

import (
	"errors"
	"strings"

	"github.com/avitali/borsellino/internal/adapter"
	"github.com/avitali/borsellino/internal/service"
)

// humanizeError turns the error taxonomy of the lower layers into a message
// fit for the screen. Domain errors carry the server's wording verbatim;
// validation errors list the offending fields.
func humanizeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, adapter.ErrConnection):
		return "Server non raggiungibile, riprova più tardi"
	case errors.Is(err, adapter.ErrUnauthorized):
		return "Sessione scaduta, accedi di nuovo"
	case errors.Is(err, adapter.ErrServer):
		return "Errore del server, riprova più tardi"
	case errors.Is(err, service.ErrAmountNotPositive):
		return "L'importo deve essere maggiore di zero"
	case errors.Is(err, service.ErrInsufficientBalance):
		return "Saldo insufficiente"
	case errors.Is(err, service.ErrRechargeLimit):
		return "L'importo massimo per ricarica è 10000 €"
	case errors.Is(err, service.ErrCardDetailsRequired):
		return "Compila tutti i campi della carta"
	case errors.Is(err, service.ErrNoCardSelected):
		return "Seleziona una carta o inseriscine una nuova"
	case errors.Is(err, service.ErrNotAuthenticated):
		return "Sessione scaduta, accedi di nuovo"
	}

	var validation *adapter.ValidationError
	if errors.As(err, &validation) {
		if len(validation.Fields) == 0 {
			return "Dati non validi"
		}
		parts := make([]string, 0, len(validation.Fields))
		for _, f := range validation.Fields {
			parts = append(parts, f.Field+": "+f.Message)
		}
		return "Dati non validi · " + strings.Join(parts, " · ")
	}

	var domain *adapter.DomainError
	if errors.As(err, &domain) {
		return domain.Error()
	}

	return err.Error()
}
