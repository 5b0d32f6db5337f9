package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/rovshanmuradov/teleswap-backend/internal/db"
	"github.com/rovshanmuradov/teleswap-backend/internal/exchange"
	"github.com/rovshanmuradov/teleswap-backend/internal/i18n"
	"github.com/rovshanmuradov/teleswap-backend/internal/logging"
	"github.com/rovshanmuradov/teleswap-backend/pkg/simpleswap"
	"go.uber.org/zap"
)

// exchangeStatus is what the support flow knows about an exchange.
type exchangeStatus struct {
	status   string
	from     string
	to       string
	fromLink string
	toLink   string
}

// supportReply looks up an exchange the user asked about and describes its status.
func (b *Bot) supportReply(ctx context.Context, exchangeID string, p *i18n.Printer) string {
	rec, err := b.svc.FindExchange(ctx, exchangeID)
	if err != nil {
		if exchange.IsNotFound(err) || exchange.IsValidation(err) {
			return p.T(i18n.SupportNotFound)
		}
		logging.Error("Error looking up exchange", zap.String("exchange_id", exchangeID), zap.Error(err))
		return p.T(i18n.SupportFailed)
	}

	st := statusFromRecord(rec)
	if b.swaps != nil && b.swaps.Enabled() {
		live, err := b.swaps.GetExchange(ctx, rec.ExchangeID)
		switch {
		case err == nil:
			st = st.merge(live)
		case errors.Is(err, simpleswap.ErrExchangeNotFound):
			logging.Debug("Exchange unknown to provider", zap.String("exchange_id", rec.ExchangeID))
		default:
			logging.Warn("Failed to fetch exchange status", zap.String("exchange_id", rec.ExchangeID), zap.Error(err))
		}
	}
	return st.message(p)
}

func statusFromRecord(rec *db.ExchangeRecord) exchangeStatus {
	return exchangeStatus{
		status:   strings.ToLower(strings.TrimSpace(rec.Status)),
		from:     strings.ToUpper(rec.CurrencyFrom),
		to:       strings.ToUpper(rec.CurrencyTo),
		fromLink: rec.HashFrom,
		toLink:   rec.HashTo,
	}
}

// merge prefers the provider's status. Stored currencies and hashes win over the provider's.
func (s exchangeStatus) merge(live *simpleswap.Exchange) exchangeStatus {
	if live.Status != "" {
		s.status = strings.ToLower(live.Status)
	}
	if s.from == "" {
		s.from = strings.ToUpper(live.CurrencyFrom)
	}
	if s.to == "" {
		s.to = strings.ToUpper(live.CurrencyTo)
	}
	if s.fromLink == "" {
		s.fromLink = live.FromLink()
	}
	if s.toLink == "" {
		s.toLink = live.ToLink()
	}
	return s
}

func (s exchangeStatus) message(p *i18n.Printer) string {
	from, to := orUnknown(s.from), orUnknown(s.to)

	switch s.status {
	case simpleswap.StatusWaiting:
		return p.T(i18n.SupportWaiting, from)
	case simpleswap.StatusConfirming:
		return p.T(i18n.SupportConfirming, from, s.fromLink)
	case simpleswap.StatusExchanging:
		return p.T(i18n.SupportExchanging, from, to)
	case simpleswap.StatusSending:
		return p.T(i18n.SupportSending, from, to)
	case simpleswap.StatusFinished, simpleswap.StatusConfirmed:
		return p.T(i18n.SupportFinished, from, to, s.toLink)
	default:
		return p.T(i18n.SupportUnable)
	}
}

func orUnknown(currency string) string {
	if currency == "" {
		return "Unknown"
	}
	return currency
}
