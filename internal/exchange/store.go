package exchange

import (
	"context"
	"time"

	"github.com/rovshanmuradov/teleswap-backend/internal/db"
	"github.com/shopspring/decimal"
)

// Store is the persistence the service needs. db.Repository implements it.
type Store interface {
	// WithinTransaction runs fn atomically; Store calls made with the ctx given to fn join it.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	FindExchange(ctx context.Context, exchangeID string) (*db.ExchangeRecord, error)
	InsertExchange(ctx context.Context, rec *db.ExchangeRecord) (bool, error)
	UpdateExchange(ctx context.Context, rec *db.ExchangeRecord) error
	FinishExchange(ctx context.Context, exchangeID string) (bool, error)

	FindUser(ctx context.Context, userID int64) (*db.User, error)
	CreateUser(ctx context.Context, u *db.User) (bool, error)
	UpdateUsername(ctx context.Context, userID int64, username string) error
	UpdateTonAddress(ctx context.Context, userID int64, address string) error
	UpdateLanguage(ctx context.Context, userID int64, language string) error
	SetReferrer(ctx context.Context, userID, referrerID int64) (bool, error)
	CreditReward(ctx context.Context, userID int64, amount decimal.Decimal) (bool, error)

	ReferredUsers(ctx context.Context) ([]db.User, error)
	FinishedExchanges(ctx context.Context, userIDs []int64) ([]db.ExchangeRecord, error)
	ProgramStats(ctx context.Context) (*db.ProgramStats, error)
}

// LanguageCache keeps recently read user languages. Get reports false on a miss.
type LanguageCache interface {
	Get(ctx context.Context, userID int64) (string, bool, error)
	Set(ctx context.Context, userID int64, language string) error
}

// SettlementEvent describes one credited referral reward.
type SettlementEvent struct {
	ExchangeID string          `json:"exchange_id"`
	UserID     int64           `json:"user_id"`
	ReferrerID int64           `json:"referrer_id"`
	RewardUSD  decimal.Decimal `json:"reward_usd"`
	SettledAt  time.Time       `json:"settled_at"`
}

// SettlementPublisher is notified after a settlement has been committed.
type SettlementPublisher interface {
	PublishSettlement(ctx context.Context, ev SettlementEvent) error
}
