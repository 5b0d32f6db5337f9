// internal/exchange/service.go
package exchange

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rovshanmuradov/teleswap-backend/internal/db"
	"github.com/rovshanmuradov/teleswap-backend/internal/logging"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const unknownUsername = "unknown"

// Service owns exchange recording and referral settlement.
type Service struct {
	store      Store
	rate       decimal.Decimal
	revShare   decimal.Decimal
	languages  LanguageCache
	publishers []SettlementPublisher
	now        func() time.Time
}

type Option func(*Service)

func WithLanguageCache(c LanguageCache) Option {
	return func(s *Service) { s.languages = c }
}

// WithPublisher adds a receiver of committed settlements. It may be given more than once.
func WithPublisher(p SettlementPublisher) Option {
	return func(s *Service) { s.publishers = append(s.publishers, p) }
}

// AddPublisher is WithPublisher for receivers built after the service. Call it before
// the service handles requests.
func (s *Service) AddPublisher(p SettlementPublisher) {
	s.publishers = append(s.publishers, p)
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithRevShare(rate decimal.Decimal) Option {
	return func(s *Service) { s.revShare = rate }
}

// NewService creates a Service that rewards referrers with rate of each finished exchange.
func NewService(store Store, rate decimal.Decimal, opts ...Option) *Service {
	s := &Service{
		store:    store,
		rate:     rate,
		revShare: decimal.Zero,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordExchange stores the event under its exchange id and, when the exchange becomes
// finished, credits the owner's referrer exactly once. The finished transition is decided
// by a conditional update in the store, so concurrent duplicate deliveries settle once.
func (s *Service) RecordExchange(ctx context.Context, ev Event) error {
	ev.ExchangeID = strings.TrimSpace(ev.ExchangeID)
	if ev.ExchangeID == "" {
		return &ValidationError{Field: "ExchangeID", Reason: "is required"}
	}

	reward := ComputeReward(ev.InputUSD, ev.OutputUSD, s.rate)
	rec := s.recordFromEvent(ev, reward)
	log := logging.With(zap.String("exchange_id", ev.ExchangeID))

	var settled *SettlementEvent
	err := s.store.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err := s.store.InsertExchange(ctx, rec)
		if err != nil {
			return err
		}
		if !created {
			if err := s.store.UpdateExchange(ctx, rec); err != nil {
				return err
			}
		}

		var owner *db.User
		if ev.UserID != nil {
			owner, err = s.upsertOwner(ctx, *ev.UserID, ev.UserName)
			if err != nil {
				return err
			}
		}

		if !ev.Finished {
			return nil
		}
		transitioned, err := s.store.FinishExchange(ctx, ev.ExchangeID)
		if err != nil {
			return err
		}
		if !transitioned {
			log.Debug("Exchange already settled")
			return nil
		}

		if owner == nil {
			owner, err = s.storedOwner(ctx, ev.ExchangeID)
			if err != nil {
				return err
			}
		}
		if owner == nil || owner.ReferredBy == nil {
			return nil
		}

		referrerID := *owner.ReferredBy
		ok, err := s.store.CreditReward(ctx, referrerID, reward)
		if err != nil {
			return err
		}
		if !ok {
			log.Warn("Referrer not found, reward not credited", zap.Int64("referrer_id", referrerID))
			return nil
		}
		settled = &SettlementEvent{
			ExchangeID: ev.ExchangeID,
			UserID:     owner.UserID,
			ReferrerID: referrerID,
			RewardUSD:  reward,
			SettledAt:  rec.Timestamp,
		}
		return nil
	})
	if err != nil {
		return storageErr("record exchange", err)
	}

	if settled != nil {
		log.Info("Referral reward credited",
			zap.Int64("referrer_id", settled.ReferrerID),
			zap.String("reward_usd", settled.RewardUSD.String()))
		for _, p := range s.publishers {
			if err := p.PublishSettlement(ctx, *settled); err != nil {
				log.Warn("Failed to publish settlement", zap.Error(err))
			}
		}
	}
	return nil
}

func (s *Service) recordFromEvent(ev Event, reward decimal.Decimal) *db.ExchangeRecord {
	return &db.ExchangeRecord{
		ExchangeID:               ev.ExchangeID,
		UserID:                   ev.UserID,
		AmountFrom:               ev.AmountFrom,
		AmountTo:                 ev.AmountTo,
		CurrencyFrom:             ev.CurrencyFrom,
		CurrencyTo:               ev.CurrencyTo,
		AddressFrom:              ev.AddressFrom,
		AddressTo:                ev.AddressTo,
		InputUSD:                 ev.InputUSD,
		OutputUSD:                ev.OutputUSD,
		PrimaryRate:              s.rate,
		PrimaryReferralRewardUSD: reward,
		BTCUSDRate:               ev.BTCUSDRate,
		HashFrom:                 ev.HashFrom,
		HashTo:                   ev.HashTo,
		Status:                   ev.Status,
		Timestamp:                s.now().UTC(),
		IPAddress:                ev.Meta.IPAddress,
		UserAgent:                ev.Meta.UserAgent,
		SiteLanguage:             ev.Meta.SiteLanguage,
		AcceptLanguage:           ev.Meta.AcceptLanguage,
		DeviceTimezone:           ev.Meta.DeviceTimezone,
		DeviceOperatingSystem:    ev.Meta.DeviceOperatingSystem,
	}
}

// upsertOwner creates the user on first sight. Existing users only get their display
// name refreshed.
func (s *Service) upsertOwner(ctx context.Context, userID int64, username string) (*db.User, error) {
	username = strings.TrimSpace(username)
	name := username
	if name == "" {
		name = unknownUsername
	}

	created, err := s.store.CreateUser(ctx, &db.User{
		UserID:       userID,
		Username:     name,
		RewardAmount: decimal.Zero,
		Language:     "en",
	})
	if err != nil {
		return nil, err
	}
	if !created && username != "" {
		if err := s.store.UpdateUsername(ctx, userID, username); err != nil {
			return nil, err
		}
	}
	return s.store.FindUser(ctx, userID)
}

// storedOwner resolves the owner of a record reported without a user id.
func (s *Service) storedOwner(ctx context.Context, exchangeID string) (*db.User, error) {
	rec, err := s.store.FindExchange(ctx, exchangeID)
	if err != nil {
		return nil, err
	}
	if rec.UserID == nil {
		return nil, nil
	}
	u, err := s.store.FindUser(ctx, *rec.UserID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

// FindExchange returns the stored record or a NotFoundError.
func (s *Service) FindExchange(ctx context.Context, exchangeID string) (*db.ExchangeRecord, error) {
	exchangeID = strings.TrimSpace(exchangeID)
	if exchangeID == "" {
		return nil, &ValidationError{Field: "exchange_id", Reason: "is required"}
	}
	rec, err := s.store.FindExchange(ctx, exchangeID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, &NotFoundError{Resource: "exchange", Key: exchangeID}
	}
	if err != nil {
		return nil, storageErr("find exchange", err)
	}
	return rec, nil
}
