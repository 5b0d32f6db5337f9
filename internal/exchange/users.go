package exchange

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rovshanmuradov/teleswap-backend/internal/db"
	"github.com/rovshanmuradov/teleswap-backend/internal/i18n"
	"github.com/rovshanmuradov/teleswap-backend/internal/logging"
	"github.com/rovshanmuradov/teleswap-backend/pkg/tonutils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Registration is a user first contacting the bot, possibly through a referral link.
type Registration struct {
	UserID     int64
	Username   string
	Language   string
	ReferrerID *int64
}

type RegisterResult struct {
	User            *db.User
	Created         bool
	ReferrerApplied bool
}

// RegisterUser creates the user if needed and records the referrer. The first referrer
// wins; self referrals are ignored.
func (s *Service) RegisterUser(ctx context.Context, reg Registration) (*RegisterResult, error) {
	referrer := reg.ReferrerID
	if referrer != nil && *referrer == reg.UserID {
		referrer = nil
	}

	name := strings.TrimSpace(reg.Username)
	if name == "" {
		name = unknownUsername
	}
	lang, ok := i18n.Normalize(reg.Language)
	if !ok {
		lang = i18n.DefaultLanguage
	}

	res := &RegisterResult{}
	err := s.store.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err := s.store.CreateUser(ctx, &db.User{
			UserID:       reg.UserID,
			Username:     name,
			ReferredBy:   referrer,
			RewardAmount: decimal.Zero,
			Language:     lang,
		})
		if err != nil {
			return err
		}
		res.Created = created

		switch {
		case created:
			res.ReferrerApplied = referrer != nil
		case referrer != nil:
			if res.ReferrerApplied, err = s.store.SetReferrer(ctx, reg.UserID, *referrer); err != nil {
				return err
			}
		}

		res.User, err = s.store.FindUser(ctx, reg.UserID)
		return err
	})
	if err != nil {
		return nil, storageErr("register user", err)
	}

	if res.ReferrerApplied {
		logging.Info("Referrer recorded",
			zap.Int64("user_id", reg.UserID), zap.Int64("referrer_id", *referrer))
	}
	return res, nil
}

// ParseReferrer reads the referrer id carried by a /start payload. Anything that is not
// a positive integer is ignored.
func ParseReferrer(payload string) *int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(payload), 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

func (s *Service) User(ctx context.Context, userID int64) (*db.User, error) {
	u, err := s.store.FindUser(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, &NotFoundError{Resource: "user", Key: strconv.FormatInt(userID, 10)}
	}
	if err != nil {
		return nil, storageErr("find user", err)
	}
	return u, nil
}

// UpdateTonAddress validates raw as a TON address and stores it as the user's payout address.
func (s *Service) UpdateTonAddress(ctx context.Context, userID int64, raw string) (string, error) {
	addr, err := tonutils.ValidateAddress(raw)
	if err != nil {
		return "", &ValidationError{Field: "ton_coin_address", Reason: err.Error()}
	}
	if err := s.store.UpdateTonAddress(ctx, userID, addr); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", &NotFoundError{Resource: "user", Key: strconv.FormatInt(userID, 10)}
		}
		return "", storageErr("update address", err)
	}
	return addr, nil
}

// UpdateLanguage stores one of the supported language codes for the user.
func (s *Service) UpdateLanguage(ctx context.Context, userID int64, language string) (string, error) {
	lang, ok := i18n.Normalize(language)
	if !ok {
		return "", &ValidationError{Field: "language", Reason: "unsupported language " + language}
	}
	if err := s.store.UpdateLanguage(ctx, userID, lang); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", &NotFoundError{Resource: "user", Key: strconv.FormatInt(userID, 10)}
		}
		return "", storageErr("update language", err)
	}
	if s.languages != nil {
		if err := s.languages.Set(ctx, userID, lang); err != nil {
			logging.Warn("Failed to refresh language cache", zap.Int64("user_id", userID), zap.Error(err))
		}
	}
	return lang, nil
}

// UserLanguage returns the stored language of the user, reading through the cache when
// one is configured.
func (s *Service) UserLanguage(ctx context.Context, userID int64) (string, error) {
	if s.languages != nil {
		lang, ok, err := s.languages.Get(ctx, userID)
		if err != nil {
			logging.Warn("Language cache read failed", zap.Int64("user_id", userID), zap.Error(err))
		} else if ok {
			return lang, nil
		}
	}

	u, err := s.User(ctx, userID)
	if err != nil {
		return "", err
	}
	lang := u.Language
	if lang == "" {
		lang = i18n.DefaultLanguage
	}

	if s.languages != nil {
		if err := s.languages.Set(ctx, userID, lang); err != nil {
			logging.Warn("Failed to fill language cache", zap.Int64("user_id", userID), zap.Error(err))
		}
	}
	return lang, nil
}
