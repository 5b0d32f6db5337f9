package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("record not found")

type txKey struct{}

// Repository is the PostgreSQL backed store for users and exchange logs.
type Repository struct {
	db *gorm.DB
}

func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn}
}

// conn returns the transaction bound to ctx, if any.
func (r *Repository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// WithinTransaction runs fn in a database transaction. Repository calls made with the
// context passed to fn join that transaction. Nested calls reuse the outer one.
func (r *Repository) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func (r *Repository) FindExchange(ctx context.Context, exchangeID string) (*ExchangeRecord, error) {
	var rec ExchangeRecord
	if err := r.conn(ctx).Where("exchange_id = ?", exchangeID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find exchange %s: %w", exchangeID, err)
	}
	return &rec, nil
}

// InsertExchange inserts rec unless a record with the same exchange id exists.
// It reports whether a row was created.
func (r *Repository) InsertExchange(ctx context.Context, rec *ExchangeRecord) (bool, error) {
	res := r.conn(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "exchange_id"}}, DoNothing: true}).
		Create(rec)
	if res.Error != nil {
		return false, fmt.Errorf("failed to insert exchange %s: %w", rec.ExchangeID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// UpdateExchange overwrites the mutable fields of an existing record. Rate and reward
// are left untouched once the exchange is finished. exchange_finished itself is only
// changed by FinishExchange.
func (r *Repository) UpdateExchange(ctx context.Context, rec *ExchangeRecord) error {
	updates := map[string]interface{}{
		"amount_from":             rec.AmountFrom,
		"amount_to":               rec.AmountTo,
		"currency_from":           rec.CurrencyFrom,
		"currency_to":             rec.CurrencyTo,
		"address_from":            rec.AddressFrom,
		"address_to":              rec.AddressTo,
		"input_usd":               rec.InputUSD,
		"output_usd":              rec.OutputUSD,
		"btc_usd_rate":            rec.BTCUSDRate,
		"hash_from":               rec.HashFrom,
		"hash_to":                 rec.HashTo,
		"status":                  rec.Status,
		"timestamp":               rec.Timestamp,
		"ip_address":              rec.IPAddress,
		"user_agent":              rec.UserAgent,
		"site_language":           rec.SiteLanguage,
		"accept_language":         rec.AcceptLanguage,
		"device_timezone":         rec.DeviceTimezone,
		"device_operating_system": rec.DeviceOperatingSystem,
	}
	if rec.UserID != nil {
		updates["user_id"] = *rec.UserID
	}

	tx := r.conn(ctx)
	res := tx.Model(&ExchangeRecord{}).Where("exchange_id = ?", rec.ExchangeID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update exchange %s: %w", rec.ExchangeID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	res = tx.Model(&ExchangeRecord{}).
		Where("exchange_id = ? AND exchange_finished = ?", rec.ExchangeID, false).
		Updates(map[string]interface{}{
			"primary_rate":                rec.PrimaryRate,
			"primary_referral_reward_usd": rec.PrimaryReferralRewardUSD,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update reward of exchange %s: %w", rec.ExchangeID, res.Error)
	}
	return nil
}

// FinishExchange flips exchange_finished from false to true. It reports true only for
// the call that performed the transition.
func (r *Repository) FinishExchange(ctx context.Context, exchangeID string) (bool, error) {
	res := r.conn(ctx).Model(&ExchangeRecord{}).
		Where("exchange_id = ? AND exchange_finished = ?", exchangeID, false).
		Update("exchange_finished", true)
	if res.Error != nil {
		return false, fmt.Errorf("failed to finish exchange %s: %w", exchangeID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) FindUser(ctx context.Context, userID int64) (*User, error) {
	var u User
	if err := r.conn(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user %d: %w", userID, err)
	}
	return &u, nil
}

// CreateUser inserts u unless the user already exists.
func (r *Repository) CreateUser(ctx context.Context, u *User) (bool, error) {
	res := r.conn(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(u)
	if res.Error != nil {
		return false, fmt.Errorf("failed to create user %d: %w", u.UserID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) UpdateUsername(ctx context.Context, userID int64, username string) error {
	return r.updateUser(ctx, userID, "username", username)
}

func (r *Repository) UpdateTonAddress(ctx context.Context, userID int64, address string) error {
	return r.updateUser(ctx, userID, "ton_coin_address", address)
}

func (r *Repository) UpdateLanguage(ctx context.Context, userID int64, language string) error {
	return r.updateUser(ctx, userID, "language", language)
}

func (r *Repository) updateUser(ctx context.Context, userID int64, column string, value interface{}) error {
	res := r.conn(ctx).Model(&User{}).Where("user_id = ?", userID).Update(column, value)
	if res.Error != nil {
		return fmt.Errorf("failed to update %s of user %d: %w", column, userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetReferrer records referrerID as the user's referrer if none is set yet.
func (r *Repository) SetReferrer(ctx context.Context, userID, referrerID int64) (bool, error) {
	res := r.conn(ctx).Model(&User{}).
		Where("user_id = ? AND referred_by IS NULL", userID).
		Update("referred_by", referrerID)
	if res.Error != nil {
		return false, fmt.Errorf("failed to set referrer of user %d: %w", userID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// CreditReward adds amount to the user's reward total. It reports false if the user
// does not exist.
func (r *Repository) CreditReward(ctx context.Context, userID int64, amount decimal.Decimal) (bool, error) {
	res := r.conn(ctx).Model(&User{}).
		Where("user_id = ?", userID).
		Update("reward_amount", gorm.Expr("reward_amount + ?", amount))
	if res.Error != nil {
		return false, fmt.Errorf("failed to credit user %d: %w", userID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) ReferredUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := r.conn(ctx).Where("referred_by IS NOT NULL").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list referred users: %w", err)
	}
	return users, nil
}

func (r *Repository) FinishedExchanges(ctx context.Context, userIDs []int64) ([]ExchangeRecord, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var recs []ExchangeRecord
	err := r.conn(ctx).
		Where("user_id IN ? AND exchange_finished = ?", userIDs, true).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list finished exchanges: %w", err)
	}
	return recs, nil
}

func (r *Repository) ProgramStats(ctx context.Context) (*ProgramStats, error) {
	var stats ProgramStats
	tx := r.conn(ctx)

	if err := tx.Model(&User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	finished := tx.Model(&ExchangeRecord{}).Where("exchange_finished = ?", true)
	if err := finished.Session(&gorm.Session{}).Distinct("user_id").Count(&stats.ActiveUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count active users: %w", err)
	}
	if err := finished.Session(&gorm.Session{}).Count(&stats.TotalExchanges).Error; err != nil {
		return nil, fmt.Errorf("failed to count finished exchanges: %w", err)
	}

	var outputs []string
	if err := finished.Session(&gorm.Session{}).Pluck("output_usd", &outputs).Error; err != nil {
		return nil, fmt.Errorf("failed to sum volume: %w", err)
	}
	stats.TotalVolumeUSD = decimal.Zero
	for _, v := range outputs {
		if d, err := decimal.NewFromString(v); err == nil {
			stats.TotalVolumeUSD = stats.TotalVolumeUSD.Add(d)
		}
	}

	return &stats, nil
}
