// internal/db/models.go
package db

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	UserID         int64           `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	Username       string          `gorm:"column:username"`
	ReferredBy     *int64          `gorm:"column:referred_by"`
	RewardAmount   decimal.Decimal `gorm:"column:reward_amount;type:numeric(20,8)"`
	TonCoinAddress *string         `gorm:"column:ton_coin_address"`
	Language       string          `gorm:"column:language"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (User) TableName() string { return "users" }

type ExchangeRecord struct {
	ID         int64  `gorm:"primaryKey"`
	ExchangeID string `gorm:"column:exchange_id;uniqueIndex"`
	UserID     *int64 `gorm:"column:user_id"`

	AmountFrom   string `gorm:"column:amount_from"`
	AmountTo     string `gorm:"column:amount_to"`
	CurrencyFrom string `gorm:"column:currency_from"`
	CurrencyTo   string `gorm:"column:currency_to"`
	AddressFrom  string `gorm:"column:address_from"`
	AddressTo    string `gorm:"column:address_to"`

	// USD values are kept exactly as the mini app reported them.
	InputUSD  string `gorm:"column:input_usd"`
	OutputUSD string `gorm:"column:output_usd"`

	PrimaryRate              decimal.Decimal `gorm:"column:primary_rate;type:numeric(20,8)"`
	PrimaryReferralRewardUSD decimal.Decimal `gorm:"column:primary_referral_reward_usd;type:numeric(20,8)"`
	BTCUSDRate               decimal.Decimal `gorm:"column:btc_usd_rate;type:numeric(20,8)"`
	ExchangeFinished         bool            `gorm:"column:exchange_finished"`

	HashFrom string `gorm:"column:hash_from"`
	HashTo   string `gorm:"column:hash_to"`
	Status   string `gorm:"column:status"`

	Timestamp time.Time `gorm:"column:timestamp"`

	IPAddress             string `gorm:"column:ip_address"`
	UserAgent             string `gorm:"column:user_agent"`
	SiteLanguage          string `gorm:"column:site_language"`
	AcceptLanguage        string `gorm:"column:accept_language"`
	DeviceTimezone        string `gorm:"column:device_timezone"`
	DeviceOperatingSystem string `gorm:"column:device_operating_system"`
}

func (ExchangeRecord) TableName() string { return "exchange_logs" }

// ProgramStats are the referral programme wide counters shown by the bot.
type ProgramStats struct {
	TotalUsers     int64
	ActiveUsers    int64
	TotalExchanges int64
	TotalVolumeUSD decimal.Decimal
}
