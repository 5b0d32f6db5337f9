package bot

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rovshanmuradov/teleswap-backend/internal/config"
	"github.com/rovshanmuradov/teleswap-backend/internal/db"
	"github.com/rovshanmuradov/teleswap-backend/internal/exchange"
	"github.com/rovshanmuradov/teleswap-backend/pkg/simpleswap"
	"github.com/shopspring/decimal"
	"gopkg.in/tucnak/telebot.v2"
)

type sentMessage struct {
	to      string
	what    interface{}
	options []interface{}
}

func (s sentMessage) text() string {
	switch v := s.what.(type) {
	case string:
		return v
	case *telebot.Photo:
		return v.Caption
	}
	return ""
}

func (s sentMessage) markup() *telebot.ReplyMarkup {
	for _, o := range s.options {
		if m, ok := o.(*telebot.ReplyMarkup); ok {
			return m
		}
	}
	return nil
}

type fakeSender struct {
	mu        sync.Mutex
	sent      []sentMessage
	responded int
}

func (f *fakeSender) Send(to telebot.Recipient, what interface{}, options ...interface{}) (*telebot.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{to: to.Recipient(), what: what, options: options})
	return &telebot.Message{}, nil
}

func (f *fakeSender) Respond(_ *telebot.Callback, _ ...*telebot.CallbackResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responded++
	return nil
}

func (f *fakeSender) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		out = append(out, m.text())
	}
	return out
}

func (f *fakeSender) last() sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

type fakeService struct {
	users         map[int64]*db.User
	exchanges     map[string]*db.ExchangeRecord
	registrations []exchange.Registration
	summary       exchange.ReferralSummary
	info          exchange.ProgramInfo
}

func newFakeService() *fakeService {
	return &fakeService{
		users:     make(map[int64]*db.User),
		exchanges: make(map[string]*db.ExchangeRecord),
		summary: exchange.ReferralSummary{
			TotalReferrals: 5, TotalVolume: decimal.RequireFromString("1000"), TotalRewards: decimal.RequireFromString("2.5"),
			MyReferrals: 2, MyVolume: decimal.RequireFromString("120"), MyRewards: decimal.RequireFromString("0.3"),
		},
		info: exchange.ProgramInfo{
			ProgramStats:    db.ProgramStats{TotalUsers: 10, ActiveUsers: 4, TotalExchanges: 7, TotalVolumeUSD: decimal.RequireFromString("500")},
			RevenueShareUSD: decimal.RequireFromString("2.5"),
		},
	}
}

func notFound(userID int64) error {
	return &exchange.NotFoundError{Resource: "user", Key: strconv.FormatInt(userID, 10)}
}

func (f *fakeService) RegisterUser(_ context.Context, reg exchange.Registration) (*exchange.RegisterResult, error) {
	f.registrations = append(f.registrations, reg)
	if u, ok := f.users[reg.UserID]; ok {
		return &exchange.RegisterResult{User: u}, nil
	}
	u := &db.User{UserID: reg.UserID, Username: reg.Username, ReferredBy: reg.ReferrerID, Language: "en"}
	f.users[reg.UserID] = u
	return &exchange.RegisterResult{User: u, Created: true, ReferrerApplied: reg.ReferrerID != nil}, nil
}

func (f *fakeService) ProgramInfo(context.Context) (*exchange.ProgramInfo, error) {
	return &f.info, nil
}

func (f *fakeService) ComputeReferralSummary(context.Context, int64) (*exchange.ReferralSummary, error) {
	return &f.summary, nil
}

func (f *fakeService) UpdateTonAddress(_ context.Context, userID int64, raw string) (string, error) {
	if raw != validAddress {
		return "", &exchange.ValidationError{Field: "ton_coin_address", Reason: "not a TON address"}
	}
	u, ok := f.users[userID]
	if !ok {
		return "", notFound(userID)
	}
	u.TonCoinAddress = &raw
	return raw, nil
}

func (f *fakeService) UpdateLanguage(_ context.Context, userID int64, language string) (string, error) {
	u, ok := f.users[userID]
	if !ok {
		return "", notFound(userID)
	}
	if language == "ch" {
		language = "zh"
	}
	u.Language = language
	return language, nil
}

func (f *fakeService) UserLanguage(_ context.Context, userID int64) (string, error) {
	u, ok := f.users[userID]
	if !ok {
		return "", notFound(userID)
	}
	return u.Language, nil
}

func (f *fakeService) FindExchange(_ context.Context, exchangeID string) (*db.ExchangeRecord, error) {
	rec, ok := f.exchanges[exchangeID]
	if !ok {
		return nil, &exchange.NotFoundError{Resource: "exchange", Key: exchangeID}
	}
	return rec, nil
}

type fakeSwaps struct {
	ex  *simpleswap.Exchange
	err error
}

func (f *fakeSwaps) Enabled() bool { return true }

func (f *fakeSwaps) GetExchange(context.Context, string) (*simpleswap.Exchange, error) {
	return f.ex, f.err
}

const validAddress = "EQCD39VS5jcptHL8vMjEXrzGaRcCVYto7HUn4bpAOg8xqB2N"

func newTestBot(svc Service, swaps StatusSource) (*Bot, *fakeSender) {
	api := &fakeSender{}
	cfg := &config.Config{BotUsername: "TeleSwapAppBot", ConversationTimeout: time.Minute}
	return newBot(api, cfg, svc, swaps), api
}

func message(userID int64, text, payload string) *telebot.Message {
	return &telebot.Message{
		Sender:  &telebot.User{ID: userID, Username: "bob", FirstName: "Bob", LanguageCode: "en"},
		Chat:    &telebot.Chat{ID: userID},
		Text:    text,
		Payload: payload,
	}
}
