// internal/bot/bot.go
package bot

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rovshanmuradov/teleswap-backend/internal/config"
	"github.com/rovshanmuradov/teleswap-backend/internal/db"
	"github.com/rovshanmuradov/teleswap-backend/internal/exchange"
	"github.com/rovshanmuradov/teleswap-backend/internal/i18n"
	"github.com/rovshanmuradov/teleswap-backend/internal/logging"
	"github.com/rovshanmuradov/teleswap-backend/pkg/simpleswap"
	"go.uber.org/zap"
	"gopkg.in/tucnak/telebot.v2"
)

const (
	requestTimeout = 15 * time.Second
	sweepInterval  = 30 * time.Second
)

// sender is the part of *telebot.Bot the handlers use.
type sender interface {
	Send(to telebot.Recipient, what interface{}, options ...interface{}) (*telebot.Message, error)
	Respond(c *telebot.Callback, resp ...*telebot.CallbackResponse) error
}

// Service is the referral programme as the bot sees it. *exchange.Service implements it.
type Service interface {
	RegisterUser(ctx context.Context, reg exchange.Registration) (*exchange.RegisterResult, error)
	ProgramInfo(ctx context.Context) (*exchange.ProgramInfo, error)
	ComputeReferralSummary(ctx context.Context, userID int64) (*exchange.ReferralSummary, error)
	UpdateTonAddress(ctx context.Context, userID int64, raw string) (string, error)
	UpdateLanguage(ctx context.Context, userID int64, language string) (string, error)
	UserLanguage(ctx context.Context, userID int64) (string, error)
	FindExchange(ctx context.Context, exchangeID string) (*db.ExchangeRecord, error)
}

// StatusSource looks up live exchange status at the swap provider.
type StatusSource interface {
	Enabled() bool
	GetExchange(ctx context.Context, id string) (*simpleswap.Exchange, error)
}

type Bot struct {
	telegramBot   *telebot.Bot
	api           sender
	svc           Service
	swaps         StatusSource
	config        *config.Config
	conversations *conversations
	scheduler     gocron.Scheduler
	stopOnce      sync.Once
	stopChan      chan struct{}
}

func NewBot(cfg *config.Config, svc Service, swaps StatusSource) (*Bot, error) {
	tb, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, err
	}

	b := newBot(tb, cfg, svc, swaps)
	b.telegramBot = tb
	return b, nil
}

func newBot(api sender, cfg *config.Config, svc Service, swaps StatusSource) *Bot {
	return &Bot{
		api:           api,
		svc:           svc,
		swaps:         swaps,
		config:        cfg,
		conversations: newConversations(cfg.ConversationTimeout),
		stopChan:      make(chan struct{}),
	}
}

// Start registers handlers and polls for updates until Stop is called.
func (b *Bot) Start() {
	b.registerHandlers()
	if err := b.startSweeper(sweepInterval); err != nil {
		logging.Error("Failed to start conversation sweeper", zap.Error(err))
	}
	logging.Info("The bot has been launched", zap.String("username", b.config.BotUsername))

	go b.telegramBot.Start()

	<-b.stopChan
	b.telegramBot.Stop()
	if b.scheduler != nil {
		if err := b.scheduler.Shutdown(); err != nil {
			logging.Warn("Failed to stop conversation sweeper", zap.Error(err))
		}
	}
	logging.Info("The bot has been stopped")
}

// Stop signals the end of the bot's work
func (b *Bot) Stop() {
	b.stopOnce.Do(func() { close(b.stopChan) })
}

func (b *Bot) startSweeper(interval time.Duration) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(b.sweepConversations),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	sched.Start()
	b.scheduler = sched
	return nil
}

// sweepConversations expires unanswered questions and tells the users.
func (b *Bot) sweepConversations() {
	expired := b.conversations.Sweep()
	if len(expired) == 0 {
		return
	}
	logging.Debug("Expired conversations", zap.Int("count", len(expired)))

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	for chatID, conv := range expired {
		logging.Debug("Conversation expired", zap.Int64("chat_id", chatID), zap.Stringer("kind", conv.kind))
		p := b.printer(ctx, conv.userID)
		b.send(&telebot.Chat{ID: chatID}, p.T(i18n.ConversationEnded))
	}
}

// Notify sends an HTML message to the user's private chat.
func (b *Bot) Notify(userID int64, text string) error {
	_, err := b.api.Send(&telebot.Chat{ID: userID}, text, telebot.ModeHTML)
	return err
}

// PublishSettlement tells a referrer about a credited reward.
func (b *Bot) PublishSettlement(ctx context.Context, ev exchange.SettlementEvent) error {
	p := b.printer(ctx, ev.ReferrerID)
	return b.Notify(ev.ReferrerID, p.T(i18n.RewardCredited, ev.RewardUSD.StringFixed(2)))
}

// printer returns the catalog printer for the user's stored language.
func (b *Bot) printer(ctx context.Context, userID int64) *i18n.Printer {
	lang, err := b.svc.UserLanguage(ctx, userID)
	if err != nil && !exchange.IsNotFound(err) {
		logging.Warn("Failed to read user language", zap.Int64("user_id", userID), zap.Error(err))
	}
	return i18n.For(lang)
}

// send sends a message and logs an error if one occurs
func (b *Bot) send(to telebot.Recipient, what interface{}, options ...interface{}) {
	options = append(options, telebot.ModeHTML)
	if _, err := b.api.Send(to, what, options...); err != nil {
		logging.Error("Error sending message",
			zap.String("recipient", to.Recipient()),
			zap.Error(err),
		)
	}
}

func (b *Bot) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}
