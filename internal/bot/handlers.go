package bot

import (
	"bytes"
	"context"
	"strings"

	"github.com/rovshanmuradov/teleswap-backend/internal/exchange"
	"github.com/rovshanmuradov/teleswap-backend/internal/i18n"
	"github.com/rovshanmuradov/teleswap-backend/internal/logging"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"gopkg.in/tucnak/telebot.v2"
)

// Callback data of the inline buttons.
const (
	cbReferralLink   = "get_referral_link"
	cbUpdateAddress  = "update_address"
	cbLanguagePrefix = "update_language_"
)

func (b *Bot) registerHandlers() {
	b.telegramBot.Handle("/start", b.handleStart)
	b.telegramBot.Handle("/run", b.handleRun)
	b.telegramBot.Handle("/referral", b.handleReferral)
	b.telegramBot.Handle("/update_address", b.handleUpdateAddress)
	b.telegramBot.Handle("/update_language", b.handleUpdateLanguage)
	b.telegramBot.Handle("/support", b.handleSupport)
	b.telegramBot.Handle("/help", b.handleHelp)
	b.telegramBot.Handle(telebot.OnText, b.handleText)
	b.telegramBot.Handle(telebot.OnCallback, b.handleCallback)
}

func (b *Bot) handleStart(m *telebot.Message) {
	b.conversations.Cancel(m.Chat.ID)
	ctx, cancel := b.requestContext()
	defer cancel()

	res, err := b.svc.RegisterUser(ctx, registrationFor(m.Sender, exchange.ParseReferrer(m.Payload)))
	if err != nil {
		logging.Error("Failed to register user", zap.Int64("user_id", m.Sender.ID), zap.Error(err))
		b.send(m.Chat, i18n.For(m.Sender.LanguageCode).T(i18n.GenericError))
		return
	}

	p := i18n.For(res.User.Language)
	if res.Created {
		logging.Info("New user added", zap.Int64("user_id", m.Sender.ID), zap.String("username", res.User.Username))
		b.sendInfo(ctx, m.Chat, p)
		b.askAddress(m.Chat, m.Sender.ID, p, i18n.AskAddress)
		return
	}
	if res.User.TonCoinAddress == nil || *res.User.TonCoinAddress == "" {
		b.askAddress(m.Chat, m.Sender.ID, p, i18n.AskAddress)
		return
	}
	b.sendInfo(ctx, m.Chat, p)
}

func (b *Bot) handleRun(m *telebot.Message) {
	b.conversations.Cancel(m.Chat.ID)
	ctx, cancel := b.requestContext()
	defer cancel()

	p := b.printer(ctx, m.Sender.ID)
	markup := &telebot.ReplyMarkup{
		InlineKeyboard: [][]telebot.InlineButton{
			{{Text: p.T(i18n.ButtonOpenApp), URL: b.config.WebAppURL()}},
			{
				{Text: p.T(i18n.ButtonReferral), Data: cbReferralLink},
				{Text: p.T(i18n.ButtonAddress), Data: cbUpdateAddress},
			},
		},
	}
	b.send(m.Chat, p.T(i18n.RunPrompt), markup)
}

func (b *Bot) handleReferral(m *telebot.Message) {
	b.conversations.Cancel(m.Chat.ID)
	ctx, cancel := b.requestContext()
	defer cancel()

	p := b.printer(ctx, m.Sender.ID)
	sum, err := b.svc.ComputeReferralSummary(ctx, m.Sender.ID)
	if err != nil {
		logging.Error("Error handling /referral command", zap.Int64("user_id", m.Sender.ID), zap.Error(err))
		b.send(m.Chat, p.T(i18n.GenericError))
		return
	}

	link := b.config.ReferralLink(m.Sender.ID)
	text := p.T(i18n.ReferralInfo,
		sum.MyReferrals, sum.MyVolume.StringFixed(2), sum.MyRewards.StringFixed(2),
		sum.TotalReferrals, sum.TotalVolume.StringFixed(2), sum.TotalRewards.StringFixed(2),
		link,
	)

	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		logging.Warn("Failed to render referral QR code", zap.Error(err))
		b.send(m.Chat, text)
		return
	}
	b.send(m.Chat, &telebot.Photo{File: telebot.FromReader(bytes.NewReader(png)), Caption: text})
}

func (b *Bot) handleUpdateAddress(m *telebot.Message) {
	ctx, cancel := b.requestContext()
	defer cancel()

	b.ensureUser(ctx, m.Sender)
	b.askAddress(m.Chat, m.Sender.ID, b.printer(ctx, m.Sender.ID), i18n.AskNewAddress)
}

func (b *Bot) handleUpdateLanguage(m *telebot.Message) {
	b.conversations.Cancel(m.Chat.ID)
	ctx, cancel := b.requestContext()
	defer cancel()

	row := make([]telebot.InlineButton, 0, len(i18n.Languages))
	for _, code := range i18n.Languages {
		row = append(row, telebot.InlineButton{Text: strings.ToUpper(code), Data: cbLanguagePrefix + code})
	}
	markup := &telebot.ReplyMarkup{InlineKeyboard: [][]telebot.InlineButton{row}}
	b.send(m.Chat, b.printer(ctx, m.Sender.ID).T(i18n.ChooseLanguage), markup)
}

func (b *Bot) handleSupport(m *telebot.Message) {
	ctx, cancel := b.requestContext()
	defer cancel()

	name := m.Sender.Username
	if name == "" {
		name = m.Sender.FirstName
	}
	b.conversations.Begin(m.Chat.ID, m.Sender.ID, awaitingExchangeID)
	b.send(m.Chat, b.printer(ctx, m.Sender.ID).T(i18n.SupportWelcome, name))
}

func (b *Bot) handleHelp(m *telebot.Message) {
	b.conversations.Cancel(m.Chat.ID)
	ctx, cancel := b.requestContext()
	defer cancel()

	b.send(m.Chat, b.printer(ctx, m.Sender.ID).T(i18n.Help))
}

// handleText answers the pending question of the chat, if any.
func (b *Bot) handleText(m *telebot.Message) {
	text := strings.TrimSpace(m.Text)
	if strings.HasPrefix(text, "/") {
		b.conversations.Cancel(m.Chat.ID)
		return
	}
	conv, ok := b.conversations.Take(m.Chat.ID)
	if !ok {
		return
	}

	ctx, cancel := b.requestContext()
	defer cancel()
	p := b.printer(ctx, conv.userID)
	logging.Debug("Conversation answered",
		zap.Int64("chat_id", m.Chat.ID), zap.Stringer("kind", conv.kind))

	switch conv.kind {
	case awaitingAddress:
		b.saveAddress(ctx, m.Chat, conv.userID, text, p)
	case awaitingExchangeID:
		b.send(m.Chat, b.supportReply(ctx, text, p))
	}
}

func (b *Bot) handleCallback(c *telebot.Callback) {
	if err := b.api.Respond(c, &telebot.CallbackResponse{}); err != nil {
		logging.Warn("Failed to answer callback", zap.Error(err))
	}
	if c.Message == nil || c.Sender == nil {
		return
	}
	chat := c.Message.Chat
	userID := c.Sender.ID
	data := strings.TrimSpace(c.Data)

	ctx, cancel := b.requestContext()
	defer cancel()

	switch {
	case data == cbReferralLink:
		p := b.printer(ctx, userID)
		b.send(chat, p.T(i18n.ReferralLink, b.config.ReferralLink(userID)))

	case data == cbUpdateAddress:
		b.ensureUser(ctx, c.Sender)
		b.askAddress(chat, userID, b.printer(ctx, userID), i18n.AskNewAddress)

	case strings.HasPrefix(data, cbLanguagePrefix):
		b.ensureUser(ctx, c.Sender)
		lang, err := b.svc.UpdateLanguage(ctx, userID, strings.TrimPrefix(data, cbLanguagePrefix))
		if err != nil {
			logging.Error("Error handling callback query", zap.String("data", data), zap.Error(err))
			b.send(chat, b.printer(ctx, userID).T(i18n.GenericError))
			return
		}
		p := i18n.For(lang)
		b.send(chat, p.T(i18n.LanguageUpdated))
		b.sendInfo(ctx, chat, p)

	default:
		logging.Debug("Unknown callback", zap.String("data", data))
	}
}

func (b *Bot) askAddress(chat *telebot.Chat, userID int64, p *i18n.Printer, key string) {
	b.conversations.Begin(chat.ID, userID, awaitingAddress)
	b.send(chat, p.T(key))
}

func (b *Bot) saveAddress(ctx context.Context, chat *telebot.Chat, userID int64, text string, p *i18n.Printer) {
	addr, err := b.svc.UpdateTonAddress(ctx, userID, text)
	switch {
	case err == nil:
		logging.Info("TON coin address updated", zap.Int64("user_id", userID), zap.String("address", addr))
		b.send(chat, p.T(i18n.AddressUpdated))
	case exchange.IsValidation(err):
		b.askAddress(chat, userID, p, i18n.AddressInvalid)
	default:
		logging.Error("Error updating TON coin address", zap.Int64("user_id", userID), zap.Error(err))
		b.send(chat, p.T(i18n.AddressSaveFailed))
	}
}

// sendInfo sends the programme statistics message.
func (b *Bot) sendInfo(ctx context.Context, chat *telebot.Chat, p *i18n.Printer) {
	info, err := b.svc.ProgramInfo(ctx)
	if err != nil {
		logging.Error("Error fetching statistics", zap.Error(err))
		b.send(chat, p.T(i18n.GenericError))
		return
	}
	b.send(chat, p.T(i18n.MainInfo,
		info.TotalUsers, info.ActiveUsers, info.TotalExchanges,
		info.TotalVolumeUSD.StringFixed(2), info.RevenueShareUSD.StringFixed(2),
	))
}

// ensureUser registers users reaching a flow without /start.
func (b *Bot) ensureUser(ctx context.Context, u *telebot.User) {
	if _, err := b.svc.RegisterUser(ctx, registrationFor(u, nil)); err != nil {
		logging.Warn("Failed to register user", zap.Int64("user_id", u.ID), zap.Error(err))
	}
}

func registrationFor(u *telebot.User, referrer *int64) exchange.Registration {
	return exchange.Registration{
		UserID:     u.ID,
		Username:   u.Username,
		Language:   u.LanguageCode,
		ReferrerID: referrer,
	}
}
