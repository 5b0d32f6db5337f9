package bot

import (
	"sync"
	"time"
)

type conversationKind int

const (
	awaitingAddress conversationKind = iota + 1
	awaitingExchangeID
)

func (k conversationKind) String() string {
	switch k {
	case awaitingAddress:
		return "awaiting_address"
	case awaitingExchangeID:
		return "awaiting_exchange_id"
	default:
		return "unknown"
	}
}

// conversation is a question the bot asked in a chat and is waiting to be answered.
type conversation struct {
	kind    conversationKind
	userID  int64
	expires time.Time
}

// conversations tracks at most one pending question per chat.
type conversations struct {
	mu      sync.Mutex
	items   map[int64]conversation
	timeout time.Duration
	now     func() time.Time
}

func newConversations(timeout time.Duration) *conversations {
	return &conversations{
		items:   make(map[int64]conversation),
		timeout: timeout,
		now:     time.Now,
	}
}

// Begin replaces any pending conversation in the chat.
func (c *conversations) Begin(chatID, userID int64, kind conversationKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[chatID] = conversation{kind: kind, userID: userID, expires: c.now().Add(c.timeout)}
}

// Take removes and returns the chat's pending conversation if it has not expired.
func (c *conversations) Take(chatID int64) (conversation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	conv, ok := c.items[chatID]
	if !ok {
		return conversation{}, false
	}
	delete(c.items, chatID)
	if !c.now().Before(conv.expires) {
		return conversation{}, false
	}
	return conv, true
}

func (c *conversations) Cancel(chatID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, chatID)
}

// Sweep drops expired conversations and returns them keyed by chat id.
func (c *conversations) Sweep() map[int64]conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	expired := make(map[int64]conversation)
	for chatID, conv := range c.items {
		if !now.Before(conv.expires) {
			expired[chatID] = conv
			delete(c.items, chatID)
		}
	}
	return expired
}
