package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConversationsTakeOnce(t *testing.T) {
	c := newConversations(time.Minute)
	c.Begin(1, 10, awaitingAddress)

	conv, ok := c.Take(1)
	assert.True(t, ok)
	assert.Equal(t, awaitingAddress, conv.kind)
	assert.Equal(t, int64(10), conv.userID)

	_, ok = c.Take(1)
	assert.False(t, ok)
}

func TestConversationsExpire(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newConversations(time.Minute)
	c.now = func() time.Time { return now }

	c.Begin(1, 10, awaitingAddress)
	c.Begin(2, 20, awaitingExchangeID)
	now = now.Add(30 * time.Second)
	c.Begin(3, 30, awaitingExchangeID)

	now = now.Add(45 * time.Second)
	_, ok := c.Take(1)
	assert.False(t, ok)

	expired := c.Sweep()
	assert.Len(t, expired, 1)
	assert.Contains(t, expired, int64(2))

	kind, ok := pendingKind(c, 3)
	assert.True(t, ok)
	assert.Equal(t, awaitingExchangeID, kind)
}

func TestConversationsBeginReplaces(t *testing.T) {
	c := newConversations(time.Minute)
	c.Begin(1, 10, awaitingAddress)
	c.Begin(1, 10, awaitingExchangeID)

	conv, ok := c.Take(1)
	assert.True(t, ok)
	assert.Equal(t, awaitingExchangeID, conv.kind)
	assert.Equal(t, "awaiting_exchange_id", conv.kind.String())
}

func TestConversationsCancel(t *testing.T) {
	c := newConversations(time.Minute)
	c.Begin(1, 10, awaitingAddress)
	c.Cancel(1)

	_, ok := pendingKind(c, 1)
	assert.False(t, ok)
}

func TestConversationKindString(t *testing.T) {
	assert.Equal(t, "awaiting_address", awaitingAddress.String())
	assert.Equal(t, "unknown", conversationKind(0).String())
}

// pendingKind reports the live conversation of the chat without taking it.
func pendingKind(c *conversations, chatID int64) (conversationKind, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	conv, ok := c.items[chatID]
	if !ok || !c.now().Before(conv.expires) {
		return 0, false
	}
	return conv.kind, true
}
