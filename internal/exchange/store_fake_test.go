package exchange

import (
	"context"
	"errors"
	"sync"

	"github.com/rovshanmuradov/teleswap-backend/internal/db"
	"github.com/shopspring/decimal"
)

var errStoreDown = errors.New("connection refused")

// memStore is an in-memory Store. Transactions are serialized and roll back on error.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	users     map[int64]db.User
	exchanges map[string]db.ExchangeRecord
	nextID    int64

	failOn map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[int64]db.User),
		exchanges: make(map[string]db.ExchangeRecord),
		failOn:    make(map[string]bool),
	}
}

func (m *memStore) fail(op string) error {
	if m.failOn[op] {
		return errStoreDown
	}
	return nil
}

func (m *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	users := make(map[int64]db.User, len(m.users))
	for k, v := range m.users {
		users[k] = v
	}
	exchanges := make(map[string]db.ExchangeRecord, len(m.exchanges))
	for k, v := range m.exchanges {
		exchanges[k] = v
	}
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.users, m.exchanges = users, exchanges
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) FindExchange(_ context.Context, exchangeID string) (*db.ExchangeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("FindExchange"); err != nil {
		return nil, err
	}
	rec, ok := m.exchanges[exchangeID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &rec, nil
}

func (m *memStore) InsertExchange(_ context.Context, rec *db.ExchangeRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("InsertExchange"); err != nil {
		return false, err
	}
	if _, ok := m.exchanges[rec.ExchangeID]; ok {
		return false, nil
	}
	m.nextID++
	stored := *rec
	stored.ID = m.nextID
	m.exchanges[rec.ExchangeID] = stored
	return true, nil
}

func (m *memStore) UpdateExchange(_ context.Context, rec *db.ExchangeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("UpdateExchange"); err != nil {
		return err
	}
	old, ok := m.exchanges[rec.ExchangeID]
	if !ok {
		return db.ErrNotFound
	}
	updated := *rec
	updated.ID = old.ID
	updated.ExchangeFinished = old.ExchangeFinished
	if rec.UserID == nil {
		updated.UserID = old.UserID
	}
	if old.ExchangeFinished {
		updated.PrimaryRate = old.PrimaryRate
		updated.PrimaryReferralRewardUSD = old.PrimaryReferralRewardUSD
	}
	m.exchanges[rec.ExchangeID] = updated
	return nil
}

func (m *memStore) FinishExchange(_ context.Context, exchangeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("FinishExchange"); err != nil {
		return false, err
	}
	rec, ok := m.exchanges[exchangeID]
	if !ok || rec.ExchangeFinished {
		return false, nil
	}
	rec.ExchangeFinished = true
	m.exchanges[exchangeID] = rec
	return true, nil
}

func (m *memStore) FindUser(_ context.Context, userID int64) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("FindUser"); err != nil {
		return nil, err
	}
	u, ok := m.users[userID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &u, nil
}

func (m *memStore) CreateUser(_ context.Context, u *db.User) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateUser"); err != nil {
		return false, err
	}
	if _, ok := m.users[u.UserID]; ok {
		return false, nil
	}
	m.users[u.UserID] = *u
	return true, nil
}

func (m *memStore) update(userID int64, fn func(u *db.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	fn(&u)
	m.users[userID] = u
	return nil
}

func (m *memStore) UpdateUsername(_ context.Context, userID int64, username string) error {
	return m.update(userID, func(u *db.User) { u.Username = username })
}

func (m *memStore) UpdateTonAddress(_ context.Context, userID int64, address string) error {
	return m.update(userID, func(u *db.User) { u.TonCoinAddress = &address })
}

func (m *memStore) UpdateLanguage(_ context.Context, userID int64, language string) error {
	return m.update(userID, func(u *db.User) { u.Language = language })
}

func (m *memStore) SetReferrer(_ context.Context, userID, referrerID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok || u.ReferredBy != nil {
		return false, nil
	}
	u.ReferredBy = &referrerID
	m.users[userID] = u
	return true, nil
}

func (m *memStore) CreditReward(_ context.Context, userID int64, amount decimal.Decimal) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreditReward"); err != nil {
		return false, err
	}
	u, ok := m.users[userID]
	if !ok {
		return false, nil
	}
	u.RewardAmount = u.RewardAmount.Add(amount)
	m.users[userID] = u
	return true, nil
}

func (m *memStore) ReferredUsers(_ context.Context) ([]db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ReferredUsers"); err != nil {
		return nil, err
	}
	var out []db.User
	for _, u := range m.users {
		if u.ReferredBy != nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memStore) FinishedExchanges(_ context.Context, userIDs []int64) ([]db.ExchangeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		want[id] = true
	}
	var out []db.ExchangeRecord
	for _, rec := range m.exchanges {
		if rec.ExchangeFinished && rec.UserID != nil && want[*rec.UserID] {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memStore) ProgramStats(_ context.Context) (*db.ProgramStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &db.ProgramStats{TotalUsers: int64(len(m.users)), TotalVolumeUSD: decimal.Zero}
	active := make(map[int64]bool)
	for _, rec := range m.exchanges {
		if !rec.ExchangeFinished {
			continue
		}
		stats.TotalExchanges++
		if rec.UserID != nil {
			active[*rec.UserID] = true
		}
		stats.TotalVolumeUSD = stats.TotalVolumeUSD.Add(parseUSD(rec.OutputUSD))
	}
	stats.ActiveUsers = int64(len(active))
	return stats, nil
}

func (m *memStore) user(id int64) db.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id]
}

func (m *memStore) exchange(id string) db.ExchangeRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exchanges[id]
}

func (m *memStore) exchangeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.exchanges)
}

type memLanguageCache struct {
	mu    sync.Mutex
	langs map[int64]string
	gets  int
}

func newMemLanguageCache() *memLanguageCache {
	return &memLanguageCache{langs: make(map[int64]string)}
}

func (c *memLanguageCache) Get(_ context.Context, userID int64) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	lang, ok := c.langs[userID]
	return lang, ok, nil
}

func (c *memLanguageCache) Set(_ context.Context, userID int64, language string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.langs[userID] = language
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []SettlementEvent
	err    error
}

func (p *recordingPublisher) PublishSettlement(_ context.Context, ev SettlementEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}
