// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"studysheet-ai-service/internal/domain"
	"studysheet-ai-service/internal/domain/model"
	"studysheet-ai-service/internal/domain/ports/adapter"
	"studysheet-ai-service/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// memProfileRepo is a small in-memory implementation used by unit tests.
type memProfileRepo struct {
	mu         sync.RWMutex
	store      map[string]*model.Profile
	loc        *time.Location
	upgradeErr error // used by tests to simulate upgrade failures
	commitErr  error
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{store: make(map[string]*model.Profile), loc: time.UTC}
}

func (m *memProfileRepo) Save(ctx context.Context, tx repository.Tx, p *model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.UserID] = &cp
	return nil
}

func (m *memProfileRepo) FindByUserID(ctx context.Context, tx repository.Tx, userID string) (*model.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProfileRepo) CommitUsage(ctx context.Context, tx repository.Tx, userID string, day time.Time, units int) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[userID]
	if !ok {
		return domain.ErrNotFound
	}
	if !p.LastGenerationDate.IsZero() && model.SameCalendarDay(p.LastGenerationDate, day, m.loc) {
		p.SheetsGeneratedToday += units
	} else {
		p.SheetsGeneratedToday = units
	}
	p.LastGenerationDate = day
	p.UpdatedAt = time.Now()
	return nil
}

func (m *memProfileRepo) UpgradeTier(ctx context.Context, tx repository.Tx, userID string, tier model.Tier) error {
	if m.upgradeErr != nil {
		return m.upgradeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[userID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Tier = tier
	p.UpdatedAt = time.Now()
	return nil
}

// memCodeRepo keeps activation codes in memory. Claim holds the lock
// across check and write, so it has the same winner-takes-all contract
// as the conditional UPDATE it stands in for.
type memCodeRepo struct {
	mu    sync.Mutex
	store map[string]*model.ActivationCode // by code
}

func newMemCodeRepo() *memCodeRepo {
	return &memCodeRepo{store: make(map[string]*model.ActivationCode)}
}

func (m *memCodeRepo) Save(ctx context.Context, tx repository.Tx, code *model.ActivationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.store[code.Code]; exists {
		return fmt.Errorf("duplicate code %q", code.Code)
	}
	cp := *code
	m.store[code.Code] = &cp
	return nil
}

func (m *memCodeRepo) Claim(ctx context.Context, tx repository.Tx, code, userID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[code]
	if !ok {
		return domain.ErrCodeNotFound
	}
	if c.IsRedeemed {
		return domain.ErrCodeAlreadyUsed
	}
	c.IsRedeemed = true
	c.RedeemedByUserID = &userID
	t := at
	c.RedeemedAt = &t
	return nil
}

func (m *memCodeRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.ActivationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[code]
	if !ok {
		return nil, domain.ErrCodeNotFound
	}
	cp := *c
	return &cp, nil
}

// memSheetRepo stores sheets in insertion order. failTitles lets a test
// make individual inserts fail by draft title.
type memSheetRepo struct {
	mu         sync.Mutex
	sheets     []*model.Sheet
	failTitles map[string]error
	insertErr  error
}

func newMemSheetRepo() *memSheetRepo {
	return &memSheetRepo{failTitles: make(map[string]error)}
}

func (m *memSheetRepo) Insert(ctx context.Context, tx repository.Tx, s *model.Sheet) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failTitles[s.Title]; ok {
		return err
	}
	cp := *s
	m.sheets = append(m.sheets, &cp)
	return nil
}

func (m *memSheetRepo) ListByOwner(ctx context.Context, tx repository.Tx, ownerID string, offset, limit int) ([]*model.Sheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var owned []*model.Sheet
	for i := len(m.sheets) - 1; i >= 0; i-- { // newest first
		if m.sheets[i].OwnerID == ownerID {
			cp := *m.sheets[i]
			owned = append(owned, &cp)
		}
	}
	if offset >= len(owned) {
		return nil, nil
	}
	owned = owned[offset:]
	if limit > 0 && limit < len(owned) {
		owned = owned[:limit]
	}
	return owned, nil
}

func (m *memSheetRepo) UpdateRating(ctx context.Context, tx repository.Tx, id, ownerID string, rating int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sheets {
		if s.ID == id && s.OwnerID == ownerID {
			s.Rating = rating
			return nil
		}
	}
	return domain.ErrNotFound
}

// memPending is an in-memory stand-in for the Redis pending counter.
type memPending struct {
	mu     sync.Mutex
	counts map[string]int64
	addErr error
}

func newMemPending() *memPending {
	return &memPending{counts: make(map[string]int64)}
}

func (m *memPending) key(userID string, day time.Time) string {
	return userID + ":" + day.UTC().Format("2006-01-02")
}

func (m *memPending) Add(ctx context.Context, userID string, day time.Time) (int64, error) {
	if m.addErr != nil {
		return 0, m.addErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := m.key(userID, day)
	m.counts[k]++
	return m.counts[k], nil
}

func (m *memPending) Release(ctx context.Context, userID string, day time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[m.key(userID, day)]--
	return nil
}

func (m *memPending) inFlight(userID string, day time.Time) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[m.key(userID, day)]
}

// fakeAI returns a scripted completion and records what it was asked.
type fakeAI struct {
	mu       sync.Mutex
	reply    string
	err      error
	calls    int
	lastMsgs []adapter.Message
}

func (f *fakeAI) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastMsgs = messages
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeAI) ListModels(ctx context.Context) ([]string, error) {
	return []string{"fake-model"}, nil
}

// mockTxManager runs the callback without a real transaction.
type mockTxManager struct{}

func (mockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}

func seedProfile(repo *memProfileRepo, userID string, tier model.Tier) *model.Profile {
	p, _ := model.NewProfile(userID, tier)
	_ = repo.Save(context.Background(), nil, p)
	return p
}
