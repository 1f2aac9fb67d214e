package services

import (
	"context"
	"database/sql"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/mysterycard/internal/common"
	"github.com/dmitrijs2005/mysterycard/internal/cryptox"
	"github.com/dmitrijs2005/mysterycard/internal/dbx"
	"github.com/dmitrijs2005/mysterycard/internal/server/auth"
	"github.com/dmitrijs2005/mysterycard/internal/server/models"
	"github.com/dmitrijs2005/mysterycard/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/mysterycard/internal/server/repositories/adminconfig"
	"github.com/dmitrijs2005/mysterycard/internal/server/repositories/cards"
	"golang.org/x/crypto/bcrypt"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newTestHasher(t *testing.T) *countingHasher {
	t.Helper()
	h, err := cryptox.NewBcryptHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcryptHasher: %v", err)
	}
	return &countingHasher{Hasher: h}
}

func newTestCodec(t *testing.T) *auth.Codec {
	t.Helper()
	c, err := auth.NewCodec([]byte("test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

type countingHasher struct {
	cryptox.Hasher
	verifies atomic.Int32
}

func (h *countingHasher) Verify(secret, hashed string) bool {
	h.verifies.Add(1)
	return h.Hasher.Verify(secret, hashed)
}

// --- repository manager ---

type fakeRepoManager struct {
	accounts    *fakeAccounts
	cards       *fakeCards
	adminConfig *fakeAdminConfig
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		accounts:    &fakeAccounts{byID: map[int64]models.Account{}},
		cards:       &fakeCards{},
		adminConfig: &fakeAdminConfig{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository        { return m.accounts }
func (m *fakeRepoManager) Cards(dbx.DBTX) cards.Repository              { return m.cards }
func (m *fakeRepoManager) AdminConfig(dbx.DBTX) adminconfig.Repository  { return m.adminConfig }

// --- accounts ---

type fakeAccounts struct {
	mu     sync.Mutex
	byID   map[int64]models.Account
	nextID int64
}

func (f *fakeAccounts) emailTaken(email string, except int64) bool {
	for id, a := range f.byID {
		if a.Email == email && id != except {
			return true
		}
	}
	return false
}

func (f *fakeAccounts) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emailTaken(a.Email, 0) {
		return nil, common.ErrorAlreadyExists
	}
	f.nextID++
	a.ID = f.nextID
	a.CreatedAt = time.Now()
	f.byID[a.ID] = *a
	return a, nil
}

func (f *fakeAccounts) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccounts) FindByID(_ context.Context, id int64) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (f *fakeAccounts) Update(_ context.Context, a *models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[a.ID]; !ok {
		return common.ErrorNotFound
	}
	if f.emailTaken(a.Email, a.ID) {
		return common.ErrorAlreadyExists
	}
	f.byID[a.ID] = *a
	return nil
}

func (f *fakeAccounts) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeAccounts) List(context.Context) ([]models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Account, 0, len(f.byID))
	for _, a := range f.byID {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b models.Account) int { return int(a.ID - b.ID) })
	return out, nil
}

// --- cards ---

type fakeCards struct {
	mu     sync.Mutex
	list   []models.Card
	nextID int64

	counts   int
	findByID int
	// atOffset overrides FindAtOffset when set
	atOffset func(offset int) (*models.Card, error)
}

func (f *fakeCards) add(c models.Card) models.Card {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c.ID = f.nextID
	f.list = append(f.list, c)
	return c
}

func (f *fakeCards) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts++
	return len(f.list), nil
}

func (f *fakeCards) FindAtOffset(_ context.Context, offset int) (*models.Card, error) {
	if f.atOffset != nil {
		return f.atOffset(offset)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if offset < 0 || offset >= len(f.list) {
		return nil, common.ErrorNotFound
	}
	c := f.list[offset]
	return &c, nil
}

func (f *fakeCards) FindByID(_ context.Context, id int64) (*models.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findByID++
	for _, c := range f.list {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeCards) List(context.Context) ([]models.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.list), nil
}

func (f *fakeCards) Create(_ context.Context, c *models.Card) (*models.Card, error) {
	added := f.add(*c)
	return &added, nil
}

func (f *fakeCards) Update(_ context.Context, c *models.Card) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.list {
		if f.list[i].ID == c.ID {
			f.list[i] = *c
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeCards) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.list {
		if f.list[i].ID == id {
			f.list = slices.Delete(f.list, i, i+1)
			return nil
		}
	}
	return common.ErrorNotFound
}

// --- admin config ---

// fakeAdminConfig behaves like the primary-key guarded table: at most one
// row, and concurrent inserts past the first are no-ops.
type fakeAdminConfig struct {
	mu      sync.Mutex
	row     *models.AdminConfig
	inserts int
}

func (f *fakeAdminConfig) Get(context.Context) (*models.AdminConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.row == nil {
		return nil, common.ErrorNotFound
	}
	c := *f.row
	return &c, nil
}

func (f *fakeAdminConfig) CreateIfAbsent(_ context.Context, hash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.row != nil {
		return false, nil
	}
	f.inserts++
	f.row = &models.AdminConfig{ID: models.AdminConfigID, AdminKeyHash: hash, UpdatedAt: time.Now()}
	return true, nil
}

func (f *fakeAdminConfig) UpdateHash(_ context.Context, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.row == nil {
		return common.ErrorNotFound
	}
	f.row.AdminKeyHash = hash
	f.row.UpdatedAt = time.Now()
	return nil
}
