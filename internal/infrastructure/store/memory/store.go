// Package memory is a process-local ledger store for development and tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tradebook-api/internal/domain/entity"
	"github.com/sangkips/tradebook-api/internal/domain/ledger"
	domainRepo "github.com/sangkips/tradebook-api/internal/domain/repository"
	infraRepo "github.com/sangkips/tradebook-api/internal/infrastructure/repository"
	"github.com/sangkips/tradebook-api/pkg/pagination"
)

// Store keeps entries, counterparties and idempotency keys per tenant.
// Store itself is the ledger repository; Counterparties and IdempotencyKeys
// expose the other two over the same data.
type Store struct {
	mu             sync.RWMutex
	entries        map[uuid.UUID][]ledger.Entry
	counterparties map[uuid.UUID][]entity.Counterparty
	keys           []entity.IdempotencyKey
	now            func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		entries:        make(map[uuid.UUID][]ledger.Entry),
		counterparties: make(map[uuid.UUID][]entity.Counterparty),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ domainRepo.LedgerEntryRepository = (*Store)(nil)

type counterpartyStore struct{ *Store }

type idempotencyStore struct{ *Store }

// Counterparties returns the counterparty repository backed by this store
func (s *Store) Counterparties() domainRepo.CounterpartyRepository {
	return counterpartyStore{s}
}

// IdempotencyKeys returns the idempotency repository backed by this store
func (s *Store) IdempotencyKeys() domainRepo.IdempotencyRepository {
	return idempotencyStore{s}
}

// Seed is the shape of a seed file: raw entries as the ledger API returns them
type Seed struct {
	TenantID       uuid.UUID             `json:"tenant_id"`
	Counterparties []entity.Counterparty `json:"counterparties"`
	Entries        []ledger.Entry        `json:"entries"`
}

// LoadSeedFile reads a Seed from path into the store
func (s *Store) LoadSeedFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("decode seed file: %w", err)
	}
	s.Add(seed.TenantID, seed.Entries...)
	s.mu.Lock()
	for _, c := range seed.Counterparties {
		c.TenantID = seed.TenantID
		s.counterparties[seed.TenantID] = append(s.counterparties[seed.TenantID], c)
	}
	s.mu.Unlock()
	return nil
}

// Add appends entries as-is, without assigning ids or timestamps
func (s *Store) Add(tenantID uuid.UUID, entries ...ledger.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[tenantID] = append(s.entries[tenantID], entries...)
}

func (s *Store) FetchEntries(ctx context.Context, filter domainRepo.EntryFilter) ([]ledger.Entry, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return []ledger.Entry{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ledger.Entry, 0)
	all := s.entries[tenantID]
	// newest stored first, matching the postgres store's limit semantics
	for i := len(all) - 1; i >= 0; i-- {
		e := all[i]
		if e.LedgerType != filter.LedgerType {
			continue
		}
		if filter.EntityID != "" && e.EntityID.ID != filter.EntityID {
			continue
		}
		if filter.ReferenceID != "" && e.ReferenceID.Key() != filter.ReferenceID {
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (s *Store) CreateEntry(ctx context.Context, entry ledger.Entry) (ledger.Entry, error) {
	tenantID, err := infraRepo.RequireTenant(ctx)
	if err != nil {
		return ledger.Entry{}, err
	}

	created := s.now()
	entry.ID = uuid.NewString()
	entry.CreatedAt = &created

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[tenantID] = append(s.entries[tenantID], entry)
	return entry, nil
}

func (s counterpartyStore) Create(ctx context.Context, counterparty *entity.Counterparty) error {
	tenantID, err := infraRepo.RequireTenant(ctx)
	if err != nil {
		return err
	}
	if counterparty.ID == uuid.Nil {
		counterparty.ID = uuid.New()
	}
	counterparty.TenantID = tenantID
	counterparty.CreatedAt = s.now()
	counterparty.UpdatedAt = counterparty.CreatedAt

	s.mu.Lock()
	defer s.mu.Unlock()
	s.counterparties[tenantID] = append(s.counterparties[tenantID], *counterparty)
	return nil
}

func (s counterpartyStore) GetByID(ctx context.Context, id uuid.UUID) (*entity.Counterparty, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.counterparties[tenantID] {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

func (s counterpartyStore) List(ctx context.Context, params *domainRepo.CounterpartyFilterParams) ([]entity.Counterparty, int64, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return []entity.Counterparty{}, 0, nil
	}

	s.mu.RLock()
	matched := make([]entity.Counterparty, 0)
	search := strings.ToLower(params.Search)
	for _, c := range s.counterparties[tenantID] {
		if params.Type != "" && c.Type != params.Type {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.DisplayName()), search) {
			continue
		}
		matched = append(matched, c)
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b entity.Counterparty) int {
		return strings.Compare(a.Name, b.Name)
	})

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	page, p := pagination.Page(matched, params.Pagination)
	return page, p.Total, nil
}

func (s counterpartyStore) GetNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return names, nil
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.counterparties[tenantID] {
		if _, ok := wanted[c.ID.String()]; ok {
			names[c.ID.String()] = c.DisplayName()
		}
	}
	return names, nil
}

func (s idempotencyStore) GetByKey(ctx context.Context, key string, tenantID, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, k := range s.keys {
		if k.Key == key && k.TenantID == tenantID && k.UserID == userID {
			found := k
			return &found, nil
		}
	}
	return nil, nil
}

func (s idempotencyStore) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	if ikey.ID == uuid.Nil {
		ikey.ID = uuid.New()
	}
	ikey.CreatedAt = s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range s.keys {
		if k.Key == ikey.Key && k.TenantID == ikey.TenantID && k.UserID == ikey.UserID {
			return fmt.Errorf("idempotency key %q already stored", ikey.Key)
		}
	}
	s.keys = append(s.keys, *ikey)
	return nil
}

func (s idempotencyStore) DeleteExpired(ctx context.Context) error {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = slices.DeleteFunc(s.keys, func(k entity.IdempotencyKey) bool {
		return now.After(k.ExpiresAt)
	})
	return nil
}
