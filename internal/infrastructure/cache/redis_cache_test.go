package cache

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/tradebook-api/internal/domain/enum"
	domainRepo "github.com/sangkips/tradebook-api/internal/domain/repository"
	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	tenantID := uuid.MustParse("7f9c2ba4-e88f-4a4b-9b8e-3c3c1b7f5d10")

	tests := []struct {
		name   string
		filter domainRepo.EntryFilter
		want   string
	}{
		{
			name:   "all counterparties",
			filter: domainRepo.EntryFilter{LedgerType: enum.LedgerTypeSupplier, Limit: 1000},
			want:   "ledger:entries:7f9c2ba4-e88f-4a4b-9b8e-3c3c1b7f5d10:supplier:all:1000",
		},
		{
			name:   "one counterparty",
			filter: domainRepo.EntryFilter{LedgerType: enum.LedgerTypeBuyer, EntityID: "b1", Limit: 50},
			want:   "ledger:entries:7f9c2ba4-e88f-4a4b-9b8e-3c3c1b7f5d10:buyer:b1:50",
		},
		{
			name:   "one reference",
			filter: domainRepo.EntryFilter{LedgerType: enum.LedgerTypeSupplier, ReferenceID: "po-1"},
			want:   "ledger:entries:7f9c2ba4-e88f-4a4b-9b8e-3c3c1b7f5d10:supplier:all:0:ref:po-1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entriesKey(tenantID, tt.filter))
		})
	}

	assert.Equal(t, "ledger:entries:7f9c2ba4-e88f-4a4b-9b8e-3c3c1b7f5d10:logistics:index", indexKey(tenantID, enum.LedgerTypeLogistics))
}

func TestNoop(t *testing.T) {
	var c domainRepo.LedgerCache = Noop{}
	entries, ok, err := c.Get(context.Background(), uuid.New(), domainRepo.EntryFilter{})
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, entries)
	assert.NoError(t, c.Invalidate(context.Background(), uuid.New(), enum.LedgerTypeSupplier))
}
