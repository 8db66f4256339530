package domain

import (
	"errors"
	"testing"
)

func TestValidateBatchSelection(t *testing.T) {
	entry := func(id, company string, kind EntryKind, counterparty string) *Entry {
		return &Entry{ID: id, CompanyID: company, Kind: kind, CounterpartyID: counterparty}
	}

	tests := []struct {
		name      string
		companyID string
		ids       []string
		entries   []*Entry
		wantErr   error
	}{
		{
			name: "payables of several suppliers",
			ids:  []string{"a", "b"},
			entries: []*Entry{
				entry("a", "c1", EntryKindPayable, "s1"),
				entry("b", "c1", EntryKindPayable, "s2"),
			},
		},
		{
			name:      "receivables of one customer",
			companyID: "c1",
			ids:       []string{"a", "b"},
			entries: []*Entry{
				entry("a", "c1", EntryKindReceivable, "k1"),
				entry("b", "c1", EntryKindReceivable, "k1"),
			},
		},
		{
			name:    "no ids",
			wantErr: ErrNoEntries,
		},
		{
			name:    "unknown id",
			ids:     []string{"a", "z"},
			entries: []*Entry{entry("a", "c1", EntryKindPayable, "s1")},
			wantErr: ErrEntryNotFound,
		},
		{
			name:      "requested company differs",
			companyID: "c2",
			ids:       []string{"a"},
			entries:   []*Entry{entry("a", "c1", EntryKindPayable, "s1")},
			wantErr:   ErrCompanyMismatch,
		},
		{
			name: "two companies",
			ids:  []string{"a", "b"},
			entries: []*Entry{
				entry("a", "c1", EntryKindPayable, "s1"),
				entry("b", "c2", EntryKindPayable, "s1"),
			},
			wantErr: ErrCompanyMismatch,
		},
		{
			name: "mixed kinds",
			ids:  []string{"a", "b"},
			entries: []*Entry{
				entry("a", "c1", EntryKindPayable, "s1"),
				entry("b", "c1", EntryKindReceivable, "s1"),
			},
			wantErr: ErrKindMismatch,
		},
		{
			name: "receivables of two customers",
			ids:  []string{"a", "b"},
			entries: []*Entry{
				entry("a", "c1", EntryKindReceivable, "k1"),
				entry("b", "c1", EntryKindReceivable, "k2"),
			},
			wantErr: ErrCounterpartyMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBatchSelection(tt.companyID, tt.ids, tt.entries)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, ErrValidation) && !errors.Is(err, ErrNotFound) {
				t.Errorf("error %v is not classified", err)
			}
		})
	}
}
