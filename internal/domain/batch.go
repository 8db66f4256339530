package domain

// ValidateBatchSelection checks that entries, loaded for ids, can be settled
// together: all found, one company (companyID when given), one kind and, for
// receivables, one counterparty.
func ValidateBatchSelection(companyID string, ids []string, entries []*Entry) error {
	if len(ids) == 0 {
		return ErrNoEntries
	}

	found := make(map[string]*Entry, len(entries))
	for _, e := range entries {
		found[e.ID] = e
	}

	var first *Entry
	for _, id := range ids {
		e, ok := found[id]
		if !ok {
			return ErrEntryNotFound
		}

		if companyID != "" && e.CompanyID != companyID {
			return ErrCompanyMismatch
		}

		if first == nil {
			first = e
			continue
		}

		if e.CompanyID != first.CompanyID {
			return ErrCompanyMismatch
		}
		if e.Kind != first.Kind {
			return ErrKindMismatch
		}
		if e.Kind == EntryKindReceivable && e.CounterpartyID != first.CounterpartyID {
			return ErrCounterpartyMismatch
		}
	}

	return nil
}
