package domain

import "time"

// DisplayStatus is what read paths show. It is the persisted EntryStatus plus
// the read-only Overdue projection and is never written back to storage.
type DisplayStatus string

const (
	DisplayStatusPending   DisplayStatus = "pending"
	DisplayStatusSettled   DisplayStatus = "settled"
	DisplayStatusCancelled DisplayStatus = "cancelled"
	DisplayStatusOverdue   DisplayStatus = "overdue"
)

// ParseDisplayStatus validates a status filter coming from a caller.
func ParseDisplayStatus(s string) (DisplayStatus, error) {
	switch ds := DisplayStatus(s); ds {
	case DisplayStatusPending, DisplayStatusSettled, DisplayStatusCancelled, DisplayStatusOverdue:
		return ds, nil
	}
	return "", ErrInvalidStatus
}

// DeriveStatus returns Overdue for a pending entry whose due day is before
// today, and the persisted status otherwise. Only calendar days are compared.
func DeriveStatus(status EntryStatus, dueDate, today time.Time) DisplayStatus {
	if status == EntryStatusPending && DateOf(dueDate).Before(DateOf(today)) {
		return DisplayStatusOverdue
	}
	return DisplayStatus(status)
}
