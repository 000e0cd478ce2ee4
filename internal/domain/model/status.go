package model

import "fmt"

// Status is a purchase order lifecycle state identified by a stable ordinal.
type Status int16

const (
	StatusDraft             Status = 1
	StatusCanceled          Status = 2
	StatusOrdered           Status = 3
	StatusWaitsForPayment   Status = 4
	StatusInProgress        Status = 5
	StatusComingToStorage   Status = 6
	StatusReceivedPartially Status = 7
	StatusReceivedToStock   Status = 8
	StatusDeleted           Status = 9
)

// StatusInfo describes catalogue entry for a status.
type StatusInfo struct {
	ID          Status
	Name        string
	Description string
}

var statusCatalogue = []StatusInfo{
	{StatusDraft, "draft", "Draft"},
	{StatusCanceled, "canceled", "Canceled"},
	{StatusOrdered, "ordered", "Ordered"},
	{StatusWaitsForPayment, "waits_for_payment", "Waits for payment"},
	{StatusInProgress, "in_progress", "In progress"},
	{StatusComingToStorage, "coming_to_storage", "Coming to storage"},
	{StatusReceivedPartially, "received_partially", "Received partially"},
	{StatusReceivedToStock, "received_to_stock", "Received to stock"},
	{StatusDeleted, "deleted", "Deleted"},
}

// Statuses returns the closed status catalogue ordered by ordinal.
func Statuses() []StatusInfo {
	out := make([]StatusInfo, len(statusCatalogue))
	copy(out, statusCatalogue)
	return out
}

// Valid reports whether status belongs to the catalogue.
func (s Status) Valid() bool {
	return s >= StatusDraft && s <= StatusDeleted
}

// String returns status name.
func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("status(%d)", int16(s))
	}
	return statusCatalogue[s-1].Name
}

// Description returns human readable label.
func (s Status) Description() string {
	if !s.Valid() {
		return ""
	}
	return statusCatalogue[s-1].Description
}

// ParseStatus resolves status by its name.
func ParseStatus(name string) (Status, bool) {
	for _, info := range statusCatalogue {
		if info.Name == name {
			return info.ID, true
		}
	}
	return 0, false
}

// Archived reports whether orders in the status are read-only for owners.
func (s Status) Archived() bool {
	return s == StatusCanceled || s == StatusReceivedToStock
}

// Order list tabs.
const (
	TabActive  = "active"
	TabDraft   = "draft"
	TabArchive = "archive"
)

var tabStatuses = map[string][]Status{
	TabActive: {
		StatusOrdered,
		StatusWaitsForPayment,
		StatusInProgress,
		StatusComingToStorage,
		StatusReceivedPartially,
	},
	TabDraft:   {StatusDraft},
	TabArchive: {StatusCanceled, StatusReceivedToStock},
}

// TabStatuses returns statuses listed under tab.
func TabStatuses(tab string) ([]Status, bool) {
	statuses, ok := tabStatuses[tab]
	if !ok {
		return nil, false
	}
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out, true
}
