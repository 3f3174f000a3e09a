package status

import "time"

// SyncStatus is the sync state of a single category. It only exists once a
// refresh of the category has succeeded.
type SyncStatus struct {
	// LastSyncTime is the instant of the last successful remote refresh
	LastSyncTime time.Time `json:"lastSyncTime"`

	// ItemCount is the number of records written by that refresh
	ItemCount int `json:"itemCount"`

	// Generation identifies the refresh cycle that wrote the current records
	Generation string `json:"generation,omitempty"`
}

// Copy returns a shallow copy of the status, or nil for a nil receiver
func (s *SyncStatus) Copy() *SyncStatus {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
