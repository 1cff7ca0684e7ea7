package project

// ConflictInfo describes a stale snapshot write. No error: the caller
// decides whether to retry against the current version or discard.
type ConflictInfo struct {
	BaseVersion    int64    `json:"base_version"`
	CurrentVersion int64    `json:"current_version"`
	Remote         *Project `json:"remote,omitempty"`
	Message        string   `json:"message"`
}
