package domain

import "time"

// TenantHandle maps a client to the physical location of its isolated scan
// datastore. Handles are created lazily and idempotently: re-requesting a
// handle for the same client always yields the same location.
type TenantHandle struct {
	ClientID  string
	Path      string
	CreatedAt time.Time
}
