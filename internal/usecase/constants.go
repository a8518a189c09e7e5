package usecase

import "time"

const (
	// DefaultPageSize applies when a list request does not specify a limit.
	DefaultPageSize = 20

	// MaxPageSize bounds list requests.
	MaxPageSize = 100

	// PartyCacheTTL is how long a cached party read stays valid. Every
	// recalculation commit invalidates the key, so the TTL only backstops
	// missed invalidations.
	PartyCacheTTL = 5 * time.Minute
)
