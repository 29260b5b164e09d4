// internal/app/system/limits/limits.go
package limits

import "time"

// Request body size limits.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBody is the largest JSON request body any handler decodes.
	// A profile with a long bio is a few KB; entries are smaller.
	MaxJSONBody = 1 << 20 // 1 MB
)

// Write rate limit defaults. Reads are not limited.
const (
	DefaultWritesPerWindow = 30
	DefaultWriteWindow     = time.Minute
)
