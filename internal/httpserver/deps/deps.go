package deps

import (
	"time"

	"github.com/MrSnakeDoc/klotho/internal/logger"
	"github.com/MrSnakeDoc/klotho/internal/repository"
	"github.com/MrSnakeDoc/klotho/internal/storage"
	"github.com/MrSnakeDoc/klotho/internal/version"
)

type Deps struct {
	Logger          logger.Logger
	StartTime       time.Time
	Build           version.Info
	TimeNow         func() time.Time              // for testing, defaults to time.Now
	AllowedHosts    []string                      // Host headers allowed to access the server
	AllowedCIDRS    []string                      // IPs allowed to access the server
	TrustProxy      bool                          // true if running behind a trusted reverse proxy
	CORSOrigins     []string                      // Browser origins allowed to call the API (empty = CORS off)
	Repository      repository.BookmarkRepository // Bookmark persistence
	Storage         storage.Storage               // Attachment blobs
	MaxUploadBytes  int64                         // Upper bound for attachment bodies
	RateLimitBurst  int                           // Token bucket size for mutating routes
	RateLimitPerMin int                           // Token refill per client per minute
}

// Now returns the current time through TimeNow when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
