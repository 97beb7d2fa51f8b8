package utils

import (
	"io"

	"github.com/MrSnakeDoc/klotho/internal/logger"
)

// MustClose closes c and logs any error under the given name.
// Use for shutdown paths where the error cannot be acted upon.
func MustClose(c io.Closer, name string, log logger.Logger) {
	if err := c.Close(); err != nil {
		log.Warn("failed to close",
			logger.String("resource", name),
			logger.Error(err))
	}
}
