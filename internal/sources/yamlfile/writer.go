package yamlfile

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/klotho/internal/domain"
)

// Write emits bookmarks in the format Loader reads.
func Write(w io.Writer, bookmarks []domain.Bookmark) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromBookmarks(bookmarks)); err != nil {
		return fmt.Errorf("failed to encode bookmarks yaml: %w", err)
	}
	return enc.Close()
}
