package yamlfile

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Loader reads a bookmarks file from disk.
type Loader struct {
	filePath string
	lookup   func(string) (string, bool)
}

// NewLoader creates a loader for filePath. Placeholders such as
// {{KLOTHO_VAR_NAME}} are replaced with the matching environment variable.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
		lookup:   os.LookupEnv,
	}
}

// Load reads and parses the file.
func (l *Loader) Load() (Document, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmarks file: %w", err)
	}
	return l.Parse(data)
}

// Parse decodes raw YAML. Unknown keys are rejected so a typo such as
// "titel" does not silently drop a field.
func (l *Loader) Parse(data []byte) (Document, error) {
	data = expandVariables(data, l.lookup)
	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, nil
	}

	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse bookmarks yaml: %w", err)
	}
	return doc, nil
}

var placeholder = regexp.MustCompile(`\{\{\s*(KLOTHO_VAR_[A-Za-z0-9_]+)\s*\}\}`)

// expandVariables substitutes {{KLOTHO_VAR_*}} placeholders. Unset variables
// become an empty string.
func expandVariables(data []byte, lookup func(string) (string, bool)) []byte {
	return placeholder.ReplaceAllFunc(data, func(m []byte) []byte {
		name := placeholder.FindSubmatch(m)[1]
		v, _ := lookup(string(name))
		return []byte(v)
	})
}
