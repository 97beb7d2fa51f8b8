package yamlfile

import "time"

// Entry is one bookmark in an import or export file.
//
// Imports only read title, url and description. Exports also carry the
// id and timestamps so a dump can be audited, but they are ignored on
// re-import: the store always assigns fresh ones.
type Entry struct {
	ID          int64      `yaml:"id,omitempty"`
	Title       string     `yaml:"title"`
	URL         string     `yaml:"url,omitempty"`
	Description string     `yaml:"description,omitempty"`
	CreatedAt   *time.Time `yaml:"created_at,omitempty"`
	UpdatedAt   *time.Time `yaml:"updated_at,omitempty"`
}

// Document is the root of a bookmarks file: a plain YAML sequence.
//
//	- title: Go
//	  url: https://go.dev
//	  description: The Go programming language
type Document []Entry
