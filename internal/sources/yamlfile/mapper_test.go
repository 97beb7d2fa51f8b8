package yamlfile

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/klotho/internal/domain"
)

func TestToCreateRequests(t *testing.T) {
	doc := Document{
		{Title: " Go ", URL: " https://go.dev ", Description: "lang"},
		{Title: "Bare"},
	}

	reqs, err := ToCreateRequests(doc)
	if err != nil {
		t.Fatalf("ToCreateRequests() error = %v", err)
	}
	if len(reqs) != 2 {
		t.Fatalf("got %d requests, want 2", len(reqs))
	}
	if reqs[0].Title != "Go" || reqs[0].URL == nil || *reqs[0].URL != "https://go.dev" || *reqs[0].Description != "lang" {
		t.Errorf("reqs[0] = %+v", reqs[0])
	}
	if reqs[1].URL != nil || reqs[1].Description != nil {
		t.Errorf("reqs[1] should have no optional fields: %+v", reqs[1])
	}
}

func TestToCreateRequestsRejectsMissingTitles(t *testing.T) {
	doc := Document{{Title: "ok"}, {URL: "https://a"}, {Title: "  "}}

	_, err := ToCreateRequests(doc)
	if err == nil {
		t.Fatal("ToCreateRequests() should fail")
	}
	if !errors.Is(err, domain.ErrTitleRequired) {
		t.Errorf("error = %v, want ErrTitleRequired", err)
	}
	for _, want := range []string{"entry 2", "entry 3"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}
}

func TestWriteThenLoad(t *testing.T) {
	url := "https://go.dev"
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	bookmarks := []domain.Bookmark{
		{ID: 1, Title: "Go", URL: &url, CreatedAt: created, UpdatedAt: created},
		{ID: 2, Title: "Notes", CreatedAt: created, UpdatedAt: created.Add(time.Hour)},
	}

	var buf bytes.Buffer
	if err := Write(&buf, bookmarks); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	doc, err := NewLoader("").Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse() error = %v\n%s", err, buf.String())
	}
	if len(doc) != 2 || doc[0].ID != 1 || doc[0].URL != url || doc[1].Description != "" {
		t.Fatalf("round trip = %+v", doc)
	}
	if !doc[1].UpdatedAt.Equal(created.Add(time.Hour)) {
		t.Errorf("updated_at = %v, want %v", doc[1].UpdatedAt, created.Add(time.Hour))
	}

	reqs, err := ToCreateRequests(doc)
	if err != nil || len(reqs) != 2 {
		t.Fatalf("re-import = %v, %v", reqs, err)
	}
}
