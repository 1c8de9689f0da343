// Package testutil provides common utility functions for testing.
package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/iwvelando/dac-optimizer/internal/render"
)

// RecordingRenderer captures render requests instead of drawing them.
type RecordingRenderer struct {
	mu       sync.Mutex
	Requests []render.Request
	// Err, when set, is returned from every Render call.
	Err error
}

// Render records req.
func (r *RecordingRenderer) Render(req render.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Requests = append(r.Requests, req)
	return r.Err
}

// FindRequest returns the first recorded request for path, or nil.
func (r *RecordingRenderer) FindRequest(path string) *render.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Requests {
		if r.Requests[i].Path == path {
			return &r.Requests[i]
		}
	}
	return nil
}

// WriteConfig writes contents to a config.yaml in a temporary directory and
// returns its path.
func WriteConfig(t testing.TB, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}
