package testutil

import (
	"errors"
	"os"
	"testing"

	"github.com/iwvelando/dac-optimizer/internal/render"
)

func TestRecordingRenderer(t *testing.T) {
	r := &RecordingRenderer{}
	if err := r.Render(render.Request{Path: "a.png"}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if err := r.Render(render.Request{Path: "b.png", Kind: render.Line}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if len(r.Requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(r.Requests))
	}
	if req := r.FindRequest("b.png"); req == nil || req.Kind != render.Line {
		t.Errorf("FindRequest(b.png) = %+v", req)
	}
	if req := r.FindRequest("missing.png"); req != nil {
		t.Errorf("FindRequest(missing.png) = %+v, expected nil", req)
	}

	r.Err = errors.New("disk full")
	if err := r.Render(render.Request{}); !errors.Is(err, r.Err) {
		t.Errorf("Render() error = %v, expected configured error", err)
	}
}

func TestWriteConfig(t *testing.T) {
	path := WriteConfig(t, "sweep:\n  workers: 1\n")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "sweep:\n  workers: 1\n" {
		t.Errorf("unexpected contents %q", data)
	}
}
