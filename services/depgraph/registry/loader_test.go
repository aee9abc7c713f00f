// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package registry

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSpecFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoader_LoadDir(t *testing.T) {
	dir := t.TempDir()
	writeSpecFile(t, dir, "api.yaml", "name: api\nupstream:\n  - core\n")
	writeSpecFile(t, dir, "core.yml", "name: core\ndisplay_name: Core Library\n")
	writeSpecFile(t, dir, "notes.txt", "not a spec")
	writeSpecFile(t, dir, ".hidden.yaml", "name: hidden\n")

	store := newTestStore(t)
	loader := NewLoader(store, DefaultLoaderOptions())

	report, err := loader.LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if report.Loaded != 2 {
		t.Errorf("got Loaded %d, want 2", report.Loaded)
	}
	if report.Skipped != 2 {
		t.Errorf("got Skipped %d, want 2", report.Skipped)
	}
	if report.Failed != 0 {
		t.Errorf("got Failed %d, want 0", report.Failed)
	}

	got, err := store.Get(context.Background(), "core")
	if err != nil {
		t.Fatalf("Get core: %v", err)
	}
	if got.DisplayName != "Core Library" {
		t.Errorf("got DisplayName %q, want Core Library", got.DisplayName)
	}
	if _, err := store.Get(context.Background(), "hidden"); err == nil {
		t.Error("dotfile spec was loaded, want skipped")
	}
}

func TestLoader_BadFilesAreCountedNotFatal(t *testing.T) {
	dir := t.TempDir()
	writeSpecFile(t, dir, "good.yaml", "name: good\n")
	writeSpecFile(t, dir, "broken.yaml", "name: [unclosed\n")
	writeSpecFile(t, dir, "invalid-name.yaml", "name: 'has spaces'\n")

	store := newTestStore(t)
	loader := NewLoader(store, DefaultLoaderOptions())

	report, err := loader.LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if report.Loaded != 1 {
		t.Errorf("got Loaded %d, want 1", report.Loaded)
	}
	if report.Failed != 2 {
		t.Errorf("got Failed %d, want 2", report.Failed)
	}

	if _, err := store.Get(context.Background(), "good"); err != nil {
		t.Errorf("good spec missing after load: %v", err)
	}
}

func TestLoader_UnknownFieldsRejected(t *testing.T) {
	dir := t.TempDir()
	writeSpecFile(t, dir, "typo.yaml", "name: typo\nupstraem:\n  - core\n")

	store := newTestStore(t)
	loader := NewLoader(store, DefaultLoaderOptions())

	report, err := loader.LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if report.Failed != 1 {
		t.Errorf("got Failed %d, want 1 (misspelled field should fail strict decode)", report.Failed)
	}
}

func TestLoader_OversizeFileFails(t *testing.T) {
	dir := t.TempDir()
	writeSpecFile(t, dir, "big.yaml", "name: big\n# "+strings.Repeat("x", 64)+"\n")

	store := newTestStore(t)
	opts := DefaultLoaderOptions()
	opts.MaxFileBytes = 16
	loader := NewLoader(store, opts)

	report, err := loader.LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if report.Failed != 1 {
		t.Errorf("got Failed %d, want 1", report.Failed)
	}
}

func TestLoader_EmptyDir(t *testing.T) {
	store := newTestStore(t)
	loader := NewLoader(store, DefaultLoaderOptions())

	report, err := loader.LoadDir(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if report.Loaded != 0 || report.Skipped != 0 || report.Failed != 0 {
		t.Errorf("got %+v, want empty report", report)
	}
}

func TestIsSpecFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"api.yaml", true},
		{"api.yml", true},
		{"api.YAML", true},
		{"api.json", false},
		{"api.yaml.bak", false},
		{".api.yaml", false},
		{"README.md", false},
	}
	for _, tt := range tests {
		if got := isSpecFile(tt.name); got != tt.want {
			t.Errorf("isSpecFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
