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
	"errors"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewInMemoryStore()
	if err != nil {
		t.Fatalf("NewInMemoryStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	want := Spec{
		Name:        "billing-api",
		DisplayName: "Billing API",
		Labels:      map[string]string{"team": "payments"},
		Upstream:    []string{"auth-lib", "proto-gen"},
		Triggers:    []string{"billing-smoke"},
	}
	if err := store.Put(ctx, want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, "billing-api")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != want.Name || got.DisplayName != want.DisplayName {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if len(got.Upstream) != 2 || got.Upstream[0] != "auth-lib" {
		t.Errorf("upstream not preserved: %v", got.Upstream)
	}
	if got.Labels["team"] != "payments" {
		t.Errorf("labels not preserved: %v", got.Labels)
	}
	if len(got.Triggers) != 1 || got.Triggers[0] != "billing-smoke" {
		t.Errorf("triggers not preserved: %v", got.Triggers)
	}
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("got %v, want ErrProjectNotFound", err)
	}
}

func TestStore_PutRejectsInvalidSpec(t *testing.T) {
	store := newTestStore(t)

	err := store.Put(context.Background(), Spec{Name: "bad name with spaces"})
	if !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("got %v, want ErrInvalidSpec", err)
	}
}

func TestStore_PutOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, Spec{Name: "svc", DisplayName: "v1"}); err != nil {
		t.Fatalf("Put v1: %v", err)
	}
	if err := store.Put(ctx, Spec{Name: "svc", DisplayName: "v2"}); err != nil {
		t.Fatalf("Put v2: %v", err)
	}

	got, err := store.Get(ctx, "svc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.DisplayName != "v2" {
		t.Errorf("got DisplayName %q, want v2", got.DisplayName)
	}
	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("got count %d, want 1", count)
	}
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, Spec{Name: "doomed"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Delete(ctx, "doomed"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "doomed"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("got %v after delete, want ErrProjectNotFound", err)
	}
}

func TestStore_DeleteMissing(t *testing.T) {
	store := newTestStore(t)

	err := store.Delete(context.Background(), "ghost")
	if !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("got %v, want ErrProjectNotFound", err)
	}
}

func TestStore_ListSorted(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := store.Put(ctx, Spec{Name: name}); err != nil {
			t.Fatalf("Put %s: %v", name, err)
		}
	}

	specs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(specs) != 3 {
		t.Fatalf("got %d specs, want 3", len(specs))
	}
	want := []string{"alpha", "mid", "zeta"}
	for i, spec := range specs {
		if spec.Name != want[i] {
			t.Errorf("specs[%d] = %q, want %q", i, spec.Name, want[i])
		}
	}
}

func TestStore_ClosedStore(t *testing.T) {
	store := newTestStore(t)
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := store.Put(context.Background(), Spec{Name: "x"}); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Put after close: got %v, want ErrStoreClosed", err)
	}
	if _, err := store.Get(context.Background(), "x"); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Get after close: got %v, want ErrStoreClosed", err)
	}
	if _, err := store.List(context.Background()); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("List after close: got %v, want ErrStoreClosed", err)
	}
}
