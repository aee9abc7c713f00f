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
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Loader defaults.
const (
	// DefaultMaxSpecFileBytes caps individual spec files. Project
	// definitions are small; anything larger is a mistake.
	DefaultMaxSpecFileBytes = 256 * 1024

	// DefaultLoadParallelism bounds concurrent file loads.
	DefaultLoadParallelism = 4
)

// specLoadTotal counts spec file load outcomes across reloads.
var specLoadTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "depgraph_spec_load_total",
		Help: "Project spec file load outcomes, labeled by outcome (loaded, skipped, failed).",
	},
	[]string{"outcome"},
)

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	// MaxFileBytes caps the size of a single spec file.
	MaxFileBytes int64

	// Parallelism bounds how many files load concurrently.
	Parallelism int

	// Logger receives per-file warnings. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultLoaderOptions returns sensible defaults.
func DefaultLoaderOptions() LoaderOptions {
	return LoaderOptions{
		MaxFileBytes: DefaultMaxSpecFileBytes,
		Parallelism:  DefaultLoadParallelism,
	}
}

// LoadReport summarizes one directory load.
type LoadReport struct {
	// Loaded counts specs successfully validated and stored.
	Loaded int

	// Skipped counts directory entries ignored (non-YAML, dotfiles,
	// subdirectories).
	Skipped int

	// Failed counts files that could not be read, parsed, or validated.
	// Failures are logged and counted, never fatal: one bad spec must not
	// take out a reload of the rest.
	Failed int
}

// Loader reads a directory of YAML project specs into a Store.
//
// One spec per file. Decoding is strict: unknown YAML fields fail the file
// rather than silently vanishing.
type Loader struct {
	store   *Store
	options LoaderOptions
	logger  *slog.Logger
}

// NewLoader creates a Loader over the given store.
func NewLoader(store *Store, opts LoaderOptions) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = DefaultMaxSpecFileBytes
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = DefaultLoadParallelism
	}
	return &Loader{store: store, options: opts, logger: logger}
}

// isSpecFile reports whether a directory entry looks like a spec file.
func isSpecFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// LoadDir loads every spec file directly under dir into the store.
//
// Files load concurrently with bounded parallelism. Individual file
// failures are counted in the report and logged; only directory-level
// errors (unreadable dir, cancelled context) fail the call.
func (l *Loader) LoadDir(ctx context.Context, dir string) (LoadReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return LoadReport{}, fmt.Errorf("read spec directory %s: %w", dir, err)
	}

	var loaded, skipped, failed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.options.Parallelism)

	for _, entry := range entries {
		if entry.IsDir() || !isSpecFile(entry.Name()) {
			skipped.Add(1)
			specLoadTotal.WithLabelValues("skipped").Inc()
			continue
		}

		path := filepath.Join(dir, entry.Name())
		g.Go(func() error {
			if err := l.loadFile(ctx, path); err != nil {
				if ctx.Err() != nil {
					return err
				}
				l.logger.Warn("failed to load spec file",
					slog.String("path", path),
					slog.String("error", err.Error()))
				failed.Add(1)
				specLoadTotal.WithLabelValues("failed").Inc()
				return nil
			}
			loaded.Add(1)
			specLoadTotal.WithLabelValues("loaded").Inc()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return LoadReport{}, err
	}

	report := LoadReport{
		Loaded:  int(loaded.Load()),
		Skipped: int(skipped.Load()),
		Failed:  int(failed.Load()),
	}
	l.logger.Info("spec directory loaded",
		slog.String("dir", dir),
		slog.Int("loaded", report.Loaded),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed))
	return report, nil
}

// loadFile reads, decodes, validates, and stores one spec file.
func (l *Loader) loadFile(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > l.options.MaxFileBytes {
		return fmt.Errorf("%w: %s is %d bytes (max %d)", ErrSpecTooLarge, path, info.Size(), l.options.MaxFileBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var spec Spec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if err := l.store.Put(ctx, spec); err != nil {
		return fmt.Errorf("store %s: %w", path, err)
	}
	return nil
}
