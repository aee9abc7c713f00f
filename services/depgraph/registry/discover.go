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
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/modfile"
)

// DiscoverModules walks root looking for go.mod files and synthesizes a
// Spec per module found.
//
// # Description
//
// The project name is the last element of the module path. A require
// entry becomes an upstream edge only when it points at another module
// discovered in the same walk; external requires are ignored. Indirect
// requires are skipped. vendor and hidden directories are not descended
// into.
//
// # Outputs
//
//   - []Spec: one per discovered module, sorted by name.
//   - error: walk failures; unparseable go.mod files are skipped, not fatal.
func DiscoverModules(root string) ([]Spec, error) {
	type module struct {
		path     string
		requires []string
	}
	var modules []module

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if p != root && (strings.HasPrefix(name, ".") || name == "vendor" || name == "testdata") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != "go.mod" {
			return nil
		}

		data, readErr := os.ReadFile(p)
		if readErr != nil {
			return readErr
		}
		f, parseErr := modfile.Parse(p, data, nil)
		if parseErr != nil || f.Module == nil {
			return nil
		}

		m := module{path: f.Module.Mod.Path}
		for _, req := range f.Require {
			if req.Indirect {
				continue
			}
			m.requires = append(m.requires, req.Mod.Path)
		}
		modules = append(modules, m)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover modules under %s: %w", root, err)
	}

	known := make(map[string]string, len(modules))
	for _, m := range modules {
		known[m.path] = path.Base(m.path)
	}

	specs := make([]Spec, 0, len(modules))
	for _, m := range modules {
		spec := Spec{
			Name:        known[m.path],
			DisplayName: m.path,
			Labels:      map[string]string{"source": "go-module"},
		}
		for _, req := range m.requires {
			if upstream, ok := known[req]; ok && upstream != spec.Name {
				spec.Upstream = append(spec.Upstream, upstream)
			}
		}
		sort.Strings(spec.Upstream)
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })

	return specs, nil
}
