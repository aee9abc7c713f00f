// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package depgraph

import (
	"errors"
	"fmt"
)

// Service errors. Handlers map these onto HTTP status codes.
var (
	// ErrNotReady means no graph snapshot has been published yet.
	ErrNotReady = errors.New("graph not ready")

	// ErrNoSeeds means a component query named no seed projects.
	ErrNoSeeds = errors.New("no seed projects given")

	// ErrSeedReadDenied means the actor may not read one of the seeds.
	ErrSeedReadDenied = errors.New("seed read denied")

	// ErrTooManySeeds means a component query exceeded the seed limit.
	ErrTooManySeeds = errors.New("too many seed projects")
)

// UnknownSeedError reports a seed name that resolved to no project in the
// current graph.
type UnknownSeedError struct {
	Seed string
}

// Error implements the error interface.
func (e *UnknownSeedError) Error() string {
	return fmt.Sprintf("unknown seed project: %s", e.Seed)
}
