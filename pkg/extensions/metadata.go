// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extensions

// Metadata is the detail bag on an AuditEvent. The fluent Set keeps
// event construction compact and the typed getters save consumers the
// assertion dance:
//
//	event.Metadata = NewMetadata().
//		Set("seed_count", len(seeds)).
//		Set("generation", generation)
type Metadata map[string]any

// NewMetadata returns an empty, non-nil Metadata.
func NewMetadata() Metadata {
	return Metadata{}
}

// Set stores a value and returns the map for chaining.
func (m Metadata) Set(key string, value any) Metadata {
	m[key] = value
	return m
}

// GetString returns the string under key, or "" if absent or not a
// string.
func (m Metadata) GetString(key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// GetInt returns the int under key, or 0 if absent or not an int.
func (m Metadata) GetInt(key string) int {
	if v, ok := m[key].(int); ok {
		return v
	}
	return 0
}

// GetUint64 returns the uint64 under key, or 0 if absent or not a
// uint64.
func (m Metadata) GetUint64(key string) uint64 {
	if v, ok := m[key].(uint64); ok {
		return v
	}
	return 0
}
