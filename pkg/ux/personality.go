// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// PersonalityLevel controls how chatty and decorated CLI output is.
type PersonalityLevel string

const (
	// PersonalityFull enables colors, icons, and styled text.
	PersonalityFull PersonalityLevel = "full"

	// PersonalityMinimal keeps icons but drops color styling.
	PersonalityMinimal PersonalityLevel = "minimal"

	// PersonalityMachine emits plain tab- and key=value-oriented text
	// for scripts to parse.
	PersonalityMachine PersonalityLevel = "machine"
)

var (
	personalityMu sync.RWMutex
	personality   = PersonalityFull
)

// CurrentPersonality returns the active output level.
func CurrentPersonality() PersonalityLevel {
	personalityMu.RLock()
	defer personalityMu.RUnlock()
	return personality
}

// SetPersonalityLevel sets the active output level.
func SetPersonalityLevel(level PersonalityLevel) {
	personalityMu.Lock()
	defer personalityMu.Unlock()
	personality = level
}

// ParsePersonalityLevel maps a flag or env value to a level. Unknown
// values fall back to full.
func ParsePersonalityLevel(s string) PersonalityLevel {
	switch strings.ToLower(s) {
	case "minimal", "min", "m":
		return PersonalityMinimal
	case "machine", "quiet", "q":
		return PersonalityMachine
	default:
		return PersonalityFull
	}
}

// InitPersonality picks the level from DEPGRAPH_PERSONALITY, falling
// back to machine output when stdout is not a terminal.
func InitPersonality() {
	if env := os.Getenv("DEPGRAPH_PERSONALITY"); env != "" {
		SetPersonalityLevel(ParsePersonalityLevel(env))
		return
	}
	if !isTerminal() {
		SetPersonalityLevel(PersonalityMachine)
		return
	}
	SetPersonalityLevel(PersonalityFull)
}

func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
