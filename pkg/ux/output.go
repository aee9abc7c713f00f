// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux styles terminal output for the depgraph CLI. The active
// personality level decides between styled, icon-only, and plain
// machine-parseable output; see InitPersonality.
package ux

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Aleutian palette: ocean teals plus the usual semantic colors.
var (
	colorAccent  = lipgloss.Color("#2CD7C7")
	colorSuccess = lipgloss.Color("#2CD7C7")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#2C4A54")
)

var styles = struct {
	Title     lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(colorMuted),
	Success:   lipgloss.NewStyle().Foreground(colorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(colorWarning),
	Error:     lipgloss.NewStyle().Foreground(colorError),
	Highlight: lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
}

// Icon is a status glyph used in list and file output.
type Icon string

const (
	IconSuccess  Icon = "✓"
	IconWarning  Icon = "⚠"
	IconError    Icon = "✗"
	IconPending  Icon = "○"
	IconArrow    Icon = "→"
	IconBullet   Icon = "•"
	IconAnchor   Icon = "⚓"
	IconDocument Icon = "📄"
)

// Render returns the icon colored by its meaning; neutral icons pass
// through unstyled.
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return styles.Success.Render(string(i))
	case IconWarning:
		return styles.Warning.Render(string(i))
	case IconError:
		return styles.Error.Render(string(i))
	case IconPending:
		return styles.Muted.Render(string(i))
	default:
		return string(i)
	}
}

// Title prints a styled heading. Suppressed in machine mode.
func Title(text string) {
	if CurrentPersonality() == PersonalityMachine {
		return
	}
	fmt.Println(styles.Title.Render(text))
}

// Success prints a success line, "OK: ..." in machine mode.
func Success(text string) {
	switch CurrentPersonality() {
	case PersonalityMachine:
		fmt.Fprintf(os.Stdout, "OK: %s\n", text)
	case PersonalityMinimal:
		fmt.Printf("%s %s\n", IconSuccess.Render(), text)
	default:
		fmt.Printf("%s %s\n", IconSuccess.Render(), styles.Success.Render(text))
	}
}

// Warning prints a warning line, "WARN: ..." to stderr in machine mode.
func Warning(text string) {
	switch CurrentPersonality() {
	case PersonalityMachine:
		fmt.Fprintf(os.Stderr, "WARN: %s\n", text)
	case PersonalityMinimal:
		fmt.Printf("%s %s\n", IconWarning.Render(), text)
	default:
		fmt.Printf("%s %s\n", IconWarning.Render(), styles.Warning.Render(text))
	}
}

// Error prints an error line, "ERROR: ..." to stderr in machine mode.
func Error(text string) {
	switch CurrentPersonality() {
	case PersonalityMachine:
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", text)
	case PersonalityMinimal:
		fmt.Printf("%s %s\n", IconError.Render(), text)
	default:
		fmt.Printf("%s %s\n", IconError.Render(), styles.Error.Render(text))
	}
}

// Info prints an informational line with a muted gutter mark.
func Info(text string) {
	if CurrentPersonality() == PersonalityMachine {
		fmt.Println(text)
		return
	}
	fmt.Printf("%s %s\n", styles.Muted.Render("│"), text)
}

// Muted prints secondary text. Suppressed in machine mode.
func Muted(text string) {
	if CurrentPersonality() == PersonalityMachine {
		return
	}
	fmt.Println(styles.Muted.Render(text))
}

// FileStatus prints one file with its load status. Machine mode emits
// a tab-separated status/path/reason triple.
func FileStatus(path string, status Icon, reason string) {
	switch CurrentPersonality() {
	case PersonalityMachine:
		fmt.Printf("%s\t%s\t%s\n", status, path, reason)
	case PersonalityMinimal:
		fmt.Printf("%s %s\n", status.Render(), path)
	default:
		if reason != "" {
			fmt.Printf("%s %s %s\n", status.Render(), path, styles.Muted.Render("("+reason+")"))
		} else {
			fmt.Printf("%s %s\n", status.Render(), path)
		}
	}
}

// Summary prints loaded/skipped/total counts after a batch operation.
func Summary(loaded, skipped, total int) {
	if CurrentPersonality() == PersonalityMachine {
		fmt.Printf("SUMMARY: loaded=%d skipped=%d total=%d\n", loaded, skipped, total)
		return
	}
	fmt.Printf("\n%s %s  %s %s  %s %s\n",
		styles.Success.Render(fmt.Sprintf("%d", loaded)), styles.Muted.Render("loaded"),
		styles.Warning.Render(fmt.Sprintf("%d", skipped)), styles.Muted.Render("skipped"),
		styles.Bold.Render(fmt.Sprintf("%d", total)), styles.Muted.Render("total"),
	)
}
