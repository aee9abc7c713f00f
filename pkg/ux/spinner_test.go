// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSpinner_MachineMode(t *testing.T) {
	withPersonality(t, PersonalityMachine)

	spin := NewSpinner("discovering modules")
	out := captureStdout(func() {
		spin.Start()
		spin.Stop()
	})
	if out != "PROGRESS: discovering modules\n" {
		t.Errorf("machine output = %q", out)
	}
}

func TestSpinner_StartStopIdempotent(t *testing.T) {
	withPersonality(t, PersonalityMachine)

	spin := NewSpinner("reloading")
	captureStdout(func() {
		spin.Start()
		spin.Start()
		spin.Stop()
		spin.Stop()
	})
}

func TestSpinner_AnimatesAndClears(t *testing.T) {
	withPersonality(t, PersonalityFull)

	spin := NewSpinner("querying component")
	out := captureStdout(func() {
		spin.Start()
		time.Sleep(200 * time.Millisecond)
		spin.Stop()
	})
	if !strings.Contains(out, "querying component") {
		t.Errorf("spinner never drew its message: %q", out)
	}
	if !strings.Contains(out, "\r\033[K") {
		t.Errorf("spinner did not clear its line: %q", out)
	}
}

func TestWithSpinner_Success(t *testing.T) {
	withPersonality(t, PersonalityMachine)

	var ran bool
	var err error
	out := captureStdout(func() {
		err = WithSpinner("applying specs", func() error {
			ran = true
			return nil
		})
	})
	if err != nil {
		t.Fatalf("WithSpinner: %v", err)
	}
	if !ran {
		t.Fatal("wrapped function never ran")
	}
	if !strings.Contains(out, "OK: applying specs") {
		t.Errorf("output = %q", out)
	}
}

func TestWithSpinner_Error(t *testing.T) {
	withPersonality(t, PersonalityMachine)

	wantErr := errors.New("connection refused")
	var err error
	errOut := captureStderr(func() {
		captureStdout(func() {
			err = WithSpinner("applying specs", func() error { return wantErr })
		})
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want the wrapped function's error", err)
	}
	if !strings.Contains(errOut, "connection refused") {
		t.Errorf("stderr = %q", errOut)
	}
}
