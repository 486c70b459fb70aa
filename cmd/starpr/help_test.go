// ABOUTME: Tests for the starpr CLI help display covering usage, flags, and environment status.
// ABOUTME: Verifies the creator code value never appears in help output.
package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintHelpContainsProjectNameAndVersion(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "1.2.3")
	out := buf.String()

	if !strings.Contains(out, "starpr") {
		t.Error("expected help output to contain project name 'starpr'")
	}
	if !strings.Contains(out, "1.2.3") {
		t.Error("expected help output to contain version '1.2.3'")
	}
}

func TestPrintHelpContainsAllFlags(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "dev")
	out := buf.String()

	flags := []string{
		"-port",
		"-addr",
		"-max-sessions",
		"-session-ttl",
		"-data-dir",
		"-store",
		"-config",
		"-content",
		"-version",
	}
	for _, f := range flags {
		if !strings.Contains(out, f) {
			t.Errorf("expected help to contain flag %q", f)
		}
	}
}

func TestPrintHelpHasSections(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "dev")
	out := buf.String()

	for _, s := range []string{"Usage:", "Server Flags:", "Storage Flags:", "Content Flags:", "Examples:", "Environment:"} {
		if !strings.Contains(out, s) {
			t.Errorf("expected help to contain section %q", s)
		}
	}
}

func TestEnvStatusHidesCreatorCode(t *testing.T) {
	t.Setenv(envCreatorCode, "super-secret-code")
	t.Setenv(envBind, "0.0.0.0")

	lines := strings.Join(envStatus(), "\n")
	if strings.Contains(lines, "super-secret-code") {
		t.Fatalf("envStatus leaked the creator code:\n%s", lines)
	}
	if !strings.Contains(lines, envCreatorCode) || !strings.Contains(lines, "set") {
		t.Errorf("expected creator code to be reported as set:\n%s", lines)
	}
	if !strings.Contains(lines, "0.0.0.0") {
		t.Errorf("expected bind host to be shown:\n%s", lines)
	}
}

func TestEnvStatusReportsNotSet(t *testing.T) {
	t.Setenv(envCreatorCode, "")
	t.Setenv(envBind, "")

	for _, line := range envStatus() {
		if !strings.HasSuffix(line, "not set") {
			t.Errorf("expected %q to report not set", line)
		}
	}
}
