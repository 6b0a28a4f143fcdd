package main

import (
	"bytes"
	"io"
	"log"
	"strings"
	"testing"
)

func TestRunBoundedPrintsSummary(t *testing.T) {
	scene, err := load("landing", "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	scene.SetLogger(log.New(io.Discard, "", 0))

	var out bytes.Buffer
	if err := runBounded(scene, 30, &out); err != nil {
		t.Fatalf("runBounded: %v", err)
	}
	text := out.String()
	if !strings.HasPrefix(text, "scenario landing: 30 steps") {
		t.Fatalf("summary = %q", text)
	}
	for _, name := range []string{"ground", "ball"} {
		if !strings.Contains(text, name) {
			t.Fatalf("summary missing %s: %q", name, text)
		}
	}
}

func TestLoadMissingSettings(t *testing.T) {
	if _, err := load("landing", "does/not/exist.yaml"); err == nil {
		t.Fatalf("missing settings file should fail")
	}
}
