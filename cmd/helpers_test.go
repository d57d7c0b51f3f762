package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jirahour/config"
)

func TestParseDayRange(t *testing.T) {
	t.Parallel()

	from, to, err := parseDayRange("2026-08-03", "2026-08-07")
	if err != nil {
		t.Fatalf("parse range: %v", err)
	}
	if !from.Equal(time.Date(2026, 8, 3, 0, 0, 0, 0, time.Local)) {
		t.Fatalf("unexpected from: %v", from)
	}
	if !to.Equal(time.Date(2026, 8, 7, 0, 0, 0, 0, time.Local)) {
		t.Fatalf("unexpected to: %v", to)
	}
}

func TestParseDayRange_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		from string
		to   string
	}{
		{name: "missing from", from: "", to: "2026-08-07"},
		{name: "missing to", from: "2026-08-03", to: ""},
		{name: "bad layout", from: "03.08.2026", to: "2026-08-07"},
		{name: "inverted", from: "2026-08-07", to: "2026-08-03"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := parseDayRange(tc.from, tc.to); err == nil {
				t.Fatalf("expected error for from=%q to=%q", tc.from, tc.to)
			}
		})
	}
}

func TestResolveConfigPath(t *testing.T) {
	t.Parallel()

	if got, err := resolveConfigPath("/tmp/explicit.yaml", "/tmp/used.yaml"); err != nil || got != "/tmp/explicit.yaml" {
		t.Fatalf("flag must win: %q, %v", got, err)
	}
	if got, err := resolveConfigPath("", "/tmp/used.yaml"); err != nil || got != "/tmp/used.yaml" {
		t.Fatalf("loaded file must win over default: %q, %v", got, err)
	}

	got, err := resolveConfigPath("", "")
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if !strings.HasSuffix(got, ".jirahour.yaml") {
		t.Fatalf("unexpected default path: %q", got)
	}
}

func TestEnsureConfigFileWithTemplate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", ".jirahour.yaml")

	created, err := ensureConfigFileWithTemplate(path)
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	if !created {
		t.Fatal("expected file to be created")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read created config: %v", err)
	}
	if string(content) != config.ExampleYAML() {
		t.Fatal("created file must hold the example template")
	}

	created, err = ensureConfigFileWithTemplate(path)
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if created {
		t.Fatal("existing file must not be overwritten")
	}
}
