package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mapfield/components/mapfield"
)

type scriptedPrompts struct {
	answers  map[string]string
	confirm  bool
	messages []string
	defaults map[string]string
}

func (p *scriptedPrompts) Input(_ context.Context, cfg InputConfig) (string, error) {
	p.messages = append(p.messages, cfg.Message)
	if p.defaults == nil {
		p.defaults = map[string]string{}
	}
	p.defaults[cfg.Message] = cfg.Default
	answer, ok := p.answers[cfg.Message]
	if !ok {
		answer = cfg.Default
	}
	if cfg.Validator != nil {
		if err := cfg.Validator(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (p *scriptedPrompts) Confirm(context.Context, ConfirmConfig) (bool, error) {
	return p.confirm, nil
}

func noEnv(string) (string, bool) { return "", false }

func run(t *testing.T, deps Dependencies, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, deps, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func writeOptions(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "options.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write options: %v", err)
	}
	return path
}

func TestSettingsCommand_UsesFlagsAndOptions(t *testing.T) {
	path := writeOptions(t, "map:\n  zoom: 5\n  scrollwheel: false\n")

	out, stderr, code := run(t, Dependencies{Lookup: noEnv},
		"settings", "--options", path, "--lat", "51.5", "--lng", "-0.12", "--zoom", "9")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	want := map[string]any{"zoom": float64(9), "mapTypeId": "ROADMAP", "scrollwheel": false}
	if diff := cmp.Diff(want, payload["map"]); diff != "" {
		t.Fatalf("map mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{51.5, -0.12}, payload["coords"]); diff != "" {
		t.Fatalf("coords mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCommand_CustomMapping(t *testing.T) {
	path := writeOptions(t, strings.Join([]string{
		"show_search_box: true",
		"field_names:",
		"  Latitude: Lat",
		"  Longitude: Lng",
	}, "\n"))

	out, stderr, code := run(t, Dependencies{Lookup: noEnv},
		"render", "--options", path, "--type", "Venue", "--lat", "1.5", "--with-assets")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	for _, want := range []string{
		`name="Venue_Lat_Lng[Latitude]" value="1.5"`,
		`name="Search"`,
		`<script src="/assets/mapfield.js" defer></script>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestAssetsCommand_ResolvesKeyFromEnvironment(t *testing.T) {
	lookup := func(key string) (string, bool) {
		if key == mapfield.APIKeyEnv {
			return "env-key", true
		}
		return "", false
	}

	out, stderr, code := run(t, Dependencies{Lookup: lookup}, "assets", "--assets-path", "/static")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if !strings.Contains(out, `href="/static/mapfield.css"`) || !strings.Contains(out, "key=env-key") {
		t.Fatalf("unexpected assets output:\n%s", out)
	}
}

func TestEditCommand_SavesPromptedValues(t *testing.T) {
	prompts := &scriptedPrompts{
		answers: map[string]string{
			"Latitude":  "40.4168",
			"Longitude": "-3.7038",
			"Zoom":      "12",
		},
		confirm: true,
	}

	out, stderr, code := run(t, Dependencies{Prompts: prompts, Lookup: noEnv},
		"edit", "--lat", "51.5", "--bounds", "a,b,c,d")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}

	if diff := cmp.Diff(mapfield.LogicalNames(), prompts.messages); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
	if prompts.defaults["Latitude"] != "51.5" || prompts.defaults["Bounds"] != "a,b,c,d" {
		t.Fatalf("prompts should default to record values: %#v", prompts.defaults)
	}

	var result struct {
		Type       string         `json:"type"`
		Attributes map[string]any `json:"attributes"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	want := map[string]any{
		"Latitude":  40.4168,
		"Longitude": -3.7038,
		"Zoom":      float64(12),
		"Bounds":    "a,b,c,d",
	}
	if result.Type != "Place" {
		t.Fatalf("unexpected type: %q", result.Type)
	}
	if diff := cmp.Diff(want, result.Attributes); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestEditCommand_Discarded(t *testing.T) {
	prompts := &scriptedPrompts{confirm: false}

	out, stderr, code := run(t, Dependencies{Prompts: prompts, Lookup: noEnv}, "edit")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if out != "" {
		t.Fatalf("expected no output, got %q", out)
	}
}

func TestEditCommand_RejectsInvalidAnswer(t *testing.T) {
	prompts := &scriptedPrompts{answers: map[string]string{"Latitude": "north"}, confirm: true}

	_, stderr, code := run(t, Dependencies{Prompts: prompts, Lookup: noEnv}, "edit")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr, "invalid syntax") {
		t.Fatalf("unexpected stderr: %q", stderr)
	}
}

func TestInvalidFlagValue(t *testing.T) {
	_, stderr, code := run(t, Dependencies{Lookup: noEnv}, "settings", "--zoom", "far")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr, "flag zoom") {
		t.Fatalf("unexpected stderr: %q", stderr)
	}
}

func TestRenderCommand_HeadlessRenderer(t *testing.T) {
	out, stderr, code := run(t, Dependencies{Lookup: noEnv}, "render", "--renderer", "headless", "--lat", "2")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if doc["name"] != "Place_Latitude_Longitude" {
		t.Fatalf("unexpected document: %#v", doc)
	}
}

func TestRenderCommand_UnknownRenderer(t *testing.T) {
	_, stderr, code := run(t, Dependencies{Lookup: noEnv}, "render", "--renderer", "preact")
	if code != 1 || !strings.Contains(stderr, "not found") {
		t.Fatalf("unexpected result %d: %q", code, stderr)
	}
}
