// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeScene(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write scene: %v", err)
	}
	return path
}

// run executes layerdump with args and returns what it printed to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "--version")
	if err != nil {
		t.Fatalf("--version error = %v", err)
	}
	if out != Version+"\n" {
		t.Errorf("--version printed %q, want %q", out, Version+"\n")
	}
}

func TestMissingScene(t *testing.T) {
	if _, err := run(t, "tree"); !errors.Is(err, errNoScene) {
		t.Errorf("tree without scene error = %v, want %v", err, errNoScene)
	}
}

func TestTreeCommand(t *testing.T) {
	path := writeScene(t, sampleScene)
	out, err := run(t, "tree", "-s", path)
	if err != nil {
		t.Fatalf("tree error = %v", err)
	}
	for _, want := range []string{"layer#1 (view)", "layer#2 (a) normal", "(b) normal", "z=-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree output does not contain %q:\n%s", want, out)
		}
	}
}

func TestSceneFromEnvironment(t *testing.T) {
	path := writeScene(t, sampleScene)
	t.Setenv("LAYERDUMP_SCENE", path)
	if _, err := run(t, "verify"); err != nil {
		t.Errorf("verify with LAYERDUMP_SCENE error = %v", err)
	}
}

func TestVerifyCommand(t *testing.T) {
	path := writeScene(t, sampleScene)
	out, err := run(t, "verify", "-s", path)
	if err != nil {
		t.Fatalf("verify error = %v", err)
	}
	if want := "ok: 3 layers\n"; out != want {
		t.Errorf("verify printed %q, want %q", out, want)
	}
}

func TestHitCommand(t *testing.T) {
	path := writeScene(t, sampleScene)

	out, err := run(t, "hit", "-s", path, "50", "50")
	if err != nil {
		t.Fatalf("hit error = %v", err)
	}
	if !strings.HasPrefix(out, "a in ") {
		t.Errorf("hit 50,50 = %q, want a", out)
	}

	out, err = run(t, "hit", "-s", path, "500", "500")
	if err != nil {
		t.Fatalf("hit error = %v", err)
	}
	if out != "no hit\n" {
		t.Errorf("hit outside the view = %q, want no hit", out)
	}

	if _, err := run(t, "hit", "-s", path, "x", "1"); err == nil {
		t.Error("hit accepted a non-numeric coordinate")
	}
}

func TestRenderCommandListsPaint(t *testing.T) {
	path := writeScene(t, sampleScene)
	out, err := run(t, "render", "-s", path)
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if !strings.Contains(out, "FillRect") {
		t.Errorf("render output has no fills:\n%s", out)
	}
	if !strings.Contains(out, "BeginTransparencyLayer(0.5") {
		t.Errorf("render output has no transparency layer for a:\n%s", out)
	}
}

func TestRenderCommandWritesPNG(t *testing.T) {
	path := writeScene(t, sampleScene)
	img := filepath.Join(t.TempDir(), "out.png")
	if _, err := run(t, "render", "-s", path, "-o", img); err != nil {
		t.Fatalf("render error = %v", err)
	}
	f, err := os.Open(img)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if cfg.Width != 200 || cfg.Height != 100 {
		t.Errorf("image size = %dx%d, want 200x100", cfg.Width, cfg.Height)
	}
}

func TestRenderUnknownBackend(t *testing.T) {
	path := writeScene(t, sampleScene)
	img := filepath.Join(t.TempDir(), "out.png")
	if _, err := run(t, "render", "-s", path, "-o", img, "--backend", "plotter"); err == nil {
		t.Error("render accepted an unregistered backend")
	}
}

const compositedScene = `{
  "root": {
    "name": "view",
    "frame": [0, 0, 400, 300],
    "children": [
      {"name": "card", "frame": [10, 10, 100, 100],
       "style": {"position": "relative", "z": 1, "transform": [{"fn": "rotateX", "args": [30]}]}},
      {"name": "plain", "frame": [200, 10, 100, 100],
       "style": {"position": "relative", "z": 2}}
    ]
  }
}`

func TestCompositingCommand(t *testing.T) {
	path := writeScene(t, compositedScene)
	out, err := run(t, "compositing", "-s", path)
	if err != nil {
		t.Fatalf("compositing error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	var got []string
	for _, l := range lines {
		if _, rest, ok := strings.Cut(l, "("); ok {
			name, _, _ := strings.Cut(rest, ")")
			got = append(got, name)
		}
	}
	if diff := cmp.Diff([]string{"view", "card"}, got); diff != "" {
		t.Fatalf("composited layers mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(lines[1], "[3D transform]") {
		t.Errorf("card line = %q, want 3D transform reason", lines[1])
	}

	out, err = run(t, "compositing", "-s", path, "--no-3d")
	if err != nil {
		t.Fatalf("compositing --no-3d error = %v", err)
	}
	if out != "no composited layers\n" {
		t.Errorf("compositing --no-3d = %q, want none", out)
	}
}
