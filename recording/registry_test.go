// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import (
	"errors"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/layertree/graphics"
)

// mockBackend records calls through an embedded Recorder.
type mockBackend struct {
	*Recorder
	name  string
	began bool
	ended bool
}

func newMockBackend(name string) *mockBackend {
	return &mockBackend{Recorder: NewRecorder(0, 0), name: name}
}

func (m *mockBackend) Begin(width, height int) error {
	m.began = true
	m.width, m.height = width, height
	return nil
}

func (m *mockBackend) End() error {
	m.ended = true
	return nil
}

// isolateRegistry empties the registry for one test and restores it after.
func isolateRegistry(t *testing.T) {
	t.Helper()
	registry.Lock()
	saved := registry.factories
	registry.factories = nil
	registry.Unlock()
	t.Cleanup(func() {
		registry.Lock()
		registry.factories = saved
		registry.Unlock()
	})
}

func TestRegistry(t *testing.T) {
	isolateRegistry(t)

	Register("charlie", func() Backend { return newMockBackend("c") })
	Register("alpha", func() Backend { return newMockBackend("a") })

	b, err := NewBackend("alpha")
	if err != nil {
		t.Fatalf("NewBackend(alpha) error = %v", err)
	}
	if m, ok := b.(*mockBackend); !ok || m.name != "a" {
		t.Errorf("NewBackend(alpha) = %#v, want the alpha mock", b)
	}
	if diff := cmp.Diff([]string{"alpha", "charlie"}, Backends()); diff != "" {
		t.Errorf("Backends() mismatch (-want +got):\n%s", diff)
	}

	Unregister("charlie")
	Unregister("missing")
	if IsRegistered("charlie") {
		t.Error("charlie still registered after Unregister")
	}
	if _, err := NewBackend("charlie"); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("NewBackend(charlie) error = %v, want ErrUnknownBackend", err)
	}
}

func TestRegisterPanics(t *testing.T) {
	isolateRegistry(t)
	Register("dup", func() Backend { return newMockBackend("dup") })

	tests := []struct {
		name    string
		factory BackendFactory
		backend string
	}{
		{"nil factory", nil, "nil"},
		{"duplicate", func() Backend { return newMockBackend("dup") }, "dup"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Register(%q) did not panic", tt.backend)
				}
			}()
			Register(tt.backend, tt.factory)
		})
	}
}

func TestPlaybackLifecycle(t *testing.T) {
	rec := NewRecorder(32, 16)
	rec.Save()
	rec.FillRect(graphics.NewRect(0, 0, 4, 4), color.Black)
	rec.Restore()

	mock := newMockBackend("m")
	if err := rec.FinishRecording().Playback(mock); err != nil {
		t.Fatalf("Playback: %v", err)
	}
	if !mock.began || !mock.ended {
		t.Errorf("began=%v ended=%v, want both true", mock.began, mock.ended)
	}
	if mock.width != 32 || mock.height != 16 {
		t.Errorf("Begin size = %dx%d, want 32x16", mock.width, mock.height)
	}
	if got := len(mock.FinishRecording().Commands()); got != 3 {
		t.Errorf("backend saw %d commands, want 3", got)
	}
}
