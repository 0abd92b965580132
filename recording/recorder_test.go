// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/layertree/graphics"
)

func TestNewRecorder(t *testing.T) {
	rec := NewRecorder(800, 600)

	if rec.Width() != 800 {
		t.Errorf("Width() = %d, want 800", rec.Width())
	}
	if rec.Height() != 600 {
		t.Errorf("Height() = %d, want 600", rec.Height())
	}
	if got := len(rec.FinishRecording().Commands()); got != 0 {
		t.Errorf("new recorder has %d commands, want 0", got)
	}
}

func TestRecorderCommands(t *testing.T) {
	rec := NewRecorder(100, 100)
	rec.Save()
	rec.Translate(10, 20)
	rec.ClipRect(graphics.NewRect(0, 0, 50, 50))
	rec.BeginTransparencyLayer(0.5, graphics.BlendMultiply)
	rec.FillRect(graphics.NewRect(1, 2, 3, 4), color.RGBA{R: 255, A: 255})
	rec.EndTransparencyLayer()
	rec.Restore()

	want := []Command{
		SaveCommand{},
		TranslateCommand{DX: 10, DY: 20},
		ClipRectCommand{Rect: graphics.NewRect(0, 0, 50, 50)},
		BeginTransparencyLayerCommand{Opacity: 0.5, Mode: graphics.BlendMultiply},
		FillRectCommand{Rect: graphics.NewRect(1, 2, 3, 4), Color: color.RGBA{R: 255, A: 255}},
		EndTransparencyLayerCommand{},
		RestoreCommand{},
	}
	if diff := cmp.Diff(want, rec.FinishRecording().Commands()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestRecorderDropsNoops(t *testing.T) {
	rec := NewRecorder(10, 10)
	rec.Restore()
	rec.EndTransparencyLayer()
	rec.Translate(0, 0)
	rec.ConcatCTM(graphics.Identity())

	if got := len(rec.FinishRecording().Commands()); got != 0 {
		t.Errorf("got %d commands, want 0", got)
	}
}

func TestRecorderDropsEmptySaveBlocks(t *testing.T) {
	rec := NewRecorder(100, 100)
	fill := graphics.NewRect(1, 1, 2, 2)
	rec.Save()
	rec.ClipRect(graphics.NewRect(0, 0, 50, 50))
	rec.Save()
	rec.Translate(5, 5)
	rec.ClipRoundedRect(graphics.RoundedRect{Rect: graphics.NewRect(0, 0, 10, 10)})
	rec.Restore()
	rec.FillRect(fill, color.Black)
	rec.Save()
	rec.ClipRect(graphics.NewRect(0, 0, 5, 5))
	rec.Restore()
	rec.Restore()
	rec.Save()
	rec.Save()
	rec.ClipRect(graphics.NewRect(0, 0, 5, 5))
	rec.Restore()
	rec.Restore()

	want := []Command{
		SaveCommand{},
		ClipRectCommand{Rect: graphics.NewRect(0, 0, 50, 50)},
		FillRectCommand{Rect: fill, Color: color.RGBA{A: 255}},
		RestoreCommand{},
	}
	if diff := cmp.Diff(want, rec.FinishRecording().Commands()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
	if d := rec.SaveDepth(); d != 0 {
		t.Errorf("SaveDepth() = %d, want 0", d)
	}
}

func TestRecorderKeepsEmptyGroups(t *testing.T) {
	rec := NewRecorder(10, 10)
	rec.Save()
	rec.BeginTransparencyLayer(0.5, graphics.BlendNormal)
	rec.EndTransparencyLayer()
	rec.Restore()

	if got := len(rec.FinishRecording().Commands()); got != 4 {
		t.Errorf("got %d commands, want 4", got)
	}
}

func TestRecorderDepthTracking(t *testing.T) {
	rec := NewRecorder(10, 10)
	rec.Save()
	rec.Save()
	rec.BeginTransparencyLayer(1, graphics.BlendNormal)
	if rec.SaveDepth() != 2 || rec.GroupDepth() != 1 {
		t.Fatalf("depths = %d/%d, want 2/1", rec.SaveDepth(), rec.GroupDepth())
	}
	rec.EndTransparencyLayer()
	rec.Restore()
	rec.Restore()
	if rec.SaveDepth() != 0 || rec.GroupDepth() != 0 {
		t.Errorf("depths = %d/%d, want 0/0", rec.SaveDepth(), rec.GroupDepth())
	}
}

func TestRecordingString(t *testing.T) {
	rec := NewRecorder(10, 10)
	rec.Save()
	rec.ClipRect(graphics.NewRect(0, 0, 5, 5))
	rec.FillRect(graphics.NewRect(0, 0, 1, 1), color.Black)
	rec.Restore()

	want := "Save\n  ClipRect(0,0 5x5)\n  FillRect(0,0 1x1) #000000ff\nRestore\n"
	if got := rec.FinishRecording().String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestRecordingFilter(t *testing.T) {
	rec := NewRecorder(10, 10)
	rec.Save()
	rec.FillRect(graphics.NewRect(0, 0, 1, 1), color.Black)
	rec.StrokeRect(graphics.NewRect(0, 0, 1, 1), color.Black, 1)
	rec.Restore()

	got := rec.FinishRecording().Filter(CmdFillRect, CmdStrokeRect)
	if len(got) != 2 {
		t.Fatalf("Filter returned %d commands, want 2", len(got))
	}
	if got[0].Type() != CmdFillRect || got[1].Type() != CmdStrokeRect {
		t.Errorf("Filter order = %v, %v", got[0].Type(), got[1].Type())
	}
}

func TestRecordingImages(t *testing.T) {
	rec := NewRecorder(10, 10)
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	rec.DrawImage(img, graphics.NewRect(0, 0, 4, 4))

	r := rec.FinishRecording()
	cmd, ok := r.Commands()[0].(DrawImageCommand)
	if !ok {
		t.Fatalf("command is %T, want DrawImageCommand", r.Commands()[0])
	}
	if r.Image(cmd.Image) != img {
		t.Error("pooled image does not match")
	}
	if r.Image(99) != nil {
		t.Error("out of range ref should return nil")
	}
}

func TestRecordingReplay(t *testing.T) {
	src := NewRecorder(10, 10)
	src.Save()
	src.ConcatCTM(graphics.Scale(2, 2))
	src.ClipRoundedRect(graphics.RoundedRect{Rect: graphics.NewRect(0, 0, 4, 4)})
	src.StrokeRect(graphics.NewRect(0, 0, 4, 4), color.White, 2)
	src.Restore()
	first := src.FinishRecording()

	dst := NewRecorder(10, 10)
	first.Replay(dst)

	if diff := cmp.Diff(first.Commands(), dst.FinishRecording().Commands()); diff != "" {
		t.Errorf("replay mismatch (-want +got):\n%s", diff)
	}
}

func TestCommandTypeString(t *testing.T) {
	if CmdBeginTransparencyLayer.String() != "BeginTransparencyLayer" {
		t.Errorf("got %q", CmdBeginTransparencyLayer.String())
	}
	if !strings.HasPrefix(CommandType(200).String(), "Unknown") {
		t.Errorf("got %q for out-of-range type", CommandType(200).String())
	}
}
