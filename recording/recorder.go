// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import (
	"image"
	"image/color"
	"strings"

	"github.com/gogpu/layertree/graphics"
)

// Recorder captures graphics.Context calls as commands.
// Use FinishRecording to obtain an immutable Recording that can be
// inspected or replayed to different backends.
//
// Example:
//
//	rec := recording.NewRecorder(800, 600)
//	tree.Paint(rec, graphics.NewRect(0, 0, 800, 600))
//	r := rec.FinishRecording()
//
// The Recorder is not safe for concurrent use.
type Recorder struct {
	width, height int
	commands      []Command
	images        []image.Image

	// saves holds the command index of each unmatched Save.
	saves      []int
	groupDepth int
}

var _ graphics.Context = (*Recorder)(nil)

// NewRecorder creates a new Recorder for the given dimensions.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{
		width:    width,
		height:   height,
		commands: make([]Command, 0, 256),
	}
}

// Width returns the width of the recording canvas.
func (r *Recorder) Width() int {
	return r.width
}

// Height returns the height of the recording canvas.
func (r *Recorder) Height() int {
	return r.height
}

// SaveDepth returns the number of unmatched Save calls.
func (r *Recorder) SaveDepth() int {
	return len(r.saves)
}

// GroupDepth returns the number of open transparency layers.
func (r *Recorder) GroupDepth() int {
	return r.groupDepth
}

// FinishRecording returns an immutable Recording containing all recorded
// commands. After calling FinishRecording, the Recorder should not be used
// again.
func (r *Recorder) FinishRecording() *Recording {
	return &Recording{
		width:    r.width,
		height:   r.height,
		commands: r.commands,
		images:   r.images,
	}
}

// Save records a state push.
func (r *Recorder) Save() {
	r.saves = append(r.saves, len(r.commands))
	r.commands = append(r.commands, SaveCommand{})
}

// Restore records a state pop. Unbalanced calls are ignored. A Save whose
// block only changed state is dropped together with that state.
func (r *Recorder) Restore() {
	if len(r.saves) == 0 {
		return
	}
	start := r.saves[len(r.saves)-1]
	r.saves = r.saves[:len(r.saves)-1]
	if onlyState(r.commands[start+1:]) {
		r.commands = r.commands[:start]
		return
	}
	r.commands = append(r.commands, RestoreCommand{})
}

// onlyState reports whether cmds change the state without drawing.
func onlyState(cmds []Command) bool {
	for _, c := range cmds {
		switch c.Type() {
		case CmdTranslate, CmdConcatCTM, CmdClipRect, CmdClipRoundedRect:
		default:
			return false
		}
	}
	return true
}

// Translate records a translation. Zero offsets are dropped.
func (r *Recorder) Translate(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	r.commands = append(r.commands, TranslateCommand{DX: dx, DY: dy})
}

// ConcatCTM records an affine transform. The identity is dropped.
func (r *Recorder) ConcatCTM(m graphics.AffineTransform) {
	if m.IsIdentity() {
		return
	}
	r.commands = append(r.commands, ConcatCTMCommand{Transform: m})
}

// ClipRect records a rectangular clip.
func (r *Recorder) ClipRect(rect graphics.FloatRect) {
	r.commands = append(r.commands, ClipRectCommand{Rect: rect})
}

// ClipRoundedRect records a rounded clip.
func (r *Recorder) ClipRoundedRect(rect graphics.RoundedRect) {
	r.commands = append(r.commands, ClipRoundedRectCommand{Rect: rect})
}

// BeginTransparencyLayer records the start of a group.
func (r *Recorder) BeginTransparencyLayer(opacity float64, mode graphics.BlendMode) {
	r.groupDepth++
	r.commands = append(r.commands, BeginTransparencyLayerCommand{Opacity: opacity, Mode: mode})
}

// EndTransparencyLayer records the end of a group. Unbalanced calls are ignored.
func (r *Recorder) EndTransparencyLayer() {
	if r.groupDepth == 0 {
		return
	}
	r.groupDepth--
	r.commands = append(r.commands, EndTransparencyLayerCommand{})
}

// FillRect records a solid rectangle fill.
func (r *Recorder) FillRect(rect graphics.FloatRect, c color.Color) {
	r.commands = append(r.commands, FillRectCommand{Rect: rect, Color: toRGBA(c)})
}

// StrokeRect records a rectangle outline.
func (r *Recorder) StrokeRect(rect graphics.FloatRect, c color.Color, width float64) {
	r.commands = append(r.commands, StrokeRectCommand{Rect: rect, Color: toRGBA(c), Width: width})
}

// DrawImage pools img and records a draw referencing it.
func (r *Recorder) DrawImage(img image.Image, dst graphics.FloatRect) {
	// #nosec G115 -- pool size is bounded by available memory, well under uint32 max
	ref := ImageRef(uint32(len(r.images)))
	r.images = append(r.images, img)
	r.commands = append(r.commands, DrawImageCommand{Image: ref, Dst: dst})
}

func toRGBA(c color.Color) color.RGBA {
	if c == nil {
		return color.RGBA{}
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}

// Recording is an immutable container for recorded drawing commands.
type Recording struct {
	width, height int
	commands      []Command
	images        []image.Image
}

// Width returns the width of the recording canvas.
func (r *Recording) Width() int {
	return r.width
}

// Height returns the height of the recording canvas.
func (r *Recording) Height() int {
	return r.height
}

// Commands returns the recorded commands.
func (r *Recording) Commands() []Command {
	return r.commands
}

// Image returns the pooled image for ref, or nil if ref is out of range.
func (r *Recording) Image(ref ImageRef) image.Image {
	if int(ref) >= len(r.images) {
		return nil
	}
	return r.images[ref]
}

// Filter returns the commands of the given types, in recorded order.
func (r *Recording) Filter(types ...CommandType) []Command {
	var out []Command
	for _, cmd := range r.commands {
		for _, t := range types {
			if cmd.Type() == t {
				out = append(out, cmd)
				break
			}
		}
	}
	return out
}

// String renders the command list one command per line, indented by
// Save and transparency layer nesting.
func (r *Recording) String() string {
	var sb strings.Builder
	depth := 0
	for _, cmd := range r.commands {
		switch cmd.Type() {
		case CmdRestore, CmdEndTransparencyLayer:
			if depth > 0 {
				depth--
			}
		}
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(Describe(cmd))
		sb.WriteByte('\n')
		switch cmd.Type() {
		case CmdSave, CmdBeginTransparencyLayer:
			depth++
		}
	}
	return sb.String()
}

// Playback replays the recording to the given backend.
func (r *Recording) Playback(backend Backend) error {
	if err := backend.Begin(r.width, r.height); err != nil {
		return err
	}
	r.Replay(backend)
	return backend.End()
}

// Replay issues every command against ctx without any lifecycle calls.
func (r *Recording) Replay(ctx graphics.Context) {
	for _, cmd := range r.commands {
		switch c := cmd.(type) {
		case SaveCommand:
			ctx.Save()
		case RestoreCommand:
			ctx.Restore()
		case TranslateCommand:
			ctx.Translate(c.DX, c.DY)
		case ConcatCTMCommand:
			ctx.ConcatCTM(c.Transform)
		case ClipRectCommand:
			ctx.ClipRect(c.Rect)
		case ClipRoundedRectCommand:
			ctx.ClipRoundedRect(c.Rect)
		case BeginTransparencyLayerCommand:
			ctx.BeginTransparencyLayer(c.Opacity, c.Mode)
		case EndTransparencyLayerCommand:
			ctx.EndTransparencyLayer()
		case FillRectCommand:
			ctx.FillRect(c.Rect, c.Color)
		case StrokeRectCommand:
			ctx.StrokeRect(c.Rect, c.Color, c.Width)
		case DrawImageCommand:
			if img := r.Image(c.Image); img != nil {
				ctx.DrawImage(img, c.Dst)
			}
		}
	}
}
