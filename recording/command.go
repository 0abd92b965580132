// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import (
	"fmt"
	"image/color"

	"github.com/gogpu/layertree/graphics"
)

// CommandType identifies the type of a command.
type CommandType uint8

const (
	// State commands
	CmdSave      CommandType = iota // Save current state
	CmdRestore                      // Restore previous state
	CmdTranslate                    // Prepend a translation
	CmdConcatCTM                    // Prepend an affine transform

	// Clip commands
	CmdClipRect        // Intersect clip with a rectangle
	CmdClipRoundedRect // Intersect clip with a rounded rectangle

	// Group commands
	CmdBeginTransparencyLayer // Start an offscreen group
	CmdEndTransparencyLayer   // Composite the innermost group

	// Drawing commands
	CmdFillRect   // Fill a rectangle
	CmdStrokeRect // Stroke a rectangle
	CmdDrawImage  // Draw a pooled image
)

var commandTypeNames = [...]string{
	CmdSave:                   "Save",
	CmdRestore:                "Restore",
	CmdTranslate:              "Translate",
	CmdConcatCTM:              "ConcatCTM",
	CmdClipRect:               "ClipRect",
	CmdClipRoundedRect:        "ClipRoundedRect",
	CmdBeginTransparencyLayer: "BeginTransparencyLayer",
	CmdEndTransparencyLayer:   "EndTransparencyLayer",
	CmdFillRect:               "FillRect",
	CmdStrokeRect:             "StrokeRect",
	CmdDrawImage:              "DrawImage",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// ImageRef is a reference to an image in the resource pool.
type ImageRef uint32

// SaveCommand saves the current transform and clip.
type SaveCommand struct{}

func (SaveCommand) Type() CommandType { return CmdSave }

// RestoreCommand restores the state saved by the matching SaveCommand.
type RestoreCommand struct{}

func (RestoreCommand) Type() CommandType { return CmdRestore }

// TranslateCommand prepends a translation.
type TranslateCommand struct {
	DX, DY float64
}

func (TranslateCommand) Type() CommandType { return CmdTranslate }

// ConcatCTMCommand prepends an affine transform.
type ConcatCTMCommand struct {
	Transform graphics.AffineTransform
}

func (ConcatCTMCommand) Type() CommandType { return CmdConcatCTM }

// ClipRectCommand intersects the clip with a rectangle in user space.
type ClipRectCommand struct {
	Rect graphics.FloatRect
}

func (ClipRectCommand) Type() CommandType { return CmdClipRect }

// ClipRoundedRectCommand intersects the clip with a rounded rectangle.
type ClipRoundedRectCommand struct {
	Rect graphics.RoundedRect
}

func (ClipRoundedRectCommand) Type() CommandType { return CmdClipRoundedRect }

// BeginTransparencyLayerCommand opens a group composited on end.
type BeginTransparencyLayerCommand struct {
	Opacity float64
	Mode    graphics.BlendMode
}

func (BeginTransparencyLayerCommand) Type() CommandType { return CmdBeginTransparencyLayer }

// EndTransparencyLayerCommand closes the innermost group.
type EndTransparencyLayerCommand struct{}

func (EndTransparencyLayerCommand) Type() CommandType { return CmdEndTransparencyLayer }

// FillRectCommand fills a rectangle with a solid color.
type FillRectCommand struct {
	Rect  graphics.FloatRect
	Color color.RGBA
}

func (FillRectCommand) Type() CommandType { return CmdFillRect }

// StrokeRectCommand outlines a rectangle.
type StrokeRectCommand struct {
	Rect  graphics.FloatRect
	Color color.RGBA
	Width float64
}

func (StrokeRectCommand) Type() CommandType { return CmdStrokeRect }

// DrawImageCommand draws a pooled image scaled into Dst.
type DrawImageCommand struct {
	Image ImageRef
	Dst   graphics.FloatRect
}

func (DrawImageCommand) Type() CommandType { return CmdDrawImage }

// Describe returns a compact single-line form of cmd, used by Recording.String.
func Describe(cmd Command) string {
	switch c := cmd.(type) {
	case TranslateCommand:
		return fmt.Sprintf("Translate(%g,%g)", c.DX, c.DY)
	case ConcatCTMCommand:
		m := c.Transform
		return fmt.Sprintf("ConcatCTM(%g %g %g %g %g %g)", m.A, m.B, m.C, m.D, m.E, m.F)
	case ClipRectCommand:
		return "ClipRect" + formatRect(c.Rect)
	case ClipRoundedRectCommand:
		return "ClipRoundedRect" + formatRect(c.Rect.Rect)
	case BeginTransparencyLayerCommand:
		return fmt.Sprintf("BeginTransparencyLayer(%g,%s)", c.Opacity, c.Mode)
	case FillRectCommand:
		return fmt.Sprintf("FillRect%s #%02x%02x%02x%02x", formatRect(c.Rect), c.Color.R, c.Color.G, c.Color.B, c.Color.A)
	case StrokeRectCommand:
		return fmt.Sprintf("StrokeRect%s #%02x%02x%02x%02x w=%g", formatRect(c.Rect), c.Color.R, c.Color.G, c.Color.B, c.Color.A, c.Width)
	case DrawImageCommand:
		return fmt.Sprintf("DrawImage(#%d)%s", c.Image, formatRect(c.Dst))
	default:
		return cmd.Type().String()
	}
}

func formatRect(r graphics.FloatRect) string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.X, r.Y, r.W, r.H)
}
