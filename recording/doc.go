// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package recording captures layer painting as a list of typed commands.
//
// A Recorder implements graphics.Context, so a layer tree can paint into it
// exactly as it would into a real surface. The finished Recording can be
// inspected (tests assert on paint order and clip nesting this way) or
// replayed into any registered Backend.
//
// # Architecture
//
//   - Recorder: captures graphics.Context calls as commands
//   - Recording: immutable command list plus pooled images
//   - Backend: a graphics.Context with a Begin/End lifecycle
//
// # Backend Registration
//
// Backends register themselves following the database/sql driver pattern:
//
//	import _ "github.com/gogpu/layertree/recording/backends/raster"
//
//	backend, err := recording.NewBackend("raster")
//	if err != nil {
//	    return err
//	}
//	if err := rec.FinishRecording().Playback(backend); err != nil {
//	    return err
//	}
//	img := backend.(recording.ImageBackend).Image()
//
// # Thread Safety
//
// Recorder and Recording are not safe for concurrent use. The backend
// registry is.
package recording
