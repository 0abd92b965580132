// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gogpu/layertree"
	"github.com/gogpu/layertree/compositing"
	"github.com/gogpu/layertree/recording"
	_ "github.com/gogpu/layertree/recording/backends/raster"
)

func (a *app) newTreeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the layer tree with its stacking flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tree, err := a.loadTree()
			if err != nil {
				return err
			}
			return tree.WriteLayerTree(cmd.OutOrStdout())
		},
	}
}

func (a *app) newPaintOrderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "paint-order",
		Short: "Print the z-order and normal flow lists of every stacking context",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tree, err := a.loadTree()
			if err != nil {
				return err
			}
			return tree.WritePaintOrderTree(cmd.OutOrStdout())
		},
	}
}

func (a *app) newPositionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "positions",
		Short: "Print layer positions and their dirty bits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tree, err := a.loadTree()
			if err != nil {
				return err
			}
			return tree.WriteLayerPositionTree(cmd.OutOrStdout())
		},
	}
}

func (a *app) newVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Recompute cached layer positions and report mismatches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tree, err := a.loadTree()
			if err != nil {
				return err
			}
			if err := tree.VerifyLayerPositions(); err != nil {
				return fmt.Errorf("verify: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d layers\n", tree.LayerCount())
			return nil
		},
	}
}

func (a *app) newHitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hit X Y",
		Short: "Hit test a point given in root coordinates",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("x: %w", err)
			}
			y, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("y: %w", err)
			}
			tree, err := a.loadTree()
			if err != nil {
				return err
			}

			req := layertree.HitTestRequest{Type: layertree.HitTestReadOnly}
			if a.v.GetBool("all") {
				req.Type |= layertree.HitTestCollectMultiple
			}
			if a.v.GetBool("ignore-clipping") {
				req.Type |= layertree.HitTestIgnoreClipping
			}
			var res layertree.HitTestResult
			out := cmd.OutOrStdout()
			if !tree.HitTest(req, layertree.NewHitTestLocation(layertree.Point(x, y)), &res) {
				fmt.Fprintln(out, "no hit")
				return nil
			}
			if req.ResultIsList() {
				for _, r := range res.Renderers {
					fmt.Fprintln(out, r.Name())
				}
				return nil
			}
			fmt.Fprintf(out, "%s in %s at (%g,%g)\n", res.Renderer.Name(), res.Layer,
				layertree.UnitToFloat(res.LocalPoint.X), layertree.UnitToFloat(res.LocalPoint.Y))
			return nil
		},
	}
	cmd.Flags().Bool("all", false, "list every renderer under the point, front to back")
	cmd.Flags().Bool("ignore-clipping", false, "also hit content hidden by overflow clips")
	return cmd
}

func (a *app) newRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Paint the scene and write a PNG, or list the paint commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tree, err := a.loadTree()
			if err != nil {
				return err
			}
			size := tree.ViewportSize()
			w := int(layertree.UnitToFloat(size.W) + 0.5)
			h := int(layertree.UnitToFloat(size.H) + 0.5)
			rec := recording.NewRecorder(w, h)
			tree.Paint(layertree.PaintRequest{Context: rec, Behavior: layertree.PaintBehaviorFlattenCompositingLayers})
			r := rec.FinishRecording()

			path := a.v.GetString("out")
			if path == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), r.String())
				return err
			}
			return writeImage(r, a.v.GetString("backend"), path)
		},
	}
	cmd.Flags().StringP("out", "o", "", "PNG file to write; without it the paint commands are printed")
	cmd.Flags().String("backend", "raster", fmt.Sprintf("recording backend used to rasterize %v", recording.Backends()))
	return cmd
}

func writeImage(r *recording.Recording, backendName, path string) error {
	backend, err := recording.NewBackend(backendName)
	if err != nil {
		return err
	}
	wb, ok := backend.(recording.WriterBackend)
	if !ok {
		return fmt.Errorf("backend %q cannot encode images", backendName)
	}
	if err := r.Playback(wb); err != nil {
		return fmt.Errorf("playback: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := wb.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func (a *app) newCompositingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compositing",
		Short: "Print the composited layers, their reasons and backings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tree, err := a.loadTree()
			if err != nil {
				return err
			}
			c := compositing.New(
				compositing.WithDeviceScale(a.v.GetFloat64("device-scale")),
				compositing.With3DTransforms(!a.v.GetBool("no-3d")),
				compositing.WithAcceleratedFilters(a.v.GetBool("accelerated-filters")),
				compositing.WithBackingSharing(!a.v.GetBool("no-sharing")),
			)
			c.Attach(tree)
			c.Update()

			out := cmd.OutOrStdout()
			layers := c.CompositedLayers()
			if len(layers) == 0 {
				fmt.Fprintln(out, "no composited layers")
				return nil
			}
			for _, l := range layers {
				b := c.Backing(l)
				fmt.Fprintf(out, "%s [%s] %dx%d %v\n", l, b.Reasons, b.Descriptor.Width, b.Descriptor.Height, b.Descriptor.Format)
				for _, s := range b.SharingLayers() {
					fmt.Fprintf(out, "  shares: %s\n", s)
				}
			}
			return nil
		},
	}
	cmd.Flags().Float64("device-scale", 1, "device pixels per CSS pixel")
	cmd.Flags().Bool("no-3d", false, "disable 3D transform compositing")
	cmd.Flags().Bool("accelerated-filters", false, "composite layers with filters")
	cmd.Flags().Bool("no-sharing", false, "disable backing sharing")
	return cmd
}
