// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// mutationScene is a random box tree that is changed one step at a time.
type mutationScene struct {
	rng   *rand.Rand
	view  *Box
	boxes []*Box
}

func newMutationScene(seed uint64, n int) *mutationScene {
	m := &mutationScene{rng: rand.New(rand.NewPCG(seed, 0))}
	m.view = NewBox(RendererView, "view", nil)
	m.view.SetFrame(LayoutPoint{}, Size(200, 200))
	for i := range n {
		b := NewBox(RendererBlock, fmt.Sprintf("b%d", i), m.randomStyle())
		m.randomFrame(b)
		parent := m.view
		if i > 0 && m.rng.IntN(3) != 0 {
			parent = m.boxes[m.rng.IntN(len(m.boxes))]
		}
		parent.AppendChild(b)
		m.boxes = append(m.boxes, b)
	}
	return m
}

func (m *mutationScene) randomStyle() *Style {
	rng := m.rng
	return styled(func(s *Style) {
		s.Position = []Position{PositionStatic, PositionRelative, PositionAbsolute}[rng.IntN(3)]
		if rng.IntN(2) == 0 {
			s.ZIndex = Z(rng.IntN(5) - 2)
		}
		if rng.IntN(4) == 0 {
			overflowHidden(s)
		}
		if rng.IntN(5) == 0 {
			s.Visibility = VisibilityHidden
		}
		if rng.IntN(6) == 0 {
			s.Opacity = 0.5
		}
		if rng.IntN(6) == 0 {
			s.Transform = []TransformOperation{TranslateOp(float64(rng.IntN(10)), 0)}
		}
		if rng.IntN(3) == 0 {
			s.Offset = Point(float64(rng.IntN(8)), float64(rng.IntN(8)))
		}
		if rng.IntN(2) == 0 {
			s.BackgroundColor = blue
		}
	})
}

func (m *mutationScene) randomFrame(b *Box) {
	rng := m.rng
	b.SetFrame(Point(float64(rng.IntN(80)), float64(rng.IntN(80))),
		Size(float64(10+rng.IntN(50)), float64(10+rng.IntN(50))))
}

// isInside reports whether b is a or one of its descendants.
func isInside(b, a *Box) bool {
	for ; b != nil; b = b.ParentBox() {
		if b == a {
			return true
		}
	}
	return false
}

// step applies one random change and describes it.
func (m *mutationScene) step() string {
	b := m.boxes[m.rng.IntN(len(m.boxes))]
	switch m.rng.IntN(4) {
	case 0:
		b.SetStyle(m.randomStyle())
		return "restyle " + b.Name()
	case 1:
		m.randomFrame(b)
		return "move " + b.Name()
	case 2:
		parent := m.view
		if p := m.boxes[m.rng.IntN(len(m.boxes))]; !isInside(p, b) {
			parent = p
		}
		b.ParentBox().RemoveChild(b)
		parent.AppendChild(b)
		return fmt.Sprintf("reparent %s under %s", b.Name(), parent.Name())
	default:
		b.SetScrollPosition(Point(0, float64(m.rng.IntN(20))))
		return "scroll " + b.Name()
	}
}

// cloneBox copies b and its subtree into detached boxes.
func cloneBox(b *Box) *Box {
	c := NewBox(b.kind, b.name, b.style.Clone())
	c.location, c.size, c.scroll = b.location, b.size, b.scroll
	for child := b.firstChild; child != nil; child = child.next {
		c.AppendChild(cloneBox(child))
	}
	return c
}

var layerIDPattern = regexp.MustCompile(`layer#\d+`)

// treeDumps renders the paint order and the cached geometry of tree with
// layer IDs removed, so trees built in different orders compare equal.
func treeDumps(t *testing.T, tree *Tree) string {
	t.Helper()
	var b strings.Builder
	if err := tree.WritePaintOrderTree(&b); err != nil {
		t.Fatalf("WritePaintOrderTree() = %v", err)
	}
	if err := tree.WriteLayerPositionTree(&b); err != nil {
		t.Fatalf("WriteLayerPositionTree() = %v", err)
	}
	return layerIDPattern.ReplaceAllString(b.String(), "layer")
}

func TestIncrementalUpdatesMatchRebuild(t *testing.T) {
	const steps = 30
	for seed := uint64(1); seed <= 12; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			m := newMutationScene(seed, 10)
			tree := NewTree(m.view)
			tree.UpdateLayerPositionsAfterLayout(true, false)

			for i := range steps {
				change := m.step()
				tree.UpdateLayerPositionsAfterLayout(false, false)
				if err := tree.VerifyLayerPositions(); err != nil {
					t.Fatalf("step %d (%s): VerifyLayerPositions() = %v", i, change, err)
				}

				fresh := NewTree(cloneBox(m.view))
				fresh.UpdateLayerPositionsAfterLayout(true, false)
				if diff := cmp.Diff(treeDumps(t, fresh), treeDumps(t, tree)); diff != "" {
					t.Fatalf("step %d (%s): incremental tree differs from a rebuild (-rebuilt +incremental):\n%s",
						i, change, diff)
				}
			}
		})
	}
}
