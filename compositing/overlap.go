// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compositing

import "github.com/gogpu/layertree"

// overlapMap records the areas painted into composited backings, so later
// layers in paint order know whether they would draw on top of one.
//
// Each composited layer pushes a container; its painted area stays local
// until the layer is done and is then merged into the enclosing container.
type overlapMap struct {
	containers [][]layertree.LayoutRect
	// speculative marks containers pushed before it is known whether
	// the layer composites.
	speculative []bool
}

func newOverlapMap() *overlapMap {
	m := &overlapMap{}
	m.pushContainer(false)
	return m
}

func (m *overlapMap) isEmpty() bool {
	for _, c := range m.containers {
		if len(c) > 0 {
			return false
		}
	}
	return true
}

func (m *overlapMap) add(r layertree.LayoutRect) {
	if r.Empty() {
		return
	}
	top := len(m.containers) - 1
	m.containers[top] = append(m.containers[top], r)
}

func (m *overlapMap) overlaps(r layertree.LayoutRect) bool {
	if r.Empty() {
		return false
	}
	for _, c := range m.containers {
		for _, o := range c {
			if !r.Intersect(o).Empty() {
				return true
			}
		}
	}
	return false
}

func (m *overlapMap) pushContainer(speculative bool) {
	m.containers = append(m.containers, nil)
	m.speculative = append(m.speculative, speculative)
}

func (m *overlapMap) confirmSpeculativeContainer() {
	m.speculative[len(m.speculative)-1] = false
}

// maybePopSpeculativeContainer drops the top container if it is still
// speculative and empty.
func (m *overlapMap) maybePopSpeculativeContainer() bool {
	top := len(m.containers) - 1
	if !m.speculative[top] {
		return false
	}
	if len(m.containers[top]) > 0 {
		m.speculative[top] = false
		return false
	}
	m.containers = m.containers[:top]
	m.speculative = m.speculative[:top]
	return true
}

// popContainer merges the top container into the one below.
func (m *overlapMap) popContainer() {
	top := len(m.containers) - 1
	if top == 0 {
		return
	}
	popped := m.containers[top]
	m.containers = m.containers[:top]
	m.speculative = m.speculative[:top]
	m.containers[top-1] = append(m.containers[top-1], popped...)
}
