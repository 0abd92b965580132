// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command layerdump builds the layer tree for a JSON box scene and prints
// what the tree decided: stacking and paint order, layer positions, hit
// test results, compositing reasons, or a rendered PNG.
//
//	layerdump tree -s scene.json
//	layerdump hit -s scene.json 120 40
//	layerdump render -s scene.json -o out.png
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "layerdump:", err)
		os.Exit(1)
	}
}
