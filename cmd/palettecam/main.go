// palettecam - live colour palettes from camera frames
//
// palettecam extracts a small, representative colour palette from images,
// directories of frames and video clips, smoothing it over time the way a
// camera preview does.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"os"

	"github.com/jmylchreest/palettecam/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
