package image

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchDirectory(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	frames := make(chan Frame, 16)
	done := make(chan error, 1)
	go func() {
		done <- WatchDirectory(ctx, dir, WatchOptions{SettleDelay: 20 * time.Millisecond}, func(f Frame) error {
			frames <- f
			return nil
		})
	}()

	// The watcher starts asynchronously, so keep dropping frames in until one
	// is picked up. Each frame is written under a temporary name and renamed.
	img := solidImage(3, 2, color.NRGBA{R: 40, G: 80, B: 120, A: 255})
	var got Frame
	for i := 0; ; i++ {
		tmp := filepath.Join(dir, fmt.Sprintf("frame-%03d.part", i))
		writePNG(t, tmp, img)
		if err := os.Rename(tmp, filepath.Join(dir, fmt.Sprintf("frame-%03d.png", i))); err != nil {
			t.Fatalf("rename failed: %v", err)
		}

		select {
		case got = <-frames:
		case <-time.After(250 * time.Millisecond):
			if ctx.Err() != nil {
				t.Fatal("no frame received before timeout")
			}
			continue
		}
		break
	}

	if got.Width != 3 || got.Height != 2 {
		t.Errorf("frame size = %dx%d, want 3x2", got.Width, got.Height)
	}
	if got.Pix[0] != 40 || got.Pix[1] != 80 || got.Pix[2] != 120 {
		t.Errorf("first pixel = %v, want [40 80 120]", got.Pix[:3])
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("WatchDirectory() error = %v, want context.Canceled", err)
	}
}

func TestWatchDirectoryCallbackError(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stop := errors.New("stop")
	done := make(chan error, 1)
	go func() {
		done <- WatchDirectory(ctx, dir, WatchOptions{SettleDelay: 20 * time.Millisecond}, func(Frame) error {
			return stop
		})
	}()

	img := solidImage(1, 1, color.NRGBA{A: 255})
	for i := 0; ; i++ {
		writePNG(t, filepath.Join(dir, fmt.Sprintf("frame-%03d.png", i)), img)

		select {
		case err := <-done:
			if !errors.Is(err, stop) {
				t.Errorf("WatchDirectory() error = %v, want %v", err, stop)
			}
			return
		case <-time.After(250 * time.Millisecond):
			if ctx.Err() != nil {
				t.Fatal("watcher did not return before timeout")
			}
		}
	}
}

func TestWatchDirectoryMissing(t *testing.T) {
	err := WatchDirectory(context.Background(), filepath.Join(t.TempDir(), "missing"), WatchOptions{}, func(Frame) error {
		return nil
	})
	if err == nil {
		t.Error("expected an error for a missing directory")
	}
}
