package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/palettecam/internal/capture"
	"github.com/jmylchreest/palettecam/internal/colour"
	"github.com/jmylchreest/palettecam/internal/image"
	"github.com/jmylchreest/palettecam/internal/record"
)

type sessionOptions struct {
	engine   engineFlags
	interval int
	lerp     float64
	fps      int
	maxWidth int
	format   string
	preview  bool
	watch    bool
	record   string
}

func newSessionCmd() *cobra.Command {
	opts := &sessionOptions{}

	cmd := &cobra.Command{
		Use:   "session <video|directory>",
		Short: "Run a capture session over a video or a directory of frames",
		Long: `Run a capture session the way the live preview does: frames are read in
order, a palette is extracted every --interval frames, and each new palette
is smoothed against the previous one so small sensor noise is ignored and
real colour changes ease in.

Videos are decoded with ffmpeg, which must be installed. Directories are
read as numbered still frames in name order; with --watch the session then
keeps running and picks up new frames as a camera writes them.

With --record, every updated palette is stored in a SQLite database that
"palettecam history" can read back.

Examples:
  # Extract every 5th frame of a clip sampled at 10 fps
  palettecam session --fps 10 clip.mp4

  # Replay a directory of frames as JSON lines
  palettecam session --format json frames/

  # Follow a camera's output directory and record the palettes
  palettecam session --watch --record palettes.db /var/lib/camera/frames`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, opts, args[0])
		},
	}

	opts.engine.register(cmd.Flags(), capture.DefaultSwatchCount)
	cmd.Flags().IntVar(&opts.interval, "interval", capture.DefaultInterval, "extract on every Nth frame")
	cmd.Flags().Float64Var(&opts.lerp, "lerp", colour.DefaultLerpFactor, "smoothing step toward new colours (0-1]")
	cmd.Flags().IntVar(&opts.fps, "fps", 0, "video sampling rate (0 keeps the source rate)")
	cmd.Flags().IntVar(&opts.maxWidth, "max-width", 320, "downscale frames wider than this (0 keeps full size)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format (text, json)")
	cmd.Flags().BoolVar(&opts.preview, "preview", colour.SupportsANSIColours(os.Stdout), "show colour previews in terminal")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "keep watching a frame directory for new images")
	cmd.Flags().StringVar(&opts.record, "record", "", "record palettes to this SQLite database")

	return cmd
}

func runSession(cmd *cobra.Command, opts *sessionOptions, source string) error {
	logger := newLogger(cmd)

	if opts.interval < 1 {
		return fmt.Errorf("interval must be at least 1, got %d", opts.interval)
	}
	if opts.lerp <= 0 || opts.lerp > 1 {
		return fmt.Errorf("lerp factor must be in (0, 1], got %v", opts.lerp)
	}
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unsupported format: %s (supported: text, json)", opts.format)
	}

	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("failed to access source: %w", err)
	}
	if opts.watch && !info.IsDir() {
		return fmt.Errorf("--watch requires a directory source")
	}

	engine, err := opts.engine.newEngine(logger)
	if err != nil {
		return err
	}

	session := capture.NewSession(engine, capture.Config{
		SwatchCount: opts.engine.swatches,
		Interval:    opts.interval,
		LerpFactor:  opts.lerp,
	}, logger.Named("session"))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var (
		store     *record.Store
		sessionID int64
	)
	if opts.record != "" {
		store, err = record.Open(opts.record)
		if err != nil {
			return fmt.Errorf("failed to open recording database: %w", err)
		}
		defer store.Close()

		sessionID, err = store.StartSession(ctx, source, engine.Algorithm(), opts.engine.swatches)
		if err != nil {
			return fmt.Errorf("failed to start recording: %w", err)
		}
		logger.Debug("recording session", "db", opts.record, "session", sessionID)
	}

	out := cmd.OutOrStdout()
	onFrame := func(f image.Frame) error {
		snap, updated := session.Frame(f.Pix, f.Width, f.Height)
		if !updated {
			return nil
		}
		if store != nil {
			if err := store.Record(ctx, sessionID, snap); err != nil {
				return err
			}
		}
		return writeSnapshot(out, snap, opts.format, opts.preview)
	}

	switch {
	case info.IsDir():
		if _, scanErr := image.ScanDirectoryForImages(source); scanErr == nil || !opts.watch {
			err = image.StreamDirectory(ctx, source, opts.maxWidth, onFrame)
		}
		if err == nil && opts.watch {
			err = image.WatchDirectory(ctx, source, image.WatchOptions{
				MaxWidth: opts.maxWidth,
				Logger:   logger.Named("watch"),
			}, onFrame)
		}
	default:
		err = image.StreamVideo(ctx, source, image.VideoOptions{
			FPS:      opts.fps,
			MaxWidth: opts.maxWidth,
			Logger:   logger.Named("video"),
		}, onFrame)
	}
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("capture session failed: %w", err)
	}

	logger.Debug("session finished", "frames", session.Frames())
	return nil
}

// snapshotJSON is one line of session JSON output.
type snapshotJSON struct {
	Frame         int      `json:"frame"`
	Colors        []string `json:"colors"`
	ChosenIndices []int    `json:"chosenIndices"`
	Dominant      string   `json:"dominant,omitempty"`
}

func writeSnapshot(w io.Writer, snap capture.Snapshot, format string, showPreview bool) error {
	if format == "json" {
		line := snapshotJSON{
			Frame:         snap.Frame,
			Colors:        colour.Result{Colors: snap.Colors}.ToHex(),
			ChosenIndices: snap.ChosenIndices,
		}
		if line.ChosenIndices == nil {
			line.ChosenIndices = []int{}
		}
		if snap.HasDominant {
			line.Dominant = snap.Dominant.Hex()
		}
		return json.NewEncoder(w).Encode(line)
	}

	parts := make([]string, 0, len(snap.Colors))
	for _, c := range snap.Colors {
		parts = append(parts, formatColour(c, c.Hex(), showPreview))
	}
	line := fmt.Sprintf("frame %d: %s", snap.Frame, strings.Join(parts, " "))
	if snap.HasDominant {
		line += "  dominant: " + formatColour(snap.Dominant, snap.Dominant.Hex(), showPreview)
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

