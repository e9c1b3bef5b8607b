package image

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/hashicorp/go-hclog"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoOptions configures video frame streaming.
type VideoOptions struct {
	// FPS is the sampling rate of frames pulled from the video. Zero keeps the
	// source rate.
	FPS int

	// MaxWidth downscales frames wider than this, preserving aspect ratio.
	MaxWidth int

	// Logger receives ffmpeg's stderr. Nil discards it.
	Logger hclog.Logger
}

// videoProbe is the subset of ffprobe output needed to size raw frames.
type videoProbe struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

// parseVideoDimensions extracts the first video stream's size from ffprobe JSON.
func parseVideoDimensions(probeJSON string) (width, height int, err error) {
	var probe videoProbe
	if err := json.Unmarshal([]byte(probeJSON), &probe); err != nil {
		return 0, 0, fmt.Errorf("failed to parse probe output: %w", err)
	}

	for _, stream := range probe.Streams {
		if stream.CodecType == "video" && stream.Width > 0 && stream.Height > 0 {
			return stream.Width, stream.Height, nil
		}
	}

	return 0, 0, errors.New("no video stream found")
}

// scaledSize returns the output frame size for a source of width×height.
func scaledSize(width, height, maxWidth int) (int, int) {
	if maxWidth <= 0 || width <= maxWidth {
		return width, height
	}
	return maxWidth, max(1, height*maxWidth/width)
}

// videoFilter builds the ffmpeg filter graph for the given output settings.
func videoFilter(fps, width, height int) string {
	scale := "scale=" + strconv.Itoa(width) + ":" + strconv.Itoa(height)
	if fps > 0 {
		return "fps=" + strconv.Itoa(fps) + "," + scale
	}
	return scale
}

// StreamVideo decodes path with ffmpeg into raw RGBA frames and passes each to
// fn. The frame buffer is reused between calls; fn must copy Pix to keep it.
func StreamVideo(ctx context.Context, path string, opts VideoOptions, fn func(Frame) error) error {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	probeJSON, err := ffmpeg.Probe(path)
	if err != nil {
		return fmt.Errorf("ffprobe error: %w", err)
	}
	srcWidth, srcHeight, err := parseVideoDimensions(probeJSON)
	if err != nil {
		return err
	}
	width, height := scaledSize(srcWidth, srcHeight, opts.MaxWidth)
	logger.Debug("streaming video", "path", path, "source", fmt.Sprintf("%dx%d", srcWidth, srcHeight),
		"frame", fmt.Sprintf("%dx%d", width, height), "fps", opts.FPS)

	pr, pw := io.Pipe()
	cmd := ffmpeg.Input(path).
		Output("pipe:1", ffmpeg.KwArgs{
			"format":  "rawvideo",
			"pix_fmt": "rgba",
			"vf":      videoFilter(opts.FPS, width, height),
		}).
		WithOutput(pw).
		WithErrorOutput(logger.StandardWriter(&hclog.StandardLoggerOptions{ForceLevel: hclog.Trace}))
	cmd.Context = ctx

	done := make(chan error, 1)
	go func() {
		err := cmd.Run()
		pw.CloseWithError(err)
		done <- err
	}()

	frame := Frame{Pix: make([]byte, width*height*4), Width: width, Height: height}
	count := 0
	for {
		if _, err := io.ReadFull(pr, frame.Pix); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			pr.CloseWithError(err)
			<-done
			return fmt.Errorf("failed to read frame %d: %w", count, err)
		}
		count++
		if err := fn(frame); err != nil {
			pr.CloseWithError(err)
			<-done
			return err
		}
	}

	if err := <-done; err != nil {
		return fmt.Errorf("ffmpeg failed after %d frames: %w", count, err)
	}
	logger.Debug("video finished", "frames", count)
	return nil
}
