package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/palettecam/internal/colour"
	"github.com/jmylchreest/palettecam/internal/image"
)

type extractOptions struct {
	engine   engineFlags
	format   string
	output   string
	preview  bool
	dominant bool
	maxWidth int
}

func newExtractCmd() *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Extract a colour palette from an image",
		Long: `Extract a colour palette from a single image, exactly as one frame of a
live preview would be processed.

Supported image formats: JPEG, PNG, GIF, WebP, BMP, TIFF, AVIF

Examples:
  # Extract 5 colours (default) using median cut
  palettecam extract photo.jpg

  # Sample an 8x5 grid instead and show which cells were chosen
  palettecam extract --algorithm grid --format json photo.jpg

  # Extract 8 colours with terminal previews and the dominant colour
  palettecam extract -n 8 --preview --dominant photo.png

  # Favour diversity only
  palettecam extract --weight-chroma 0 --weight-luma 0 --weight-rarity 0 photo.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, opts, args[0])
		},
	}

	opts.engine.register(cmd.Flags(), 5)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "hex", "output format (hex, rgb, json)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.preview, "preview", colour.SupportsANSIColours(os.Stdout), "show colour previews in terminal")
	cmd.Flags().BoolVar(&opts.dominant, "dominant", false, "also report the dominant colour")
	cmd.Flags().IntVar(&opts.maxWidth, "max-width", 0, "downscale images wider than this before extraction (0 keeps full size)")

	return cmd
}

func runExtract(cmd *cobra.Command, opts *extractOptions, imagePath string) error {
	logger := newLogger(cmd)

	if err := image.ValidateImagePath(imagePath); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	engine, err := opts.engine.newEngine(logger)
	if err != nil {
		return err
	}

	logger.Debug("loading image", "path", imagePath)
	frame, err := image.LoadFrame(image.NewFileLoader(), imagePath, opts.maxWidth)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	logger.Debug("image loaded", "width", frame.Width, "height", frame.Height)

	logger.Debug("extracting palette", "swatches", opts.engine.swatches, "algorithm", engine.Algorithm())
	result := engine.Extract(frame.Pix, frame.Width, frame.Height, opts.engine.swatches)
	if result.Len() == 0 {
		logger.Warn("no palette available (image is empty or fully transparent)", "path", imagePath)
	}

	var dominant *colour.RGB
	if opts.dominant {
		if d, ok := colour.DominantColor(result.Colors); ok {
			dominant = &d
		}
	}

	output, err := formatResult(result, dominant, opts.format, opts.preview && opts.output == "")
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if opts.output != "" {
		logger.Debug("writing output", "path", opts.output)
		if err := os.WriteFile(opts.output, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}

// formatResult formats an extraction result in the requested format.
func formatResult(result colour.Result, dominant *colour.RGB, format string, showPreview bool) (string, error) {
	var sb strings.Builder

	switch format {
	case "hex":
		for _, c := range result.Colors {
			sb.WriteString(formatColour(c, c.Hex(), showPreview) + "\n")
		}
		if dominant != nil {
			sb.WriteString("dominant: " + formatColour(*dominant, dominant.Hex(), showPreview) + "\n")
		}
	case "rgb":
		for _, c := range result.Colors {
			sb.WriteString(formatColour(c, c.String(), showPreview) + "\n")
		}
		if dominant != nil {
			sb.WriteString("dominant: " + formatColour(*dominant, dominant.String(), showPreview) + "\n")
		}
	case "json":
		data, err := result.ToJSON(dominant)
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		sb.Write(data)
		sb.WriteString("\n")
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: hex, rgb, json)", format)
	}

	return sb.String(), nil
}

// formatColour prefixes text with a colour block when previews are enabled.
func formatColour(c colour.RGB, text string, showPreview bool) string {
	if !showPreview {
		return text
	}
	return colour.ColourPreview(c, 4) + " " + text
}
