package cli

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/palettecam/internal/colour"
)

// writeTestImage writes a 4x4 PNG: three quarters red, one quarter blue.
func writeTestImage(t *testing.T) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			c := color.NRGBA{R: 255, A: 255}
			if x >= 2 && y >= 2 {
				c = color.NRGBA{B: 255, A: 255}
			}
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "frame.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestExtractCommandJSON(t *testing.T) {
	path := writeTestImage(t)

	out, err := runCommand(t, "extract", "--format", "json", "--preview=false", "--dominant", "-n", "2", path)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	var got colour.ResultJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if got.Count != 2 {
		t.Errorf("count = %d, want 2", got.Count)
	}
	hexes := map[string]bool{}
	for _, c := range got.Colors {
		hexes[c.Hex] = true
	}
	if !hexes["#f80000"] || !hexes["#0000f8"] {
		t.Errorf("colours = %v, want #f80000 and #0000f8", got.Colors)
	}
	if got.Dominant == nil {
		t.Error("expected a dominant colour")
	}
}

func TestExtractCommandGrid(t *testing.T) {
	path := writeTestImage(t)

	out, err := runCommand(t, "extract", "-a", "grid", "--grid-rows", "2", "--grid-cols", "2", "--grid-radius", "0",
		"--format", "json", "--preview=false", "-n", "2", path)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	var got colour.ResultJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if len(got.ChosenIndices) != 2 {
		t.Errorf("chosenIndices = %v, want two grid cells", got.ChosenIndices)
	}
}

func TestExtractCommandErrors(t *testing.T) {
	path := writeTestImage(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing file", args: []string{"extract", filepath.Join(t.TempDir(), "nope.png")}},
		{name: "bad algorithm", args: []string{"extract", "-a", "kmeans", path}},
		{name: "bad swatch count", args: []string{"extract", "-n", "0", path}},
		{name: "bad format", args: []string{"extract", "-f", "yaml", path}},
		{name: "bad grid", args: []string{"extract", "--grid-rows", "0", path}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCommand(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestExtractCommandOutputFile(t *testing.T) {
	path := writeTestImage(t)
	outPath := filepath.Join(t.TempDir(), "palette.txt")

	if _, err := runCommand(t, "extract", "-n", "1", "-o", outPath, path); err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if strings.TrimSpace(string(data)) == "" || strings.Contains(string(data), "\033[") {
		t.Errorf("unexpected file contents %q", data)
	}
}

func TestFormatResult(t *testing.T) {
	result := colour.Result{Colors: []colour.RGB{{R: 255}, {G: 255}}}
	dominant := colour.RGB{G: 255}

	tests := []struct {
		name     string
		format   string
		dominant *colour.RGB
		want     string
	}{
		{name: "hex", format: "hex", want: "#ff0000\n#00ff00\n"},
		{name: "rgb", format: "rgb", want: "rgb(255, 0, 0)\nrgb(0, 255, 0)\n"},
		{name: "hex with dominant", format: "hex", dominant: &dominant, want: "#ff0000\n#00ff00\ndominant: #00ff00\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatResult(result, tt.dominant, tt.format, false)
			if err != nil {
				t.Fatalf("formatResult() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("formatResult() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := formatResult(result, nil, "xml", false); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestFormatResultPreview(t *testing.T) {
	got, err := formatResult(colour.Result{Colors: []colour.RGB{{R: 1, G: 2, B: 3}}}, nil, "hex", true)
	if err != nil {
		t.Fatalf("formatResult() error = %v", err)
	}
	if !strings.HasPrefix(got, "\033[48;2;1;2;3m") || !strings.HasSuffix(got, " #010203\n") {
		t.Errorf("formatResult() = %q, want preview block followed by hex", got)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "palettecam version") {
		t.Errorf("version output = %q", out)
	}
}

func TestEngineFlagsGridRadius(t *testing.T) {
	tests := []struct {
		radius int
		want   int
	}{
		{radius: 0, want: colour.SinglePixelRadius},
		{radius: 6, want: 6},
	}

	for _, tt := range tests {
		f := engineFlags{algorithm: "grid", swatches: 3, rows: 2, cols: 2, radius: tt.radius, maxPixels: 100}
		engine, err := f.newEngine(hclog.NewNullLogger())
		if err != nil {
			t.Fatalf("newEngine() error = %v", err)
		}
		grid, ok := engine.Options().Strategy.(colour.GridOptions)
		if !ok {
			t.Fatalf("Strategy = %T, want GridOptions", engine.Options().Strategy)
		}
		if grid.SampleRadius != tt.want {
			t.Errorf("--grid-radius %d: SampleRadius = %d, want %d", tt.radius, grid.SampleRadius, tt.want)
		}
	}
}
