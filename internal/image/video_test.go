package image

import "testing"

func TestParseVideoDimensions(t *testing.T) {
	tests := []struct {
		name       string
		probe      string
		wantWidth  int
		wantHeight int
		wantErr    bool
	}{
		{
			name:       "video after audio",
			probe:      `{"streams":[{"codec_type":"audio"},{"codec_type":"video","width":1920,"height":1080}]}`,
			wantWidth:  1920,
			wantHeight: 1080,
		},
		{
			name:    "audio only",
			probe:   `{"streams":[{"codec_type":"audio"}]}`,
			wantErr: true,
		},
		{
			name:    "invalid json",
			probe:   `{`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := parseVideoDimensions(tt.probe)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseVideoDimensions() error = %v, wantErr %v", err, tt.wantErr)
			}
			if w != tt.wantWidth || h != tt.wantHeight {
				t.Errorf("parseVideoDimensions() = %dx%d, want %dx%d", w, h, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

func TestScaledSize(t *testing.T) {
	tests := []struct {
		w, h, maxWidth int
		wantW, wantH   int
	}{
		{w: 1920, h: 1080, maxWidth: 320, wantW: 320, wantH: 180},
		{w: 640, h: 480, maxWidth: 0, wantW: 640, wantH: 480},
		{w: 100, h: 50, maxWidth: 200, wantW: 100, wantH: 50},
		{w: 1000, h: 1, maxWidth: 10, wantW: 10, wantH: 1},
	}

	for _, tt := range tests {
		gotW, gotH := scaledSize(tt.w, tt.h, tt.maxWidth)
		if gotW != tt.wantW || gotH != tt.wantH {
			t.Errorf("scaledSize(%d, %d, %d) = %dx%d, want %dx%d", tt.w, tt.h, tt.maxWidth, gotW, gotH, tt.wantW, tt.wantH)
		}
	}
}

func TestVideoFilter(t *testing.T) {
	if got := videoFilter(0, 320, 180); got != "scale=320:180" {
		t.Errorf("videoFilter(0) = %q", got)
	}
	if got := videoFilter(10, 320, 180); got != "fps=10,scale=320:180" {
		t.Errorf("videoFilter(10) = %q", got)
	}
}
