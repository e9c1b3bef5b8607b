package colour

import "testing"

func TestSampleGridUniform(t *testing.T) {
	c := RGB{R: 40, G: 80, B: 120}
	buf := solidBuffer(40, 30, c, 255)

	got := SampleGrid(buf, 40, 30, DefaultSampleRowCount, DefaultSampleColCount, DefaultSampleRadius)

	if len(got) != DefaultSampleRowCount*DefaultSampleColCount {
		t.Fatalf("got %d candidates, want %d", len(got), DefaultSampleRowCount*DefaultSampleColCount)
	}
	for i, cand := range got {
		if cand.Index != i {
			t.Errorf("candidate %d has index %d", i, cand.Index)
		}
		if cand.Color != c {
			t.Errorf("candidate %d colour = %v, want %v", i, cand.Color, c)
		}
	}
}

func TestSampleGridIndexLayout(t *testing.T) {
	// Left half red, right half blue; two columns at x=10 and x=20.
	const width, height = 30, 9
	buf := solidBuffer(width, height, RGB{B: 255}, 255)
	for y := range height {
		for x := range width / 2 {
			setPixel(buf, width, x, y, RGB{R: 255}, 255)
		}
	}

	got := SampleGrid(buf, width, height, 2, 2, 0)

	want := []GridCandidate{
		{Color: RGB{R: 255}, Index: 0},
		{Color: RGB{R: 255}, Index: 1},
		{Color: RGB{B: 255}, Index: 2},
		{Color: RGB{B: 255}, Index: 3},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSampleGridRadiusClampedToBounds(t *testing.T) {
	// A radius larger than the image averages every pixel.
	buf := solidBuffer(2, 1, RGB{}, 255)
	setPixel(buf, 2, 1, 0, RGB{R: 100, G: 200, B: 50}, 255)

	got := SampleGrid(buf, 2, 1, 1, 1, 50)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if want := (RGB{R: 50, G: 100, B: 25}); got[0].Color != want {
		t.Errorf("colour = %v, want %v", got[0].Color, want)
	}
}

func TestSampleGridClampsCounts(t *testing.T) {
	buf := solidBuffer(4, 4, RGB{G: 10}, 255)
	if got := SampleGrid(buf, 4, 4, 0, -3, -1); len(got) != 1 {
		t.Errorf("got %d candidates, want 1", len(got))
	}
}

func TestSampleGridInvalidInput(t *testing.T) {
	if got := SampleGrid(nil, 4, 4, 5, 8, 4); len(got) != 0 {
		t.Errorf("got %d candidates for nil buffer, want 0", len(got))
	}
}
