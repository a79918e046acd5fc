package codec

import "testing"

func TestParsePixelFormat(t *testing.T) {
	t.Parallel()

	for _, f := range []PixelFormat{PixelFormatYUV420P, PixelFormatNV12, PixelFormatRGB24, PixelFormatRGBA, PixelFormatBGRA} {
		got, err := ParsePixelFormat(" " + f.String() + " ")
		if err != nil {
			t.Errorf("ParsePixelFormat(%q): %v", f.String(), err)
		}
		if got != f {
			t.Errorf("ParsePixelFormat(%q): got %v", f.String(), got)
		}
	}

	if _, err := ParsePixelFormat("none"); err == nil {
		t.Error("none should not parse as a target format")
	}
	if got := (foreignPixelFormatBase + 64).String(); got != "foreign(64)" {
		t.Errorf("foreign format string: got %q", got)
	}
}

func TestParseScaleAlgorithm(t *testing.T) {
	t.Parallel()

	got, err := ParseScaleAlgorithm("LANCZOS")
	if err != nil || got != ScaleLanczos {
		t.Errorf("ParseScaleAlgorithm(LANCZOS): got %v, %v", got, err)
	}
	if _, err := ParseScaleAlgorithm("sinc"); err == nil {
		t.Error("unknown algorithm should fail")
	}
}

func TestRational(t *testing.T) {
	t.Parallel()

	if r := NewRational(1, 90000); !r.Valid() || r.String() != "1/90000" {
		t.Errorf("1/90000: valid=%v string=%q", r.Valid(), r.String())
	}
	if r := NewRational(1, 0); r.Valid() || r.Float64() != 0 {
		t.Error("zero denominator should be invalid with zero value")
	}
	if got := NewRational(1, 4).Float64(); got != 0.25 {
		t.Errorf("Float64: got %v", got)
	}
}

func TestOutcomeString(t *testing.T) {
	t.Parallel()

	for o, want := range map[Outcome]string{Decoded: "decoded", ConsumedNoFrame: "consumed-no-frame", Failed: "failed", Outcome(9): "outcome(9)"} {
		if o.String() != want {
			t.Errorf("Outcome(%d).String(): got %q, want %q", int(o), o.String(), want)
		}
	}
}
