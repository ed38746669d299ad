package audio

import (
	"errors"
	"testing"
	"time"
)

func ramp(rate, channels, frames int) *Track {
	samples := make([]int16, frames*channels)
	for i := range samples {
		samples[i] = int16(i%1000 + 1)
	}
	return &Track{SampleRate: rate, Channels: channels, Samples: samples}
}

func TestNewValidatesFormat(t *testing.T) {
	if _, err := New(0, 2, nil); err == nil {
		t.Error("expected error for zero sample rate")
	}
	if _, err := New(44100, 2, make([]int16, 3)); err == nil {
		t.Error("expected error for odd interleaved sample count")
	}
	tr, err := New(8000, 1, make([]int16, 8000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Duration() != time.Second {
		t.Errorf("expected 1s, got %v", tr.Duration())
	}
}

func TestFitPadsWithSilence(t *testing.T) {
	tr := ramp(1000, 2, 500)
	fitted := tr.FitDuration(time.Second)

	if fitted.Frames() != 1000 {
		t.Fatalf("expected 1000 frames, got %d", fitted.Frames())
	}
	for i := 0; i < 500*2; i++ {
		if fitted.Samples[i] != tr.Samples[i] {
			t.Fatalf("sample %d changed: %d != %d", i, fitted.Samples[i], tr.Samples[i])
		}
	}
	for i := 500 * 2; i < len(fitted.Samples); i++ {
		if fitted.Samples[i] != 0 {
			t.Fatalf("expected silence at sample %d, got %d", i, fitted.Samples[i])
		}
	}
}

func TestFitTruncates(t *testing.T) {
	tr := ramp(1000, 1, 3000)
	fitted := tr.Fit(1200)
	if fitted.Frames() != 1200 {
		t.Fatalf("expected 1200 frames, got %d", fitted.Frames())
	}
	if fitted.Samples[1199] != tr.Samples[1199] {
		t.Error("truncated track should keep the head unchanged")
	}
}

func TestSliceClamps(t *testing.T) {
	tr := ramp(1000, 2, 100)
	if got := tr.Slice(90, 500).Frames(); got != 10 {
		t.Errorf("expected 10 frames, got %d", got)
	}
	if got := tr.Slice(-5, 3).Frames(); got != 3 {
		t.Errorf("expected 3 frames, got %d", got)
	}
	if got := tr.Slice(50, 10).Frames(); got != 0 {
		t.Errorf("expected empty slice, got %d", got)
	}
}

func TestConvertChannels(t *testing.T) {
	mono := &Track{SampleRate: 1000, Channels: 1, Samples: []int16{10, 20}}
	stereo, err := mono.Convert(1000, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int16{10, 10, 20, 20}
	for i, s := range want {
		if stereo.Samples[i] != s {
			t.Fatalf("sample %d = %d, want %d", i, stereo.Samples[i], s)
		}
	}

	back, err := stereo.Convert(1000, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.Samples[0] != 10 || back.Samples[1] != 20 {
		t.Errorf("unexpected downmix %v", back.Samples)
	}

	surround := ramp(1000, 6, 10)
	if _, err := surround.Convert(1000, 2); !errors.Is(err, ErrChannelLayout) {
		t.Errorf("expected ErrChannelLayout, got %v", err)
	}
}

func TestConvertSampleRateKeepsDuration(t *testing.T) {
	tr := ramp(48000, 2, 48000)
	out, err := tr.Convert(44100, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Frames() != 44100 {
		t.Errorf("expected 44100 frames, got %d", out.Frames())
	}
	if out.Duration() != time.Second {
		t.Errorf("expected 1s, got %v", out.Duration())
	}
}

func TestConcat(t *testing.T) {
	a := ramp(1000, 1, 10)
	b := ramp(1000, 1, 5)
	joined, err := Concat(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if joined.Frames() != 15 {
		t.Errorf("expected 15 frames, got %d", joined.Frames())
	}

	if _, err := Concat(a, ramp(2000, 1, 5)); err == nil {
		t.Error("expected error when formats differ")
	}
}
