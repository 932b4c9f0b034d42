package logging

import "testing"

func TestNewProgressSampler(t *testing.T) {
	tests := []struct {
		name       string
		bucketSize float64
		wantSize   float64
	}{
		{"default bucket size for zero", 0, 5},
		{"default bucket size for negative", -1, 5},
		{"custom bucket size", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressSampler(tt.bucketSize)
			if s.bucketSize != tt.wantSize {
				t.Errorf("bucketSize = %v, want %v", s.bucketSize, tt.wantSize)
			}
			if s.lastBucket != -1 {
				t.Errorf("lastBucket = %d, want -1", s.lastBucket)
			}
		})
	}
}

func TestProgressSamplerNil(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(50, "videos") {
		t.Error("nil sampler should always log")
	}
	s.Reset()
}

func TestProgressSamplerPhaseChange(t *testing.T) {
	s := NewProgressSampler(5)

	if !s.ShouldLog(0, "counting") {
		t.Error("first phase should log")
	}
	if s.ShouldLog(0, "counting") {
		t.Error("same phase and percent should not log again")
	}
	if !s.ShouldLog(0, "moving") {
		t.Error("new phase should log")
	}
	if s.lastPhase != "moving" {
		t.Errorf("lastPhase = %q, want moving", s.lastPhase)
	}
}

func TestProgressSamplerTrimsPhase(t *testing.T) {
	s := NewProgressSampler(5)
	s.ShouldLog(0, "  moving ")
	if s.lastPhase != "moving" {
		t.Errorf("lastPhase = %q, want trimmed", s.lastPhase)
	}
}

func TestProgressSamplerBuckets(t *testing.T) {
	s := NewProgressSampler(5)

	steps := []struct {
		percent float64
		want    bool
	}{
		{0, true},
		{3, false},
		{5, true},
		{7, false},
		{10, true},
		{95, true},
		{100, true},
		{105, false},
	}
	for _, step := range steps {
		if got := s.ShouldLog(step.percent, "moving"); got != step.want {
			t.Errorf("ShouldLog(%v) = %v, want %v", step.percent, got, step.want)
		}
	}
}

func TestProgressSamplerUnknownPercent(t *testing.T) {
	s := NewProgressSampler(5)
	if !s.ShouldLog(-1, "counting") {
		t.Error("first call should log on phase change")
	}
	if s.ShouldLog(-1, "counting") {
		t.Error("unknown percent should not emit")
	}
}

func TestProgressSamplerReset(t *testing.T) {
	s := NewProgressSampler(25)
	s.ShouldLog(50, "moving")
	s.Reset()
	if s.lastPhase != "" || s.lastBucket != -1 {
		t.Fatalf("state not cleared: %+v", s)
	}
	if !s.ShouldLog(50, "moving") {
		t.Error("should log after reset")
	}
}
