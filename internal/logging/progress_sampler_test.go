package logging

import "testing"

func TestProgressSampler(t *testing.T) {
	type step struct {
		percent float64
		stage   string
		want    bool
	}
	tests := []struct {
		name   string
		bucket float64
		steps  []step
	}{
		{
			name:   "buckets within one stage",
			bucket: 10,
			steps: []step{
				{0, "reading 1/3 track 1 pass 1", true},
				{4, "reading 1/3 track 1 pass 1", false},
				{10, "reading 1/3 track 1 pass 1", true},
				{19.9, "reading 1/3 track 1 pass 1", false},
				{35, "reading 1/3 track 1 pass 1", true},
				{30, "reading 1/3 track 1 pass 1", false},
			},
		},
		{
			name:   "stage change resets bucket",
			bucket: 10,
			steps: []step{
				{80, "reading 1/3 track 1 pass 1", true},
				{10, "reading 1/3 track 1 pass 2", true},
				{15, "reading 1/3 track 1 pass 2", false},
				{20, "reading 1/3 track 1 pass 2", true},
			},
		},
		{
			name:   "unknown percent logs only stage changes",
			bucket: 5,
			steps: []step{
				{-1, "encoding 1/2 opening", true},
				{-1, "encoding 1/2 opening", false},
				{-1, "  encoding 1/2 opening  ", false},
				{-1, "encoding 1/2 streaming", true},
			},
		},
		{
			name:   "overshoot clamps to final bucket",
			bucket: 25,
			steps: []step{
				{100, "done", true},
				{140, "done", false},
			},
		},
		{
			name:   "default bucket width",
			bucket: 0,
			steps: []step{
				{0, "s", true},
				{4.9, "s", false},
				{5, "s", true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressSampler(tt.bucket)
			for i, st := range tt.steps {
				if got := s.ShouldLog(st.percent, st.stage); got != st.want {
					t.Fatalf("step %d ShouldLog(%v, %q) = %v, want %v", i, st.percent, st.stage, got, st.want)
				}
			}
		})
	}
}

func TestProgressSamplerNil(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(50, "stage") {
		t.Fatal("nil sampler should always log")
	}
}
