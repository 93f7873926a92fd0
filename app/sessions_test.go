package app

import (
	"math"
	"testing"
)

func TestSegment(t *testing.T) {
	t.Run("two sessions across a long gap", func(t *testing.T) {
		sessions := Segment([]float64{0, 100, 2000, 2100}, 1800)
		if len(sessions) != 2 {
			t.Fatalf("expected 2 sessions, got %d", len(sessions))
		}
		assertTimestamps(t, sessions[0], []float64{0, 100})
		assertTimestamps(t, sessions[1], []float64{2000, 2100})
	})

	t.Run("empty input yields no sessions", func(t *testing.T) {
		if sessions := Segment(nil, 1800); sessions != nil {
			t.Errorf("expected nil, got %v", sessions)
		}
	})

	t.Run("single timestamp yields one zero-duration session", func(t *testing.T) {
		sessions := Segment([]float64{42}, 1800)
		if len(sessions) != 1 {
			t.Fatalf("expected 1 session, got %d", len(sessions))
		}
		if d := sessions[0].Duration(); d != 0 {
			t.Errorf("expected zero duration, got %v", d)
		}
	})

	t.Run("gap of exactly the threshold stays in one session", func(t *testing.T) {
		sessions := Segment([]float64{0, 1800}, 1800)
		if len(sessions) != 1 {
			t.Fatalf("expected 1 session, got %d", len(sessions))
		}
	})

	t.Run("gap just over the threshold splits", func(t *testing.T) {
		sessions := Segment([]float64{0, 1800.5}, 1800)
		if len(sessions) != 2 {
			t.Fatalf("expected 2 sessions, got %d", len(sessions))
		}
	})
}

// Sessions must partition the input: every timestamp in exactly one
// session, in order, with gaps within a session <= threshold and gaps
// between sessions > threshold.
func TestSegmentPartitions(t *testing.T) {
	input := []float64{0, 10, 20, 5000, 5010, 5015, 12000, 20000, 20001}
	const gap = 1800.0

	sessions := Segment(input, gap)

	var flattened []float64
	for _, s := range sessions {
		if len(s.Timestamps) == 0 {
			t.Fatal("empty session")
		}
		for i := 1; i < len(s.Timestamps); i++ {
			if d := s.Timestamps[i] - s.Timestamps[i-1]; d > gap {
				t.Errorf("gap %v within a session exceeds threshold", d)
			}
		}
		flattened = append(flattened, s.Timestamps...)
	}

	if len(flattened) != len(input) {
		t.Fatalf("expected %d timestamps, got %d", len(input), len(flattened))
	}
	for i := range input {
		if flattened[i] != input[i] {
			t.Errorf("timestamp %d: expected %v, got %v", i, input[i], flattened[i])
		}
	}

	for i := 1; i < len(sessions); i++ {
		prev := sessions[i-1].Timestamps
		gapBetween := sessions[i].Timestamps[0] - prev[len(prev)-1]
		if gapBetween <= gap {
			t.Errorf("gap %v between sessions does not exceed threshold", gapBetween)
		}
	}
}

func TestSessionDurations(t *testing.T) {
	sessions := Segment([]float64{0, 100, 2000, 2100, 9000}, 1800)
	durations := SessionDurations(sessions)

	expected := []float64{100, 100, 0}
	if len(durations) != len(expected) {
		t.Fatalf("expected %d durations, got %d", len(expected), len(durations))
	}
	for i := range expected {
		if math.Abs(durations[i]-expected[i]) > 1e-9 {
			t.Errorf("duration %d: expected %v, got %v", i, expected[i], durations[i])
		}
	}
}

func assertTimestamps(t *testing.T, s Session, expected []float64) {
	t.Helper()

	if len(s.Timestamps) != len(expected) {
		t.Fatalf("expected timestamps %v, got %v", expected, s.Timestamps)
	}
	for i := range expected {
		if s.Timestamps[i] != expected[i] {
			t.Fatalf("expected timestamps %v, got %v", expected, s.Timestamps)
		}
	}
}
