package app

// DefaultSessionGap is the inactivity threshold that separates two
// photo sessions, in seconds.
const DefaultSessionGap float64 = 30 * 60

// Session is a maximal run of timestamps in which no consecutive pair
// is further apart than the gap threshold.
type Session struct {
	Timestamps []float64
}

// Duration is the span between the first and last timestamp. A
// single-photo session has duration zero.
func (s Session) Duration() float64 {
	if len(s.Timestamps) == 0 {
		return 0
	}
	return s.Timestamps[len(s.Timestamps)-1] - s.Timestamps[0]
}

// Segment splits an ascending sequence of unix-second timestamps into
// sessions. The boundary is inclusive: a gap of exactly gapSec keeps
// both timestamps in the same session, only a strictly larger gap
// starts a new one. Every input timestamp ends up in exactly one
// session; empty input yields no sessions.
func Segment(sorted []float64, gapSec float64) []Session {
	if len(sorted) == 0 {
		return nil
	}

	var sessions []Session
	cur := Session{Timestamps: []float64{sorted[0]}}
	for _, t := range sorted[1:] {
		prev := cur.Timestamps[len(cur.Timestamps)-1]
		if t-prev <= gapSec {
			cur.Timestamps = append(cur.Timestamps, t)
			continue
		}
		sessions = append(sessions, cur)
		cur = Session{Timestamps: []float64{t}}
	}
	return append(sessions, cur)
}

// SessionDurations returns one duration per session, in seconds.
func SessionDurations(sessions []Session) []float64 {
	durations := make([]float64, len(sessions))
	for i, s := range sessions {
		durations[i] = s.Duration()
	}
	return durations
}
