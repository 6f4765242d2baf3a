package conflicts

import (
	"time"

	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/civil"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/model"
)

// Policy is the snapshot of conflict settings used for one evaluation. Every
// booking is assumed to last Duration and to need Buffer of free time before
// its start.
type Policy struct {
	Duration time.Duration
	Buffer   time.Duration
}

func PolicyFrom(s *model.ConflictSettings) Policy {
	return Policy{Duration: s.Duration(), Buffer: s.Buffer()}
}

// Interval is the half-open span [Start, End) a booking occupies, plus the
// buffer that precedes it. There is no trailing buffer.
type Interval struct {
	Start  time.Time
	End    time.Time
	Buffer time.Duration
}

func (p Policy) IntervalAt(start time.Time) Interval {
	return Interval{Start: start, End: start.Add(p.Duration), Buffer: p.Buffer}
}

func (i Interval) EffectiveStart() time.Time {
	return i.Start.Add(-i.Buffer)
}

// Overlaps reports an actual time overlap between i and o.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && i.End.After(o.Start)
}

// BufferOverlaps extends both intervals by their leading buffers before
// comparing. Overlaps implies BufferOverlaps for non-negative buffers.
func (i Interval) BufferOverlaps(o Interval) bool {
	return i.EffectiveStart().Before(o.End) && i.End.After(o.EffectiveStart())
}

// QueryWindow returns the inclusive civil-day range that contains the start of
// every booking able to buffer-overlap iv. A candidate starting at cs relates to
// iv only if cs > iv.Start-Buffer-Duration and cs < iv.End+Buffer, so the
// window is taken from those two instants rather than from iv alone.
func (p Policy) QueryWindow(iv Interval) (from, to civil.Date) {
	earliest := iv.EffectiveStart().Add(-p.Duration)
	latest := iv.End.Add(p.Buffer)
	return civil.DateOf(earliest), civil.DateOf(latest)
}
