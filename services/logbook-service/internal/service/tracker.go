package service

import (
	"time"

	"voltlog/services/logbook-service/internal/models"
)

// Thresholds tune the session state machine.
type Thresholds struct {
	// Gap is the maximum silence tolerated inside one session. Older source
	// revisions disagreed on this value (10 minutes vs hours), so it is
	// configuration, not a constant.
	Gap time.Duration
	// MinSession filters transient noise sessions; a session must be
	// strictly longer than this to be kept.
	MinSession time.Duration
	// DriveSpeed is the minimum gps speed, in m/s, considered movement
	// rather than jitter while parked.
	DriveSpeed float64
}

// sessionState is the open session of one account. It lives for a single
// run; across runs the resume point re-derives it.
type sessionState struct {
	open     bool
	start    int64
	last     int64
	charging bool
	driving  bool
}

// Tracker folds an ordered sample stream into finalized sessions. One
// instance serves one run; accounts are independent entries in the state map.
type Tracker struct {
	thresholds Thresholds
	states     map[string]*sessionState
	entries    []models.LogEntry
}

// NewTracker returns an empty tracker for one pipeline run.
func NewTracker(thresholds Thresholds) *Tracker {
	return &Tracker{
		thresholds: thresholds,
		states:     make(map[string]*sessionState),
	}
}

// Observe folds the next sample for its account. Samples must arrive in
// non-decreasing timestamp order per account; duplicates are legal.
func (t *Tracker) Observe(sample models.TelemetrySample) {
	if !sample.HasSignal() {
		return
	}

	state := t.states[sample.AKey]
	if state == nil {
		state = &sessionState{}
		t.states[sample.AKey] = state
	}

	// Effective charging flag: the sample's own flag when reported,
	// otherwise carry the open session's flag forward.
	effective := state.charging
	if sample.Charging != nil {
		effective = *sample.Charging
	}

	// A flag change or a silence gap ends the session before this sample is
	// considered; the sample itself then opens the next one.
	reopened := false
	if state.open && (effective != state.charging || sample.Timestamp > state.last+t.gapSeconds()) {
		t.finalize(sample.AKey, state)
		*state = sessionState{}
		reopened = true
	}

	if !state.open {
		state.open = true
		state.start = sample.Timestamp
		switch {
		case sample.Charging != nil:
			state.charging = *sample.Charging
		case reopened:
			// A gap-closed session hands its resolved flag to the next one;
			// the vehicle state did not change, only the silence did.
			state.charging = effective
		default:
			// Unknown flag on a genuinely fresh account defaults to
			// charging: most logging starts because a charge began.
			// Tunable heuristic.
			state.charging = true
		}
	}

	state.last = sample.Timestamp
	if sample.GPSSpeed != nil && *sample.GPSSpeed > t.thresholds.DriveSpeed {
		state.driving = true
	}
}

// FlushStale finalizes every still-open session that has been silent for
// longer than the gap threshold relative to now. Sessions with recent
// samples stay open and unflushed; judging them is deferred to a later run.
func (t *Tracker) FlushStale(now int64) {
	for akey, state := range t.states {
		if !state.open || state.last > now-t.gapSeconds() {
			continue
		}
		t.finalize(akey, state)
		*state = sessionState{}
	}
}

// Entries returns the sessions finalized and kept so far, in close order.
func (t *Tracker) Entries() []models.LogEntry {
	return t.entries
}

// finalize applies the keep rule: the session must have been charging or
// moving, and must exceed the minimum duration. Everything else is noise
// and dropped silently.
func (t *Tracker) finalize(akey string, state *sessionState) {
	if !state.open {
		return
	}
	if !state.driving && !state.charging {
		return
	}
	if state.last-state.start <= int64(t.thresholds.MinSession/time.Second) {
		return
	}
	t.entries = append(t.entries, models.LogEntry{
		AKey:   akey,
		Start:  state.start,
		End:    state.last,
		Charge: state.charging,
		Title:  FormatTitle(state.start),
	})
}

func (t *Tracker) gapSeconds() int64 {
	return int64(t.thresholds.Gap / time.Second)
}

// FormatTitle renders a session start timestamp as dd.mm.yyyy hh:mm:ss in
// UTC, the human-readable title stored with each log entry.
func FormatTitle(timestamp int64) string {
	return time.Unix(timestamp, 0).UTC().Format("02.01.2006 15:04:05")
}
