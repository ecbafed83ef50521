package models

// TelemetrySample is one periodic vehicle observation. Nil pointer fields
// mean the value was not reported with this sample.
type TelemetrySample struct {
	AKey      string   `db:"akey" json:"akey"`
	Timestamp int64    `db:"timestamp" json:"timestamp"`
	Charging  *bool    `db:"charging" json:"charging"`
	GPSSpeed  *float64 `db:"gps_speed" json:"gps_speed"`
	SOC       *float64 `db:"soc" json:"soc"`
}

// HasSignal reports whether the sample carries anything either algorithm
// can use. Rows with no charging flag, no speed and no state of charge are
// noise and never touch session state.
func (s TelemetrySample) HasSignal() bool {
	return s.Charging != nil || s.GPSSpeed != nil || s.SOC != nil
}

// LogEntry is one finalized charging or driving session. Entries are
// immutable once written; the maximum End per account is the pipeline's
// resume point.
type LogEntry struct {
	AKey   string `db:"akey" json:"akey"`
	Start  int64  `db:"start_time" json:"start"`
	End    int64  `db:"end_time" json:"end"`
	Charge bool   `db:"charge" json:"charge"`
	Title  string `db:"title" json:"title"`
}
