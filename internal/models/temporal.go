package models

// TemporalKind identifies the kind of a temporal mention.
type TemporalKind string

const (
	KindDate     TemporalKind = "date"
	KindTime     TemporalKind = "time"
	KindDuration TemporalKind = "duration"
)

// TemporalMention is one date, time, or duration found in text.
// Start and End are byte offsets of the match in the scanned text.
type TemporalMention struct {
	Text  string       `json:"text"`
	Start int          `json:"start"`
	End   int          `json:"end"`
	Kind  TemporalKind `json:"type"`
}

// TemporalMentions groups mentions by kind. Within a kind, mentions are
// unique by case-insensitive text and ordered by first occurrence.
type TemporalMentions struct {
	Dates     []TemporalMention `json:"dates"`
	Times     []TemporalMention `json:"times"`
	Durations []TemporalMention `json:"durations"`
}

// TemporalOverview holds counts and first examples per kind.
type TemporalOverview struct {
	TotalDates     int    `json:"total_dates"`
	TotalTimes     int    `json:"total_times"`
	TotalDurations int    `json:"total_durations"`
	FirstDate      string `json:"first_date,omitempty"`
	FirstTime      string `json:"first_time,omitempty"`
	FirstDuration  string `json:"first_duration,omitempty"`
}
