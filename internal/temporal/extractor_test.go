package temporal

import (
	"reflect"
	"testing"

	"github.com/clinscribe/clinscribe/internal/models"
)

func TestExtractor_Dates(t *testing.T) {
	e := New()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "month day year",
			in:   "I was diagnosed March 15th, 2024 after the accident.",
			want: []string{"March 15th, 2024"},
		},
		{
			name: "relative last weekday",
			in:   "It started last Monday.",
			want: []string{"last Monday"},
		},
		{
			name: "relative next week",
			in:   "Come back next week for a review.",
			want: []string{"next week"},
		},
		{
			name: "no dates",
			in:   "The pain comes and goes.",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Texts(e.Extract(tt.in).Dates)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("dates = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractor_Times(t *testing.T) {
	e := New()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "hour with am pm",
			in:   "See you at 7 pm.",
			want: []string{"7 pm"},
		},
		{
			name: "day periods",
			in:   "Take it in the morning and before night.",
			want: []string{"morning", "night"},
		},
		{
			name: "duplicate period deduped first wins",
			in:   "Every morning. In the Morning too.",
			want: []string{"morning"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Texts(e.Extract(tt.in).Times)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("times = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractor_Durations(t *testing.T) {
	e := New()

	got := Texts(e.Extract("Physiotherapy for 6 weeks, roughly 10 sessions.").Durations)
	want := []string{"6 weeks", "10 sessions"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("durations = %v, want %v", got, want)
	}
}

func TestExtractor_Spans(t *testing.T) {
	e := New()

	in := "Every morning it aches."
	times := e.Extract(in).Times
	if len(times) != 1 {
		t.Fatalf("expected 1 time mention, got %d", len(times))
	}
	m := times[0]
	if m.Text != "morning" || m.Kind != models.KindTime {
		t.Errorf("mention = %+v", m)
	}
	if in[m.Start:m.End] != m.Text {
		t.Errorf("span [%d:%d] = %q, want %q", m.Start, m.End, in[m.Start:m.End], m.Text)
	}
}

func TestExtractor_Overview(t *testing.T) {
	e := New()

	m := models.TemporalMentions{
		Dates:     e.Extract("It started last Monday.").Dates,
		Times:     e.Extract("Usually in the morning.").Times,
		Durations: e.Extract("About 6 weeks.").Durations,
	}
	o := e.Overview(m)
	if o.TotalDates != 1 || o.FirstDate != "last Monday" {
		t.Errorf("dates overview = %+v", o)
	}
	if o.TotalTimes != 1 || o.FirstTime != "morning" {
		t.Errorf("times overview = %+v", o)
	}
	if o.TotalDurations != 1 || o.FirstDuration != "6 weeks" {
		t.Errorf("durations overview = %+v", o)
	}

	empty := e.Overview(e.Extract("no temporal content here"))
	if empty.TotalDates != 0 || empty.FirstDate != "" {
		t.Errorf("empty overview = %+v", empty)
	}
}
