package models

import (
	"testing"
)

func TestParseTideKind(t *testing.T) {
	tests := []struct {
		code   string
		want   TideKind
		wantOK bool
	}{
		{"H", TideHigh, true},
		{"L", TideLow, true},
		{"HH", "", false},
		{"l", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := ParseTideKind(tt.code)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseTideKind(%q) = %v, %v; want %v, %v", tt.code, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTideKind_Constants(t *testing.T) {
	if TideHigh != "H" {
		t.Errorf("TideHigh = %v, want 'H'", TideHigh)
	}
	if TideLow != "L" {
		t.Errorf("TideLow = %v, want 'L'", TideLow)
	}
}

func TestDaySummary_Timeline(t *testing.T) {
	day := DaySummary{
		LowEvents: []TideEvent{
			{Time: NewTimeOfDay(5, 30), Height: -0.5},
			{Time: NewTimeOfDay(14, 10), Height: 0.3},
		},
		HighEvents: []TideEvent{
			{Time: NewTimeOfDay(11, 45), Height: 4.2},
			{Time: NewTimeOfDay(22, 0), Height: 5.1},
		},
	}

	got := day.Timeline()
	wantKinds := []TideKind{TideLow, TideHigh, TideLow, TideHigh}
	wantTimes := []string{"05:30", "11:45", "14:10", "22:00"}

	if len(got) != len(wantKinds) {
		t.Fatalf("Timeline() returned %d entries, want %d", len(got), len(wantKinds))
	}
	for i := range got {
		if got[i].Kind != wantKinds[i] || got[i].Time.String() != wantTimes[i] {
			t.Errorf("entry %d = %s %s, want %s %s", i, got[i].Kind, got[i].Time, wantKinds[i], wantTimes[i])
		}
	}
}

func TestDaySummary_TimelineEmpty(t *testing.T) {
	if got := (DaySummary{}).Timeline(); len(got) != 0 {
		t.Errorf("Timeline() of empty day = %v, want empty", got)
	}
}
