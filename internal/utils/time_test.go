package utils

import (
	"testing"
	"time"
)

func TestCivilDateString(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			name: "utc evening rolls over to next civil day",
			in:   time.Date(2024, 3, 1, 17, 30, 0, 0, time.UTC),
			want: "2024-03-02",
		},
		{
			name: "utc morning stays on same civil day",
			in:   time.Date(2024, 3, 1, 15, 59, 59, 0, time.UTC),
			want: "2024-03-01",
		},
		{
			name: "host zone does not matter",
			in:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("UTC-10", -10*3600)),
			want: "2024-03-02",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CivilDateString(tt.in); got != tt.want {
				t.Errorf("CivilDateString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseInstant(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		wantOK bool
		want   string
	}{
		{name: "rfc3339 with offset", in: "2024-05-01T23:00:00+08:00", wantOK: true, want: "2024-05-01"},
		{name: "js iso string", in: "2024-05-01T16:30:00.123Z", wantOK: true, want: "2024-05-02"},
		{name: "bare date", in: "2024-05-01", wantOK: true, want: "2024-05-01"},
		{name: "datetime local", in: "2024-05-01T07:15", wantOK: true, want: "2024-05-01"},
		{name: "empty", in: "", wantOK: false},
		{name: "whitespace", in: "   ", wantOK: false},
		{name: "garbage", in: "yesterday", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseInstant(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ParseInstant(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && CivilDateString(got) != tt.want {
				t.Errorf("ParseInstant(%q) civil date = %s, want %s", tt.in, CivilDateString(got), tt.want)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name   string
		a, b   string
		want   int
		wantOK bool
	}{
		{name: "same day", a: "2024-01-10", b: "2024-01-10", want: 0, wantOK: true},
		{name: "one day", a: "2024-01-10", b: "2024-01-11", want: 1, wantOK: true},
		{name: "negative", a: "2024-01-11", b: "2024-01-10", want: -1, wantOK: true},
		{name: "across leap day", a: "2024-02-28", b: "2024-03-01", want: 2, wantOK: true},
		{
			name:   "late evening utc counts as next civil day",
			a:      "2024-01-10T00:00:00+08:00",
			b:      "2024-01-10T16:30:00Z",
			want:   1,
			wantOK: true,
		},
		{
			name:   "partial day does not round up",
			a:      "2024-01-10T23:59:00+08:00",
			b:      "2024-01-11T00:01:00+08:00",
			want:   1,
			wantOK: true,
		},
		{name: "missing a", a: "", b: "2024-01-10", wantOK: false},
		{name: "malformed b", a: "2024-01-10", b: "not-a-date", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DaysBetween(tt.a, tt.b)
			if ok != tt.wantOK {
				t.Fatalf("DaysBetween() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("DaysBetween(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDaysFromToday(t *testing.T) {
	now := time.Date(2024, 6, 15, 20, 0, 0, 0, time.UTC) // 2024-06-16 in UTC+8

	got, ok := DaysFromToday("2024-06-01", now)
	if !ok {
		t.Fatal("DaysFromToday() returned ok=false for valid date")
	}
	if got != 15 {
		t.Errorf("DaysFromToday() = %d, want 15", got)
	}

	if _, ok := DaysFromToday("", now); ok {
		t.Error("DaysFromToday(\"\") returned ok=true, want false")
	}
}

func TestTimestampUsesCivilOffset(t *testing.T) {
	ts := Timestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if ts != "2024-01-01T08:00:00+08:00" {
		t.Errorf("Timestamp() = %q, want 2024-01-01T08:00:00+08:00", ts)
	}

	back, ok := ParseInstant(ts)
	if !ok {
		t.Fatalf("ParseInstant(%q) failed", ts)
	}
	if !back.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("round trip mismatch: %v", back)
	}
}

func TestFormatDisplayDate(t *testing.T) {
	got, ok := FormatDisplayDate("2025-03-04")
	if !ok || got != "March 4, 2025" {
		t.Errorf("FormatDisplayDate() = %q, %v; want \"March 4, 2025\", true", got, ok)
	}
	if _, ok := FormatDisplayDate("nope"); ok {
		t.Error("FormatDisplayDate(\"nope\") returned ok=true")
	}
}
