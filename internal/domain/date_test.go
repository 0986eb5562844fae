package domain

import (
	"encoding/json"
	"testing"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-10")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	if d.String() != "2024-03-10" {
		t.Errorf("String() = %s, want 2024-03-10", d.String())
	}

	for _, bad := range []string{"", "2024-13-01", "10/03/2024", "2024-03-10T12:00:00Z"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) should fail", bad)
		}
	}
}

func TestDateAddDays(t *testing.T) {
	testCases := []struct {
		in   string
		days int
		want string
	}{
		{"2024-03-10", 1, "2024-03-11"},
		{"2024-02-29", 1, "2024-03-01"},
		{"2023-12-31", 1, "2024-01-01"},
		{"2024-03-10", -1, "2024-03-09"},
	}

	for _, tc := range testCases {
		d, err := ParseDate(tc.in)
		if err != nil {
			t.Fatal(err)
		}
		if got := d.AddDays(tc.days).String(); got != tc.want {
			t.Errorf("%s + %d days = %s, want %s", tc.in, tc.days, got, tc.want)
		}
	}
}

func TestDateComparisons(t *testing.T) {
	a, _ := ParseDate("2024-03-10")
	b, _ := ParseDate("2024-03-11")

	if !a.Before(b) || b.Before(a) {
		t.Error("Before is wrong")
	}
	if !b.After(a) || a.After(b) {
		t.Error("After is wrong")
	}
	if !a.Equal(a) || a.Equal(b) {
		t.Error("Equal is wrong")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d, _ := ParseDate("2024-03-10")

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"2024-03-10"` {
		t.Errorf("marshal = %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip = %s, want %s", back, d)
	}
}

func TestDateSQLValueAndScan(t *testing.T) {
	d, _ := ParseDate("2024-03-10")

	v, err := d.Value()
	if err != nil {
		t.Fatal(err)
	}
	if v != "2024-03-10" {
		t.Errorf("Value() = %v, want 2024-03-10", v)
	}

	var scanned Date
	if err := scanned.Scan("2024-03-10"); err != nil {
		t.Fatal(err)
	}
	if !scanned.Equal(d) {
		t.Errorf("scanned = %s, want %s", scanned, d)
	}

	var fromBytes Date
	if err := fromBytes.Scan([]byte("2024-03-10")); err != nil {
		t.Fatal(err)
	}
	if !fromBytes.Equal(d) {
		t.Errorf("scanned bytes = %s, want %s", fromBytes, d)
	}

	var fromNil Date
	if err := fromNil.Scan(nil); err != nil {
		t.Fatal(err)
	}
	if !fromNil.IsZero() {
		t.Error("scanning nil should give the zero date")
	}
}

func TestDateRangeDays(t *testing.T) {
	start, _ := ParseDate("2024-03-01")
	end, _ := ParseDate("2024-03-10")
	r := DateRange{Start: start, End: end}

	if got := r.Days(); got != 10 {
		t.Errorf("Days() = %d, want 10", got)
	}
	if got := r.String(); got != "2024-03-01..2024-03-10" {
		t.Errorf("String() = %s", got)
	}

	single := DateRange{Start: start, End: start}
	if got := single.Days(); got != 1 {
		t.Errorf("single-day Days() = %d, want 1", got)
	}
}
