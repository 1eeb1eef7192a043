package stooq

import (
	"testing"
	"time"
)

const historyHTML = `
<html><body>
<table id="fth1">
<thead><tr><th>No.</th><th>Date</th><th>Open</th><th>High</th><th>Low</th><th>Close</th><th>Volume</th></tr></thead>
<tbody>
<tr><td>1</td><td>2024-01-02</td><td>185.64</td><td>186.95</td><td>183.89</td><td>185.14</td><td>52,455,980</td></tr>
<tr><td>2</td><td>3 Jan 2024</td><td>184.22</td><td>185.88</td><td>183.43</td><td>184.25</td><td>58,414,460</td></tr>
<tr><td>3</td><td>2024-01-04</td><td>182.15</td><td>183.09</td><td>-</td><td>181.91</td><td>71,983,570</td></tr>
<tr><td>4</td><td>not a date</td><td>1</td><td>2</td><td>3</td><td>4</td><td>5</td></tr>
</tbody>
</table>
</body></html>`

func TestParseHistoryTable(t *testing.T) {
	bars, err := parseHistoryTable(historyHTML)
	if err != nil {
		t.Fatalf("parseHistoryTable() error: %v", err)
	}

	// The row without a parseable date is dropped entirely.
	if len(bars) != 3 {
		t.Fatalf("parseHistoryTable() got %d bars, want 3", len(bars))
	}

	first := bars[0]
	if !first.Date.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("bars[0].Date = %v", first.Date)
	}
	if first.Open == nil || *first.Open != 185.64 {
		t.Errorf("bars[0].Open = %v, want 185.64", first.Open)
	}
	if first.Volume == nil || *first.Volume != 52455980 {
		t.Errorf("bars[0].Volume = %v, want 52455980 (thousands separators stripped)", first.Volume)
	}

	// Both date formats parse.
	if !bars[1].Date.Equal(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("bars[1].Date = %v", bars[1].Date)
	}

	// A malformed cell becomes nil for the validator to report.
	if bars[2].Low != nil {
		t.Errorf("bars[2].Low = %v, want nil", bars[2].Low)
	}
}

func TestParseHistoryTable_NoTable(t *testing.T) {
	bars, err := parseHistoryTable("<html><body><p>No results.</p></body></html>")
	if err != nil {
		t.Fatalf("parseHistoryTable() error: %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("parseHistoryTable() got %d bars, want 0", len(bars))
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"185.64", fp(185.64)},
		{" 1,234,567 ", fp(1234567)},
		{"", nil},
		{"-", nil},
		{"n/a", nil},
	}

	for _, tt := range tests {
		got := parseCell(tt.in)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("parseCell(%q) = %v, want nil", tt.in, *got)
		case tt.want != nil && (got == nil || *got != *tt.want):
			t.Errorf("parseCell(%q) = %v, want %v", tt.in, got, *tt.want)
		}
	}
}

func fp(v float64) *float64 { return &v }
