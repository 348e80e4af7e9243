package model

import (
	"encoding/json"
	"testing"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		input    string
		expected Position
	}{
		{input: "QB", expected: POS_QB},
		{input: "qb", expected: POS_QB},
		{input: "WR", expected: POS_WR},
		{input: "wr", expected: POS_WR},
		{input: "RB", expected: POS_RB},
		{input: "rb", expected: POS_RB},
		{input: "TE", expected: POS_TE},
		{input: "te", expected: POS_TE},
		{input: "K", expected: POS_K},
		{input: "DEF", expected: POS_DEF},
		{input: "D/ST", expected: POS_DEF},
		{input: "UNKNOWN", expected: POS_UNKNOWN},
		{input: "", expected: POS_UNKNOWN},
	}

	for _, tc := range tests {
		a := ParsePosition(tc.input)
		if a != tc.expected {
			t.Errorf("input: '%s', expected: '%s', got '%s'", tc.input, tc.expected, a)
		}
	}
}

func TestPosition_unmarshalJSON(t *testing.T) {
	var p struct {
		A Position `json:"a"`
		B Position `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a": "wr", "b": null}`), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.A != POS_WR {
		t.Errorf("expected %s, got %s", POS_WR, p.A)
	}
	if p.B != "" {
		t.Errorf("expected null to leave position empty, got %s", p.B)
	}
}
