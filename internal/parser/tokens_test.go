package parser

import (
	"reflect"
	"testing"
)

func TestToolTokens(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want []string
	}{
		{"BT151", []string{"BT151"}},
		{" gr151d / HG151F\\RFT152, ", []string{"GR151D", "HG151F", "RFT152"}},
		{"N/A", nil},
		{"n/a", nil},
		{"Other", nil},
		{"", nil},
		{"BT151 & BT152", []string{"BT151 & BT152"}},
	}
	for _, tc := range cases {
		if got := ToolTokens(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("ToolTokens(%q) got=%v want=%v", tc.in, got, tc.want)
		}
	}
}

func TestTechTokens(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want []string
	}{
		{"TW", []string{"TW"}},
		{"tw/ds & mjw, abcd", []string{"TW", "DS", "MJW", "ABCD"}},
		{"T", nil},
		{"ABCDE", nil},
		{"T1", nil},
		{"Travis", nil},
		{"N/A", nil},
	}
	for _, tc := range cases {
		if got := TechTokens(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("TechTokens(%q) got=%v want=%v", tc.in, got, tc.want)
		}
	}
}

func TestBaseCode_StripsTrailingLetters(t *testing.T) {
	t.Parallel()

	if BaseCode("GR151D") != "GR151" || BaseCode("GR151F") != "GR151" {
		t.Fatalf("GR151D/GR151F should share base GR151")
	}
	if got := BaseCode("RFT152"); got != "RFT152" {
		t.Fatalf("BaseCode(RFT152) got=%q", got)
	}
	if got := BaseCode(BaseCode("GR151D")); got != "GR151" {
		t.Fatalf("BaseCode should be idempotent, got=%q", got)
	}
	if got := BaseCode("abc"); got != "" {
		t.Fatalf("all-letter token should have empty base, got=%q", got)
	}
}

func TestInitials(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Travis Winston":   "TW",
		"Mary Jane Watson": "MJW",
		"  duane   smith ": "DS",
		"":                 "",
	}
	for in, want := range cases {
		if got := Initials(in); got != want {
			t.Fatalf("Initials(%q) got=%q want=%q", in, got, want)
		}
	}
}

func TestHasToolText(t *testing.T) {
	t.Parallel()

	if HasToolText(" N/A ") || HasToolText("other") || HasToolText("  ") {
		t.Fatalf("placeholders and blanks are not meaningful tool text")
	}
	if !HasToolText("XYZ") {
		t.Fatalf("XYZ should be meaningful tool text")
	}
	if HasTechText("n/a") || !HasTechText("??") {
		t.Fatalf("unexpected HasTechText result")
	}
}
