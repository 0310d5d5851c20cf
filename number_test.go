package calculatorx_test

import (
	"math"
	"testing"

	. "github.com/comalice/calculatorx"
)

// Package-level so the sum is computed in float64 at run time, not folded
// exactly by the compiler.
var tenth, fifth = 0.1, 0.2

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0", 0},
		{"42", 42},
		{"5.", 5},
		{".5", 0.5},
		{"-0.25", -0.25},
		{"-", 0},
		{".", 0},
		{"-.", 0},
		{"", 0},
		{"12abc", 12},
		{"1e-8", 1e-8},
		{"1e-", 1},
		{"1.524156e+12", 1524156000000},
	}
	for _, tt := range tests {
		if got := ParseNumber(tt.in); got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{9, "9"},
		{-10, "-10"},
		{123.456, "123.456"},
		{tenth + fifth, "0.30000000000000004"},
		{1.0 / 3, "0.3333333333333333"},
		{0.000001, "0.000001"},
		{1e-7, "1e-7"},
		{1.5e-7, "1.5e-7"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{1.25e22, "1.25e+22"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatResult(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"noise removed", tenth + fifth, "0.3"},
		{"integer", 9, "9"},
		{"thirteen digits exponent", 1524155677489, "1.524156e+12"},
		{"negative exponent form", -1524155677489, "-1.524156e+12"},
		{"exactly 1e12", 1e12, "1.000000e+12"},
		{"significant digits", 100.0 / 3, "33.33333333"},
		{"negative significant digits", -10.0 / 3, "-3.333333333"},
		{"twelve chars fraction", 10.0 / 3, "3.3333333333"},
		{"rounds to ten places", 0.00000000005, "1e-10"},
		{"near 1e12 stays exact", 999999999999, "999999999999"},
		{"tiny rounds to zero", 0.00000000001, "0"},
		{"tie rounds up", 1.0 / 2048, "0.0004882813"},
		{"tie rounds up again", 5.0 / 2048, "0.0024414063"},
		{"negative tie rounds toward zero", -1.0 / 2048, "-0.0004882812"},
		{"tie carries", 0.99999999995, "1"},
		{"negative tiny tie", -0.00000000005, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatResult(tt.in); got != tt.want {
				t.Errorf("FormatResult(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
