package framegrab

import (
	"encoding/json"
	"math"
	"testing"
)

func TestToNumber(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{5, 5, true},
		{int64(-2), -2, true},
		{float32(0.5), 0.5, true},
		{uint16(9), 9, true},
		{json.Number("1.25"), 1.25, true},
		{json.Number("abc"), 0, false},
		{"5", 5, true},
		{"-3", -3, true},
		{"2.5", 2.5, true},
		{"1e+21", 1e21, true},
		{"5.0", 0, false},
		{" 5", 0, false},
		{"0x10", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{math.NaN(), 0, false},
		{math.Inf(-1), 0, false},
		{true, 0, false},
		{nil, 0, false},
		{[]int{1}, 0, false},
	}

	for _, tt := range tests {
		got, ok := toNumber(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("toNumber(%#v): expected (%v, %v), got (%v, %v)", tt.in, tt.want, tt.ok, got, ok)
		}
	}
}

func TestIsTimestamp(t *testing.T) {
	if _, ok := isTimestamp(0, 10); !ok {
		t.Error("0 should be a timestamp")
	}
	if _, ok := isTimestamp(10, 10); !ok {
		t.Error("duration itself should be a timestamp")
	}
	if _, ok := isTimestamp(10.0001, 10); ok {
		t.Error("values past the duration should be rejected")
	}
	if _, ok := isTimestamp(-0.1, 10); ok {
		t.Error("negative values should be rejected")
	}
}

func TestToNonNegativeInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{3.99, 3},
		{-3.99, 3},
		{0, 0},
		{"12", 12},
		{"twelve", 0},
		{math.MaxFloat64, maxCount},
	}

	for _, tt := range tests {
		if got := toNonNegativeInt(tt.in); got != tt.want {
			t.Errorf("toNonNegativeInt(%#v): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestToSequence(t *testing.T) {
	if _, ok := toSequence("abc"); ok {
		t.Error("strings are not sequences")
	}
	if _, ok := toSequence(map[string]int{"a": 1}); ok {
		t.Error("maps are not sequences")
	}
	seq, ok := toSequence([]string{"1", "2"})
	if !ok || len(seq) != 2 || seq[1] != "2" {
		t.Errorf("unexpected sequence %v", seq)
	}
	seq, ok = toSequence([]uint{4})
	if !ok || len(seq) != 1 || seq[0] != uint(4) {
		t.Errorf("unexpected sequence %v", seq)
	}
}
