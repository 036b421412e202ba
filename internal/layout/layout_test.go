package layout

import (
	"reflect"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		keyword string
		want    int
	}{
		{"single-column", 1},
		{"two-column", 2},
		{"three-column", 3},
		{"quad-column", 1},
		{"", 1},
		{"Two-Column", 1},
	}

	for _, tt := range tests {
		if got := Resolve(tt.keyword); got != tt.want {
			t.Errorf("Resolve(%q) = %d, want %d", tt.keyword, got, tt.want)
		}
	}
}

func TestResolve_FallbackMatchesSingleColumn(t *testing.T) {
	if Resolve("quad-column") != Resolve(SingleColumn) {
		t.Error("unrecognized keyword should resolve like single-column")
	}
}

func TestArrange(t *testing.T) {
	tests := []struct {
		n, cols int
		want    [][]int
	}{
		{0, 2, nil},
		{3, 1, [][]int{{0}, {1}, {2}}},
		{5, 2, [][]int{{0, 1}, {2, 3}, {4}}},
		{3, 3, [][]int{{0, 1, 2}}},
		{2, 0, [][]int{{0}, {1}}},
	}

	for _, tt := range tests {
		if got := Arrange(tt.n, tt.cols); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Arrange(%d, %d) = %v, want %v", tt.n, tt.cols, got, tt.want)
		}
	}
}

func TestColumnWidth(t *testing.T) {
	if got := ColumnWidth(80, 1); got != 80 {
		t.Errorf("ColumnWidth(80, 1) = %d, want 80", got)
	}
	if got := ColumnWidth(80, 2); got != 39 {
		t.Errorf("ColumnWidth(80, 2) = %d, want 39", got)
	}
	if got := ColumnOffset(80, 2, 1); got != 41 {
		t.Errorf("ColumnOffset(80, 2, 1) = %d, want 41", got)
	}
}

func TestFit(t *testing.T) {
	if got := Fit(100, 3); got != 3 {
		t.Errorf("Fit(100, 3) = %d, want 3", got)
	}
	if got := Fit(40, 3); got != 2 {
		t.Errorf("Fit(40, 3) = %d, want 2", got)
	}
	if got := Fit(10, 3); got != 1 {
		t.Errorf("Fit(10, 3) = %d, want 1", got)
	}
}
