package jeopardy

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func loadedStore(t *testing.T, records []CategoryRecord) *Store {
	t.Helper()

	s := NewStore()
	if err := s.Load(records); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func TestBuildGridScenario(t *testing.T) {
	grid, err := BuildGrid(loadedStore(t, sampleRecords()), 2, 2)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := &Grid{
		Headers: []string{"Math", "Lit"},
		Rows: [][]Cell{{
			{Coordinate: Coordinate{Category: 0, Clue: 0}, Text: "?"},
			{Coordinate: Coordinate{Category: 1, Clue: 0}, Text: "?"},
		}},
	}

	if diff := cmp.Diff(want, grid); diff != "" {
		t.Fatalf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildGridDimensions(t *testing.T) {
	records := make([]CategoryRecord, 6)
	for i := range records {
		records[i] = CategoryRecord{Title: string(rune('A' + i))}
		for j := 0; j < 5; j++ {
			records[i].Clues = append(records[i].Clues, RawClue{Question: "q", Answer: "a"})
		}
	}
	store := loadedStore(t, records)

	const width, height = 6, 6

	grid, err := BuildGrid(store, width, height)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if len(grid.Headers) != width {
		t.Fatalf("expected %d headers, got %d", width, len(grid.Headers))
	}
	if len(grid.Rows) != height-1 {
		t.Fatalf("expected %d rows, got %d", height-1, len(grid.Rows))
	}

	seen := make(map[Coordinate]bool)
	for r, row := range grid.Rows {
		if len(row) != width {
			t.Fatalf("row %d: expected %d cells, got %d", r, width, len(row))
		}
		for c, cell := range row {
			if cell.Category != c || cell.Clue != r {
				t.Errorf("row %d col %d tagged %v", r, c, cell.Coordinate)
			}
			if seen[cell.Coordinate] {
				t.Errorf("duplicate coordinate %v", cell.Coordinate)
			}
			seen[cell.Coordinate] = true
			if !grid.Contains(cell.Coordinate) {
				t.Errorf("%v not contained in its own grid", cell.Coordinate)
			}
		}
	}

	if grid.Width() != width || grid.Height() != height {
		t.Fatalf("expected %dx%d, got %dx%d", width, height, grid.Width(), grid.Height())
	}
}

func TestBuildGridMismatch(t *testing.T) {
	store := loadedStore(t, sampleRecords())

	tests := []struct {
		name          string
		width, height int
	}{
		{"too wide", 3, 2},
		{"too tall", 2, 3},
		{"no columns", 0, 2},
		{"header only", 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildGrid(store, tt.width, tt.height); !errors.Is(err, ErrDimensionMismatch) {
				t.Fatalf("expected ErrDimensionMismatch, got %v", err)
			}
		})
	}
}

func TestApplyCellUpdate(t *testing.T) {
	grid, err := BuildGrid(loadedStore(t, sampleRecords()), 2, 2)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	coord := Coordinate{Category: 1, Clue: 0}
	for i := 0; i < 2; i++ {
		if err := grid.ApplyCellUpdate(coord, "Hamlet Author"); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}

	if got := grid.Rows[0][1].Text; got != "Hamlet Author" {
		t.Fatalf("expected updated cell, got %q", got)
	}
	if got := grid.Rows[0][0].Text; got != Placeholder {
		t.Fatalf("neighbouring cell changed to %q", got)
	}

	if err := grid.ApplyCellUpdate(Coordinate{Category: 2, Clue: 0}, "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}
