/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package jeopardy

import "fmt"

// Placeholder is shown in a cell until its clue is revealed.
const Placeholder = "?"

// Coordinate addresses a board cell.
//
// Category is the column: an index into the Store.
// Clue is the body row: an index into that category's clues.
type Coordinate struct {
	Category int `json:"category"`
	Clue     int `json:"clue"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(category %d, clue %d)", c.Category, c.Clue)
}

// Cell is one clickable square of the board.
type Cell struct {
	Coordinate
	Text string `json:"text"`
}

// Grid is the rendered board: a header row of category titles and
// Height-1 body rows of Width cells. Rows[r][c] is tagged
// Coordinate{Category: c, Clue: r}.
type Grid struct {
	Headers []string `json:"headers"`
	Rows    [][]Cell `json:"rows"`
}

// BuildGrid lays out the first width categories of store, using the first
// height-1 clues of each. The header row counts towards height.
func BuildGrid(store *Store, width, height int) (*Grid, error) {
	if width < 1 || height < 2 {
		return nil, fmt.Errorf("%dx%d board: %w", width, height, ErrDimensionMismatch)
	}

	if width > store.Len() {
		return nil, fmt.Errorf("width %d with %d categories loaded: %w", width, store.Len(), ErrDimensionMismatch)
	}

	headers := make([]string, width)
	for c := 0; c < width; c++ {
		cat := store.Category(c)
		if len(cat.Clues) < height-1 {
			return nil, fmt.Errorf("category %q has %d clues, board needs %d: %w",
				cat.Title, len(cat.Clues), height-1, ErrDimensionMismatch)
		}
		headers[c] = cat.Title
	}

	rows := make([][]Cell, height-1)
	for r := range rows {
		rows[r] = make([]Cell, width)
		for c := range rows[r] {
			rows[r][c] = Cell{
				Coordinate: Coordinate{Category: c, Clue: r},
				Text:       Placeholder,
			}
		}
	}

	return &Grid{
		Headers: headers,
		Rows:    rows,
	}, nil
}

// Width is the number of columns.
func (g *Grid) Width() int {
	return len(g.Headers)
}

// Height is the number of rows, header included.
func (g *Grid) Height() int {
	return len(g.Rows) + 1
}

// Contains reports whether coord addresses a cell of g.
func (g *Grid) Contains(coord Coordinate) bool {
	return coord.Clue >= 0 && coord.Clue < len(g.Rows) &&
		coord.Category >= 0 && coord.Category < len(g.Headers)
}

// ApplyCellUpdate sets the text of the cell at coord and nothing else.
func (g *Grid) ApplyCellUpdate(coord Coordinate, text string) error {
	if !g.Contains(coord) {
		return fmt.Errorf("%v on %dx%d board: %w", coord, g.Width(), g.Height(), ErrIndexOutOfRange)
	}

	g.Rows[coord.Clue][coord.Category].Text = text

	return nil
}
