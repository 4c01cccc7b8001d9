/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package jeopardy

import (
	"context"
	"fmt"
)

// CellUpdate describes the effect of a click on one cell.
type CellUpdate struct {
	Coordinate
	Text    string      `json:"text"`
	State   RevealState `json:"-"`
	Changed bool        `json:"-"`
}

// CellView is a cell as shown to a client joining mid-game.
type CellView struct {
	Coordinate
	Text  string `json:"text"`
	State string `json:"state"`
}

// BoardView is a full snapshot of the board.
type BoardView struct {
	Headers []string     `json:"headers"`
	Rows    [][]CellView `json:"rows"`
}

// Session is one game board and the clues behind it. A Session is owned by
// a single goroutine; only the context returned by Begin is handed to other
// goroutines.
type Session struct {
	width  int
	height int

	store *Store
	grid  *Grid

	generation uint64
	cancel     context.CancelFunc
}

func NewSession(width, height int) *Session {
	return &Session{
		width:  width,
		height: height,
		store:  NewStore(),
	}
}

// Begin starts a new load. Any load started by an earlier Begin has its
// context cancelled, and its result will be refused by Commit.
func (s *Session) Begin(parent context.Context) (uint64, context.Context) {
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithCancel(parent)

	s.generation++
	s.cancel = cancel

	return s.generation, ctx
}

// Current reports whether generation is the most recent load.
func (s *Session) Current(generation uint64) bool {
	return generation == s.generation
}

// Release frees the context of a load that ended without a result.
func (s *Session) Release(generation uint64) {
	if s.Current(generation) && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Commit replaces the current game with records. The previous board is
// only torn down once the new one has been built, so a failed commit
// leaves it playable.
func (s *Session) Commit(generation uint64, records []CategoryRecord) (*Grid, error) {
	if !s.Current(generation) {
		return nil, fmt.Errorf("generation %d, current %d: %w", generation, s.generation, ErrStaleLoad)
	}

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	next := NewStore()
	if err := next.Load(records); err != nil {
		return nil, err
	}

	grid, err := BuildGrid(next, s.width, s.height)
	if err != nil {
		return nil, err
	}

	s.store.Clear()
	s.store = next
	s.grid = grid

	return grid, nil
}

// Reveal advances the clue at coord and mirrors the result onto the grid.
func (s *Session) Reveal(coord Coordinate) (CellUpdate, error) {
	if !s.Loaded() {
		return CellUpdate{}, ErrNoBoard
	}

	if !s.grid.Contains(coord) {
		return CellUpdate{}, fmt.Errorf("%v on %dx%d board: %w", coord, s.grid.Width(), s.grid.Height(), ErrIndexOutOfRange)
	}

	clue, err := s.store.Get(coord)
	if err != nil {
		return CellUpdate{}, err
	}

	state, text, changed := clue.Advance()

	update := CellUpdate{
		Coordinate: coord,
		Text:       text,
		State:      state,
		Changed:    changed,
	}

	if !changed {
		return update, nil
	}

	if err := s.grid.ApplyCellUpdate(coord, text); err != nil {
		return CellUpdate{}, err
	}

	return update, nil
}

// Loaded reports whether a board is ready to play.
func (s *Session) Loaded() bool {
	return s.grid != nil
}

// Snapshot returns the current board, or nil if none is loaded.
func (s *Session) Snapshot() *BoardView {
	if !s.Loaded() {
		return nil
	}

	view := &BoardView{
		Headers: append([]string(nil), s.grid.Headers...),
		Rows:    make([][]CellView, len(s.grid.Rows)),
	}

	for r, row := range s.grid.Rows {
		view.Rows[r] = make([]CellView, len(row))
		for c, cell := range row {
			text, state := cell.Text, Hidden
			if clue, err := s.store.Get(cell.Coordinate); err == nil {
				text, state = clue.Text(), clue.State
			}

			view.Rows[r][c] = CellView{
				Coordinate: cell.Coordinate,
				Text:       text,
				State:      state.String(),
			}
		}
	}

	return view
}

// Close abandons any pending load and discards the board.
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	s.generation++
	s.store.Clear()
	s.grid = nil
}
