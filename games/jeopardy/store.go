/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package jeopardy

import "fmt"

// RawClue is a question/answer pair as delivered by a trivia source.
type RawClue struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CategoryRecord is a category as delivered by a trivia source.
type CategoryRecord struct {
	Title string    `json:"title"`
	Clues []RawClue `json:"clues"`
}

// Category is a named column of clues.
type Category struct {
	Title string
	Clues []*Clue
}

// Store holds the categories of one game. It is owned by a single Session
// and is not safe for concurrent use.
type Store struct {
	categories []*Category
}

func NewStore() *Store {
	return &Store{}
}

// Load replaces the contents of the store with records, in order. Every
// clue starts Hidden. If any record is malformed the store is left as it was.
func (s *Store) Load(records []CategoryRecord) error {
	categories := make([]*Category, 0, len(records))

	for i, rec := range records {
		if rec.Title == "" {
			return fmt.Errorf("category %d: missing title: %w", i, ErrDataShape)
		}
		if rec.Clues == nil {
			return fmt.Errorf("category %d (%q): missing clues: %w", i, rec.Title, ErrDataShape)
		}

		clues := make([]*Clue, len(rec.Clues))
		for j, raw := range rec.Clues {
			clues[j] = &Clue{
				Question: raw.Question,
				Answer:   raw.Answer,
				State:    Hidden,
			}
		}

		categories = append(categories, &Category{
			Title: rec.Title,
			Clues: clues,
		})
	}

	s.categories = categories

	return nil
}

// Clear empties the store.
func (s *Store) Clear() {
	s.categories = nil
}

// Len returns the number of loaded categories.
func (s *Store) Len() int {
	return len(s.categories)
}

// Category returns the category at index i, or nil if there is none.
func (s *Store) Category(i int) *Category {
	if i < 0 || i >= len(s.categories) {
		return nil
	}
	return s.categories[i]
}

// Get returns the clue at coord.
func (s *Store) Get(coord Coordinate) (*Clue, error) {
	cat := s.Category(coord.Category)
	if cat == nil {
		return nil, fmt.Errorf("%v: category of %d: %w", coord, len(s.categories), ErrIndexOutOfRange)
	}
	if coord.Clue < 0 || coord.Clue >= len(cat.Clues) {
		return nil, fmt.Errorf("%v: clue of %d: %w", coord, len(cat.Clues), ErrIndexOutOfRange)
	}
	return cat.Clues[coord.Clue], nil
}
