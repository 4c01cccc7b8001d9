/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package jeopardy

// RevealState tracks how much of a clue is showing on the board.
type RevealState int

const (
	Hidden RevealState = iota
	Question
	Answer
)

func (s RevealState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Question:
		return "question"
	case Answer:
		return "answer"
	}
	return "unknown"
}

// Clue is one question/answer pair on the board.
type Clue struct {
	Question string
	Answer   string
	State    RevealState
}

// Advance moves the clue one step along Hidden -> Question -> Answer and
// returns the text the cell should now show. Once the answer is showing,
// further clicks are absorbed: changed is false and nothing is modified.
func (c *Clue) Advance() (state RevealState, text string, changed bool) {
	switch c.State {
	case Hidden:
		c.State = Question
		return c.State, c.Question, true
	case Question:
		c.State = Answer
		return c.State, c.Answer, true
	}
	return c.State, c.Answer, false
}

// Text is what the cell for this clue currently displays.
func (c *Clue) Text() string {
	switch c.State {
	case Question:
		return c.Question
	case Answer:
		return c.Answer
	}
	return Placeholder
}
