/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Seednode/triviabox/games/jeopardy"
)

const previewCellWidth = 24

var (
	previewHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffcc00")).
			Align(lipgloss.Center).
			Width(previewCellWidth)
	previewCell = lipgloss.NewStyle().
			Width(previewCellWidth).
			Padding(0, 1)
	previewAnswer = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#ffcc00"))
)

func newPreviewCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Draw a board and print it with every question and answer, for the host.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validateBoard(); err != nil {
				return err
			}

			loader, closeSource, err := newLoader(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeSource() }()

			records, err := loader.Load(cmd.Context())
			if err != nil {
				return err
			}

			store := jeopardy.NewStore()
			if err := store.Load(records); err != nil {
				return err
			}

			grid, err := jeopardy.BuildGrid(store, cfg.width, cfg.height)
			if err != nil {
				return err
			}

			return renderAnswerKey(cmd.OutOrStdout(), store, grid)
		},
	}
}

// renderAnswerKey prints grid as a table with each clue's question and answer.
func renderAnswerKey(w io.Writer, store *jeopardy.Store, grid *jeopardy.Grid) error {
	rows := make([][]string, len(grid.Rows))

	for r, row := range grid.Rows {
		rows[r] = make([]string, len(row))
		for c, cell := range row {
			clue, err := store.Get(cell.Coordinate)
			if err != nil {
				return err
			}
			rows[r][c] = clue.Question + "\n\n" + previewAnswer.Render(clue.Answer)
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(true).
		Headers(grid.Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return previewHeader
			}
			return previewCell
		})

	_, err := fmt.Fprintln(w, t.Render())

	return err
}
