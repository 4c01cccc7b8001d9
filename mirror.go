/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Seednode/triviabox/games/jeopardy/cluedb"
)

func newMirrorCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Copy categories from the trivia api into a sqlite clue database, for offline play.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.clueDB == "" {
				return errors.New("--clue-db is required")
			}
			if err := cfg.validateBoard(); err != nil {
				return err
			}

			client, err := newAPIClient(cfg)
			if err != nil {
				return err
			}

			db, err := cluedb.Open(cfg.clueDB)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()

			ids, err := client.CategoryIDs(ctx, cfg.categoryPool)
			if err != nil {
				return err
			}

			records, err := cfg.fetchFunc()(ctx, client, ids)
			if err != nil {
				return err
			}

			for i, rec := range records {
				if err := db.Put(ctx, ids[i], rec); err != nil {
					return fmt.Errorf("store category %d: %w", ids[i], err)
				}
			}

			total, err := db.Count(ctx)
			if err != nil {
				return err
			}

			log.Info().
				Int("mirrored", len(records)).
				Int("total", total).
				Str("db", cfg.clueDB).
				Msg("MIRROR: Done")

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Mirrored %d categories into %s (%d total, %s)\n",
				len(records), cfg.clueDB, total, fileSize(cfg.clueDB))

			return err
		},
	}

	return cmd
}
