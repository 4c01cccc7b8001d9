/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"github.com/Seednode/triviabox/games/jeopardy"
	"github.com/Seednode/triviabox/games/jeopardy/cluedb"
	"github.com/Seednode/triviabox/games/jeopardy/jservice"
)

func newAPIClient(cfg *Config) (*jservice.Client, error) {
	client, err := jservice.New(cfg.apiURL, cfg.fetchTimeout)
	if err != nil {
		return nil, err
	}
	client.MinClues = cfg.height - 1

	return client, nil
}

// newLoader returns a Loader reading from --clue-db if set, or from the
// trivia api otherwise. The returned func releases the source.
func newLoader(cfg *Config) (*jeopardy.Loader, func() error, error) {
	var (
		src     jeopardy.Source
		closeFn = func() error { return nil }
	)

	if cfg.clueDB != "" {
		db, err := cluedb.Open(cfg.clueDB)
		if err != nil {
			return nil, nil, err
		}
		db.MinClues = cfg.height - 1
		src, closeFn = db, db.Close

		logf(cfg, "START: Reading clues from %s", cfg.clueDB)
	} else {
		client, err := newAPIClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		src = client

		logf(cfg, "START: Reading clues from %s", cfg.apiURL)
	}

	return &jeopardy.Loader{
		Source:   src,
		PoolSize: cfg.categoryPool,
		Width:    cfg.width,
		Fetch:    cfg.fetchFunc(),
	}, closeFn, nil
}
