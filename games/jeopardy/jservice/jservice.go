/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package jservice fetches trivia categories from a jService-compatible API.
package jservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Seednode/triviabox/games/jeopardy"
)

const (
	DefaultBaseURL = "https://jservice.io"

	maxBodySize = 4 << 20
)

type category struct {
	ID         int     `json:"id"`
	Title      *string `json:"title"`
	CluesCount int     `json:"clues_count"`
	Clues      []clue  `json:"clues"`
}

type clue struct {
	ID       int     `json:"id"`
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
	Value    int     `json:"value"`
}

// Client talks to a jService API. The zero value is not usable; see New.
type Client struct {
	baseURL *url.URL
	http    *http.Client

	// MinClues drops categories with fewer clues than a column needs.
	MinClues int
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api url %q: scheme must be http or https", baseURL)
	}

	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// CategoryIDs returns the ids of up to count categories.
func (c *Client) CategoryIDs(ctx context.Context, count int) ([]int, error) {
	var categories []category

	err := c.get(ctx, "/api/categories", url.Values{"count": {strconv.Itoa(count)}}, &categories)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(categories))
	for _, cat := range categories {
		if cat.ID == 0 {
			return nil, fmt.Errorf("category without id: %w", jeopardy.ErrDataShape)
		}
		if c.MinClues > 0 && cat.CluesCount < c.MinClues {
			continue
		}
		ids = append(ids, cat.ID)
	}

	return ids, nil
}

// Category returns the title and clues of category id.
func (c *Client) Category(ctx context.Context, id int) (jeopardy.CategoryRecord, error) {
	var cat category

	err := c.get(ctx, "/api/category", url.Values{"id": {strconv.Itoa(id)}}, &cat)
	if err != nil {
		return jeopardy.CategoryRecord{}, err
	}

	if cat.Title == nil {
		return jeopardy.CategoryRecord{}, fmt.Errorf("category %d: missing title: %w", id, jeopardy.ErrDataShape)
	}
	if cat.Clues == nil {
		return jeopardy.CategoryRecord{}, fmt.Errorf("category %d: missing clues: %w", id, jeopardy.ErrDataShape)
	}

	rec := jeopardy.CategoryRecord{
		Title: *cat.Title,
		Clues: make([]jeopardy.RawClue, 0, len(cat.Clues)),
	}

	for _, cl := range cat.Clues {
		if cl.Question == nil || cl.Answer == nil {
			return jeopardy.CategoryRecord{}, fmt.Errorf("category %d: clue %d incomplete: %w", id, cl.ID, jeopardy.ErrDataShape)
		}
		rec.Clues = append(rec.Clues, jeopardy.RawClue{
			Question: *cl.Question,
			Answer:   *cl.Answer,
		})
	}

	return rec, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	u := c.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w: %w", path, jeopardy.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return fmt.Errorf("GET %s: status %d: %w", path, resp.StatusCode, jeopardy.ErrNetwork)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(v); err != nil {
		return fmt.Errorf("GET %s: %w: %w", path, jeopardy.ErrDataShape, err)
	}

	return nil
}
