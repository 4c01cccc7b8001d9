// triviabox jeopardy board
//
// Every game id gets its own board, shared by everyone who opens the game URL.
// Clicking a hidden square shows its question to all players; clicking it again
// shows the answer. Answered squares ignore further clicks.
//
// Features:
// - WebSockets per game ID: /path/:gameid and /path/:gameid/ws
// - The first connection to a game draws a board
// - Any player may restart; a restart abandons a board that is still loading
// - A failed restart keeps the current board and tells players it failed
// - Games auto-reaped after configurable idle timeout
// - Random 8-char game IDs via crypto/rand, with server-side collision check
// - In-browser QR button to share the current game, backed by go-qrcode

package main

import (
	"context"
	"crypto/rand"
	_ "embed"
	"encoding/hex"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"

	"github.com/Seednode/triviabox/games/jeopardy"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

// gameLoader draws the categories for a fresh board.
type gameLoader interface {
	Load(ctx context.Context) ([]jeopardy.CategoryRecord, error)
}

// Messages coming from clients
type ClientMessage struct {
	Type     string `json:"type"`               // "reveal", "restart"
	Category *int   `json:"category,omitempty"` // reveal
	Clue     *int   `json:"clue,omitempty"`     // reveal
}

// BoardMessage carries the whole board; clients rebuild their table from it.
type BoardMessage struct {
	Type    string                `json:"type"` // "board"
	Headers []string              `json:"headers"`
	Rows    [][]jeopardy.CellView `json:"rows"`
}

// CellMessage updates a single square.
type CellMessage struct {
	Type     string `json:"type"` // "cell"
	Category int    `json:"category"`
	Clue     int    `json:"clue"`
	Text     string `json:"text"`
	State    string `json:"state"`
}

// StatusMessage reports whether a board is loading or failed to load.
type StatusMessage struct {
	Type    string `json:"type"` // "status"
	Loading bool   `json:"loading"`
	Failed  bool   `json:"failed"`
	Message string `json:"message,omitempty"`
}

// PresenceMessage tells everyone how many players are connected.
type PresenceMessage struct {
	Type    string `json:"type"` // "presence"
	Players int    `json:"players"`
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	playerID string
}

type revealRequest struct {
	client *Client
	coord  jeopardy.Coordinate
}

type loadResult struct {
	generation uint64
	records    []jeopardy.CategoryRecord
	err        error
}

// Hub owns one game. Everything but lastActive is only touched from run.
type Hub struct {
	id      string
	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	reveals  chan revealRequest
	restarts chan *Client
	loaded   chan loadResult
	quit     chan struct{}
	stopOnce sync.Once

	mu         sync.RWMutex
	createdAt  time.Time
	lastActive time.Time

	loader  gameLoader
	session *jeopardy.Session
	loading bool
	failure string
}

func newHub(cfg *Config, gameID string, loader gameLoader) *Hub {
	now := time.Now()
	return &Hub{
		id:         gameID,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		reveals:    make(chan revealRequest),
		restarts:   make(chan *Client),
		loaded:     make(chan loadResult),
		quit:       make(chan struct{}),
		createdAt:  now,
		lastActive: now,
		loader:     loader,
		session:    jeopardy.NewSession(cfg.width, cfg.height),
	}
}

func (h *Hub) run(cfg *Config) {
	h.startLoad(cfg)

	for {
		select {
		case c := <-h.register:
			h.touch()
			h.clients[c] = true

			if h.session.Loaded() {
				h.sendTo(c, boardMessage(h.session.Snapshot()))
			}
			h.sendTo(c, h.statusMessage())
			h.broadcast(PresenceMessage{Type: "presence", Players: len(h.clients)})

		case c := <-h.unreg:
			h.touch()

			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.broadcast(PresenceMessage{Type: "presence", Players: len(h.clients)})

		case rr := <-h.reveals:
			h.touch()
			h.handleReveal(cfg, rr)

		case c := <-h.restarts:
			h.touch()
			logf(cfg, "GAMES: Player %s restarted %s", shortID(c.playerID), h.id)
			h.startLoad(cfg)

		case res := <-h.loaded:
			h.handleLoaded(cfg, res)

		case <-h.quit:
			h.session.Close()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return
		}
	}
}

func (h *Hub) touch() {
	h.mu.Lock()
	h.lastActive = time.Now()
	h.mu.Unlock()
}

// stop ends the hub, cancelling any board that is still loading and
// disconnecting every client.
func (h *Hub) stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

// startLoad draws a new board in the background. Loading a board that is
// already loading abandons the earlier attempt.
func (h *Hub) startLoad(cfg *Config) {
	generation, ctx := h.session.Begin(context.Background())
	logf(cfg, "GAMES: Drawing board %d for %s", generation, h.id)

	h.loading = true
	h.failure = ""
	h.broadcast(h.statusMessage())

	go func() {
		records, err := h.loader.Load(ctx)

		select {
		case h.loaded <- loadResult{generation: generation, records: records, err: err}:
		case <-h.quit:
		}
	}()
}

func (h *Hub) handleLoaded(cfg *Config, res loadResult) {
	if !h.session.Current(res.generation) {
		logf(cfg, "GAMES: Discarded superseded board for %s", h.id)
		return
	}

	h.loading = false

	err := res.err
	if err == nil {
		_, err = h.session.Commit(res.generation, res.records)
	} else {
		h.session.Release(res.generation)
	}

	if err != nil {
		h.failure = failureText(err)
		log.Error().Err(err).Str("game", h.id).Msg("GAMES: Failed to load board")
		h.broadcast(h.statusMessage())
		return
	}

	view := h.session.Snapshot()
	logf(cfg, "GAMES: New board for %s: %s", h.id, strings.Join(view.Headers, ", "))

	h.broadcast(boardMessage(view))
	h.broadcast(h.statusMessage())
}

func (h *Hub) handleReveal(cfg *Config, rr revealRequest) {
	update, err := h.session.Reveal(rr.coord)
	switch {
	case errors.Is(err, jeopardy.ErrNoBoard):
		return
	case err != nil:
		log.Error().
			Err(err).
			Str("game", h.id).
			Str("player", shortID(rr.client.playerID)).
			Msg("GAMES: Rejected reveal")
		return
	}

	if !update.Changed {
		return
	}

	logf(cfg, "GAMES: Player %s revealed %s %v in %s", shortID(rr.client.playerID), update.State, update.Coordinate, h.id)

	h.broadcast(CellMessage{
		Type:     "cell",
		Category: update.Category,
		Clue:     update.Clue,
		Text:     update.Text,
		State:    update.State.String(),
	})
}

func (h *Hub) statusMessage() StatusMessage {
	msg := StatusMessage{
		Type:    "status",
		Loading: h.loading,
		Failed:  h.failure != "",
		Message: h.failure,
	}
	if h.loading {
		msg.Message = "Drawing a new board..."
	}
	return msg
}

func boardMessage(view *jeopardy.BoardView) BoardMessage {
	return BoardMessage{
		Type:    "board",
		Headers: view.Headers,
		Rows:    view.Rows,
	}
}

func failureText(err error) string {
	switch {
	case errors.Is(err, jeopardy.ErrNetwork):
		return "The trivia service could not be reached. Try again in a moment."
	case errors.Is(err, jeopardy.ErrDataShape):
		return "The trivia service sent a category we could not read. Try again."
	case errors.Is(err, jeopardy.ErrDimensionMismatch), errors.Is(err, jeopardy.ErrSampleSize):
		return "Not enough clues were available to fill the board. Try again."
	}
	return "Unable to draw a new board. Try again."
}

// sendTo queues msg for c, dropping the client if it has fallen behind.
func (h *Hub) sendTo(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) broadcast(msg any) {
	for client := range h.clients {
		h.sendTo(client, msg)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const playerCookieName = "triviabox_id"

func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		log.Error().Err(err).Msg("GAMES: Unable to generate player id")
		return ""
	}
	id := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

func shortID(playerID string) string {
	if len(playerID) > 8 {
		return playerID[:8]
	}
	return playerID
}

// GameManager holds a set of hubs keyed by game ID, so each $path/$gameid
// is its own isolated board.
type GameManager struct {
	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration
	loader      gameLoader
	done        chan struct{}
	stopOnce    sync.Once
}

func newGameManager(idleTimeout time.Duration, loader gameLoader) *GameManager {
	gm := &GameManager{
		hubs:        make(map[string]*Hub),
		idleTimeout: idleTimeout,
		loader:      loader,
		done:        make(chan struct{}),
	}
	if idleTimeout > 0 {
		go gm.reaperLoop()
	}
	return gm
}

func (gm *GameManager) getHub(cfg *Config, gameID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	hub := newHub(cfg, gameID, gm.loader)
	gm.hubs[gameID] = hub
	go hub.run(cfg)
	return hub
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	const max = byte(255 - (256 % len(letters)))

	for {
		out := make([]byte, 0, 8)
		buf := make([]byte, 16)

		for len(out) < 8 {
			if _, err := rand.Read(buf); err != nil {
				panic("crypto/rand failure: " + err.Error())
			}
			for _, b := range buf {
				if b <= max && len(out) < 8 {
					out = append(out, letters[int(b)%len(letters)])
				}
			}
		}
		id := string(out)

		gm.mu.Lock()
		_, exists := gm.hubs[id]
		gm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reaperLoop periodically removes hubs that have been idle longer than idleTimeout.
func (gm *GameManager) reaperLoop() {
	ticker := time.NewTicker(gm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-gm.done:
			return
		case <-ticker.C:
		}

		cutoff := time.Now().Add(-gm.idleTimeout)

		gm.mu.Lock()
		for id, hub := range gm.hubs {
			hub.mu.RLock()
			last := hub.lastActive
			hub.mu.RUnlock()

			if last.Before(cutoff) {
				delete(gm.hubs, id)
				hub.stop()

				log.Info().
					Str("game", id).
					Dur("age", time.Since(hub.createdAt).Round(time.Second)).
					Msg("GAMES: Reaped idle game")
			}
		}
		gm.mu.Unlock()
	}
}

// stop ends every game.
func (gm *GameManager) stop() {
	gm.stopOnce.Do(func() { close(gm.done) })

	gm.mu.Lock()
	defer gm.mu.Unlock()

	for id, hub := range gm.hubs {
		delete(gm.hubs, id)
		hub.stop()
	}
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		playerID := getOrSetPlayerID(w, r)
		if playerID == "" {
			http.Error(w, "unable to assign player id", http.StatusInternalServerError)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Str("game", gameID).Msg("GAMES: Websocket upgrade failed")
			return
		}

		hub := gm.getHub(cfg, gameID)

		client := &Client{
			conn:     conn,
			send:     make(chan any, sendBuffer),
			playerID: playerID,
		}

		select {
		case hub.register <- client:
		case <-hub.quit:
			_ = conn.Close()
			return
		}

		logf(cfg, "GAMES: Player %s joined %s from %s", shortID(playerID), gameID, realIP(r))

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.quit:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "reveal":
			if msg.Category == nil || msg.Clue == nil {
				continue
			}

			req := revealRequest{
				client: c,
				coord:  jeopardy.Coordinate{Category: *msg.Category, Clue: *msg.Clue},
			}

			select {
			case h.reveals <- req:
			case <-h.quit:
				return
			}
		case "restart":
			select {
			case h.restarts <- c:
			case <-h.quit:
				return
			}
		default:
			// ignore unknown types
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// QR handler: generates a PNG QR code for the current game URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gameID := ps.ByName("gameid")
	if gameID == "" {
		http.Error(w, "missing game id", http.StatusBadRequest)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../:gameid/qr; strip trailing "/qr" to get the game URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	_, _ = w.Write(png)
}

//go:embed jeopardy/index.html
var indexTemplate string

var indexPage = template.Must(template.New("jeopardy").Parse(indexTemplate))

type indexData struct {
	Prefix string
	GameID string
	Width  int
}

func getIndexHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		securityHeaders(cfg, w)

		_ = getOrSetPlayerID(w, r)

		err := indexPage.Execute(w, indexData{
			Prefix: cfg.prefix,
			GameID: ps.ByName("gameid"),
			Width:  cfg.width,
		})
		if err != nil {
			logWriteErr(r, err)
		}
	}
}

// redirectNewGame handles GET /path by generating a new random game ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerJeopardyGame sets up routes so that:
//   - $path                  → redirects to new random game (8-char ID)
//   - $path/:gameid          → HTML client
//   - $path/:gameid/ws       → WebSocket for that game
//   - $path/:gameid/qr       → PNG QR code for that game URL
func registerJeopardyGame(cfg *Config, path string, mux *httprouter.Router, loader gameLoader) *GameManager {
	gm := newGameManager(cfg.sessionTimeout, loader)

	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, gm))

	mux.GET(cfg.prefix+path+"/:gameid", getIndexHandler(cfg))

	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, gm))

	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler)

	return gm
}
