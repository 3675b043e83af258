package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/handlers"
	"go.uber.org/zap"

	"github.com/peterkuimelis/biopath/internal/game"
	bionet "github.com/peterkuimelis/biopath/internal/net"
)

// StageInfo is the JSON representation of a stage for /api/catalog.
type StageInfo struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Abbreviation string   `json:"abbreviation"`
	Next         string   `json:"next"`
	Product      string   `json:"product"`
	Cofactors    []string `json:"cofactors,omitempty"`
	Yield        string   `json:"yield,omitempty"`
	YieldValue   int      `json:"yieldValue,omitempty"`
	ReleasesCO2  bool     `json:"releasesCO2,omitempty"`
}

// CardInfo is the JSON representation of a card definition.
type CardInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Kind         string `json:"kind"`
}

// RulesInfo is the subset of the tuning a client needs to render a run.
type RulesInfo struct {
	DeckSize  int            `json:"deckSize"`
	HandLimit int            `json:"handLimit"`
	MaxTurns  int            `json:"maxTurns"`
	DraftSize int            `json:"draftSize"`
	Ladder    []LadderStep   `json:"ladder"`
	Events    []EventSummary `json:"events"`
}

type LadderStep struct {
	MinCombo   int     `json:"minCombo"`
	Multiplier float64 `json:"multiplier"`
}

type EventSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CatalogInfo is the /api/catalog response.
type CatalogInfo struct {
	Stages []StageInfo `json:"stages"`
	Cards  []CardInfo  `json:"cards"`
	Rules  RulesInfo   `json:"rules"`
}

// Config holds the dependencies of the web server.
type Config struct {
	Session bionet.SessionConfig // template for each WebSocket session
	Logger  *zap.Logger
}

// Server is the biopath HTTP server.
type Server struct {
	session bionet.SessionConfig
	catalog *game.Catalog
	logger  *zap.Logger
	mux     *http.ServeMux
}

// NewServer creates a new web server.
func NewServer(cfg Config) *Server {
	cat := cfg.Session.Catalog
	if cat == nil {
		cat = game.DefaultCatalog()
	}
	cfg.Session.Catalog = cat
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		session: cfg.Session,
		catalog: cat,
		logger:  logger,
		mux:     http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	s.mux.HandleFunc("GET /api/best", s.handleBest)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// Handler returns the routes wrapped with panic recovery and access logging.
func (s *Server) Handler() http.Handler {
	access := zap.NewStdLog(s.logger.Named("access")).Writer()
	return s.wrap(handlers.CombinedLoggingHandler(access, s.mux))
}

func (s *Server) wrap(h http.Handler) http.Handler {
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{s.logger}),
	)(h)
}

// recoveryLogger adapts zap to the handlers recovery logger.
type recoveryLogger struct {
	z *zap.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.z.Error("handler panic", zap.String("panic", fmt.Sprint(v...)))
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat := s.catalog
	info := CatalogInfo{
		Rules: RulesInfo{
			DeckSize:  cat.Rules.DeckSize,
			HandLimit: cat.Rules.HandLimit,
			MaxTurns:  cat.Rules.MaxTurns,
			DraftSize: cat.Rules.DraftSize,
		},
	}
	for _, st := range cat.Stages {
		si := StageInfo{
			ID:           st.ID,
			Name:         st.Label,
			Abbreviation: st.Abbreviation,
			Next:         cat.Stages[st.Next].ID,
			Product:      st.Product,
			Cofactors:    st.Cofactors,
			ReleasesCO2:  st.ReleasesCO2,
		}
		if st.Yield != nil {
			si.Yield = string(st.Yield.Kind)
			si.YieldValue = st.Yield.Value
		}
		info.Stages = append(info.Stages, si)
	}
	for _, c := range cat.Cards {
		info.Cards = append(info.Cards, CardInfo{
			ID:           c.ID,
			Name:         c.Label,
			Abbreviation: c.Abbreviation,
			Kind:         c.Kind.String(),
		})
	}
	for _, rung := range cat.Rules.Ladder {
		info.Rules.Ladder = append(info.Rules.Ladder, LadderStep{MinCombo: rung.MinCombo, Multiplier: rung.Multiplier})
	}
	for _, id := range game.TurnEvents {
		info.Rules.Events = append(info.Rules.Events, EventSummary{ID: string(id), Name: id.Name(), Description: id.Description()})
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleBest(w http.ResponseWriter, r *http.Request) {
	best := 0
	if s.session.Scores != nil {
		var err error
		best, err = s.session.Scores.Read(r.Context())
		if err != nil {
			s.logger.Warn("read best score", zap.Error(err))
			http.Error(w, "best score unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]int{"best": best})
}

// handleWebSocket plays one run per connection. Each text frame is a
// ClientMessage and gets one ServerMessage back.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.logger.Warn("websocket accept", zap.Error(err))
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()
	sess := bionet.NewSession(s.session)
	logger := s.logger.With(zap.String("session", sess.ID), zap.String("remote", r.RemoteAddr))
	logger.Info("websocket connected")

	for {
		typ, data, err := wsConn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || errors.Is(err, context.Canceled) {
				logger.Info("websocket closed")
			} else {
				logger.Info("websocket read ended", zap.Error(err))
			}
			return
		}
		if typ != websocket.MessageText {
			wsConn.Close(websocket.StatusUnsupportedData, "expected text frames")
			return
		}

		var reply bionet.ServerMessage
		var msg bionet.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			reply = bionet.ServerMessage{Type: bionet.ReplyError, Error: "malformed message"}
		} else {
			reply = sess.Apply(msg)
		}

		out, err := json.Marshal(reply)
		if err != nil {
			logger.Error("marshal reply", zap.Error(err))
			return
		}
		if err := wsConn.Write(ctx, websocket.MessageText, out); err != nil {
			logger.Warn("websocket write", zap.Error(err))
			return
		}
	}
}

// ListenAndServe serves HTTP on addr until ctx is cancelled. Request
// contexts, open WebSockets included, end with ctx.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.logger.Info("http server stopped")
		return nil
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
