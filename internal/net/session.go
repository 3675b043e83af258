package net

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/peterkuimelis/biopath/internal/game"
	"github.com/peterkuimelis/biopath/internal/log"
)

// SessionConfig holds configuration for a new session.
type SessionConfig struct {
	Catalog *game.Catalog // nil for the default cycle
	Seed    uint64        // 0 for a random seed
	Scores  game.BestScore
	Endless bool        // start every run in endless mode
	Events  *zap.Logger // structured sink for game events; nil keeps them in memory only
}

// Session owns one run and applies client messages to it. It is safe for
// concurrent use.
type Session struct {
	ID string

	mu      sync.Mutex
	game    *game.Game
	logger  log.EventLogger
	sent    int // events already delivered to the client
	endless bool
}

// NewSession creates a session and deals the first run.
func NewSession(cfg SessionConfig) *Session {
	id := uuid.NewString()

	var logger log.EventLogger = log.NewMemoryLogger()
	if cfg.Events != nil {
		logger = log.NewZapLogger(cfg.Events.With(zap.String("session", id)))
	}

	s := &Session{
		ID:      id,
		logger:  logger,
		endless: cfg.Endless,
		game: game.New(game.Config{
			Catalog: cfg.Catalog,
			Seed:    cfg.Seed,
			Scores:  cfg.Scores,
			Logger:  logger,
		}),
	}
	if s.endless {
		s.game.EnterEndless()
	}
	return s
}

// Catalog returns the catalog the session plays against.
func (s *Session) Catalog() *game.Catalog {
	return s.game.Catalog()
}

// Apply runs one command and returns the reply. Commands that are not
// valid in the current phase come back with Ignored set.
func (s *Session) Apply(msg ClientMessage) ServerMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.game
	cat := g.Catalog()
	reply := ServerMessage{Type: ReplyState}
	ok := true

	switch msg.Type {
	case MsgState:
	case MsgRestart:
		g.Restart()
		if s.endless {
			g.EnterEndless()
		}
	case MsgStartTurn:
		ok = g.StartTurn()
	case MsgSelect:
		ok = g.Select(msg.Index)
	case MsgDeselect:
		ok = g.Deselect()
	case MsgPlay:
		o := g.Play(msg.Stage)
		ok = o != nil
		reply.Outcome = BuildOutcomeView(o, cat)
		if o != nil {
			reply.Step = BuildStepView(game.StepOf(o), cat)
		}
	case MsgDiscard:
		c := g.Discard()
		ok = c != nil
		if c != nil {
			cv := cardView(0, c)
			reply.Card = &cv
		}
	case MsgAcceptRefresh:
		ok = g.AcceptRefresh()
	case MsgDeclineRefresh:
		ok = g.DeclineRefresh()
	case MsgDismissPeek:
		ok = g.DismissPeek()
	case MsgPick:
		c := g.PickDraft(msg.Index)
		ok = c != nil
		if c != nil {
			cv := cardView(msg.Index, c)
			reply.Card = &cv
		}
	case MsgChainStep:
		step := g.ChainStep()
		ok = step != nil
		reply.Step = BuildStepView(step, cat)
	case MsgEndless:
		ok = g.EnterEndless()
	default:
		return ServerMessage{Type: ReplyError, Error: fmt.Sprintf("unknown message type %q", msg.Type)}
	}

	reply.Ignored = !ok
	reply.State = BuildStateView(g.Snapshot(), cat)
	reply.Events = s.drainEvents()
	return reply
}

// drainEvents returns the events logged since the previous reply.
func (s *Session) drainEvents() []EventView {
	events := s.logger.Events()
	if s.sent >= len(events) {
		return nil
	}
	views := make([]EventView, 0, len(events)-s.sent)
	for _, e := range events[s.sent:] {
		views = append(views, BuildEventView(e))
	}
	s.sent = len(events)
	return views
}
