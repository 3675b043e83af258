package net

// Message types for the JSON protocol over TCP and WebSocket.

// Client command types.
const (
	MsgState          = "state"
	MsgRestart        = "restart"
	MsgStartTurn      = "start_turn"
	MsgSelect         = "select"
	MsgDeselect       = "deselect"
	MsgPlay           = "play"
	MsgDiscard        = "discard"
	MsgAcceptRefresh  = "accept_refresh"
	MsgDeclineRefresh = "decline_refresh"
	MsgDismissPeek    = "dismiss_peek"
	MsgPick           = "pick"
	MsgChainStep      = "chain_step"
	MsgEndless        = "endless"
)

// Server reply types.
const (
	ReplyState = "state"
	ReplyError = "error"
)

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "select" (hand index) and "pick" (draft index)
	Index int `json:"index"`

	// For "play": a stage index
	Stage int `json:"stage"`
}

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// Ignored is set when the command was not valid in the current phase.
	Ignored bool `json:"ignored,omitempty"`

	State   *StateView   `json:"state,omitempty"`
	Outcome *OutcomeView `json:"outcome,omitempty"`
	Step    *StepView    `json:"step,omitempty"`
	Card    *CardView    `json:"card,omitempty"` // discarded or drafted card
	Events  []EventView  `json:"events,omitempty"`

	// For "error"
	Error string `json:"error,omitempty"`
}

// EventView is a simplified game event for the client.
type EventView struct {
	Seq     int    `json:"seq"`
	Turn    int    `json:"turn"`
	Phase   string `json:"phase"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Stage   string `json:"stage,omitempty"`
	Details string `json:"details"`
}

// CardView describes one card instance.
type CardView struct {
	Index        int    `json:"index"`
	UID          int    `json:"uid"`
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Kind         string `json:"kind"`
}

// StageView describes one stage of the ring.
type StageView struct {
	Index        int        `json:"index"`
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Abbreviation string     `json:"abbreviation"`
	Product      string     `json:"product"`
	Cofactors    []string   `json:"cofactors,omitempty"`
	Yield        string     `json:"yield,omitempty"`
	YieldValue   int        `json:"yield_value,omitempty"`
	ReleasesCO2  bool       `json:"releases_co2,omitempty"`
	Staged       []CardView `json:"staged,omitempty"`
	Current      bool       `json:"current,omitempty"`
	Completed    bool       `json:"completed,omitempty"`
}

// StateView is the whole run as a client renders it.
type StateView struct {
	Turn      int         `json:"turn"`
	MaxTurns  int         `json:"max_turns"`
	Phase     string      `json:"phase"`
	Stage     int         `json:"stage"`
	Stages    []StageView `json:"stages"`
	Hand      []CardView  `json:"hand"`
	Selected  int         `json:"selected"`
	HandLimit int         `json:"hand_limit"`
	DeckCount int         `json:"deck_count"`
	Discards  int         `json:"discard_count"`

	Score      int            `json:"score"`
	Combo      int            `json:"combo"`
	Multiplier float64        `json:"multiplier"`
	Stalled    int            `json:"stalled"`
	Rotations  int            `json:"rotations"`
	Energy     map[string]int `json:"energy"`

	Event            string     `json:"event,omitempty"`
	EventDescription string     `json:"event_description,omitempty"`
	EnzymeBoost      bool       `json:"enzyme_boost,omitempty"`
	ShieldTurns      int        `json:"shield_turns,omitempty"`
	PendingRefresh   bool       `json:"pending_refresh,omitempty"`
	PeekPending      bool       `json:"peek_pending,omitempty"` // set even when the deck had nothing to show
	Peek             []CardView `json:"peek,omitempty"`
	Draft            []CardView `json:"draft,omitempty"`
	PendingChain     bool       `json:"pending_chain,omitempty"`

	Endless   bool `json:"endless,omitempty"`
	Over      bool `json:"over,omitempty"`
	BestScore int  `json:"best_score"`
	NewBest   bool `json:"new_best,omitempty"`
}

// OutcomeView describes the result of a play.
type OutcomeView struct {
	Kind   string `json:"kind"`
	Card   string `json:"card"`
	Stage  string `json:"stage"`
	Reason string `json:"reason,omitempty"`
}

// StepView describes one stage transition.
type StepView struct {
	Stage      string  `json:"stage"`
	Yield      string  `json:"yield,omitempty"`
	Points     int     `json:"points,omitempty"`
	Combo      int     `json:"combo"`
	Multiplier float64 `json:"multiplier"`
	Rotation   int     `json:"rotation,omitempty"`
	HandLimit  int     `json:"hand_limit,omitempty"`
	ChainReady bool    `json:"chain_ready,omitempty"`
}
