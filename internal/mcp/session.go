package mcp

import (
	"encoding/json"
	"fmt"

	bionet "github.com/peterkuimelis/biopath/internal/net"
)

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events   []bionet.EventView  `json:"events"`
	State    *bionet.StateView   `json:"state,omitempty"`
	Outcome  *bionet.OutcomeView `json:"outcome,omitempty"`
	Step     *bionet.StepView    `json:"step,omitempty"`
	Card     *bionet.CardView    `json:"card,omitempty"`
	Ignored  bool                `json:"ignored,omitempty"`
	Next     string              `json:"next"` // the tool the run is waiting on
	GameOver bool                `json:"game_over"`
}

// newToolResponse folds a protocol reply into a tool response.
func newToolResponse(reply bionet.ServerMessage, events []bionet.EventView) *ToolResponse {
	resp := &ToolResponse{
		Events:  events,
		State:   reply.State,
		Outcome: reply.Outcome,
		Step:    reply.Step,
		Card:    reply.Card,
		Ignored: reply.Ignored,
	}
	if resp.Events == nil {
		resp.Events = []bionet.EventView{}
	}
	if reply.State != nil {
		resp.GameOver = reply.State.Over
		resp.Next = nextTool(reply.State)
	}
	return resp
}

// nextTool names the tool that moves the run forward from sv.
func nextTool(sv *bionet.StateView) string {
	switch {
	case sv.Over && !sv.Endless:
		return "start_game or enter_endless"
	case sv.Over:
		return "start_game"
	case sv.PendingChain:
		return "chain_step"
	case sv.PendingRefresh:
		return "answer_refresh"
	case sv.PeekPending:
		return "dismiss_peek"
	case len(sv.Draft) > 0:
		return "pick_draft"
	case sv.Phase == "Draw Phase":
		return "begin_turn"
	default:
		return "play_card or discard_card"
	}
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
