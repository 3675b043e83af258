package mcp

import (
	"context"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	bionet "github.com/peterkuimelis/biopath/internal/net"
)

var (
	mu sync.Mutex

	// activeSession is the singleton run (one per stdio process).
	activeSession *bionet.Session

	// sessionConfig is the template for new runs, set by main.
	sessionConfig bionet.SessionConfig
)

// SetSessionConfig sets the configuration used by start_game.
func SetSessionConfig(cfg bionet.SessionConfig) {
	mu.Lock()
	defer mu.Unlock()
	sessionConfig = cfg
}

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTools(toolDefs()...)
}

func toolDefs() []server.ServerTool {
	return []server.ServerTool{
		{Tool: startGameTool(), Handler: handleStartGame},
		{Tool: beginTurnTool(), Handler: handleBeginTurn},
		{Tool: selectCardTool(), Handler: handleSelectCard},
		{Tool: deselectCardTool(), Handler: handleDeselectCard},
		{Tool: playCardTool(), Handler: handlePlayCard},
		{Tool: discardCardTool(), Handler: handleDiscardCard},
		{Tool: answerRefreshTool(), Handler: handleAnswerRefresh},
		{Tool: dismissPeekTool(), Handler: handleDismissPeek},
		{Tool: pickDraftTool(), Handler: handlePickDraft},
		{Tool: chainStepTool(), Handler: handleChainStep},
		{Tool: enterEndlessTool(), Handler: handleEnterEndless},
		{Tool: getGameStateTool(), Handler: handleGetGameState},
	}
}

// --- Tool definitions ---

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a new run of the citric acid cycle card game, abandoning any run in progress. "+
			"Returns the opening state. Advance around the ring by playing each stage's product card once its cofactors are staged."),
		mcp.WithNumber("seed", mcp.Description("Optional RNG seed for a reproducible run; 0 or omitted picks one at random")),
		mcp.WithBoolean("endless", mcp.Description("Start without a turn limit")),
	)
}

func beginTurnTool() mcp.Tool {
	return mcp.NewTool("begin_turn",
		mcp.WithDescription("Start the next turn. Applies any scheduled event and opens the draft. Only valid in the Draw phase."),
	)
}

func selectCardTool() mcp.Tool {
	return mcp.NewTool("select_card",
		mcp.WithDescription("Select a hand card for the next play or discard."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into state.hand")),
	)
}

func deselectCardTool() mcp.Tool {
	return mcp.NewTool("deselect_card",
		mcp.WithDescription("Clear the current hand selection."),
	)
}

func playCardTool() mcp.Tool {
	return mcp.NewTool("play_card",
		mcp.WithDescription("Play a card on a stage. Products on the current stage advance it when its cofactors are staged; "+
			"cards on later stages are pre-loaded. Uses the selected card unless index is given."),
		mcp.WithString("stage", mcp.Required(), mcp.Description("Stage abbreviation or id (e.g. 'ICIT', 'isocitrate'), or its 1-based ring position")),
		mcp.WithNumber("index", mcp.Description("0-based hand index to select first")),
	)
}

func discardCardTool() mcp.Tool {
	return mcp.NewTool("discard_card",
		mcp.WithDescription("Discard a hand card. Counts as a stall. Uses the selected card unless index is given."),
		mcp.WithNumber("index", mcp.Description("0-based hand index to select first")),
	)
}

func answerRefreshTool() mcp.Tool {
	return mcp.NewTool("answer_refresh",
		mcp.WithDescription("Answer a pending Hand Refresh event."),
		mcp.WithBoolean("accept", mcp.Required(), mcp.Description("true to discard the hand and draw a new one, false to keep it")),
	)
}

func dismissPeekTool() mcp.Tool {
	return mcp.NewTool("dismiss_peek",
		mcp.WithDescription("Close the Metabolic Insight deck peek and continue the turn."),
	)
}

func pickDraftTool() mcp.Tool {
	return mcp.NewTool("pick_draft",
		mcp.WithDescription("Take one card from the open draft into the hand."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into state.draft")),
	)
}

func chainStepTool() mcp.Tool {
	return mcp.NewTool("chain_step",
		mcp.WithDescription("Resolve a pending chain advance when the next stage is already fully staged."),
	)
}

func enterEndlessTool() mcp.Tool {
	return mcp.NewTool("enter_endless",
		mcp.WithDescription("Lift the turn limit. A run that ended on the turn limit resumes."),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current state and any events since the last call. Read-only."),
	)
}

// --- Tool handlers ---

func handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mu.Lock()
	cfg := sessionConfig
	if seed := request.GetInt("seed", 0); seed > 0 {
		cfg.Seed = uint64(seed)
	}
	if request.GetBool("endless", false) {
		cfg.Endless = true
	}
	sess := bionet.NewSession(cfg)
	activeSession = sess
	mu.Unlock()

	return apply(sess, bionet.ClientMessage{Type: bionet.MsgState})
}

func handleBeginTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return withSession(bionet.ClientMessage{Type: bionet.MsgStartTurn})
}

func handleSelectCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index := request.GetInt("index", -1)
	if index < 0 {
		return mcp.NewToolResultError("index is required and must be >= 0"), nil
	}
	return withSession(bionet.ClientMessage{Type: bionet.MsgSelect, Index: index})
}

func handleDeselectCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return withSession(bionet.ClientMessage{Type: bionet.MsgDeselect})
}

func handlePlayCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := currentSession()
	if sess == nil {
		return noSession(), nil
	}
	stage, err := bionet.ParseStage(request.GetString("stage", ""), sess.Catalog())
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid stage: %v", err), nil
	}

	var msgs []bionet.ClientMessage
	if index := request.GetInt("index", -1); index >= 0 {
		msgs = append(msgs, bionet.ClientMessage{Type: bionet.MsgSelect, Index: index})
	}
	msgs = append(msgs, bionet.ClientMessage{Type: bionet.MsgPlay, Stage: stage})
	return apply(sess, msgs...)
}

func handleDiscardCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var msgs []bionet.ClientMessage
	if index := request.GetInt("index", -1); index >= 0 {
		msgs = append(msgs, bionet.ClientMessage{Type: bionet.MsgSelect, Index: index})
	}
	msgs = append(msgs, bionet.ClientMessage{Type: bionet.MsgDiscard})
	return withSession(msgs...)
}

func handleAnswerRefresh(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if request.GetBool("accept", false) {
		return withSession(bionet.ClientMessage{Type: bionet.MsgAcceptRefresh})
	}
	return withSession(bionet.ClientMessage{Type: bionet.MsgDeclineRefresh})
}

func handleDismissPeek(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return withSession(bionet.ClientMessage{Type: bionet.MsgDismissPeek})
}

func handlePickDraft(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index := request.GetInt("index", -1)
	if index < 0 {
		return mcp.NewToolResultError("index is required and must be >= 0"), nil
	}
	return withSession(bionet.ClientMessage{Type: bionet.MsgPick, Index: index})
}

func handleChainStep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return withSession(bionet.ClientMessage{Type: bionet.MsgChainStep})
}

func handleEnterEndless(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return withSession(bionet.ClientMessage{Type: bionet.MsgEndless})
}

func handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return withSession(bionet.ClientMessage{Type: bionet.MsgState})
}

// --- helpers ---

func currentSession() *bionet.Session {
	mu.Lock()
	defer mu.Unlock()
	return activeSession
}

func noSession() *mcp.CallToolResult {
	return mcp.NewToolResultError("No game is running. Use start_game first.")
}

func withSession(msgs ...bionet.ClientMessage) (*mcp.CallToolResult, error) {
	sess := currentSession()
	if sess == nil {
		return noSession(), nil
	}
	return apply(sess, msgs...)
}

// apply sends msgs in order and stops at the first one that is ignored.
// Events from every applied message are returned together.
func apply(sess *bionet.Session, msgs ...bionet.ClientMessage) (*mcp.CallToolResult, error) {
	var reply bionet.ServerMessage
	var events []bionet.EventView
	for _, msg := range msgs {
		reply = sess.Apply(msg)
		if reply.Type == bionet.ReplyError {
			return mcp.NewToolResultError(reply.Error), nil
		}
		events = append(events, reply.Events...)
		if reply.Ignored {
			break
		}
	}
	return mcp.NewToolResultText(respondJSON(newToolResponse(reply, events))), nil
}
