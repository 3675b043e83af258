package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMemoryLoggerSequence(t *testing.T) {
	l := NewMemoryLogger()
	l.Log(NewTurnEvent(1))
	l.Log(NewDiscardEvent(1, "Action Phase", "FAD"))
	l.Log(NewTurnEvent(2))

	events := l.Events()
	require.Len(t, events, 3)
	for i, e := range events {
		assert.Equal(t, i+1, e.Seq)
	}
	assert.Len(t, l.EventsOfType(EventNewTurn), 2)
	assert.Equal(t, EventNewTurn, l.LastEvent().Type)
	assert.Equal(t, 2, l.LastEvent().Turn)
}

func TestMemoryLoggerEmpty(t *testing.T) {
	l := NewMemoryLogger()
	assert.Equal(t, GameEvent{}, l.LastEvent())
	assert.Empty(t, l.EventsOfType(EventAdvance))
}

func TestTextLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf)
	l.Log(NewAdvanceEvent(3, "Resolution Phase", "AKG", "ICIT", 10, "NADH", 1, 1.0, false))

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "T3 "), line)
	assert.Contains(t, line, "ICIT advances: +10 NADH (combo 1, x1.0)")
	assert.Len(t, l.Events(), 1)
}

func TestZapLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	l.Log(NewDrawEvent(1, "Draw Phase", "CIT", 0))
	l.Log(NewRejectedEvent(1, "Action Phase", "FAD", "OAA", "OAA needs AcCoA"))
	l.Log(NewScoreStoreEvent(2, "Draw Phase", "write", errors.New("disk full")))

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)

	fields := entries[1].ContextMap()
	assert.Equal(t, "Rejected", fields["type"])
	assert.Equal(t, "FAD", fields["card"])
	assert.Equal(t, "OAA", fields["stage"])
	assert.Equal(t, "FAD rejected: OAA needs AcCoA", entries[1].Message)

	assert.Len(t, l.Events(), 3, "events are kept in memory as well")
}

func TestZapLoggerRespectsLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewZapLogger(zap.New(core))

	l.Log(NewShuffleEvent(0, "Draw Phase", 40, "discard recycled"))
	l.Log(NewGameOverEvent(80, "Resolution Phase", 250, "turn limit"))

	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, 1, logs.FilterMessage("Game over (turn limit): score 250").Len())
	assert.Len(t, l.Events(), 2)
}

func TestZapLoggerNil(t *testing.T) {
	l := NewZapLogger(nil)
	assert.NotPanics(t, func() { l.Log(NewTurnEvent(1)) })
}

func TestEventDetails(t *testing.T) {
	tests := []struct {
		event GameEvent
		want  string
	}{
		{NewDrawEvent(1, "", "CIT", 2), "Draws CIT from 2 below the top"},
		{NewWrongEvent(1, "", "MAL", "OAA", true), "MAL does not fit OAA, discarded; combo shielded"},
		{NewStallDecayEvent(1, "", 2.0, 1.5, false), "Stalled: multiplier x2.0 → x1.5"},
		{NewStagedEvent(1, "", "ICIT", "CIT", false), "ICIT pre-loaded on CIT"},
		{NewAdvanceEvent(1, "", "CIT", "OAA", 0, "", 2, 1.0, true), "OAA chain-advances (combo 2, x1.0)"},
		{NewDraftOfferEvent(1, "", []string{"CIT", "FAD"}, "Product Wave"), "Product Wave draft offers CIT, FAD"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.event.Details)
	}
	assert.Equal(t, EventChainAdvance, tests[4].event.Type)
}
