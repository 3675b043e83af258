package log

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventLogger is the interface for logging game events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(l.LastEvent()))
}

// --- ZapLogger: forwards events to a structured zap logger ---

type ZapLogger struct {
	MemoryLogger
	z *zap.Logger
}

func NewZapLogger(z *zap.Logger) *ZapLogger {
	if z == nil {
		z = zap.NewNop()
	}
	return &ZapLogger{z: z}
}

func (l *ZapLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	e := l.LastEvent()

	fields := []zap.Field{
		zap.Int("seq", e.Seq),
		zap.Int("turn", e.Turn),
		zap.String("phase", e.Phase),
		zap.String("type", e.Type.String()),
	}
	if e.Card != "" {
		fields = append(fields, zap.String("card", e.Card))
	}
	if e.Stage != "" {
		fields = append(fields, zap.String("stage", e.Stage))
	}
	if ce := l.z.Check(levelFor(e.Type), e.Details); ce != nil {
		ce.Write(fields...)
	}
}

func levelFor(t EventType) zapcore.Level {
	switch t {
	case EventScoreStore:
		return zapcore.WarnLevel
	case EventDraw, EventShuffle, EventPhaseChange:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	if phase == "" {
		phase = "          "
	}
	// Pad phase to 16 chars for alignment
	for len(phase) < 16 {
		phase += " "
	}

	return fmt.Sprintf("T%-2d %s| %s", e.Turn, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewPhaseChangeEvent(turn int, phase string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventPhaseChange,
		Details: fmt.Sprintf("Phase → %s", phase),
	}
}

func NewTurnEvent(turn int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Draw Phase",
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d ===", turn),
	}
}

func NewDeckBuiltEvent(turn int, phase string, size, rotation int, junk float64) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventDeckBuilt,
		Details: fmt.Sprintf("Deck built: %d cards (rotation %d, junk %.0f%%)", size, rotation, junk*100),
	}
}

func NewShuffleEvent(turn int, phase string, size int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventShuffle,
		Details: fmt.Sprintf("Deck shuffled (%d cards, %s)", size, reason),
	}
}

func NewDrawEvent(turn int, phase string, cardName string, depth int) GameEvent {
	details := fmt.Sprintf("Draws %s", cardName)
	if depth > 0 {
		details = fmt.Sprintf("Draws %s from %d below the top", cardName, depth)
	}
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventDraw,
		Card:    cardName,
		Details: details,
	}
}

func NewDraftOfferEvent(turn int, phase string, cardNames []string, wave string) GameEvent {
	details := fmt.Sprintf("Draft offers %s", strings.Join(cardNames, ", "))
	if wave != "" {
		details = fmt.Sprintf("%s draft offers %s", wave, strings.Join(cardNames, ", "))
	}
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventDraftOffer,
		Details: details,
	}
}

func NewDraftPickEvent(turn int, phase string, cardName string, returned int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventDraftPick,
		Card:    cardName,
		Details: fmt.Sprintf("Picks %s (%d returned to the bottom of the deck)", cardName, returned),
	}
}

func NewScheduledEvent(turn int, phase string, name, description string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventTurnEvent,
		Details: fmt.Sprintf("Event: %s (%s)", name, description),
	}
}

func NewAdvanceEvent(turn int, phase string, cardName, stage string, points int, yield string, combo int, multiplier float64, chained bool) GameEvent {
	t := EventAdvance
	verb := "advances"
	if chained {
		t = EventChainAdvance
		verb = "chain-advances"
	}
	details := fmt.Sprintf("%s %s (combo %d, x%.1f)", stage, verb, combo, multiplier)
	if yield != "" {
		details = fmt.Sprintf("%s %s: +%d %s (combo %d, x%.1f)", stage, verb, points, yield, combo, multiplier)
	}
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    t,
		Card:    cardName,
		Stage:   stage,
		Details: details,
	}
}

func NewStagedEvent(turn int, phase string, cardName, stage string, current bool) GameEvent {
	where := "pre-loaded on"
	if current {
		where = "staged on"
	}
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventStaged,
		Card:    cardName,
		Stage:   stage,
		Details: fmt.Sprintf("%s %s %s", cardName, where, stage),
	}
}

func NewWrongEvent(turn int, phase string, cardName, stage string, comboKept bool) GameEvent {
	details := fmt.Sprintf("%s does not fit %s, discarded; combo lost", cardName, stage)
	if comboKept {
		details = fmt.Sprintf("%s does not fit %s, discarded; combo shielded", cardName, stage)
	}
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventWrong,
		Card:    cardName,
		Stage:   stage,
		Details: details,
	}
}

func NewRejectedEvent(turn int, phase string, cardName, stage, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventRejected,
		Card:    cardName,
		Stage:   stage,
		Details: fmt.Sprintf("%s rejected: %s", cardName, reason),
	}
}

func NewDiscardEvent(turn int, phase string, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventDiscard,
		Card:    cardName,
		Details: fmt.Sprintf("Discards %s", cardName),
	}
}

func NewStallDecayEvent(turn int, phase string, from, to float64, shielded bool) GameEvent {
	details := fmt.Sprintf("Stalled: multiplier x%.1f → x%.1f", from, to)
	if shielded {
		details = fmt.Sprintf("Stalled: multiplier x%.1f held by combo shield", from)
	}
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventStallDecay,
		Details: details,
	}
}

func NewRotationEvent(turn int, phase string, rotation, handLimit int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventRotation,
		Details: fmt.Sprintf("Rotation %d complete (hand limit %d)", rotation, handLimit),
	}
}

func NewHandSizeDiscardEvent(turn int, phase string, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventHandSizeDiscard,
		Card:    cardName,
		Details: fmt.Sprintf("Discards %s (over hand limit)", cardName),
	}
}

func NewHandRefreshEvent(turn int, phase string, accepted bool, discarded int) GameEvent {
	details := "Hand refresh declined"
	if accepted {
		details = fmt.Sprintf("Hand refresh: %d discarded, new hand drawn", discarded)
	}
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventHandRefresh,
		Details: details,
	}
}

func NewPeekEvent(turn int, phase string, cardNames []string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventPeek,
		Details: fmt.Sprintf("Top of deck: %s", strings.Join(cardNames, ", ")),
	}
}

func NewGameOverEvent(turn int, phase string, score int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventGameOver,
		Details: fmt.Sprintf("Game over (%s): score %d", reason, score),
	}
}

func NewEndlessEvent(turn int, phase string, scheduled int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventEndless,
		Details: fmt.Sprintf("Endless mode: %d events scheduled ahead", scheduled),
	}
}

func NewScoreStoreEvent(turn int, phase string, op string, err error) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventScoreStore,
		Details: fmt.Sprintf("Best score %s failed: %v", op, err),
	}
}
