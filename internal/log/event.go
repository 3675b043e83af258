package log

// EventType enumerates all observable game events.
type EventType int

const (
	EventNewTurn EventType = iota
	EventPhaseChange
	EventDeckBuilt
	EventShuffle
	EventDraw
	EventDraftOffer
	EventDraftPick
	EventTurnEvent
	EventAdvance
	EventChainAdvance
	EventStaged
	EventWrong
	EventRejected
	EventDiscard
	EventStallDecay
	EventRotation
	EventHandSizeDiscard
	EventHandRefresh
	EventPeek
	EventGameOver
	EventEndless
	EventScoreStore
)

func (e EventType) String() string {
	switch e {
	case EventNewTurn:
		return "NewTurn"
	case EventPhaseChange:
		return "PhaseChange"
	case EventDeckBuilt:
		return "DeckBuilt"
	case EventShuffle:
		return "Shuffle"
	case EventDraw:
		return "Draw"
	case EventDraftOffer:
		return "DraftOffer"
	case EventDraftPick:
		return "DraftPick"
	case EventTurnEvent:
		return "TurnEvent"
	case EventAdvance:
		return "Advance"
	case EventChainAdvance:
		return "ChainAdvance"
	case EventStaged:
		return "Staged"
	case EventWrong:
		return "Wrong"
	case EventRejected:
		return "Rejected"
	case EventDiscard:
		return "Discard"
	case EventStallDecay:
		return "StallDecay"
	case EventRotation:
		return "Rotation"
	case EventHandSizeDiscard:
		return "HandSizeDiscard"
	case EventHandRefresh:
		return "HandRefresh"
	case EventPeek:
		return "Peek"
	case EventGameOver:
		return "GameOver"
	case EventEndless:
		return "Endless"
	case EventScoreStore:
		return "ScoreStore"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a run.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // total turns played when the event happened
	Phase   string    // current phase name (e.g. "Action Phase")
	Type    EventType // event type
	Card    string    // card abbreviation (if applicable)
	Stage   string    // stage abbreviation (if applicable)
	Details string    // human-readable detail string
}
