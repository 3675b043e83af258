package game

import (
	"sort"

	"github.com/peterkuimelis/biopath/internal/log"
)

// scheduleEvents places EventCount events on distinct turns between
// FirstEventTurn and MaxTurns-2, each drawn uniformly from TurnEvents.
func scheduleEvents(r Rules, rng Random) map[int]EventID {
	var turns []int
	for t := r.FirstEventTurn; t <= r.MaxTurns-2; t++ {
		turns = append(turns, t)
	}
	rng.Shuffle(len(turns), func(i, j int) { turns[i], turns[j] = turns[j], turns[i] })

	chosen := turns[:min(r.EventCount, len(turns))]
	sort.Ints(chosen)

	sched := make(map[int]EventID, len(chosen))
	for _, t := range chosen {
		sched[t] = randomEvent(rng)
	}
	return sched
}

// extendSchedule adds up to EndlessBatch events on free turns in the window
// starting two turns after from. Returns how many were added.
func extendSchedule(sched map[int]EventID, from int, r Rules, rng Random) int {
	start := from + 2
	var open []int
	for t := start; t <= start+r.EndlessWindow; t++ {
		if _, taken := sched[t]; !taken {
			open = append(open, t)
		}
	}
	rng.Shuffle(len(open), func(i, j int) { open[i], open[j] = open[j], open[i] })

	n := min(r.EndlessBatch, len(open))
	for _, t := range open[:n] {
		sched[t] = randomEvent(rng)
	}
	return n
}

// lastScheduled returns the latest turn carrying an event, or 0.
func lastScheduled(sched map[int]EventID) int {
	last := 0
	for t := range sched {
		last = max(last, t)
	}
	return last
}

func randomEvent(rng Random) EventID {
	return TurnEvents[rng.IntN(len(TurnEvents))]
}

// applyEvent activates the event scheduled for the current turn.
func (g *Game) applyEvent(id EventID) {
	gs := g.state
	gs.ActiveEvent = id
	g.log(log.NewScheduledEvent(gs.Turn, g.phase(), id.Name(), id.Description()))

	switch id {
	case EventEnzymeBoost:
		gs.EnzymeBoost = true
	case EventComboShield:
		gs.ShieldTurns = g.rules.ShieldTurns
	case EventHandRefresh:
		gs.PendingRefresh = true
	case EventInsight:
		n := min(g.rules.PeekDepth, len(gs.Deck))
		gs.Peek = make([]*CardInstance, 0, n)
		names := make([]string, 0, n)
		for i := 0; i < n; i++ {
			c := gs.Deck[len(gs.Deck)-1-i]
			gs.Peek = append(gs.Peek, c)
			names = append(names, c.Card.Abbreviation)
		}
		gs.PeekPending = true
		g.log(log.NewPeekEvent(gs.Turn, g.phase(), names))
	}
}
