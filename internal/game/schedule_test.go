package game

import "testing"

func TestScheduleEvents(t *testing.T) {
	r := DefaultRules()
	for _, seed := range []uint64{1, 7, 99, 12345} {
		sched := scheduleEvents(r, NewRandom(seed))
		if len(sched) != r.EventCount {
			t.Fatalf("seed %d: expected %d events, got %d", seed, r.EventCount, len(sched))
		}
		for turn, id := range sched {
			if turn < r.FirstEventTurn || turn > r.MaxTurns-2 {
				t.Errorf("seed %d: event on turn %d outside [%d, %d]", seed, turn, r.FirstEventTurn, r.MaxTurns-2)
			}
			if id.Name() == "" {
				t.Errorf("seed %d: unknown event %q on turn %d", seed, id, turn)
			}
		}
	}
}

func TestScheduleEventsFixed(t *testing.T) {
	sched := scheduleEvents(DefaultRules(), fixedRandom{})
	for turn := 4; turn < 16; turn++ {
		if sched[turn] != EventEnzymeBoost {
			t.Errorf("turn %d: expected enzyme boost, got %q", turn, sched[turn])
		}
	}
	if _, ok := sched[16]; ok {
		t.Error("turn 16 should be free")
	}
}

func TestExtendScheduleSkipsTakenTurns(t *testing.T) {
	r := DefaultRules()
	sched := map[int]EventID{10: EventInsight}

	n := extendSchedule(sched, 8, r, fixedRandom{n: 3})
	if n != r.EndlessBatch {
		t.Fatalf("expected %d new events, got %d", r.EndlessBatch, n)
	}
	if sched[10] != EventInsight {
		t.Error("existing event was overwritten")
	}
	for turn := 11; turn <= 18; turn++ {
		if sched[turn] != EventComboShield {
			t.Errorf("turn %d: expected combo shield, got %q", turn, sched[turn])
		}
	}
	if lastScheduled(sched) != 18 {
		t.Errorf("expected last event on turn 18, got %d", lastScheduled(sched))
	}
}

func TestLastScheduledEmpty(t *testing.T) {
	if got := lastScheduled(map[int]EventID{}); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}
