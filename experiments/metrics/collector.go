package metrics

import (
	"sync/atomic"
	"time"
)

// GameMetric summarizes one game of the local engine.
type GameMetric struct {
	Seed        uint64
	Players     int
	Turns       int
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	Talks       int
	Listens     int
	Moves       int
	FailedMoves int // Moves where every listed seat was taken
	Idle        int // Turns a player sat out after an action error
	Deliveries  int // Gossip heard by a facing listener
	NewGossip   int // Deliveries the listener did not know yet
}

// PlayerMetric is a player's standing at the end of a game.
type PlayerMetric struct {
	Player int
	Known  int // Distinct gossip values known
	Sum    int // Sum of known gossip values
	Nods   int
	Shakes int
}

type Collector interface {
	Start(players int, seed uint64)
	AddTalk()
	AddListen()
	AddMove(seated bool)
	AddIdle()
	AddDelivery(isNew bool)
	Complete(turns int) GameMetric
}

type collector struct {
	players     int
	seed        uint64
	startTime   time.Time
	talks       atomic.Int32
	listens     atomic.Int32
	moves       atomic.Int32
	failedMoves atomic.Int32
	idle        atomic.Int32
	deliveries  atomic.Int32
	newGossip   atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(players int, seed uint64) {
	m.startTime = time.Now()
	m.players = players
	m.seed = seed
}

func (m *collector) AddTalk() {
	m.talks.Add(1)
}

func (m *collector) AddListen() {
	m.listens.Add(1)
}

func (m *collector) AddMove(seated bool) {
	m.moves.Add(1)
	if !seated {
		m.failedMoves.Add(1)
	}
}

func (m *collector) AddIdle() {
	m.idle.Add(1)
}

func (m *collector) AddDelivery(isNew bool) {
	m.deliveries.Add(1)
	if isNew {
		m.newGossip.Add(1)
	}
}

func (m *collector) Complete(turns int) GameMetric {
	end := time.Now()
	return GameMetric{
		Seed:        m.seed,
		Players:     m.players,
		Turns:       turns,
		StartTime:   m.startTime,
		EndTime:     end,
		Duration:    end.Sub(m.startTime),
		Talks:       int(m.talks.Load()),
		Listens:     int(m.listens.Load()),
		Moves:       int(m.moves.Load()),
		FailedMoves: int(m.failedMoves.Load()),
		Idle:        int(m.idle.Load()),
		Deliveries:  int(m.deliveries.Load()),
		NewGossip:   int(m.newGossip.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(players int, seed uint64) {}
func (m *dummyCollector) AddTalk()                       {}
func (m *dummyCollector) AddListen()                     {}
func (m *dummyCollector) AddMove(seated bool)            {}
func (m *dummyCollector) AddIdle()                       {}
func (m *dummyCollector) AddDelivery(isNew bool)         {}
func (m *dummyCollector) Complete(turns int) GameMetric  { return GameMetric{Turns: turns} }
