package agent

import "gossip/game"

// Snapshot is the board as the agent saw it at the end of a turn.
type Snapshot struct {
	Turn      int
	Self      game.Cell
	Occupants [game.NumCells]int
	Actions   [game.NumCells]game.ActionCode
}

// Memory is a fixed-capacity ring of snapshots, most recent first.
type Memory struct {
	buf  []Snapshot
	head int // Index of the most recent snapshot
	size int
}

func NewMemory(capacity int) *Memory {
	if capacity < 0 {
		panic("memory capacity cannot be negative")
	}
	return &Memory{buf: make([]Snapshot, capacity), head: -1}
}

// Push stores s as the most recent snapshot, evicting the oldest when full.
func (m *Memory) Push(s Snapshot) {
	if len(m.buf) == 0 {
		return
	}
	m.head = (m.head + 1) % len(m.buf)
	m.buf[m.head] = s
	if m.size < len(m.buf) {
		m.size++
	}
}

// At returns the i-th most recent snapshot (0 is the latest).
func (m *Memory) At(i int) (Snapshot, bool) {
	if i < 0 || i >= m.size {
		return Snapshot{}, false
	}
	return m.buf[(m.head-i+len(m.buf))%len(m.buf)], true
}

func (m *Memory) Len() int {
	return m.size
}

func (m *Memory) Capacity() int {
	return len(m.buf)
}

// Snapshots lists the stored snapshots, most recent first.
func (m *Memory) Snapshots() []Snapshot {
	snapshots := make([]Snapshot, 0, m.size)
	for i := 0; i < m.size; i++ {
		s, _ := m.At(i)
		snapshots = append(snapshots, s)
	}
	return snapshots
}
