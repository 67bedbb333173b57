package agent

import "gossip/utils"

// Ledger is the gossip an agent knows, highest value first, with a cursor on
// the entry it will tell next. It never shrinks.
type Ledger struct {
	values []int
	cursor int
}

func NewLedger(own int) *Ledger {
	return &Ledger{values: []int{own}}
}

// Add records newly heard gossip and points the cursor back at the most
// valuable entry. Known values are ignored and reported as false.
func (l *Ledger) Add(gossip int) bool {
	if utils.FindIndex(l.values, gossip) >= 0 {
		return false
	}
	i := 0
	for i < len(l.values) && l.values[i] > gossip {
		i++
	}
	l.values = append(l.values, 0)
	copy(l.values[i+1:], l.values[i:])
	l.values[i] = gossip
	l.cursor = 0
	return true
}

// Shift moves the cursor by delta, clamped to the ledger.
func (l *Ledger) Shift(delta int) {
	l.cursor = utils.Clamp(l.cursor+delta, 0, len(l.values)-1)
}

// Select points the cursor at gossip. Unknown values leave it unchanged and
// report false.
func (l *Ledger) Select(gossip int) bool {
	i := utils.FindIndex(l.values, gossip)
	if i < 0 {
		return false
	}
	l.cursor = i
	return true
}

func (l *Ledger) Selected() int {
	return l.values[l.cursor]
}

func (l *Ledger) Cursor() int {
	return l.cursor
}

func (l *Ledger) Len() int {
	return len(l.values)
}

func (l *Ledger) Knows(gossip int) bool {
	return utils.FindIndex(l.values, gossip) >= 0
}

// Values returns a copy of the known gossip, highest first.
func (l *Ledger) Values() []int {
	values := make([]int, len(l.values))
	copy(values, l.values)
	return values
}
