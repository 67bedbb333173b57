package game

// Action is a player's decision for one turn. It is one of Talk, Listen or
// Move; each variant carries only the fields its command needs.
type Action interface {
	Command() Command
	isAction()
}

// Talk tells Gossip to the players on one side.
type Talk struct {
	Direction Direction
	Gossip    int
}

// Listen receives gossip from the players on one side.
type Listen struct {
	Direction Direction
}

// Move asks for a new seat. Seats is ordered most preferred first; the engine
// takes the first one still free. An empty list means no move is possible.
type Move struct {
	Seats []Seat
}

func (Talk) Command() Command   { return CommandTalk }
func (Listen) Command() Command { return CommandListen }
func (Move) Command() Command   { return CommandMove }

func (Talk) isAction()   {}
func (Listen) isAction() {}
func (Move) isAction()   {}

// Code returns the observed-action code for talk and listen actions.
func Code(a Action) (ActionCode, bool) {
	switch a := a.(type) {
	case Talk:
		return CodeFor(CommandTalk, a.Direction)
	case Listen:
		return CodeFor(CommandListen, a.Direction)
	}
	return NoAction, false
}
