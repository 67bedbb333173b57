package game

import "fmt"

// Command is what a player does on a turn.
type Command int

const (
	CommandTalk Command = iota
	CommandListen
	CommandMove
)

func (c Command) String() string {
	switch c {
	case CommandTalk:
		return "talk"
	case CommandListen:
		return "listen"
	case CommandMove:
		return "move"
	default:
		return fmt.Sprintf("Command(%d)", int(c))
	}
}

// ParseCommand converts the engine's string form of a command.
func ParseCommand(s string) (Command, error) {
	switch s {
	case "talk":
		return CommandTalk, nil
	case "listen":
		return CommandListen, nil
	case "move":
		return CommandMove, nil
	}
	return 0, fmt.Errorf("unknown command %q", s)
}

// Direction is the side a player talks or listens to. Left is the seat with the
// next lower index (clockwise), right the next higher (counter-clockwise).
type Direction int

const (
	Left Direction = iota
	Right
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Step is the seat offset of one step in this direction.
func (d Direction) Step() int {
	if d == Left {
		return -1
	}
	return 1
}

func (d Direction) Opposite() Direction {
	if d == Left {
		return Right
	}
	return Left
}

func ParseDirection(s string) (Direction, error) {
	switch s {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// ActionCode is the enumerated category of an observed talk or listen action.
type ActionCode int

const (
	ListenLeft ActionCode = iota
	ListenRight
	TalkLeft
	TalkRight
	NumActionCodes
)

// NoAction is recorded for cells where no action was observed this turn.
const NoAction = NumActionCodes

// CodeFor returns the action code for a talk or listen in a direction. The
// boolean is false for any other command.
func CodeFor(cmd Command, dir Direction) (ActionCode, bool) {
	if dir != Left && dir != Right {
		return NoAction, false
	}
	switch cmd {
	case CommandListen:
		return ListenLeft + ActionCode(dir), true
	case CommandTalk:
		return TalkLeft + ActionCode(dir), true
	}
	return NoAction, false
}

// Split is the inverse of CodeFor.
func (a ActionCode) Split() (Command, Direction, bool) {
	switch a {
	case ListenLeft:
		return CommandListen, Left, true
	case ListenRight:
		return CommandListen, Right, true
	case TalkLeft:
		return CommandTalk, Left, true
	case TalkRight:
		return CommandTalk, Right, true
	}
	return 0, 0, false
}

func (a ActionCode) String() string {
	if cmd, dir, ok := a.Split(); ok {
		return cmd.String() + "-" + dir.String()
	}
	return "none"
}
