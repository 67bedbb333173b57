package game

import "fmt"

// Position reports that Player sits at (Table, Seat) at the start of a turn.
type Position struct {
	Player int
	Table  int
	Seat   int
}

func (p Position) Cell() Cell {
	return CellOf(p.Table, p.Seat)
}

// Observed reports what a player at the observer's table did during a turn.
type Observed struct {
	Player    int
	Command   Command
	Direction Direction
}

// ParseObserved builds an Observed from the engine's string form.
func ParseObserved(player int, command, direction string) (Observed, error) {
	cmd, err := ParseCommand(command)
	if err != nil {
		return Observed{}, fmt.Errorf("player %d: %w", player, err)
	}
	dir, err := ParseDirection(direction)
	if err != nil {
		return Observed{}, fmt.Errorf("player %d: %w", player, err)
	}
	return Observed{Player: player, Command: cmd, Direction: dir}, nil
}
