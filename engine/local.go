package engine

import (
	"context"
	"fmt"

	"gossip/experiments/metrics"
	"gossip/game"
	"gossip/utils"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(e *Local)

func WithTurns(turns int) Option {
	return func(e *Local) {
		if turns >= 0 {
			e.turns = turns
		}
	}
}

// WithReach sets how many seats a talk carries. It is capped so a talker
// never reaches around the table to itself.
func WithReach(reach int) Option {
	return func(e *Local) {
		if reach > 0 {
			e.reach = utils.Clamp(reach, 1, game.SeatsPerTable-1)
		}
	}
}

// WithSeed seeds initial seating and move resolution order.
func WithSeed(seed uint64) Option {
	return func(e *Local) {
		e.seed = seed
		e.rng = utils.NewRand(seed)
	}
}

func WithCollector(collector metrics.Collector) Option {
	return func(e *Local) {
		if collector != nil {
			e.collector = collector
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Local) {
		e.logger = logger
	}
}

// Local runs a whole game in-process, calling every player from a single
// goroutine.
type Local struct {
	players   []Player
	known     []map[int]bool
	board     *game.Board
	turns     int
	reach     int
	seed      uint64
	rng       *rand.Rand
	collector metrics.Collector
	logger    zerolog.Logger

	nods   []int
	shakes []int
}

// LocalEngine seats players at random. gossip[i] is the value player i starts
// with.
func LocalEngine(players []Player, gossip []int, options ...Option) *Local {
	if len(players) != len(gossip) {
		panic("number of players does not match number of gossip values")
	}
	if len(players) == 0 || len(players) > game.NumCells {
		panic(fmt.Sprintf("need between 1 and %d players, got %d", game.NumCells, len(players)))
	}

	e := &Local{ // Default values
		players:   players,
		known:     make([]map[int]bool, len(players)),
		board:     game.NewBoard(len(players)),
		turns:     DefaultTurns,
		reach:     DefaultReach,
		rng:       utils.NewRand(0),
		collector: metrics.NewDummyCollector(),
		logger:    log.Logger,
		nods:      make([]int, len(players)),
		shakes:    make([]int, len(players)),
	}
	for _, option := range options {
		option(e)
	}

	for i, g := range gossip {
		e.known[i] = map[int]bool{g: true}
	}
	cells := make([]game.Cell, game.NumCells)
	for i := range cells {
		cells[i] = game.Cell(i)
	}
	utils.Shuffle(e.rng, cells)
	for i := range players {
		e.board.Place(i, cells[i])
	}
	return e
}

// Board is the authoritative seating.
func (e *Local) Board() *game.Board {
	return e.board
}

// Knows reports whether player has heard gossip.
func (e *Local) Knows(player, gossip int) bool {
	return e.known[player][gossip]
}

// Run plays the configured number of turns. Each turn every player is shown
// the full seating, chooses an action, hears and tells gossip, then moves and
// learns what its table did.
func (e *Local) Run(ctx context.Context) (metrics.GameMetric, []metrics.PlayerMetric, error) {
	e.collector.Start(len(e.players), e.seed)

	turn := 0
	for ; turn < e.turns; turn++ {
		if err := ctx.Err(); err != nil {
			return e.collector.Complete(turn), e.results(), err
		}
		if err := e.playTurn(turn); err != nil {
			return e.collector.Complete(turn), e.results(), err
		}
		e.logger.Trace().Int("turn", turn).Msg("turn complete")
	}

	e.logger.Debug().Msgf("stopped after %d turns", turn)
	return e.collector.Complete(turn), e.results(), nil
}

func (e *Local) playTurn(turn int) error {
	positions := e.board.Positions()
	for i, p := range e.players {
		if err := p.ObserveBeforeTurn(positions); err != nil {
			return fmt.Errorf("turn %d: player %d rejected positions: %w", turn, i, err)
		}
	}

	actions := make([]game.Action, len(e.players))
	for i, p := range e.players {
		action, err := p.GetAction()
		if err != nil {
			e.logger.Debug().Err(err).Int("turn", turn).Int("player", i).Msg("player sits out")
			e.collector.AddIdle()
			continue
		}
		actions[i] = action
	}

	start := make([]game.Cell, len(e.players))
	for i := range e.players {
		start[i] = e.board.SeatOf(i)
	}

	e.relayGossip(turn, actions, start)
	e.resolveMoves(actions)
	e.reportActions(actions, start)
	return nil
}

// relayGossip delivers each talk to the facing listeners within reach.
// Talks and listens use start-of-turn seats; movers take no part.
func (e *Local) relayGossip(turn int, actions []game.Action, start []game.Cell) {
	for i, action := range actions {
		switch a := action.(type) {
		case game.Listen:
			e.collector.AddListen()
		case game.Talk:
			e.collector.AddTalk()
			if !e.known[i][a.Gossip] {
				e.logger.Debug().Int("turn", turn).Int("player", i).Int("gossip", a.Gossip).Msg("talk of unknown gossip ignored")
				continue
			}

			feedback := []string{}
			for n := 1; n <= e.reach; n++ {
				listener := e.board.OccupantOf(start[i].Offset(n * a.Direction.Step()))
				if listener == e.board.Vacant() {
					continue
				}
				l, ok := actions[listener].(game.Listen)
				if !ok || l.Direction != a.Direction.Opposite() {
					continue
				}

				isNew := !e.known[listener][a.Gossip]
				e.known[listener][a.Gossip] = true
				e.players[listener].GetGossip(a.Gossip, i)
				e.collector.AddDelivery(isNew)
				if isNew {
					feedback = append(feedback, fmt.Sprintf("Nod Head %d", listener))
					e.nods[i]++
				} else {
					feedback = append(feedback, fmt.Sprintf("Shake Head %d", listener))
					e.shakes[i]++
				}
			}
			e.players[i].Feedback(feedback)
		}
	}
}

// resolveMoves seats movers in random order, each at the first free seat of
// its list.
func (e *Local) resolveMoves(actions []game.Action) {
	for _, i := range e.rng.Perm(len(e.players)) {
		move, ok := actions[i].(game.Move)
		if !ok {
			continue
		}
		seated := false
		for _, s := range move.Seats {
			if e.board.Validate(game.Position{Player: i, Table: s.Table, Seat: s.Seat}) != nil {
				continue
			}
			if cell := s.Cell(); e.board.IsVacant(cell) {
				e.board.Place(i, cell)
				seated = true
				break
			}
		}
		e.collector.AddMove(seated)
	}
}

// reportActions tells each player the talks and listens at the table it
// started the turn at.
func (e *Local) reportActions(actions []game.Action, start []game.Cell) {
	byTable := make([][]game.Observed, game.NumTables)
	for i, action := range actions {
		if _, ok := game.Code(action); !ok {
			continue
		}
		var dir game.Direction
		switch a := action.(type) {
		case game.Talk:
			dir = a.Direction
		case game.Listen:
			dir = a.Direction
		}
		table := start[i].Table()
		byTable[table] = append(byTable[table], game.Observed{Player: i, Command: action.Command(), Direction: dir})
	}

	for i, p := range e.players {
		p.ObserveAfterTurn(byTable[start[i].Table()])
	}
}

func (e *Local) results() []metrics.PlayerMetric {
	results := make([]metrics.PlayerMetric, len(e.players))
	for i := range e.players {
		r := metrics.PlayerMetric{Player: i, Known: len(e.known[i]), Nods: e.nods[i], Shakes: e.shakes[i]}
		for g := range e.known[i] {
			r.Sum += g
		}
		results[i] = r
	}
	return results
}
