// Package agent implements a wedding-gossip participant: it tracks the board
// from partial observations, encodes it for a decision policy, and turns the
// policy's choices into actions.
package agent

import (
	"fmt"

	"gossip/game"
	"gossip/policy"
	"gossip/utils"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

const DefaultMemoryCapacity = 2

type Option func(c *config)

type config struct {
	players  int
	capacity int
	radius   int
	rng      *rand.Rand
	logger   *zerolog.Logger
}

// WithPlayers sets the population size; ids run from 0 to players-1.
func WithPlayers(players int) Option {
	return func(c *config) {
		if players > 0 {
			c.players = players
		}
	}
}

// WithMemory sets how many past boards the agent remembers.
func WithMemory(capacity int) Option {
	return func(c *config) {
		if capacity >= 0 {
			c.capacity = capacity
		}
	}
}

// WithNeighborRadius sets how many seats on each side are marked as
// neighbors in observations.
func WithNeighborRadius(radius int) Option {
	return func(c *config) {
		if radius >= 0 {
			c.radius = radius
		}
	}
}

// WithRand sets the generator used to shuffle move candidates.
func WithRand(rng *rand.Rand) Option {
	return func(c *config) {
		if rng != nil {
			c.rng = rng
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = &logger
	}
}

// Agent is one player. Its methods are called by a single engine goroutine.
type Agent struct {
	id       int
	tracker  *Tracker
	ledger   *Ledger
	encoder  *Encoder
	policy   policy.Policy
	feedback FeedbackTally
	last     FeedbackTally
	logger   zerolog.Logger
}

// NewAgent returns an agent that knows its own gossip and decides with p.
func NewAgent(id, gossip int, p policy.Policy, options ...Option) *Agent {
	c := config{ // Default values
		players:  game.DefaultPlayers,
		capacity: DefaultMemoryCapacity,
		radius:   DefaultNeighborRadius,
	}
	for _, option := range options {
		option(&c)
	}
	if p == nil {
		panic("agent needs a policy")
	}
	if id < 0 || id >= c.players {
		panic(fmt.Sprintf("agent id %d outside population of %d", id, c.players))
	}
	if c.rng == nil {
		c.rng = utils.NewRand(uint64(id))
	}
	logger := log.Logger.With().Int("player", id).Logger()
	if c.logger != nil {
		logger = c.logger.With().Int("player", id).Logger()
	}

	tracker := NewTracker(id, c.players, c.capacity, logger)
	ledger := NewLedger(gossip)
	return &Agent{
		id:      id,
		tracker: tracker,
		ledger:  ledger,
		encoder: NewEncoder(tracker, ledger, c.radius, c.rng),
		policy:  p,
		logger:  logger,
	}
}

func (a *Agent) ID() int {
	return a.id
}

// ObserveBeforeTurn is told who sits where at the start of a turn.
func (a *Agent) ObserveBeforeTurn(positions []game.Position) error {
	if err := a.tracker.UpdateBeforeTurn(positions); err != nil {
		return fmt.Errorf("agent %d: %w", a.id, err)
	}
	return nil
}

// ObserveAfterTurn is told what the players at its table did this turn.
func (a *Agent) ObserveAfterTurn(actions []game.Observed) {
	a.tracker.UpdateAfterTurn(actions)
}

// GetAction decides this turn's action.
func (a *Agent) GetAction() (game.Action, error) {
	observation := a.encoder.Encode()
	choice, err := a.policy.Choose(observation)
	if err != nil {
		return nil, fmt.Errorf("agent %d: policy: %w", a.id, err)
	}
	action, err := a.encoder.Decode(choice)
	if err != nil {
		return nil, fmt.Errorf("agent %d: %w", a.id, err)
	}
	if talk, ok := action.(game.Talk); ok {
		if picker, ok := a.policy.(policy.GossipPicker); ok {
			if a.ledger.Select(picker.PickGossip(a.ledger.Values(), a.tracker.Turn())) {
				talk.Gossip = a.ledger.Selected()
				action = talk
			}
		}
	}
	a.logger.Trace().Int("turn", a.tracker.Turn()).Int("code", int(choice.Code)).Stringer("command", action.Command()).Msg("chose action")
	return action, nil
}

// GetGossip is told a gossip value by talker.
func (a *Agent) GetGossip(gossip, talker int) {
	if a.ledger.Add(gossip) {
		a.logger.Debug().Int("gossip", gossip).Int("talker", talker).Msg("learned gossip")
	}
}

// Feedback receives responses from the players it talked to.
func (a *Agent) Feedback(feedback []string) {
	a.last = Tally(feedback)
	a.feedback = a.feedback.Add(a.last)
}

// Observation returns the vector the policy would see now.
func (a *Agent) Observation() []float32 {
	return a.encoder.Encode()
}

func (a *Agent) Tracker() *Tracker {
	return a.tracker
}

func (a *Agent) Ledger() *Ledger {
	return a.ledger
}

// LastFeedback is the tally of the most recent Feedback call.
func (a *Agent) LastFeedback() FeedbackTally {
	return a.last
}

// TotalFeedback is the tally over the whole game.
func (a *Agent) TotalFeedback() FeedbackTally {
	return a.feedback
}
