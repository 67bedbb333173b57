package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"gossip/communication"
	"gossip/game"

	"github.com/rs/zerolog"
)

var ErrRemote = errors.New("remote player error")

const DefaultTimeout = 5 * time.Second

// Remote is a player hosted by a communication server. Callbacks without an
// error return log failures instead.
type Remote struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

func NewRemote(baseURL string, timeout time.Duration, logger zerolog.Logger) *Remote {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Remote{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With().Str("remote", baseURL).Logger(),
	}
}

func (r *Remote) ObserveBeforeTurn(positions []game.Position) error {
	return r.post(communication.PathBeforeTurn, communication.EncodePositions(positions), nil)
}

func (r *Remote) ObserveAfterTurn(actions []game.Observed) {
	if err := r.post(communication.PathAfterTurn, communication.EncodeObserved(actions), nil); err != nil {
		r.logger.Warn().Err(err).Msg("after-turn report not delivered")
	}
}

func (r *Remote) GetAction() (game.Action, error) {
	var wire communication.Action
	if err := r.post(communication.PathAction, struct{}{}, &wire); err != nil {
		return nil, err
	}
	return wire.Decode()
}

func (r *Remote) GetGossip(gossip, talker int) {
	if err := r.post(communication.PathGossip, communication.Gossip{Gossip: gossip, Talker: talker}, nil); err != nil {
		r.logger.Warn().Err(err).Msg("gossip not delivered")
	}
}

func (r *Remote) Feedback(feedback []string) {
	if err := r.post(communication.PathFeedback, communication.Feedback{Feedback: feedback}, nil); err != nil {
		r.logger.Warn().Err(err).Msg("feedback not delivered")
	}
}

func (r *Remote) post(path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, r.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var e communication.Error
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &e) != nil || e.Error == "" {
			e.Error = string(data)
		}
		return fmt.Errorf("%w: %s returned %d: %s", ErrRemote, path, resp.StatusCode, e.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: malformed response: %w", path, err)
	}
	return nil
}
