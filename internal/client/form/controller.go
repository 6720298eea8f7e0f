// Package form drives the portfolio contact form: it owns the field values
// and the submission state machine, and talks to the send-email endpoint.
package form

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const (
	DefaultResetDelay = 5 * time.Second

	// Banner texts shown when the server gives no better explanation
	MsgSendFailed      = "Failed to send email"
	MsgTransportFailed = "Something went wrong. Please try again."
)

// ErrSubmitInFlight is returned by Submit while a previous submission has
// not completed. Nothing is sent in that case.
var ErrSubmitInFlight = errors.New("form: submission already in flight")

// Field identifies one input of the contact form
type Field int

const (
	FieldName Field = iota
	FieldEmail
	FieldMessage
)

type Option func(*Controller)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Controller) { c.client = client }
}

// WithClock replaces the clock driving the auto-reset timer
func WithClock(clock clockwork.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithResetDelay sets how long a success stays visible before reverting to idle
func WithResetDelay(d time.Duration) Option {
	return func(c *Controller) { c.resetDelay = d }
}

// WithObserver registers fn to receive a snapshot after every change.
// fn runs synchronously, outside the controller lock.
func WithObserver(fn func(Snapshot)) Option {
	return func(c *Controller) { c.observers = append(c.observers, fn) }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// Controller is safe for concurrent use. At most one submission is in
// flight per controller.
type Controller struct {
	endpoint   string
	client     *http.Client
	clock      clockwork.Clock
	resetDelay time.Duration
	observers  []func(Snapshot)
	log        *zap.Logger

	mu         sync.Mutex
	fields     Fields
	state      State
	resetTimer clockwork.Timer
	generation uint64
}

// New creates a controller posting to endpoint, e.g.
// "https://example.dev/api/send-email".
func New(endpoint string, opts ...Option) *Controller {
	c := &Controller{
		endpoint:   endpoint,
		client:     http.DefaultClient,
		clock:      clockwork.NewRealClock(),
		resetDelay: DefaultResetDelay,
		log:        zap.NewNop(),
		state:      idle(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetField updates one input in place. No validation happens here.
func (c *Controller) SetField(f Field, value string) {
	c.mu.Lock()
	switch f {
	case FieldName:
		c.fields.Name = value
	case FieldEmail:
		c.fields.Email = value
	case FieldMessage:
		c.fields.Message = value
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
}

func (c *Controller) SetName(v string)    { c.SetField(FieldName, v) }
func (c *Controller) SetEmail(v string)   { c.SetField(FieldEmail, v) }
func (c *Controller) SetMessage(v string) { c.SetField(FieldMessage, v) }

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) State() State {
	return c.Snapshot().State
}

func (c *Controller) Fields() Fields {
	return c.Snapshot().Fields
}

// Submit posts the current fields and blocks until the outcome is known.
// It returns the resulting state; the error is non-nil only when another
// submission is still in flight.
//
// A pending auto-reset from an earlier success is cancelled first, so it
// can never overwrite the state of this submission.
func (c *Controller) Submit(ctx context.Context) (State, error) {
	c.mu.Lock()
	if c.state.IsLoading() {
		st := c.state
		c.mu.Unlock()
		return st, ErrSubmitInFlight
	}
	c.stopResetTimerLocked()
	c.generation++
	gen := c.generation
	c.state = submitting()
	fields := c.fields
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)

	outcome := failed(MsgTransportFailed)
	defer func() {
		c.finish(gen, outcome)
	}()

	outcome = c.dispatch(ctx, fields)
	return outcome, nil
}

// Close cancels a pending auto-reset. The controller stays usable.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopResetTimerLocked()
}

type sendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Controller) dispatch(ctx context.Context, fields Fields) State {
	body, err := json.Marshal(fields)
	if err != nil {
		return c.transportFailure(fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return c.transportFailure(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return c.transportFailure(err)
	}
	defer resp.Body.Close()

	// Every response from the endpoint carries JSON; anything else means a
	// proxy or gateway answered instead.
	var payload sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return c.transportFailure(fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err))
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return succeeded()
	}
	if payload.Error != "" {
		return failed(payload.Error)
	}
	return failed(MsgSendFailed)
}

func (c *Controller) transportFailure(err error) State {
	c.log.Error("Form submission error", zap.String("endpoint", c.endpoint), zap.Error(err))
	return failed(MsgTransportFailed)
}

// finish leaves the submitting state. It runs deferred, so the loading
// flag is released on every path.
func (c *Controller) finish(gen uint64, outcome State) {
	c.mu.Lock()
	c.state = outcome
	if outcome.Status == StatusSucceeded {
		c.fields = Fields{}
		c.resetTimer = c.clock.AfterFunc(c.resetDelay, func() {
			c.expire(gen)
		})
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
}

// expire reverts a success to idle unless a newer submission took over
func (c *Controller) expire(gen uint64) {
	c.mu.Lock()
	if gen != c.generation || c.state.Status != StatusSucceeded {
		c.mu.Unlock()
		return
	}
	c.state = idle()
	c.resetTimer = nil
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
}

func (c *Controller) stopResetTimerLocked() {
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{Fields: c.fields, State: c.state}
}

func (c *Controller) notify(snap Snapshot) {
	for _, fn := range c.observers {
		fn(snap)
	}
}
