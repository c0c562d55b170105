package predict

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/evcraddock/price-estimator/internal/options"
)

// Messages shown when the backend gives no usable explanation.
const (
	FallbackMessage     = "Prediction failed"
	ConnectivityMessage = "Backend connection failed. Make sure the prediction service is running."
)

var (
	// ErrUnknownField is returned by SetField for a name that is not a form field.
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidOption is returned by SetField for a value outside the configured set.
	ErrInvalidOption = errors.New("value is not one of the configured options")
	// ErrSubmitInFlight is returned by Submit while an earlier submission is pending.
	ErrSubmitInFlight = errors.New("a prediction request is already in flight")
)

// Predictor sends one prediction request to a backend.
// A non-nil error means no usable response arrived.
type Predictor interface {
	Predict(ctx context.Context, req Request) (*Response, error)
}

// Event describes a state transition. Input is the snapshot that was submitted.
type Event struct {
	Input FormInput
	State State
}

// Listener observes transitions. Listeners must not call Submit.
type Listener func(Event)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithListener registers a listener at construction time.
func WithListener(l Listener) Option {
	return func(c *Controller) { c.listeners = append(c.listeners, l) }
}

// Controller owns one form: its field values and its request state.
type Controller struct {
	predictor Predictor
	opts      options.Options
	logger    *slog.Logger

	// transition serializes state changes with their notifications so
	// listeners see transitions in order.
	transition sync.Mutex

	mu        sync.Mutex
	input     FormInput
	state     State
	listeners []Listener
}

// NewController creates a controller with default form values.
// Defaults that are not members of the configured sets fall back to the
// first member of the set.
func NewController(p Predictor, opts options.Options, copts ...Option) *Controller {
	c := &Controller{
		predictor: p,
		opts:      opts,
		logger:    slog.Default(),
		input:     DefaultInput(opts),
		state:     Idle{},
	}
	for _, o := range copts {
		o(c)
	}
	return c
}

// DefaultInput returns the form values a new controller starts with.
func DefaultInput(opts options.Options) FormInput {
	in := FormInput{
		PropertyType: "Condo",
		Township:     "Kamayut",
		Bedrooms:     3,
		PropertySize: 2000,
	}

	d := opts.Defaults
	if d.PropertyType != "" {
		in.PropertyType = d.PropertyType
	}
	if d.Township != "" {
		in.Township = d.Township
	}
	if d.Bedrooms != 0 {
		in.Bedrooms = d.Bedrooms
	}
	if d.PropertySize != 0 {
		in.PropertySize = d.PropertySize
	}

	if !opts.HasPropertyType(in.PropertyType) && len(opts.PropertyTypes) > 0 {
		in.PropertyType = opts.PropertyTypes[0]
	}
	if !opts.HasTownship(in.Township) && len(opts.Townships) > 0 {
		in.Township = opts.Townships[0]
	}
	return in
}

// Options returns the closed sets this form was configured with.
func (c *Controller) Options() options.Options {
	return c.opts
}

// Input returns a copy of the current form values.
func (c *Controller) Input() FormInput {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// State returns the current request state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers a listener for future transitions.
func (c *Controller) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// SetField replaces exactly one field. Numeric fields are parsed from raw;
// text that does not parse is stored as NaN. Selection fields must be one
// of the configured options. Fields may be edited while a request is pending.
func (c *Controller) SetField(field Field, raw string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(&c.input, field, raw)
}

// SetFields applies several edits at once. Either every edit is applied or,
// when any is rejected, none is.
func (c *Controller) SetFields(values map[Field]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for f := range values {
		if _, err := ParseField(string(f)); err != nil {
			return err
		}
	}

	next := c.input
	for _, f := range Fields {
		raw, ok := values[f]
		if !ok {
			continue
		}
		if err := c.apply(&next, f, raw); err != nil {
			return fmt.Errorf("%s: %w", f.Label(), err)
		}
	}
	c.input = next
	return nil
}

// apply sets one field of in. c.mu must be held.
func (c *Controller) apply(in *FormInput, field Field, raw string) error {
	switch field {
	case FieldPropertyType:
		if !c.opts.HasPropertyType(raw) {
			return fmt.Errorf("%s %q: %w", field, raw, ErrInvalidOption)
		}
		in.PropertyType = raw
	case FieldTownship:
		if !c.opts.HasTownship(raw) {
			return fmt.Errorf("%s %q: %w", field, raw, ErrInvalidOption)
		}
		in.Township = raw
	case FieldBedrooms:
		in.Bedrooms = parseNumber(raw)
	case FieldPropertySize:
		in.PropertySize = parseNumber(raw)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Submit sends the current form values to the predictor and blocks until
// the request settles. It returns the settled state. The only error is
// ErrSubmitInFlight, returned without sending anything when an earlier
// submission is still pending. Every other failure is reported as a Failed
// state.
func (c *Controller) Submit(ctx context.Context) (State, error) {
	snapshot, err := c.begin()
	if err != nil {
		return Pending{}, err
	}

	next := c.resolve(ctx, snapshot)
	c.settle(snapshot, next)
	return next, nil
}

// begin moves to Pending, dropping any previous result or message.
func (c *Controller) begin() (FormInput, error) {
	c.transition.Lock()
	defer c.transition.Unlock()

	c.mu.Lock()
	if _, ok := c.state.(Pending); ok {
		c.mu.Unlock()
		return FormInput{}, ErrSubmitInFlight
	}
	snapshot := c.input
	c.state = Pending{}
	listeners := c.listeners
	c.mu.Unlock()

	c.logger.Debug("prediction submitted",
		"property_type", snapshot.PropertyType,
		"township", snapshot.Township,
		"bedrooms", snapshot.Bedrooms,
		"property_size", snapshot.PropertySize,
	)
	c.notify(listeners, Event{Input: snapshot, State: Pending{}})
	return snapshot, nil
}

// settle leaves Pending for the given outcome.
func (c *Controller) settle(snapshot FormInput, next State) {
	c.transition.Lock()
	defer c.transition.Unlock()

	c.mu.Lock()
	c.state = next
	listeners := c.listeners
	c.mu.Unlock()

	c.logger.Debug("prediction settled", "phase", next.Phase())
	c.notify(listeners, Event{Input: snapshot, State: next})
}

// resolve maps the predictor's outcome to a settled state. A panicking
// predictor settles as a transport failure.
func (c *Controller) resolve(ctx context.Context, in FormInput) (next State) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("predictor panicked", "panic", r)
			next = Failed{Message: ConnectivityMessage}
		}
	}()

	resp, err := c.predictor.Predict(ctx, in.Request())
	if err != nil {
		c.logger.Warn("prediction request failed", "error", err)
		return Failed{Message: ConnectivityMessage}
	}
	if resp == nil {
		c.logger.Warn("prediction request returned no response")
		return Failed{Message: ConnectivityMessage}
	}

	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = FallbackMessage
		}
		return Failed{Message: msg}
	}

	if resp.InputDetails == nil {
		c.logger.Warn("prediction response missing input_details")
		return Failed{Message: ConnectivityMessage}
	}

	return Succeeded{Result: Result{
		EstimatedPrice: resp.Prediction,
		Currency:       resp.Currency,
		Echo:           *resp.InputDetails,
	}}
}

// notify calls each listener in order. A panicking listener is logged and
// skipped so a transition is never left half-done.
func (c *Controller) notify(listeners []Listener, ev Event) {
	for _, l := range listeners {
		c.callListener(l, ev)
	}
}

func (c *Controller) callListener(l Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("listener panicked", "phase", ev.State.Phase(), "panic", r)
		}
	}()
	l(ev)
}
