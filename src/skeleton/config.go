package skeleton

import (
	"fmt"
	"strings"
)

// Variant selects the offset strategy of a construction.
type Variant int

const (
	Projective Variant = iota
	Rotational
	Translational
	ConstantSpeed
)

var variantNames = map[Variant]string{
	Projective:    "projective",
	Rotational:    "rotational",
	Translational: "translational",
	ConstantSpeed: "constant_speed",
}

func (v Variant) String() string {
	if name, ok := variantNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant maps a configuration name to its Variant. Names are case
// insensitive and accept '-' for '_'.
func ParseVariant(name string) (Variant, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	switch key {
	case "constspeed", "constant":
		return ConstantSpeed, nil
	}
	for v, n := range variantNames {
		if n == key {
			return v, nil
		}
	}
	return Projective, fmt.Errorf("skeleton: unknown strategy %q", name)
}

// Config controls a skeleton construction.
type Config struct {
	Strategy Variant
	// ConstOffset emits a ConstOffsetEvent every time the cumulative offset
	// crosses a multiple of the given step. Zero disables it.
	ConstOffset map[Variant]float64
	// Debug turns invariant violations into hard failures.
	Debug bool
	// MaxEvents bounds the number of handled events; zero means unbounded.
	MaxEvents int
}

const defaultMaxEvents = 100000

func DefaultConfig() Config {
	return Config{
		Strategy:  Projective,
		MaxEvents: defaultMaxEvents,
	}
}

// constOffset is the configured step of the active strategy. Constant speed
// constructions have no offset scale to step along.
func (c Config) constOffset() float64 {
	if c.ConstOffset == nil || c.Strategy == ConstantSpeed {
		return 0
	}
	if d := c.ConstOffset[c.Strategy]; d > 0 {
		return d
	}
	return 0
}

type options struct {
	config     Config
	controller Controller
}

// Option configures a Skeleton.
type Option func(*options)

func WithStrategy(v Variant) Option {
	return func(o *options) {
		o.config.Strategy = v
	}
}

// WithStrategyName selects the strategy by its configuration name. Unknown
// names fall back to Projective with a warning.
func WithStrategyName(name string) Option {
	return func(o *options) {
		v, err := ParseVariant(name)
		if err != nil {
			Logger().Warn("falling back to projective strategy", "name", name, "err", err)
		}
		o.config.Strategy = v
	}
}

// WithConstOffset sets the constant offset step of variant v.
func WithConstOffset(v Variant, step float64) Option {
	return func(o *options) {
		m := make(map[Variant]float64, len(o.config.ConstOffset)+1)
		for k, d := range o.config.ConstOffset {
			m[k] = d
		}
		m[v] = step
		o.config.ConstOffset = m
	}
}

func WithDebug(debug bool) Option {
	return func(o *options) {
		o.config.Debug = debug
	}
}

func WithMaxEvents(n int) Option {
	return func(o *options) {
		o.config.MaxEvents = n
	}
}

// WithController installs the checkpoint controller. The default never
// blocks.
func WithController(c Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

func newOptions(opts ...Option) options {
	o := options{config: DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.controller == nil {
		o.controller = nopController{}
	}
	return o
}
