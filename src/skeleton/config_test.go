package skeleton

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariant(t *testing.T) {
	for idx, tc := range []struct {
		name string
		want Variant
		ok   bool
	}{
		{"projective", Projective, true},
		{"Rotational", Rotational, true},
		{" translational ", Translational, true},
		{"constant_speed", ConstantSpeed, true},
		{"constant-speed", ConstantSpeed, true},
		{"constspeed", ConstantSpeed, true},
		{"hyperbolic", Projective, false},
		{"", Projective, false},
	} {
		t.Run(fmt.Sprintf("%d/%s", idx, tc.name), func(t *testing.T) {
			got, err := ParseVariant(tc.name)
			assert.Equal(t, tc.want, got)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestVariantString(t *testing.T) {
	for _, v := range variants {
		got, err := ParseVariant(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	assert.Equal(t, "Variant(9)", Variant(9).String())
}

func TestUnknownStrategyFallsBack(t *testing.T) {
	sk := New(triangle(t), WithStrategyName("no-such-strategy"))
	assert.Equal(t, Projective, sk.Variant())

	cfg := DefaultConfig()
	cfg.Strategy = Variant(42)
	assert.Equal(t, Projective, NewStrategy(cfg, NewGraph(triangle(t))).Variant())
}

func TestOptions(t *testing.T) {
	stepper := NewStepper(false)
	o := newOptions(
		WithStrategy(Rotational),
		WithConstOffset(Rotational, 0.1),
		WithConstOffset(Translational, 0.2),
		WithDebug(true),
		WithMaxEvents(7),
		WithController(stepper),
	)
	assert.Equal(t, Rotational, o.config.Strategy)
	assert.Equal(t, map[Variant]float64{Rotational: 0.1, Translational: 0.2}, o.config.ConstOffset)
	assert.True(t, o.config.Debug)
	assert.Equal(t, 7, o.config.MaxEvents)
	assert.Same(t, stepper, o.controller)
	assert.Equal(t, 0.1, o.config.constOffset())

	o = newOptions(WithConfig(Config{Strategy: ConstantSpeed, ConstOffset: map[Variant]float64{ConstantSpeed: 1}}))
	assert.Equal(t, ConstantSpeed, o.config.Strategy)
	assert.Zero(t, o.config.constOffset())
	assert.IsType(t, nopController{}, o.controller)
}
