package css_test

import (
	"testing"

	"github.com/npillmayer/richedit/css"
	"github.com/npillmayer/tyse/core/dimen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDimenBasic(t *testing.T) {
	ten := css.JustDimen(dimen.PT * 10)
	var du dimen.DU
	switch m := ten.Match(); m {
	case m.Just(&du):
		t.Logf("du = %s", du)
	default:
		t.Errorf("expected Just(10pt) to be a fixed value, isn't: %#v", ten)
	}

	auto := css.Auto()
	switch m := auto.Match(); m {
	case m.IsKind(css.Auto()):
		t.Logf("dimen is auto")
	default:
		t.Errorf("expected dimen auto to match auto, isn't: %#v", auto)
	}

	pcnt := css.Percentage(80)
	var p float64
	switch m := pcnt.Match(); m {
	case m.Percentage(&p):
		t.Logf("percent = %v", p)
	default:
		t.Errorf("expected Percentage(80) to be a percentage value, isn't: %#v", pcnt)
	}
	assert.InDelta(t, 80.0, p, 0.0001)
}

func TestDimenPattern(t *testing.T) {
	ten := css.JustDimen(dimen.PT * 10)
	var du dimen.DU
	m := css.DimenPattern[int](ten)
	zehn := m.OneOf(css.DimenPatterns[int]{
		Just:    m.With(&du).Const(10),
		Auto:    0,
		Default: -1,
	})
	if zehn != 10 {
		t.Errorf("expected zehn == 10, isn't: %#v", zehn)
	}

	d := css.JustDimen(dimen.PT * 10)
	e := css.DimenPattern[dimen.DU](d)
	distance := e.OneOf(css.DimenPatterns[dimen.DU]{
		Just:    e.With(&du).Const(2 * du),
		Auto:    0,
		Default: -1,
	})
	if distance != 2*10*dimen.PT {
		t.Errorf("expected distance to be %v, isn't: %#v", 10*dimen.PT, distance)
	}
}

func TestParseFontSizes(t *testing.T) {
	parent := css.PixelsToDU(16)
	for _, tc := range []struct {
		in string
		px float64
	}{
		{"13px", 13},
		{"12pt", 16},
		{"2em", 32},
		{"150%", 24},
		{"x-small", 10},
		{"medium", 16},
		{"xx-large", 32},
		{"larger", 19.2},
		{"0", 0},
	} {
		d, err := css.ParseDimen(tc.in)
		require.NoError(t, err, tc.in)
		du, ok := d.Resolve(parent)
		require.True(t, ok, tc.in)
		assert.InDelta(t, tc.px, css.DUToPixels(du), 0.01, tc.in)
	}
	_, err := css.ParseDimen("3furlongs")
	assert.Error(t, err)
	_, ok := css.Auto().Resolve(parent)
	assert.False(t, ok)
}

func TestLegacyFontSizes(t *testing.T) {
	n, ok := css.LegacyFontSizeForPixels(24)
	require.True(t, ok)
	assert.Equal(t, 5, n)
	_, ok = css.LegacyFontSizeForPixels(17)
	assert.False(t, ok)

	for in, want := range map[string]int{"1": 1, "7": 7, "+1": 4, "-2": 1, "+9": 7, "9": 7} {
		got, ok := css.ParseLegacyFontSize(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	px, ok := css.LegacyFontSizePixels(2)
	require.True(t, ok)
	assert.Equal(t, 13.0, px)
	assert.Equal(t, "13px", css.FormatPixels(px))
}
