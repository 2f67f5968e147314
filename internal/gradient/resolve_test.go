package gradient_test

import (
	"testing"

	"bennypowers.dev/gtf/internal/gradient"
	"bennypowers.dev/gtf/internal/parser/value"
	"github.com/stretchr/testify/assert"
)

func fix(t *testing.T, src string) (string, []gradient.Warning) {
	t.Helper()
	g, nodes := parseGradient(t, src)
	warnings := g.Fix()
	return value.Stringify(nodes), warnings
}

func TestResolveEdges(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"rgb", "linear-gradient( rgb(255,0,0), transparent )", "linear-gradient( rgb(255,0,0), rgba(255, 0, 0, 0) )"},
		{"rgba", "linear-gradient( rgba(120, 0, 200, 0.5), transparent )", "linear-gradient( rgba(120, 0, 200, 0.5), rgba(120, 0, 200, 0) )"},
		{"hsl", "linear-gradient( hsl(204, 30%, 70%), transparent )", "linear-gradient( hsl(204, 30%, 70%), hsla(204, 30%, 70%, 0) )"},
		{"hsla", "linear-gradient( hsla(123,50%,50%,0.7), transparent )", "linear-gradient( hsla(123,50%,50%,0.7), hsla(123, 50%, 50%, 0) )"},
		{"short hex", "linear-gradient( #fed, transparent )", "linear-gradient( #fed, rgba(255, 238, 221, 0) )"},
		{"long hex", "linear-gradient( #5adCab,transparent )", "linear-gradient( #5adCab,rgba(90, 220, 171, 0) )"},
		{"named", "linear-gradient( papayawhip, transparent )", "linear-gradient( papayawhip, rgba(255, 239, 213, 0) )"},
		{"leading", "linear-gradient( transparent,  blue )", "linear-gradient( rgba(0, 0, 255, 0),  blue )"},
		{"leading with position", "linear-gradient( transparent 30%, blue )", "linear-gradient( rgba(0, 0, 255, 0) 30%, blue )"},
		{"leading with calc", "linear-gradient( transparent calc(30% + 2px), blue )", "linear-gradient( rgba(0, 0, 255, 0) calc(30% + 2px), blue )"},
		{"upper case keyword", "linear-gradient(red, TRANSPARENT)", "linear-gradient(red, rgba(255, 0, 0, 0))"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, warnings := fix(t, tc.in)
			assert.Equal(t, tc.want, got)
			assert.Empty(t, warnings)
		})
	}
}

func TestResolveInterior(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			"explicit position",
			"linear-gradient( #f00,  transparent 50%, #0f0 )",
			"linear-gradient( #f00,  rgba(255, 0, 0, 0) 50%, rgba(0, 255, 0, 0) 50%, #0f0 )",
		},
		{
			"same hex colors merge",
			"linear-gradient( #00f, transparent 50%, #00f )",
			"linear-gradient( #00f, rgba(0, 0, 255, 0) 50%, #00f )",
		},
		{
			"same colors across notations",
			"linear-gradient( rgb(0, 0, 255), transparent 50%, hsl(240, 100%, 50%) )",
			"linear-gradient( rgb(0, 0, 255), rgba(0, 0, 255, 0) 50%, hsl(240, 100%, 50%) )",
		},
		{
			"same colors with alpha",
			"linear-gradient( #00f, transparent 50%, rgba(0, 0, 255, 0.9) )",
			"linear-gradient( #00f, rgba(0, 0, 255, 0) 50%, rgba(0, 0, 255, 0.9) )",
		},
		{
			"same colors without position",
			"linear-gradient( #00f, transparent, #00f )",
			"linear-gradient( #00f, rgba(0, 0, 255, 0), #00f )",
		},
		{
			"same colors around calc",
			"linear-gradient( #00f calc(10% + 10px), transparent, #00f )",
			"linear-gradient( #00f calc(10% + 10px), rgba(0, 0, 255, 0), #00f )",
		},
		{
			"split keeps calc position",
			"linear-gradient( #f00, transparent calc(50% - 1px), #0f0 )",
			"linear-gradient( #f00, rgba(255, 0, 0, 0) calc(50% - 1px), rgba(0, 255, 0, 0) calc(50% - 1px), #0f0 )",
		},
		{
			"two transparent stops",
			"linear-gradient( #f00, transparent, #0f0, transparent, #00f )",
			"linear-gradient( #f00, rgba(255, 0, 0, 0) 25%, rgba(0, 255, 0, 0) 25%, #0f0, rgba(0, 255, 0, 0) 75%, rgba(0, 0, 255, 0) 75%, #00f )",
		},
		{
			"hint is skipped",
			"linear-gradient( #f00, 30%, transparent 50%, #0f0 )",
			"linear-gradient( #f00, 30%, rgba(255, 0, 0, 0) 50%, rgba(0, 255, 0, 0) 50%, #0f0 )",
		},
		{
			"double position is carried to the copy",
			"linear-gradient( #f00, transparent 40% 60%, #0f0 )",
			"linear-gradient( #f00, rgba(255, 0, 0, 0) 40% 60%, rgba(0, 255, 0, 0) 40% 60%, #0f0 )",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, warnings := fix(t, tc.in)
			assert.Equal(t, tc.want, got)
			assert.Empty(t, warnings)
		})
	}
}

func TestResolveConsecutiveTransparent(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			"middle",
			"linear-gradient( #f00, transparent, transparent, #0f0 )",
			"linear-gradient( #f00, rgba(255, 0, 0, 0), rgba(0, 255, 0, 0), #0f0 )",
		},
		{
			"middle with positions",
			"linear-gradient( #f00, transparent 25%, transparent 73%, #0f0 )",
			"linear-gradient( #f00, rgba(255, 0, 0, 0) 25%, rgba(0, 255, 0, 0) 73%, #0f0 )",
		},
		{
			"start",
			"linear-gradient( transparent, transparent, #0f0 )",
			"linear-gradient( rgba(0, 0, 0, 0), rgba(0, 255, 0, 0), #0f0 )",
		},
		{
			"end",
			"linear-gradient( #0f0, transparent, transparent )",
			"linear-gradient( #0f0, rgba(0, 255, 0, 0), rgba(0, 255, 0, 0) )",
		},
		{
			"next to zero alpha color",
			"linear-gradient( #f00, transparent, rgba(0, 0, 0, 0), #0f0 )",
			"linear-gradient( #f00, rgba(255, 0, 0, 0), rgba(0, 0, 0, 0), #0f0 )",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, warnings := fix(t, tc.in)
			assert.Equal(t, tc.want, got)
			assert.Empty(t, warnings)
		})
	}
}

func TestResolveWarnings(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		warning string
	}{
		{"missing percentage bound", "linear-gradient( #f00 20px, transparent, #0f0 )", gradient.WarningStopPosition},
		{"mixed units", "linear-gradient( #f00 10%, transparent, #0f0 20em )", gradient.WarningStopPosition},
		{"calc start bound", "linear-gradient( #f00 calc(10% + 10px), transparent, #0f0 )", gradient.WarningStopPosition},
		{"calc end bound", "linear-gradient( #f00, transparent, #0f0 calc(100% - 10px) )", gradient.WarningStopPosition},
		{"invalid trailing neighbour", "linear-gradient( transparent, thisdoesntexist )", gradient.WarningInvalidColor},
		{"invalid interior neighbour", "linear-gradient( #f00, transparent 50%, thisdoesntexist )", gradient.WarningInvalidColor},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, warnings := fix(t, tc.in)
			assert.Equal(t, tc.in, got)
			if assert.Len(t, warnings, 1) {
				assert.Equal(t, tc.warning, warnings[0].Message)
			}
		})
	}
}

func TestResolveLeavesOthersAlone(t *testing.T) {
	for _, src := range []string{
		"linear-gradient( rgb(255,0,0), rgba(0,0,0,0) )",
		"linear-gradient(transparent)",
		"linear-gradient(red, blue)",
		"linear-gradient()",
	} {
		got, warnings := fix(t, src)
		assert.Equal(t, src, got)
		assert.Empty(t, warnings)
	}
}

func TestFixIsIdempotent(t *testing.T) {
	for _, src := range []string{
		"linear-gradient( #f00, transparent, #0f0 70% )",
		"linear-gradient( #f00, transparent, transparent, #0f0 )",
		"radial-gradient(ellipse, red, transparent 40%, blue)",
	} {
		once, _ := fix(t, src)
		twice, warnings := fix(t, once)
		assert.Equal(t, once, twice)
		assert.Empty(t, warnings)
	}
}

func TestInsertedStopKeepsCommaSpacing(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			"compact",
			"linear-gradient(#f00,transparent,#0f0)",
			"linear-gradient(#f00,rgba(255, 0, 0, 0) 50%,rgba(0, 255, 0, 0) 50%,#0f0)",
		},
		{
			"one stop per line",
			"linear-gradient(\n  #f00,\n  transparent,\n  #0f0\n)",
			"linear-gradient(\n  #f00,\n  rgba(255, 0, 0, 0) 50%,\n  rgba(0, 255, 0, 0) 50%,\n  #0f0\n)",
		},
		{
			"wide spacing is normalised",
			"linear-gradient(#f00,   transparent 50%, #0f0)",
			"linear-gradient(#f00,   rgba(255, 0, 0, 0) 50%, rgba(0, 255, 0, 0) 50%, #0f0)",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, warnings := fix(t, tc.in)
			assert.Equal(t, tc.want, got)
			assert.Empty(t, warnings)
		})
	}
}
