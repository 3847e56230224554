package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screen-hud/src/config"
	"screen-hud/src/hud"
	"screen-hud/src/screenshot"
	"screen-hud/src/session"
)

func TestHUDMode(t *testing.T) {
	assert.Equal(t, hud.Rescale, hudMode(config.DefaultModeRescale))
	assert.Equal(t, hud.Pick, hudMode(config.DefaultModePick))
	assert.Equal(t, hud.Pick, hudMode(""))
}

func TestPickOptionsPrintRegion(t *testing.T) {
	region := screenshot.Region{X: -5, Y: 10, Width: 640, Height: 480}
	sel := func(context.Context) (screenshot.Region, bool, error) { return region, false, nil }

	var out bytes.Buffer
	opts := pickOptions(&config.Config{}, sel, &out)
	assert.Nil(t, opts.Capture)

	res, err := session.Execute(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, region, res.Region)
	assert.Equal(t, "640x480+-5+10\n", out.String())
}

func TestPickOptionsWithSnapshot(t *testing.T) {
	opts := pickOptions(&config.Config{ClipboardSnapshot: true}, nil, &bytes.Buffer{})
	assert.NotNil(t, opts.Capture)
	targets, ok := opts.Target.(session.MultiTarget)
	require.True(t, ok)
	assert.Len(t, targets, 2)
}

func TestNewAppWiresArbiters(t *testing.T) {
	a := newApp(&config.Config{})
	require.NotNil(t, a.loop)
	assert.Zero(t, a.kb.Refs())
	assert.Zero(t, a.ms.Refs())
	assert.NotPanics(t, a.shutdown)
}
