package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/slot-sim/internal/config"
	"github.com/wfunc/slot-sim/internal/errors"
)

func testApp(t *testing.T, opts options) *App {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Database.Enabled = false

	app, err := NewApp(cfg, opts)
	require.NoError(t, err)
	return app
}

func TestApp_Simulate(t *testing.T) {
	app := testApp(t, options{mode: "simulate", spins: 2000, lines: 3, bet: 1, seed: 42})

	var out bytes.Buffer
	require.NoError(t, app.simulate(&out))

	report := out.String()
	assert.Contains(t, report, "Machine:         classic_3x3 (3x3)\n")
	assert.Contains(t, report, "Spins:           2000\n")
	assert.Contains(t, report, "Total bet:       $6000\n")
	assert.Contains(t, report, "theoretical 0.2460")
	assert.Contains(t, report, "Line 3 hits:")
	assert.Contains(t, report, "Symbol D hits:")
}

func TestApp_SimulateInvalidBet(t *testing.T) {
	app := testApp(t, options{mode: "simulate", spins: 10, lines: 9, bet: 1, seed: 1})
	err := app.simulate(&bytes.Buffer{})
	assert.True(t, errors.Is(err, errors.ErrInvalidLines))
}

func TestApp_Play(t *testing.T) {
	app := testApp(t, options{mode: "play", seed: 3})

	var out bytes.Buffer
	require.NoError(t, app.play(strings.NewReader("25\nq\n"), &out))
	assert.True(t, strings.HasSuffix(out.String(), "You left with $25\n"))
}

func TestApp_UnknownMode(t *testing.T) {
	app := testApp(t, options{mode: "bogus"})
	assert.True(t, errors.Is(app.Run(), errors.ErrValidation))
}
