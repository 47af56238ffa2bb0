package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFlag(t *testing.T) {
	var sets setFlag
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(&sets, "set", "")

	require.NoError(t, fs.Parse([]string{
		"-set", "initial=100_000",
		"-set", "rate=12%",
		"-set", " cf1 = 30000",
		"-set", "rate=10",
	}))

	assert.Equal(t, map[string]float64{"initial": 100000, "rate": 10, "cf1": 30000}, sets.values)
	assert.Equal(t, "cf1=30000,initial=100000,rate=10", sets.String())
}

func TestSetFlag_Invalid(t *testing.T) {
	var sets setFlag
	assert.Error(t, sets.Set("initial"))
	assert.Error(t, sets.Set("=5"))
	assert.Error(t, sets.Set("rate=abc"))
	assert.Empty(t, sets.String())
}
