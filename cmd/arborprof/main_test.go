package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/arbor"
)

func TestBranchLayoutIsValid(t *testing.T) {
	l := branchLayout(9)
	require.NoError(t, arbor.ValidateLayout(l))
	assert.Equal(t, []int32{-1, 0, 1, 2, 3, 0, 5, 6, 7}, l.Parents)
}

func TestRunRecomputesMovedUnits(t *testing.T) {
	// Every unit moves every tick, so every node is recomputed.
	r := run(4, 5, 3, 1)
	assert.Equal(t, 4*5*3, r.recomputed)
}

func TestRunIdle(t *testing.T) {
	r := run(4, 5, 3, 0)
	assert.Equal(t, 0, r.recomputed)
}
