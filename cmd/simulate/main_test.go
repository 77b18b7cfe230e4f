package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/milk9111/rayfighter/config"
	"github.com/milk9111/rayfighter/fight"
	"github.com/milk9111/rayfighter/prefabs"
	"github.com/milk9111/rayfighter/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateWritesOneRecordPerMatch(t *testing.T) {
	t.Cleanup(func() { prefabs.SetDiskDir("prefabs") })
	sess, err := session.Open(context.Background(), config.Config{
		Fighter:    "shade",
		Opponent:   "blaze",
		Difficulty: "easy",
		Seed:       42,
	}, nil)
	require.NoError(t, err)
	defer sess.Close()

	var buf bytes.Buffer
	sum, err := simulate(context.Background(), sess, 2, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Matches)
	assert.Equal(t, sess.Progression().TotalXP(), sum.TotalXP)

	var lines int
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var out fight.Outcome
		require.NoError(t, json.Unmarshal(sc.Bytes(), &out))
		assert.Equal(t, "shade", out.FighterID)
		assert.Equal(t, "easy", out.Difficulty)
		assert.NotEmpty(t, out.MatchID)
		lines++
	}
	assert.Equal(t, 2, lines)
}
