package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalWireFormMarksTargetPending(t *testing.T) {
	s := &Signal{Symbol: "AAPL", Strategy: StrategyMACD, Side: SideBuy, EntryPrice: 100}

	b, err := json.Marshal(s)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, true, m["target_pending"], "no target yet means pending")
	_, hasTarget := m["target"]
	assert.False(t, hasTarget)

	s.Target = &Target{TP1: 102, TP2: 104, SL: 98}
	b, err = json.Marshal(s)
	require.NoError(t, err)
	m = map[string]interface{}{}
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, false, m["target_pending"])
	_, hasTarget = m["target"]
	assert.True(t, hasTarget)
}
