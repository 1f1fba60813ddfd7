package settings

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnownAPIEndpoints(t *testing.T) {
	assert.Equal(t, []string{
		"peering.paw.digital",
		"rpc.paw.digital",
		"rpc3.paw.digital",
		"rpc2.paw.digital",
	}, KnownAPIEndpoints())
}

func TestIsKnownAPIEndpoint(t *testing.T) {
	assert.True(t, IsKnownAPIEndpoint("https://rpc2.paw.digital"))
	assert.True(t, IsKnownAPIEndpoint("peering.paw.digital"))
	assert.False(t, IsKnownAPIEndpoint("https://evil.example"))
}

func TestRandomEligibleExcludesPlaceholder(t *testing.T) {
	for _, o := range randomEligible() {
		assert.NotEqual(t, ServerRandom, o.Value)
		assert.NotEmpty(t, o.API)
	}
	assert.Len(t, randomEligible(), 3)
}

func TestFindServer(t *testing.T) {
	o, ok := FindServer("peer3")
	assert.True(t, ok)
	assert.Equal(t, "https://rpc2.paw.digital", o.API)

	_, ok = FindServer("offline")
	assert.False(t, ok)
}

func TestKeysMatchJSONSchema(t *testing.T) {
	raw, err := json.Marshal(InitialDefaults())
	require.NoError(t, err)
	var encoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &encoded))

	jsonKeys := make([]string, 0, len(encoded))
	for k := range encoded {
		jsonKeys = append(jsonKeys, k)
	}
	assert.ElementsMatch(t, jsonKeys, Keys())
}

func TestCloneIsIndependent(t *testing.T) {
	s := InitialDefaults()
	c := s.Clone()
	*c.MinimumReceive = "9"
	assert.Equal(t, "0.001", *s.MinimumReceive)
}
