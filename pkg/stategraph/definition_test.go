package stategraph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestFingerprint_Stable tests repeated calls return the same hash.
func TestFingerprint_Stable(t *testing.T) {
	def := retryLoopDefinition()

	first := def.Fingerprint()
	second := def.Fingerprint()

	assert.Equal(t, first, second)
	assert.Len(t, first, 64) // sha256 hex
}

// TestFingerprint_EqualForEqualDefinitions tests structurally identical
// definitions share a fingerprint even as distinct values.
func TestFingerprint_EqualForEqualDefinitions(t *testing.T) {
	assert.Equal(t, retryLoopDefinition().Fingerprint(), retryLoopDefinition().Fingerprint())
}

// TestFingerprint_ChangesOnNodeFunction tests rebinding a node's function
// changes the fingerprint.
func TestFingerprint_ChangesOnNodeFunction(t *testing.T) {
	base := retryLoopDefinition()
	changed := retryLoopDefinition()
	changed.Nodes[1].Function = "increment"

	assert.NotEqual(t, base.Fingerprint(), changed.Fingerprint())
}

// TestFingerprint_ChangesOnEdgeTarget tests rerouting an edge changes
// the fingerprint.
func TestFingerprint_ChangesOnEdgeTarget(t *testing.T) {
	base := retryLoopDefinition()
	changed := retryLoopDefinition()
	changed.Edges[0].Target = END

	assert.NotEqual(t, base.Fingerprint(), changed.Fingerprint())
}

// TestFingerprint_ChangesOnPathLabel tests renaming a path label changes
// the fingerprint.
func TestFingerprint_ChangesOnPathLabel(t *testing.T) {
	base := retryLoopDefinition()
	changed := retryLoopDefinition()
	changed.ConditionalEdges[0].Paths = map[string]string{
		"done": END,
		"no":   "a",
	}

	assert.NotEqual(t, base.Fingerprint(), changed.Fingerprint())
}

// TestFingerprint_ChangesOnNodeOrder tests definition order is part of
// the fingerprint: reordering is a meaningful config change.
func TestFingerprint_ChangesOnNodeOrder(t *testing.T) {
	base := retryLoopDefinition()
	reordered := retryLoopDefinition()
	reordered.Nodes[0], reordered.Nodes[1] = reordered.Nodes[1], reordered.Nodes[0]

	assert.NotEqual(t, base.Fingerprint(), reordered.Fingerprint())
}

// TestFingerprint_ChangesOnEntryPoint tests the entry point participates.
func TestFingerprint_ChangesOnEntryPoint(t *testing.T) {
	base := retryLoopDefinition()
	changed := retryLoopDefinition()
	changed.EntryPoint = "b"

	assert.NotEqual(t, base.Fingerprint(), changed.Fingerprint())
}

// TestClone_DeepCopy tests mutating a clone leaves the original alone.
func TestClone_DeepCopy(t *testing.T) {
	original := retryLoopDefinition()
	fingerprint := original.Fingerprint()

	clone := original.Clone()
	clone.Nodes[0].Function = "noop"
	clone.Edges[0].Target = END
	clone.ConditionalEdges[0].Paths["maybe"] = "b"

	assert.Equal(t, fingerprint, original.Fingerprint())
	assert.NotEqual(t, fingerprint, clone.Fingerprint())
}

// TestDefinitionClone_Nil tests cloning a nil definition.
func TestDefinitionClone_Nil(t *testing.T) {
	var def *GraphDefinition
	assert.Nil(t, def.Clone())
}

// TestDefinition_JSONRoundTrip tests a definition survives JSON transport
// losslessly, fingerprint included.
func TestDefinition_JSONRoundTrip(t *testing.T) {
	original := retryLoopDefinition()

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded GraphDefinition
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, *original, decoded)
	assert.Equal(t, original.Fingerprint(), decoded.Fingerprint())
}

// TestDefinition_YAMLRoundTrip tests a definition survives YAML transport
// losslessly, fingerprint included.
func TestDefinition_YAMLRoundTrip(t *testing.T) {
	original := retryLoopDefinition()

	data, err := yaml.Marshal(original)
	require.NoError(t, err)

	var decoded GraphDefinition
	require.NoError(t, yaml.Unmarshal(data, &decoded))

	assert.Equal(t, *original, decoded)
	assert.Equal(t, original.Fingerprint(), decoded.Fingerprint())
}
