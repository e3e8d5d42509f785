package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_StrictParse(t *testing.T) {
	parsed, err := ExtractJSON(`noise {"sprints":[]} trailing`)

	require.NoError(t, err)
	assert.Equal(t, []any{}, parsed["sprints"])
}

func TestExtractJSON_NoObject(t *testing.T) {
	_, err := ExtractJSON("not json at all")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoJSONObjectFound)

	var extractErr *ExtractionError
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, "not json at all", extractErr.Raw)
}

func TestExtractJSON_ClosingBraceBeforeOpening(t *testing.T) {
	_, err := ExtractJSON("} backwards {")

	assert.ErrorIs(t, err, ErrNoJSONObjectFound)
}

func TestExtractJSON_RepairSingleQuotesAndTrailingComma(t *testing.T) {
	parsed, err := ExtractJSON(`{'sprints':[],}`)

	require.NoError(t, err)
	assert.Equal(t, []any{}, parsed["sprints"])
}

func TestExtractJSON_RepairUnquotedKeys(t *testing.T) {
	parsed, err := ExtractJSON(`{sprints: [{name: "Sprint 1"}]}`)

	require.NoError(t, err)
	sprints, ok := parsed["sprints"].([]any)
	require.True(t, ok)
	require.Len(t, sprints, 1)
	sprint := sprints[0].(map[string]any)
	assert.Equal(t, "Sprint 1", sprint["name"])
}

func TestExtractJSON_RepairMissingCommas(t *testing.T) {
	parsed, err := ExtractJSON(`{"a": 1 "b": 2 "c": [{"x": 1} {"x": 2}]}`)

	require.NoError(t, err)
	assert.Equal(t, float64(1), parsed["a"])
	assert.Equal(t, float64(2), parsed["b"])
	assert.Len(t, parsed["c"], 2)
}

func TestExtractJSON_RepairUnterminatedString(t *testing.T) {
	parsed, err := ExtractJSON("{\"name\": \"Sprint 1\n}")

	require.NoError(t, err)
	assert.Equal(t, "Sprint 1", parsed["name"])
}

func TestExtractJSON_RepairTruncatedOutput(t *testing.T) {
	// A max-token cutoff mid-structure should still parse after repair.
	parsed, err := ExtractJSON(`{"sprints": [{"name": "Sprint 1", "tasks": [{"title": "setup"`)

	require.NoError(t, err)
	sprints := parsed["sprints"].([]any)
	require.Len(t, sprints, 1)
}

func TestExtractJSON_WidestSpanUsed(t *testing.T) {
	// Explanation prose containing a brace pulls the span wide; the repair
	// pass still recovers the payload when the noise is syntactic.
	parsed, err := ExtractJSON(`{"sprints": [{"name": "one"},]} done`)

	require.NoError(t, err)
	assert.Len(t, parsed["sprints"], 1)
}

func TestExtractJSON_Unrepairable(t *testing.T) {
	_, err := ExtractJSON(`{"a": 1} and another {"b": 2}`)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnrepairableJSON)

	var extractErr *ExtractionError
	require.ErrorAs(t, err, &extractErr)
	assert.NotEmpty(t, extractErr.Raw, "post-repair text should be surfaced for diagnostics")
}

func TestRepairJSON_StripsComments(t *testing.T) {
	repaired := RepairJSON(`{"a": 1, // inline note
"b": 2 /* block */}`)

	assert.JSONEq(t, `{"a": 1, "b": 2}`, repaired)
}

func TestRepairJSON_BareWordValues(t *testing.T) {
	repaired := RepairJSON(`{"ref": SPRINT_REF_1, "done": True, "none": NULL}`)

	assert.JSONEq(t, `{"ref": "SPRINT_REF_1", "done": true, "none": null}`, repaired)
}
