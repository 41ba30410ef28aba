package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_DefinesAllTables(t *testing.T) {
	schema := Schema()
	for _, table := range []string{"user_profiles", "pitch_decks", "slides", "practice_sessions", "questions", "answers"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
	assert.Contains(t, schema, "UNIQUE (pitch_deck_id, question_text)")
	assert.Contains(t, schema, "UNIQUE (pitch_deck_id, slide_number)")
}

func TestSchema_IsIdempotent(t *testing.T) {
	for _, line := range strings.Split(Schema(), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "CREATE ") {
			assert.Contains(t, line, "IF NOT EXISTS", line)
		}
	}
}

func TestJSONList(t *testing.T) {
	data, err := jsonList(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	data, err = jsonList([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, string(data))
}

func TestScanList(t *testing.T) {
	items, err := scanList(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{}, items)

	items, err = scanList([]byte("null"))
	require.NoError(t, err)
	assert.Equal(t, []string{}, items)

	items, err = scanList([]byte(`["x"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, items)

	_, err = scanList([]byte(`{"x":1}`))
	assert.Error(t, err)
}
