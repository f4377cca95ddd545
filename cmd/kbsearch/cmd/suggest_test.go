package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kbsearch "github.com/kailas-cloud/kbsearch/pkg/sdk"
)

func TestSuggestCmd_JSON(t *testing.T) {
	out, err := execute(t, "suggest", "ref", "--json", "--recent", "refund status")
	require.NoError(t, err)

	var got []kbsearch.Suggestion
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 5)
	assert.Equal(t, "refund status", got[0].Text)
	assert.Equal(t, kbsearch.SuggestionRecent, got[0].Kind)
}

func TestSuggestCmd_Text(t *testing.T) {
	out, err := execute(t, "suggest", "ref")
	require.NoError(t, err)
	assert.Contains(t, out, "refund")
	assert.Contains(t, out, "article(s)")
}

func TestSuggestCmd_Errors(t *testing.T) {
	_, err := execute(t, "suggest")
	require.Error(t, err, "fragment is required")

	_, err = execute(t, "suggest", "r")
	require.ErrorIs(t, err, kbsearch.ErrValidation)

	_, err = execute(t, "suggest", "ref", "--limit", "50")
	require.ErrorIs(t, err, kbsearch.ErrValidation)
}
