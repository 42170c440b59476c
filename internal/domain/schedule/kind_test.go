package schedule

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseKind("lunch")
	require.Error(t, err)
}

func TestKind_UnmarshalJSON(t *testing.T) {
	var in struct {
		Type Kind `json:"type"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"type":"break"}`), &in))
	assert.Equal(t, KindBreak, in.Type)

	require.Error(t, json.Unmarshal([]byte(`{"type":""}`), &in))
}
