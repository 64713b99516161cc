package ris

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestASNScalarAcceptsNumberAndString(t *testing.T) {
	var payload struct {
		A asnScalar `json:"a"`
		B asnScalar `json:"b"`
		C asnScalar `json:"c"`
	}

	err := json.Unmarshal([]byte(`{"a": 3333, "b": "64512", "c": null}`), &payload)
	require.NoError(t, err)

	assert.Equal(t, "3333", payload.A.String())
	assert.Equal(t, "64512", payload.B.String())
	assert.Equal(t, "", payload.C.String())
}
