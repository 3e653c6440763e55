package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal-lab/internal/domain"
)

func TestWriteStates(t *testing.T) {
	states := []domain.SignalState{{"dt": "2023-01-03", "sig": "on"}, {"dt": "2023-01-04"}}

	var buf bytes.Buffer
	require.NoError(t, writeStates(&buf, "jsonl", states))
	assert.Equal(t, "{\"dt\":\"2023-01-03\",\"sig\":\"on\"}\n{\"dt\":\"2023-01-04\"}\n", buf.String())

	buf.Reset()
	require.NoError(t, writeStates(&buf, "csv", states))
	assert.Equal(t, "dt,sig\n2023-01-03,on\n2023-01-04,\n", buf.String())

	assert.Error(t, writeStates(&buf, "xml", states))
}
