package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameDefersPayloadDecoding(t *testing.T) {
	raw := `{"type":"workers_update","payload":{"workers":[{"client_id":"w1","claimed":true,"hostname":"deck-01"}]}}`

	var frame Frame
	require.NoError(t, json.Unmarshal([]byte(raw), &frame))
	assert.Equal(t, FrameTypeWorkersUpdate, frame.Type)

	var payload WorkersUpdatePayload
	require.NoError(t, json.Unmarshal(frame.Payload, &payload))
	require.Len(t, payload.Workers, 1)
	assert.Equal(t, "w1", payload.Workers[0].ClientID)
	assert.True(t, payload.Workers[0].Claimed)
	require.NotNil(t, payload.Workers[0].Hostname)
	assert.Equal(t, "deck-01", *payload.Workers[0].Hostname)
	assert.Nil(t, payload.Workers[0].LinkedUser)
}

func TestWorkerStatusPayloadConnectedShapes(t *testing.T) {
	var payload WorkerStatusPayload
	require.NoError(t, json.Unmarshal([]byte(`{"connected":true}`), &payload))
	require.NotNil(t, payload.Connected)
	assert.True(t, *payload.Connected)

	payload = WorkerStatusPayload{}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &payload))
	assert.Nil(t, payload.Connected, "absent field decodes to nil, not false")

	payload = WorkerStatusPayload{}
	assert.Error(t, json.Unmarshal([]byte(`{"connected":"yes"}`), &payload),
		"a non-boolean value must not decode silently")
}

func TestFrameUnknownTypeStillDecodes(t *testing.T) {
	var frame Frame
	require.NoError(t, json.Unmarshal([]byte(`{"type":"future_feature","payload":[1,2,3]}`), &frame))
	assert.Equal(t, FrameType("future_feature"), frame.Type)
}
