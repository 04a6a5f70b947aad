package protocol

import (
	"testing"

	"github.com/dvnet/dvnet/state"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_Join(t *testing.T) {
	inst := uuid.New()
	data, err := Encode(NewJoin("u", inst))
	require.NoError(t, err)

	p, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, KindJoin, p.Kind)
	assert.Equal(t, state.Node("u"), p.Join.Router)
	assert.Equal(t, inst, p.Join.Instance)
}

func TestCodec_UpdateKeepsInfCosts(t *testing.T) {
	costs := map[state.Node]uint32{"u": 0, "v": 6, "z": state.INF}
	data, err := Encode(NewUpdate("u", "w", costs))
	require.NoError(t, err)

	p, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, costs, p.Update.Costs)
}

func TestDecode_Malformed(t *testing.T) {
	cases := [][]byte{
		[]byte(``),
		[]byte(`not json`),
		[]byte(`{}`),
		[]byte(`{"kind":"BOGUS"}`),
		[]byte(`{"kind":"JOIN"}`),
		[]byte(`{"kind":"JOIN","join":{"router":""}}`),
		[]byte(`{"kind":"UPDATE","update":{"from":"u","costs":{}}}`),
		[]byte(`{"kind":"NACK"}`),
		[]byte(`{"kind":"UPDATE","update":{"from":"u","to":"v","costs":{"w":-1}}}`),
	}
	for _, data := range cases {
		_, err := Decode(data)
		assert.ErrorIs(t, err, ErrMalformed, "payload: %s", data)
	}
}

func TestDecode_DuplicateDeliveryIsIdenticalToFirst(t *testing.T) {
	data, err := Encode(NewUpdate("u", "w", map[state.Node]uint32{"v": 6}))
	require.NoError(t, err)

	first, err := Decode(data)
	require.NoError(t, err)
	second, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncode_RejectsOversizedPacket(t *testing.T) {
	costs := make(map[state.Node]uint32)
	for i := 0; i < 4096; i++ {
		costs[state.Node("very-long-router-name-"+uuid.NewString())] = uint32(i)
	}
	_, err := Encode(NewUpdate("u", "w", costs))
	assert.ErrorContains(t, err, "exceeds datagram size")
}
