package rpcapi

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGobCodecRoundTrip(t *testing.T) {
	c := gobCodec{}
	require.Equal(t, "gob", c.Name())

	in := &CreateAccountResponse{
		Success: true,
		Account: uuid.New(),
		Error:   "",
	}
	data, err := c.Marshal(in)
	require.NoError(t, err)

	out := new(CreateAccountResponse)
	require.NoError(t, c.Unmarshal(data, out))
	require.Equal(t, in.Success, out.Success)
	require.Equal(t, in.Account, out.Account)
}

func TestGobCodecRoundTripMap(t *testing.T) {
	c := gobCodec{}
	in := &FetchServerStatisticsResponse{Statistics: map[string]float64{"players_online": 3, "uptime_seconds": 120}}
	data, err := c.Marshal(in)
	require.NoError(t, err)

	out := new(FetchServerStatisticsResponse)
	require.NoError(t, c.Unmarshal(data, out))
	require.Equal(t, in.Statistics, out.Statistics)
}
