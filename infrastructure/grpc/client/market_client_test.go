package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBearerToken_GetRequestMetadata(t *testing.T) {
	req := require.New(t)

	md, err := bearerToken{token: "abc"}.GetRequestMetadata(context.Background())

	req.NoError(err)
	req.Equal(map[string]string{"authorization": "Bearer abc"}, md)
	req.False(bearerToken{token: "abc"}.RequireTransportSecurity())
}

func TestMarketClient_CloseWithoutConnection(t *testing.T) {
	req := require.New(t)
	c := NewMarketClient(nil)

	req.NotNil(c.Conversations)
	req.NotNil(c.Hires)
	req.NotNil(c.Accounts)
	req.NoError(c.Close())
}
