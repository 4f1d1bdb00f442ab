package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/harvestmarket/cache-service/configs"
)

func TestNewClient_ConnectsToServer(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	host, port, ok := strings.Cut(mr.Addr(), ":")
	require.True(t, ok)

	client := NewClient(&config.RedisConfig{
		Host:        host,
		Port:        port,
		DialTimeout: 2 * time.Second,
	}, logrus.New())
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestNewClient_UnreachableServerIsNotFatal(t *testing.T) {
	// Nothing listens on this port; construction must still return a client.
	client := NewClient(&config.RedisConfig{
		Host:        "127.0.0.1",
		Port:        "1",
		DialTimeout: 200 * time.Millisecond,
	}, logrus.New())
	defer client.Close()

	assert.Error(t, client.Ping(context.Background()).Err())
}
