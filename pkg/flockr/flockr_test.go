package flockr_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flockr-dev/flockr/internal/storage/memory"
	"github.com/flockr-dev/flockr/pkg/api"
	"github.com/flockr-dev/flockr/pkg/flockr"
)

func newService(t *testing.T) *flockr.Service {
	t.Helper()
	svc := flockr.New(memory.New(), flockr.Config{JWTSecret: "test-secret"}, nil)
	t.Cleanup(func() { require.NoError(t, svc.Close()) })
	return svc
}

// register creates an account with a valid fixed password
func register(t *testing.T, svc *flockr.Service, email, nameFirst, nameLast string) api.Auth {
	t.Helper()
	auth, err := svc.Register(context.Background(), email, "hunter22", nameFirst, nameLast)
	require.NoError(t, err)
	return auth
}

// registerN creates n accounts; the first one returned is the flockr owner
func registerN(t *testing.T, svc *flockr.Service, n int) []api.Auth {
	t.Helper()
	auths := make([]api.Auth, 0, n)
	for i := 0; i < n; i++ {
		auths = append(auths, register(t, svc,
			fmt.Sprintf("user%d@example.com", i),
			fmt.Sprintf("First%d", i),
			fmt.Sprintf("Last%d", i)))
	}
	return auths
}

func createChannel(t *testing.T, svc *flockr.Service, token, name string, public bool) int64 {
	t.Helper()
	id, err := svc.ChannelsCreate(context.Background(), token, name, public)
	require.NoError(t, err)
	return id
}

func sendMessage(t *testing.T, svc *flockr.Service, token string, channelID int64, text string) int64 {
	t.Helper()
	id, err := svc.MessageSend(context.Background(), token, channelID, text)
	require.NoError(t, err)
	return id
}
