package secrets

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camino-ai/camino-mcp-gateway/internal/protocol"
)

func TestCredentialNeverPrintsValue(t *testing.T) {
	cred := NewCredential("super-secret-key")
	assert.Equal(t, "***", cred.String())
	assert.NotContains(t, fmt.Sprintf("%v", cred), "super-secret-key")
	assert.NotContains(t, fmt.Sprintf("%s", cred), "super-secret-key")
	assert.NotContains(t, fmt.Sprintf("%#v", cred), "super-secret-key")
	assert.Equal(t, "super-secret-key", cred.Reveal())
}

func TestEnvProvider(t *testing.T) {
	t.Setenv("CAMINO_API_KEY", "env-value")

	resolved, err := EnvProvider{}.Resolve(context.Background(), []string{"CAMINO_API_KEY"})
	require.NoError(t, err)
	assert.Equal(t, "env-value", resolved["CAMINO_API_KEY"].Reveal())
}

func TestEnvProviderMissing(t *testing.T) {
	_, err := EnvProvider{}.Resolve(context.Background(), []string{"NO_SUCH_SECRET_EVER"})
	require.Error(t, err)
	gwErr, ok := protocol.AsError(err)
	require.True(t, ok)
	assert.Equal(t, protocol.KindSecretNotFound, gwErr.Kind)
	assert.Equal(t, "NO_SUCH_SECRET_EVER", gwErr.Field)
}

func TestEnvProviderPrefix(t *testing.T) {
	t.Setenv("GW_CAMINO_API_KEY", "prefixed")

	resolved, err := EnvProvider{Prefix: "GW_"}.Resolve(context.Background(), []string{"CAMINO_API_KEY"})
	require.NoError(t, err)
	assert.Equal(t, "prefixed", resolved["CAMINO_API_KEY"].Reveal())
}

func TestStaticProvider(t *testing.T) {
	provider := Static{"CAMINO_API_KEY": "static-value"}

	resolved, err := provider.Resolve(context.Background(), []string{"CAMINO_API_KEY"})
	require.NoError(t, err)
	assert.Equal(t, "static-value", resolved["CAMINO_API_KEY"].Reveal())

	_, err = provider.Resolve(context.Background(), []string{"OTHER"})
	assert.Equal(t, protocol.KindSecretNotFound, protocol.KindOf(err))
}
