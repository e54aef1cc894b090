package explorer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/resourceexplorer2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupSharedConfig points the SDK at temporary shared config files
func setupSharedConfig(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config")
	credentialsFile := filepath.Join(dir, "credentials")

	require.NoError(t, os.WriteFile(configFile, []byte(`[profile tokyo]
region = ap-northeast-1

[profile noregion]
`), 0600))
	require.NoError(t, os.WriteFile(credentialsFile, []byte(`[tokyo]
aws_access_key_id = AKIAEXAMPLE
aws_secret_access_key = secret

[noregion]
aws_access_key_id = AKIAEXAMPLE
aws_secret_access_key = secret
`), 0600))

	t.Setenv("AWS_CONFIG_FILE", configFile)
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", credentialsFile)
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "")
	t.Setenv("AWS_PROFILE", "")
}

func TestLoadClients(t *testing.T) {
	t.Run("profile region is used", func(t *testing.T) {
		setupSharedConfig(t)

		client, stsClient, err := loadClients(context.Background(), "tokyo", "us-east-1")
		require.NoError(t, err)
		require.NotNil(t, stsClient)

		reClient, ok := client.(*resourceexplorer2.Client)
		require.True(t, ok)
		assert.Equal(t, "ap-northeast-1", reClient.Options().Region)
	})

	t.Run("default region when the profile has none", func(t *testing.T) {
		setupSharedConfig(t)

		client, _, err := loadClients(context.Background(), "noregion", "eu-west-1")
		require.NoError(t, err)

		reClient, ok := client.(*resourceexplorer2.Client)
		require.True(t, ok)
		assert.Equal(t, "eu-west-1", reClient.Options().Region)
	})

	t.Run("unknown profile", func(t *testing.T) {
		setupSharedConfig(t)

		_, _, err := loadClients(context.Background(), "does-not-exist", "us-east-1")
		assert.ErrorIs(t, err, ErrSession)
		assert.Contains(t, err.Error(), "does-not-exist")
	})
}
