package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gungunjain36/coractl/internal/envfile"
)

// resetFlags resets all global flags to their default values.
func resetFlags(t *testing.T) {
	t.Helper()
	cfgFile = ""
	envFilePath = ""
	network = ""
	profilePath = ""
	jsonOut = false
	verbose = false
}

func useEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	}
	envFilePath = path
	return path
}

func TestRootCmd_Subcommands(t *testing.T) {
	resetFlags(t)

	assert.Equal(t, "coractl", rootCmd.Use)

	expected := []string{"account", "fund", "move", "doctor", "serve", "config", "version"}
	for _, want := range expected {
		t.Run(want, func(t *testing.T) {
			found := false
			for _, cmd := range rootCmd.Commands() {
				if cmd.Name() == want {
					found = true
					break
				}
			}
			assert.True(t, found, "%s subcommand should exist", want)
		})
	}
}

func TestAccountCreate_WritesManagedKeys(t *testing.T) {
	resetFlags(t)
	path := useEnvFile(t, "CUSTOM_KEY=keepme\n")
	network = "testnet"

	rootCmd.SetArgs([]string{"account", "create", "--force"})
	require.NoError(t, rootCmd.Execute())

	env, err := envfile.Load(path)
	require.NoError(t, err)

	address, ok := env.Get(envfile.KeyPublisherAddress)
	require.True(t, ok)
	assert.Regexp(t, "^0x[0-9a-f]{64}$", address)

	moduleAddr, ok := env.Get(envfile.KeyModuleAddress)
	require.True(t, ok)
	assert.Equal(t, address, moduleAddr)

	_, ok = env.Get(envfile.KeyPublisherPrivateKey)
	assert.True(t, ok)

	// Unmanaged keys survive.
	custom, ok := env.Get("CUSTOM_KEY")
	require.True(t, ok)
	assert.Equal(t, "keepme", custom)
}

func TestAccountCreate_RerunReplacesOnlyManagedKeys(t *testing.T) {
	resetFlags(t)
	path := useEnvFile(t, "CUSTOM_KEY=keepme\n")
	network = "testnet"

	rootCmd.SetArgs([]string{"account", "create", "--force"})
	require.NoError(t, rootCmd.Execute())

	env, err := envfile.Load(path)
	require.NoError(t, err)
	first, _ := env.Get(envfile.KeyPublisherAddress)

	rootCmd.SetArgs([]string{"account", "create", "--force"})
	require.NoError(t, rootCmd.Execute())

	env, err = envfile.Load(path)
	require.NoError(t, err)
	second, _ := env.Get(envfile.KeyPublisherAddress)

	assert.NotEqual(t, first, second)
	custom, _ := env.Get("CUSTOM_KEY")
	assert.Equal(t, "keepme", custom)

	// Still exactly one line per managed key.
	count := 0
	for _, key := range env.Keys() {
		if key == envfile.KeyPublisherAddress {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestFund_FailsWithoutPublisherAddress(t *testing.T) {
	resetFlags(t)
	useEnvFile(t, "APP_NETWORK=testnet\n")

	rootCmd.SetArgs([]string{"fund"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), envfile.KeyPublisherAddress)
}

func TestMoveCompile_FailsWithoutPublisherAddress(t *testing.T) {
	resetFlags(t)
	useEnvFile(t, "")

	rootCmd.SetArgs([]string{"move", "compile"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), envfile.KeyPublisherAddress)
}

func TestMovePublish_FailsWithoutPrivateKey(t *testing.T) {
	resetFlags(t)
	useEnvFile(t, "PUBLISHER_ACCOUNT_ADDRESS=0xabc\n")

	rootCmd.SetArgs([]string{"move", "publish"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), envfile.KeyPublisherPrivateKey)
}

func TestFund_UnknownNetwork(t *testing.T) {
	resetFlags(t)
	useEnvFile(t, "PUBLISHER_ACCOUNT_ADDRESS=0xabc\n")
	network = "nonet"

	rootCmd.SetArgs([]string{"fund"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown network")
}

func TestGetNetwork_Priority(t *testing.T) {
	resetFlags(t)

	env := &envfile.Env{}
	env.Set(envfile.KeyAppNetwork, "devnet")

	// Env file value wins when no flag is set.
	network = ""
	assert.Equal(t, "devnet", getNetwork(env))

	// Flag wins over the env file.
	network = "mainnet"
	assert.Equal(t, "mainnet", getNetwork(env))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "0x12345...", truncate("0x12345678901234567890", 10))
}
