package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigPrecedence(t *testing.T) {
	e1 := os.Setenv("SFCOV_ADDR", "localhost:1111")
	e2 := os.Setenv("SFCOV_COMMAND_TIMEOUT", "60")
	require.NoError(t, e1)
	require.NoError(t, e2)

	defer func() {
		if e := os.Unsetenv("SFCOV_ADDR"); e != nil {
			fmt.Println("os.Unsetenv(\"SFCOV_ADDR\") error")
		}
	}()
	defer func() {
		if e := os.Unsetenv("SFCOV_COMMAND_TIMEOUT"); e != nil {
			fmt.Println("os.Unsetenv(\"SFCOV_COMMAND_TIMEOUT\") error")
		}
	}()

	dir := t.TempDir()
	path := filepath.Join(dir, "sfcoverage.yaml")
	content := "server_address: localhost:2222\ncommand_timeout: 45\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	flagConfigPath = path
	defer func() { flagConfigPath = "" }()

	// a flag set on the command line counts as changed
	require.NoError(t, serveCmd.Flags().Set("addr", "localhost:3333"))

	c, err := loadConfig(serveCmd)
	require.NoError(t, err)

	assert.Equal(t, "localhost:3333", c.Addr, "flag beats file")
	assert.Equal(t, 45, c.CommandTimeout, "file beats env")
	assert.Equal(t, 320, c.RequestTimeout, "untouched fields keep defaults")
}

func TestLoadConfigEnvBeatsDefault(t *testing.T) {
	e := os.Setenv("SFCOV_REQUEST_TIMEOUT", "77")
	require.NoError(t, e)

	defer func() {
		if e := os.Unsetenv("SFCOV_REQUEST_TIMEOUT"); e != nil {
			fmt.Println("os.Unsetenv(\"SFCOV_REQUEST_TIMEOUT\") error")
		}
	}()

	c, err := loadConfig(checkCmd)
	require.NoError(t, err)

	assert.Equal(t, 77, c.RequestTimeout)
}
