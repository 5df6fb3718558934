package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"talent-bridge/internal/config"
	"talent-bridge/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCLI(secret string) *cli {
	return &cli{loadConfig: func(string) (config.Config, error) {
		return config.Config{
			JWT:     config.JWTConfig{AccessSecret: secret, AccessExpiresIn: time.Hour},
			Logging: config.LoggingConfig{Level: "error", Format: "console"},
		}, nil
	}}
}

func execute(t *testing.T, c *cli, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(c)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTokenCommand_MintsVerifiableToken(t *testing.T) {
	out, err := execute(t, testCLI("cli-secret"), "token", "--user", "42", "--role", "pm")
	require.NoError(t, err)

	claims, err := jwt.NewHMACService("cli-secret", time.Hour).ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "PM", claims.Role)
}

func TestTokenCommand_RejectsNonPositiveUser(t *testing.T) {
	_, err := execute(t, testCLI("s"), "token", "--user", "0")
	assert.ErrorIs(t, err, errFlags)
}

func TestTokenCommand_RequiresUserFlag(t *testing.T) {
	_, err := execute(t, testCLI("s"), "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"user"`)
}

func TestShowCommand_NeedsExactlyOneTarget(t *testing.T) {
	_, err := execute(t, testCLI("s"), "show")
	assert.ErrorIs(t, err, errFlags)

	_, err = execute(t, testCLI("s"), "show", "--match", "1", "--project", "2")
	assert.ErrorIs(t, err, errFlags)
}

func TestRunCommand_RequiresFlags(t *testing.T) {
	_, err := execute(t, testCLI("s"), "run", "--project", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requested-by")
}
