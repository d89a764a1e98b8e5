package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPServeCmd_OpenError(t *testing.T) {
	env := newTestEnv()
	env.openErr = errBoom

	_, err := run(t, env, "", "mcp", "serve")

	assert.ErrorIs(t, err, errBoom)
}

func TestMCPServeCmd_HTTPStopsOnCancel(t *testing.T) {
	env := newTestEnv()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := runContext(ctx, t, env, "", "mcp", "serve", "--port", "18931")

	require.NoError(t, err)
	assert.Contains(t, out, "MCP server listening on http://localhost:18931")
	assert.Equal(t, 1, env.closed)
}
