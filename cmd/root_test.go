package cmd

import (
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/internal/config"
)

func resetCmdState(t *testing.T) {
	origCacheDir := config.CacheDir
	origLogFile := config.LogFile

	t.Cleanup(func() {
		config.CacheDir = origCacheDir
		config.LogFile = origLogFile
		viper.Reset()
	})

	viper.Reset()
	config.InitConfig()
}

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("openshelf"),
		kong.Description("Open Library book search plugin for keyboard launchers."),
		kong.UsageOnError(),
		kong.Exit(func(code int) {
			t.Fatalf("unexpected Kong exit %d", code)
		}),
	)
	require.NoError(t, err)

	ctx, err := parser.Parse(args)
	require.NoError(t, err)

	return cli, ctx
}

func TestRpcIsDefaultCommand(t *testing.T) {
	resetCmdState(t)

	payload := `{"method":"query","parameters":["dune"]}`
	cli, ctx := parseCLI(t, payload)

	assert.Equal(t, "rpc <request>", ctx.Command())
	require.Len(t, cli.Rpc.Request, 1)
	assert.Equal(t, payload, cli.Rpc.Request[0])
}

func TestRpcCommandWithoutPayload(t *testing.T) {
	resetCmdState(t)

	_, ctx := parseCLI(t, "rpc")
	assert.Equal(t, "rpc", ctx.Command())
}

func TestSearchCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, ctx := parseCLI(t, "search", "dune", "messiah", "--first")

	assert.Equal(t, "search <term>", ctx.Command())
	assert.Equal(t, []string{"dune", "messiah"}, cli.Search.Term)
	assert.True(t, cli.Search.First)
}

func TestCacheCleanParsing(t *testing.T) {
	resetCmdState(t)

	cli, ctx := parseCLI(t, "cache", "clean", "--all")

	assert.Equal(t, "cache clean", ctx.Command())
	assert.True(t, cli.Cache.Clean.All)
}

func TestUpdateGlobalConfig(t *testing.T) {
	resetCmdState(t)

	updateGlobalConfig(&CLI{
		CacheDir: "/tmp/covers",
		LogFile:  "/tmp/openshelf.log",
	})

	assert.Equal(t, "/tmp/covers", config.CacheDir)
	assert.Equal(t, "/tmp/openshelf.log", config.LogFile)
}

func TestUpdateGlobalConfigKeepsDefaults(t *testing.T) {
	resetCmdState(t)

	updateGlobalConfig(&CLI{})

	assert.Equal(t, "./img_cache", config.CacheDir)
	assert.Equal(t, "openshelf.log", config.LogFile)
}

// captureStdout redirects os.Stdout for the duration of fn.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	t.Cleanup(func() { os.Stdout = orig })

	fn()

	require.NoError(t, w.Close())
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	os.Stdout = orig

	return string(data)
}

func TestRpcBlankQueryWritesEmptyResult(t *testing.T) {
	resetCmdState(t)
	config.SetCacheDir(t.TempDir())

	origIsTerminal := isTerminal
	isTerminal = func(int) bool { return true }
	t.Cleanup(func() { isTerminal = origIsTerminal })

	cmd := &RpcCmd{Request: []string{`{"method":"query","parameters":["  "]}`}}

	out := captureStdout(t, func() {
		require.NoError(t, cmd.Run())
	})

	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	entries, ok := resp["result"].([]any)
	require.True(t, ok)
	assert.Empty(t, entries)
}

func TestRpcMalformedRequestStillRenders(t *testing.T) {
	resetCmdState(t)

	origIsTerminal := isTerminal
	isTerminal = func(int) bool { return true }
	t.Cleanup(func() { isTerminal = origIsTerminal })

	cmd := &RpcCmd{Request: []string{`{"method":`}}

	out := captureStdout(t, func() {
		require.NoError(t, cmd.Run())
	})

	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	entries, ok := resp["result"].([]any)
	require.True(t, ok)
	require.Len(t, entries, 1)

	entry := entries[0].(map[string]any)
	assert.Equal(t, "OpenShelf Plugin Error", entry["Title"])
}
