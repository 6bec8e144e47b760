package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalSketch/internal/config"
	lsnet "LocalSketch/internal/net"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Contains(t, cmd.Use, "localsketch")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"serve", "desktop", "discover"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)

	cfg := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, cfg)
	assert.Equal(t, "c", cfg.Shorthand)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
}

func TestServeFlags(t *testing.T) {
	cmd := NewRootCommand()
	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	for _, name := range []string{"root", "addr", "no-mdns", "instance"} {
		assert.NotNil(t, serve.Flags().Lookup(name), name)
	}
}

func TestRoot_RejectsBadLink(t *testing.T) {
	t.Chdir(t.TempDir())
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"http://example.com"})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRoot_RejectsBadFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"discover", "--format", "xml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRoot_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("session:\n  interval: 0\n"), 0o644))

	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--config", path, "discover"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestServe_MissingRoot(t *testing.T) {
	t.Chdir(t.TempDir())
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"serve", "--root", "does-not-exist", "--no-mdns"})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestApplyServeFlags(t *testing.T) {
	opts := &ServeOptions{
		RootOptions: &RootOptions{Config: config.Default()},
		Root:        "/srv/refs",
		NoMDNS:      true,
	}
	applyServeFlags(opts)

	cfg := opts.RootOptions.Config
	assert.Equal(t, "/srv/refs", cfg.Root)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.False(t, cfg.MDNS.Enabled)
}

func TestLocalURL(t *testing.T) {
	assert.Equal(t, "http://localhost:3000", localURL(":3000"))
	assert.Equal(t, "http://127.0.0.1:8080", localURL("127.0.0.1:8080"))
	assert.Equal(t, "http://localhost:9000", localURL("0.0.0.0:9000"))
}

func TestDesktopSource_LocalRoot(t *testing.T) {
	root := t.TempDir()
	src, location, err := desktopSource(t.Context(), &DesktopOptions{RootOptions: &RootOptions{}, Root: root})
	require.NoError(t, err)
	assert.NotNil(t, src)
	assert.NotEmpty(t, location)

	src, location, err = desktopSource(t.Context(), &DesktopOptions{
		RootOptions: &RootOptions{Config: config.Default()},
	})
	require.NoError(t, err)
	assert.NotNil(t, src)
	assert.Equal(t, "http://localhost:3000", location)
}

func TestFormatHosts(t *testing.T) {
	assert.Equal(t, "No LocalSketch servers found.\n", formatHosts(nil))
	out := formatHosts([]lsnet.Host{{Instance: "studio", Addr: "10.0.0.2:3000"}})
	assert.Contains(t, out, "studio")
	assert.Contains(t, out, "localsketch://10.0.0.2:3000")
}

func TestOutputFormatter_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}
	require.NoError(t, f.Success([]lsnet.Host{{Instance: "a", Addr: "h:1"}}, "ignored"))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestExitError(t *testing.T) {
	inner := errors.New("boom")
	err := fmt.Errorf("outer: %w", WrapExitError(ExitCommandError, "failed", inner))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, ExitFailure, GetExitCode(inner))
	assert.Equal(t, "plain", NewExitError(ExitFailure, "plain").Error())
}
