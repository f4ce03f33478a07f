package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tOgg1/uplink/internal/state"
	"github.com/tOgg1/uplink/internal/testutil"
)

// runCLI executes the root command in an isolated home and data directory.
func runCLI(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--data-dir", dataDir, "--env-file", "", "--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("UPLINK_GLOBAL_CONFIG_DIR", filepath.Join(home, "config"))
	t.Chdir(t.TempDir())
	return filepath.Join(home, "data")
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd("dev")

	for _, path := range [][]string{
		{"render"},
		{"preview"},
		{"friends", "add"},
		{"friend", "ls"},
		{"friends", "rm"},
		{"chat"},
		{"state", "show"},
		{"state", "language"},
		{"identity"},
	} {
		found, _, err := root.Find(path)
		require.NoError(t, err, "%v", path)
		require.NotNil(t, found)
	}
}

func TestChatFlow(t *testing.T) {
	dataDir := isolate(t)

	_, err := runCLI(t, dataDir, "friends", "add", "did:key:bob", "--username", "bob")
	require.NoError(t, err)

	out, err := runCLI(t, dataDir, "chat", "did:key:bob", "--reply", "hi", "--json")
	require.NoError(t, err)
	var first struct {
		Conversation  string   `json:"conversation"`
		Replies       []string `json:"replies"`
		TypingSignals int      `json:"typing_signals"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &first))
	require.NotEmpty(t, first.Conversation)
	require.Equal(t, []string{"hi"}, first.Replies)
	require.Equal(t, 1, first.TypingSignals)

	out, err = runCLI(t, dataDir, "chat", "did:key:bob", "--json")
	require.NoError(t, err)
	var second struct {
		Conversation string `json:"conversation"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &second))
	require.Equal(t, first.Conversation, second.Conversation)

	out, err = runCLI(t, dataDir, "state", "show", "--json")
	require.NoError(t, err)
	var st state.AppState
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	require.Equal(t, first.Conversation, st.ActiveConversation.String())
}

func TestChatWithStrangerFails(t *testing.T) {
	dataDir := isolate(t)

	_, err := runCLI(t, dataDir, "chat", "did:key:stranger")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, ExitCodeFailure, exitErr.Code)

	out, err := runCLI(t, dataDir, "state", "show", "--json")
	require.NoError(t, err)
	var st state.AppState
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	require.False(t, st.HasActiveConversation())
}

func TestRemoveFriendNeverFails(t *testing.T) {
	dataDir := isolate(t)

	out, err := runCLI(t, dataDir, "friends", "remove", "did:key:nobody", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"removed": false`)

	_, err = runCLI(t, dataDir, "friends", "add", "did:key:bob")
	require.NoError(t, err)
	out, err = runCLI(t, dataDir, "friends", "remove", "did:key:bob")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed did:key:bob")

	out, err = runCLI(t, dataDir, "friends", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no friends")
}

func TestStateCommands(t *testing.T) {
	dataDir := isolate(t)

	out, err := runCLI(t, dataDir, "state", "sidebar", "hide")
	require.NoError(t, err)
	assert.Contains(t, out, "hidden")

	out, err = runCLI(t, dataDir, "state", "lang", "es-MX")
	require.NoError(t, err)
	assert.Contains(t, out, "Idioma")
	assert.Contains(t, out, "oculta", "sidebar flag survives across runs")

	_, err = runCLI(t, dataDir, "state", "lang", "xx-XX")
	require.Error(t, err)

	_, err = runCLI(t, dataDir, "state", "sidebar", "sideways")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, ExitCodeUsage, exitErr.Code)
}

func TestRenderWithPreview(t *testing.T) {
	testutil.SkipIfNoNetwork(t)
	dataDir := isolate(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><title>Local Page</title><meta name="description" content="a test page"></head></html>`)
	}))
	defer srv.Close()

	out, err := runCLI(t, dataDir, "render", "--json", "**look** at "+srv.URL+"/page", "no links here")
	require.NoError(t, err)

	var views []struct {
		Markup   string   `json:"markup"`
		Links    []string `json:"links"`
		HasLinks bool     `json:"has_links"`
		Preview  struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"preview"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 2)
	assert.Contains(t, views[0].Markup, "<strong>look</strong>")
	assert.Equal(t, []string{srv.URL + "/page"}, views[0].Links)
	assert.Equal(t, "Local Page", views[0].Preview.Title)
	assert.Equal(t, "a test page", views[0].Preview.Description)
	assert.False(t, views[1].HasLinks)
}

func TestIdentityIsStable(t *testing.T) {
	dataDir := isolate(t)

	first, err := runCLI(t, dataDir, "identity", "--json")
	require.NoError(t, err)
	second, err := runCLI(t, dataDir, "identity", "--json")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Contains(t, first, "did:uplink:")
}

func TestWriteTableAlignsStyledCells(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeTable(&buf, []string{"A", "B"}, [][]string{
		{"\x1b[1mlong-cell\x1b[0m", "x"},
		{"s", "y"},
	}))
	assert.Equal(t, "A          B\n\x1b[1mlong-cell\x1b[0m  x\ns          y\n", buf.String())
}
