package web

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialScreen(t *testing.T, ts *testServer) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(ts.URL, "http") + PATH_WEBSOCKET
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil skips messages until one of type want arrives.
func readUntil(t *testing.T, conn *websocket.Conn, want string) map[string]json.RawMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		var kind string
		require.NoError(t, json.Unmarshal(msg["type"], &kind))
		if kind == want {
			return msg
		}
	}
}

func TestScreen_HelloThenUpdates(t *testing.T) {
	ts := newTestServer(t)
	conn := dialScreen(t, ts)

	readUntil(t, conn, "state")

	ts.postForm(t, PATH_NAMES, url.Values{"names": {"王小明\n李大華\n王小明"}})
	roster := readUntil(t, conn, "roster")
	var dupes []string
	require.NoError(t, json.Unmarshal(roster["duplicates"], &dupes))
	assert.Equal(t, []string{"王小明"}, dupes)

	ts.postForm(t, PATH_DRAW, url.Values{"prize": {"頭獎"}})
	rolling := readUntil(t, conn, "rolling")
	assert.NotEmpty(t, rolling["name"])

	winner := readUntil(t, conn, "winner")
	var prize, name string
	require.NoError(t, json.Unmarshal(winner["prize"], &prize))
	require.NoError(t, json.Unmarshal(winner["name"], &name))
	assert.Equal(t, "頭獎", prize)
	assert.Contains(t, []string{"王小明", "李大華"}, name)

	ts.postForm(t, PATH_DRAW_RESET, nil)
	cleared := readUntil(t, conn, "history")
	assert.JSONEq(t, `[]`, string(cleared["history"]))

	ts.postForm(t, PATH_GROUPS, url.Values{"mode": {"count"}, "value": {"2"}})
	groups := readUntil(t, conn, "groups")
	var g []json.RawMessage
	require.NoError(t, json.Unmarshal(groups["groups"], &g))
	assert.Len(t, g, 2)
}

func TestScreen_ManyScreens(t *testing.T) {
	ts := newTestServer(t)
	a := dialScreen(t, ts)
	b := dialScreen(t, ts)
	readUntil(t, a, "state")
	readUntil(t, b, "state")

	ts.postForm(t, PATH_NAMES_DEMO, nil)

	readUntil(t, a, "roster")
	readUntil(t, b, "roster")
}
