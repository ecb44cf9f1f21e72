package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/cmdscript/foundation/cmdlang"
	"github.com/msto63/cmdscript/foundation/cmdlang/presenter"
	"github.com/msto63/cmdscript/foundation/cmdlang/registry"
	mdwlog "github.com/msto63/cmdscript/foundation/core/log"
)

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func (f frame) text(t *testing.T) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal(f.Payload, &s))
	return s
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerWithOrigins(t, nil)
}

func newTestServerWithOrigins(t *testing.T, origins []string) *httptest.Server {
	t.Helper()
	factory := func(out presenter.Presenter) (*cmdlang.Session, error) {
		return cmdlang.NewSession(cmdlang.Options{
			Logger:    mdwlog.Discard(),
			Registry:  registry.NewCatalog(registry.Options{Logger: mdwlog.Discard()}),
			Presenter: out,
		})
	}
	s, err := New(Config{Logger: mdwlog.Discard(), Version: "test", AllowedOrigins: origins}, factory)
	require.NoError(t, err)

	ts := httptest.NewServer(loggingMiddleware(s.logger, s.Handler()))
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *httptest.Server) (*websocket.Conn, string) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	first := read(t, conn)
	require.Equal(t, TypeSession, first.Type)
	return conn, first.text(t)
}

func read(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

// send writes a message and collects frames up to and including done
func send(t *testing.T, conn *websocket.Conn, msgType string, payload interface{}) []frame {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(WSMessage{Type: msgType, Payload: raw}))

	var frames []frame
	for {
		f := read(t, conn)
		frames = append(frames, f)
		if f.Type == TypeDone {
			return frames
		}
	}
}

func doneOf(t *testing.T, frames []frame) WSDonePayload {
	t.Helper()
	var done WSDonePayload
	require.NoError(t, json.Unmarshal(frames[len(frames)-1].Payload, &done))
	return done
}

func TestWebSocket_Lines(t *testing.T) {
	ts := newTestServer(t)
	conn, id := dial(t, ts)
	assert.NotEmpty(t, id)

	frames := send(t, conn, TypeLine, "$x := 5")
	require.Len(t, frames, 1)
	assert.True(t, doneOf(t, frames).OK)

	frames = send(t, conn, TypeLine, "command echo variableName=x")
	require.Len(t, frames, 3)
	assert.Equal(t, "command", frames[0].Type)
	assert.Equal(t, "result", frames[1].Type)
	assert.Equal(t, "The value of variable 'x' is: '5'", frames[1].text(t))

	frames = send(t, conn, TypeLine, "bogus")
	require.Len(t, frames, 3)
	assert.Equal(t, "error", frames[1].Type)
	assert.Equal(t, "namespace 'bogus' not found", frames[1].text(t))
	done := doneOf(t, frames)
	assert.False(t, done.OK)
	assert.Equal(t, "UNRESOLVED_SYMBOL", done.Code)
}

func TestWebSocket_SessionsAreIndependent(t *testing.T) {
	ts := newTestServer(t)
	first, firstID := dial(t, ts)
	second, secondID := dial(t, ts)
	assert.NotEqual(t, firstID, secondID)

	send(t, first, TypeLine, "$x := 1")
	frames := send(t, second, TypeLine, "command echo variableName=x")
	assert.Equal(t, "UNDEFINED_VARIABLE", doneOf(t, frames).Code)
}

func TestWebSocket_Script(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := dial(t, ts)

	frames := send(t, conn, TypeScript, WSScriptPayload{
		Script: "IF $n > 1 THEN\ncommand echo variableName=n\nEND IF\nnope",
		Args:   "n:2",
	})
	var results []string
	for _, f := range frames {
		if f.Type == "result" {
			results = append(results, f.text(t))
		}
	}
	assert.Equal(t, []string{"The value of variable 'n' is: '2'"}, results)
	done := doneOf(t, frames)
	assert.False(t, done.OK)
	assert.Equal(t, 1, done.Failed)
}

func TestWebSocket_ProtocolMessages(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := dial(t, ts)

	require.NoError(t, conn.WriteJSON(WSMessage{Type: TypePing}))
	assert.Equal(t, TypePong, read(t, conn).Type)

	require.NoError(t, conn.WriteJSON(WSMessage{Type: "shout"}))
	f := read(t, conn)
	assert.Equal(t, TypeError, f.Type)
	assert.Equal(t, "unknown message type: shout", f.text(t))

	frames := send(t, conn, TypeLine, 42)
	assert.Equal(t, TypeError, frames[0].Type)
	assert.False(t, doneOf(t, frames).OK)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, map[string]string{"status": "ok", "version": "test"}, body)
}

func TestNew_RequiresFactory(t *testing.T) {
	_, err := New(DefaultConfig(), nil)
	assert.Error(t, err)
}

func TestWebSocket_OriginCheck(t *testing.T) {
	ts := newTestServerWithOrigins(t, []string{"http://console.example/"})
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"no origin header", "", true},
		{"same host", ts.URL, true},
		{"allowlisted", "http://console.example", true},
		{"foreign page", "http://evil.example", false},
		{"other port on same host", "http://" + strings.Split(strings.TrimPrefix(ts.URL, "http://"), ":")[0] + ":1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			conn, resp, err := websocket.DefaultDialer.Dial(url, header)
			if !tt.want {
				require.Error(t, err)
				require.NotNil(t, resp)
				assert.Equal(t, http.StatusForbidden, resp.StatusCode)
				return
			}
			require.NoError(t, err)
			defer conn.Close()
			assert.Equal(t, TypeSession, read(t, conn).Type)
		})
	}
}

func TestDefaultConfig_ListensOnLoopback(t *testing.T) {
	assert.True(t, isLoopback(DefaultConfig().Addr))
	assert.True(t, isLoopback("localhost:8765"))
	assert.True(t, isLoopback("[::1]:8765"))
	assert.False(t, isLoopback(":8765"))
	assert.False(t, isLoopback("0.0.0.0:8765"))
}
