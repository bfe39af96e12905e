package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
	"github.com/msto63/dashscript/internal/docstore"
	coregrpc "github.com/msto63/dashscript/pkg/core/grpc"
	"github.com/msto63/dashscript/pkg/core/health"
	"github.com/msto63/dashscript/pkg/core/logging"
	"github.com/msto63/dashscript/pkg/core/version"
	"github.com/msto63/dashscript/pkg/dashscript"
)

const emptyDoc = "<dashboard></dashboard>"

func quietLogger() *logging.Logger {
	return logging.Wrap(logging.NewLogger(logging.LoggerConfig{Output: io.Discard}), "test")
}

func newEditor(t *testing.T, cfg EditorConfig) (*Editor, *docstore.SQLiteStore) {
	t.Helper()
	engine, err := dashscript.New(dashscript.Options{})
	require.NoError(t, err)
	store, err := docstore.Open(docstore.Config{Path: filepath.Join(t.TempDir(), "docs.db")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewEditor(engine, store, cfg, quietLogger()), store
}

func TestEditorApplyStateless(t *testing.T) {
	ed, _ := newEditor(t, EditorConfig{})

	resp, err := ed.Apply(context.Background(), ApplyRequest{Code: emptyDoc, Script: `addGroup({"id":"g"})`})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Contains(t, resp.NextCode, `<group id="g"`)
	assert.Empty(t, resp.DocID)
}

func TestEditorApplyPersists(t *testing.T) {
	ctx := context.Background()
	ed, store := newEditor(t, EditorConfig{})
	doc, err := ed.Create(ctx, "Vendas", emptyDoc)
	require.NoError(t, err)

	resp, err := ed.Apply(ctx, ApplyRequest{DocID: doc.ID, Parent: 1, Script: `addKPI(id: k1)`})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, 2, resp.Revision)

	got, err := store.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.NextCode, got.Code)

	// a stale parent is refused before anything runs
	_, err = ed.Apply(ctx, ApplyRequest{DocID: doc.ID, Parent: 1, Script: `addKPI(id: k2)`})
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeConflict))

	// a failing command leaves the text unchanged, so nothing is saved
	resp, err = ed.Apply(ctx, ApplyRequest{DocID: doc.ID, Script: `deleteWidget(nope)`})
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, 2, resp.Revision)

	hist, err := ed.History(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, hist, 2)
}

func TestEditorCompileErrors(t *testing.T) {
	ed, _ := newEditor(t, EditorConfig{})

	resp, err := ed.Apply(context.Background(), ApplyRequest{Code: emptyDoc, Script: "addGroup({\"id\":\"g\"});\nnope()"})
	require.NoError(t, err)
	assert.False(t, resp.OK())
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, 2, resp.Errors[0].Line)
	assert.Equal(t, emptyDoc, resp.NextCode)
}

func TestEditorScriptLimit(t *testing.T) {
	ed, _ := newEditor(t, EditorConfig{MaxScriptBytes: 8})
	_, err := ed.Apply(context.Background(), ApplyRequest{Code: emptyDoc, Script: `addGroup({"id":"g"})`})
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeInvalidInput))
}

func TestEditorWithoutStore(t *testing.T) {
	engine, err := dashscript.New(dashscript.Options{})
	require.NoError(t, err)
	ed := NewEditor(engine, nil, EditorConfig{}, quietLogger())

	_, err = ed.Apply(context.Background(), ApplyRequest{DocID: "d", Script: `addGroup({"id":"g"})`})
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeInvalidInput))
}

func TestEditorSerializesPerDocument(t *testing.T) {
	ctx := context.Background()
	ed, _ := newEditor(t, EditorConfig{})
	doc, err := ed.Create(ctx, "", emptyDoc)
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := ed.Apply(ctx, ApplyRequest{DocID: doc.ID, Script: fmt.Sprintf(`addGroup({"id":"g%d"})`, i)})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := ed.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, n+1, got.Head)
	for i := 0; i < n; i++ {
		assert.Contains(t, got.Code, fmt.Sprintf(`<group id="g%d"`, i))
	}
	assert.Equal(t, 0, ed.locks.size())
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

type wsReply struct {
	Type    string          `json:"type"`
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

func roundTrip(t *testing.T, conn *websocket.Conn, typ, id string, payload interface{}) wsReply {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(WSMessage{Type: typ, ID: id, Payload: raw}))

	var reply wsReply
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, id, reply.ID)
	return reply
}

func TestWebSocketSession(t *testing.T) {
	ed, _ := newEditor(t, EditorConfig{})
	srv := httptest.NewServer(NewHTTPHandler(ed, quietLogger()))
	defer srv.Close()
	conn := dialWS(t, srv)

	reply := roundTrip(t, conn, "ping", "0", nil)
	assert.Equal(t, "pong", reply.Type)

	reply = roundTrip(t, conn, "create", "1", WSCreatePayload{Title: "t", Code: emptyDoc})
	require.Equal(t, "result", reply.Type, string(reply.Payload))
	var doc docstore.Document
	require.NoError(t, json.Unmarshal(reply.Payload, &doc))

	reply = roundTrip(t, conn, "apply", "2", ApplyRequest{DocID: doc.ID, Script: `addGroup({"id":"g"}); addKPI(id: k1)`})
	require.Equal(t, "result", reply.Type, string(reply.Payload))
	var resp ApplyResponse
	require.NoError(t, json.Unmarshal(reply.Payload, &resp))
	assert.True(t, resp.OK())
	assert.Equal(t, 2, resp.Revision)
	assert.Len(t, resp.Diagnostics, 2)

	reply = roundTrip(t, conn, "history", "3", WSDocPayload{DocID: doc.ID})
	var hist []docstore.Revision
	require.NoError(t, json.Unmarshal(reply.Payload, &hist))
	assert.Len(t, hist, 2)

	reply = roundTrip(t, conn, "undo", "4", WSDocPayload{DocID: doc.ID})
	require.Equal(t, "result", reply.Type, string(reply.Payload))
	require.NoError(t, json.Unmarshal(reply.Payload, &doc))
	assert.Equal(t, emptyDoc, doc.Code)

	reply = roundTrip(t, conn, "get", "5", WSDocPayload{DocID: "missing"})
	assert.Equal(t, "error", reply.Type)
	var wsErr WSErrorPayload
	require.NoError(t, json.Unmarshal(reply.Payload, &wsErr))
	assert.Equal(t, mdwerror.CodeNotFound.String(), wsErr.Code)

	reply = roundTrip(t, conn, "explode", "6", nil)
	require.NoError(t, json.Unmarshal(reply.Payload, &wsErr))
	assert.Equal(t, mdwerror.CodeInvalidInput.String(), wsErr.Code)
}

func TestHealthz(t *testing.T) {
	ed, _ := newEditor(t, EditorConfig{})
	srv := httptest.NewServer(NewHTTPHandler(ed, quietLogger()))
	defer srv.Close()

	res, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var body health.Report
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, health.StatusHealthy, body.Status)
	assert.Equal(t, version.Protocol, body.Protocol)
	require.Len(t, body.Checks, 1)
	assert.Equal(t, "store", body.Checks[0].Name)
}

func TestServerRunGRPC(t *testing.T) {
	ed, _ := newEditor(t, EditorConfig{MaxScriptBytes: 64})
	srv := New(Config{
		HTTPAddr:        "127.0.0.1:0",
		GRPCAddr:        "127.0.0.1:0",
		ReadTimeout:     time.Second,
		ShutdownTimeout: time.Second,
	}, ed, quietLogger())
	require.NoError(t, srv.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	conn, err := coregrpc.Dial(coregrpc.DefaultClientConfig(srv.GRPCAddr()))
	require.NoError(t, err)
	defer conn.Close()
	client := NewEditorClient(conn)

	callCtx, callCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer callCancel()

	resp, err := client.Apply(callCtx, ApplyRequest{Code: emptyDoc, Script: `addGroup({"id":"g"})`})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Contains(t, resp.NextCode, `<group id="g"`)

	resp, err = client.Apply(callCtx, ApplyRequest{Code: emptyDoc, Script: `nope()`})
	require.NoError(t, err)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, mdwerror.CodeUnknownCommand, resp.Errors[0].Code)

	_, err = client.Apply(callCtx, ApplyRequest{Code: emptyDoc, Script: strings.Repeat("x", 65)})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	res, err := http.Get("http://" + srv.HTTPAddr() + "/healthz")
	require.NoError(t, err)
	res.Body.Close()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
