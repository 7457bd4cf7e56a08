package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quizroom/internal/game"
	"quizroom/internal/quiz"
	"quizroom/internal/rooms"
	"quizroom/internal/types"
)

// renderFunc adapts a function to view.Renderer for tests.
type renderFunc func(name string, data any) ([]byte, error)

func (f renderFunc) Render(name string, data any) ([]byte, error) { return f(name, data) }

func testFactory(roomName string) *quiz.Game {
	return quiz.NewGame(roomName, []*quiz.Topic{
		{Name: "history", Questions: []*quiz.Question{{ID: "q1", Cost: 100, Text: "Who?", Answer: "Nobody"}}},
	})
}

func newTestServer(t *testing.T) (*httptest.Server, *game.Loop) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	reg := rooms.NewRegistry(ctx, testFactory, zap.NewNop())
	loop := game.NewLoop(ctx, reg, renderFunc(func(name string, _ any) ([]byte, error) {
		return []byte(name), nil
	}), zap.NewNop())

	srv := httptest.NewServer(Handler(loop, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv, loop
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	return conn
}

func sendHello(t *testing.T, conn *websocket.Conn, room, player string) {
	t.Helper()
	payload, err := json.Marshal(types.ClientMessage{
		MsgType:    types.MsgRoomHello,
		RoomName:   room,
		PlayerName: player,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, payload))
}

func recvFragment(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	return string(data)
}

func numClients(t *testing.T, l *game.Loop, room string) int {
	t.Helper()
	reply := make(chan game.RoomView, 1)
	l.Inbox() <- game.InspectRoom{RoomName: room, Reply: reply}
	select {
	case v := <-reply:
		return v.NumClients
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for room view")
		return 0 // unreachable
	}
}

func TestHandler_MalformedMessageKeepsConnectionUsable(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv)
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`{"msg_type":`)))

	// Later messages still get decoded and processed.
	sendHello(t, conn, "quiz1", "Bob")
	assert.Equal(t, "players_list", recvFragment(t, conn))
}

func TestHandler_DecodesWireMessages(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv)
	defer conn.Close(websocket.StatusNormalClosure, "")

	sendHello(t, conn, "quiz1", "Bob")
	assert.Equal(t, "players_list", recvFragment(t, conn))

	payload, err := json.Marshal(types.ClientMessage{
		MsgType:    types.MsgOpenQuestion,
		RoomName:   "quiz1",
		QuestionID: "q1",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, payload))
	assert.Equal(t, "question", recvFragment(t, conn))
}

func TestHandler_CloseRemovesSession(t *testing.T) {
	srv, loop := newTestServer(t)
	conn := dial(t, srv)

	sendHello(t, conn, "quiz1", "Bob")
	assert.Equal(t, "players_list", recvFragment(t, conn))
	require.Equal(t, 1, numClients(t, loop, "quiz1"))

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))

	assert.Eventually(t, func() bool {
		return numClients(t, loop, "quiz1") == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHandler_ClosedOutboxTearsDownConnection(t *testing.T) {
	srv, loop := newTestServer(t)
	conn := dial(t, srv)
	defer conn.Close(websocket.StatusNormalClosure, "")

	sendHello(t, conn, "quiz1", "Bob")
	assert.Equal(t, "players_list", recvFragment(t, conn))

	// Shutting the loop down closes every client outbox; the transport
	// must close the connection rather than keep reading into the void.
	loop.Inbox() <- game.Shutdown{}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, _, err := conn.Read(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
}
