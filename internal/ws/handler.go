package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"quizroom/internal/game"
	"quizroom/internal/session"
	"quizroom/internal/types"
)

const (
	outboxSize   = 8
	writeTimeout = 3 * time.Second
)

// Handler serves the /game-ws endpoint. It only shuttles bytes: decoded
// messages go into the game loop, rendered fragments come back out of the
// client's outbox.
func Handler(l *game.Loop, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			log.Warn("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		client := session.NewClient(randID(6), outboxSize)
		log := log.With(zap.String("client", client.ID()))

		l.Inbox() <- game.Connect{Client: client}
		defer func() { l.Inbox() <- game.Disconnect{Client: client} }()

		// Writer goroutine: drains the outbox until the loop closes it. A
		// closed outbox means the loop dropped this client, so the reader
		// gets canceled too; no point accepting messages from a connection
		// that can never receive another push.
		readCtx, readCancel := context.WithCancel(r.Context())
		defer readCancel()
		go func() {
			defer readCancel()
			for payload := range client.Outbox() {
				ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
				if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
					log.Debug("write failed", zap.Error(err))
				}
				cancel()
			}
		}()

		for {
			_, data, err := conn.Read(readCtx)
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Debug("read ended", zap.Error(err))
				}
				return // Disconnect in defer
			}

			var msg types.ClientMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				log.Warn("malformed message", zap.Error(err))
				continue
			}

			l.Inbox() <- game.Inbound{Client: client, Message: msg}
		}
	}
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
