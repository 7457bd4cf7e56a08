package game

import (
	"sync/atomic"

	"go.uber.org/zap"

	"quizroom/internal/quiz"
	"quizroom/internal/session"
	"quizroom/internal/view"
)

// Broadcaster fans one rendered view out to every bound session in a room.
// Delivery is best effort: a recipient that fails is dropped, counted and
// skipped, never letting one dead connection starve the rest of the room.
type Broadcaster struct {
	sessions *session.Registry
	renderer view.Renderer
	log      *zap.Logger
	dropped  atomic.Int64
}

func NewBroadcaster(sessions *session.Registry, renderer view.Renderer, log *zap.Logger) *Broadcaster {
	return &Broadcaster{
		sessions: sessions,
		renderer: renderer,
		log:      log,
	}
}

func (b *Broadcaster) Broadcast(roomName string, g *quiz.Game, req view.Request) {
	snap := g.Snapshot()

	for _, c := range b.sessions.InRoom(roomName) {
		sess, ok := b.sessions.Lookup(c)
		if !ok || sess.PlayerName == "" {
			// Hasn't said hello yet; nothing to personalize for.
			continue
		}

		payload, err := b.renderer.Render(req.View(), req.Context(snap, sess.PlayerName))
		if err != nil {
			b.log.Error("render failed",
				zap.String("view", req.View()),
				zap.String("room", roomName),
				zap.Error(err))
			continue
		}

		if err := c.Send(payload); err != nil {
			b.dropped.Add(1)
			b.sessions.Unregister(c)
			b.log.Warn("dropping recipient",
				zap.String("client", c.ID()),
				zap.String("room", roomName),
				zap.Error(err))
		}
	}
}

// Dropped counts recipients lost to failed sends since startup.
func (b *Broadcaster) Dropped() int64 {
	return b.dropped.Load()
}
