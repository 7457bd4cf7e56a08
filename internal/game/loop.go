// Package game runs the event loop at the heart of the server: one
// goroutine consuming every inbound message from every connection,
// mutating room state and fanning rendered views back out. Connection
// readers only decode and forward, so per-connection FIFO order holds and
// the session registry needs no locking.
package game

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"quizroom/internal/quiz"
	"quizroom/internal/rooms"
	"quizroom/internal/session"
	"quizroom/internal/types"
	"quizroom/internal/view"
)

type LoopMsg interface{ isLoopMsg() }

// Connect registers a freshly accepted connection.
type Connect struct{ Client *session.Client }

// Disconnect tears the connection's session down.
type Disconnect struct{ Client *session.Client }

// Inbound carries one decoded client message.
type Inbound struct {
	Client  *session.Client
	Message types.ClientMessage
}

type Shutdown struct{}

// InspectRoom reflects loop-internal state for tests without data races.
type InspectRoom struct {
	RoomName string
	Reply    chan RoomView
}

type RoomView struct {
	NumClients int
	Dropped    int64
}

func (Connect) isLoopMsg()     {}
func (Disconnect) isLoopMsg()  {}
func (Inbound) isLoopMsg()     {}
func (Shutdown) isLoopMsg()    {}
func (InspectRoom) isLoopMsg() {}

type Loop struct {
	inbox    chan LoopMsg
	rooms    *rooms.Registry
	sessions *session.Registry
	bcast    *Broadcaster
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewLoop(parent context.Context, reg *rooms.Registry, renderer view.Renderer, log *zap.Logger) *Loop {
	ctx, cancel := context.WithCancel(parent)
	sessions := session.NewRegistry()

	l := &Loop{
		inbox:    make(chan LoopMsg, 64),
		rooms:    reg,
		sessions: sessions,
		bcast:    NewBroadcaster(sessions, renderer, log),
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
	go l.run()
	return l
}

// Inbox is where connection handlers (and tests) send loop messages.
func (l *Loop) Inbox() chan<- LoopMsg { return l.inbox }

func (l *Loop) run() {
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Connect:
				l.sessions.Register(msg.Client)

			case Disconnect:
				l.sessions.Unregister(msg.Client)

			case Inbound:
				l.handle(msg.Client, msg.Message)

			case InspectRoom:
				msg.Reply <- RoomView{
					NumClients: len(l.sessions.InRoom(msg.RoomName)),
					Dropped:    l.bcast.Dropped(),
				}

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

func (l *Loop) shutdown() {
	for _, c := range l.sessions.All() {
		l.sessions.Unregister(c)
	}
	l.cancel()
}

// handle interprets one client message. Every failure path is a logged
// no-op: the connection stays open and later messages still get processed.
func (l *Loop) handle(c *session.Client, m types.ClientMessage) {
	log := l.log.With(
		zap.String("client", c.ID()),
		zap.String("msg_type", m.MsgType),
		zap.String("room", m.RoomName),
	)

	switch m.MsgType {
	case types.MsgRoomHello:
		if m.RoomName == "" || m.PlayerName == "" {
			log.Warn("malformed room_hello")
			return
		}
		g := l.rooms.Ensure(m.RoomName)
		if g.EnsurePlayer(m.PlayerName) {
			log.Info("player joined", zap.String("player", m.PlayerName))
		}
		l.sessions.Bind(c, m.PlayerName, m.RoomName)
		l.bcast.Broadcast(m.RoomName, g, view.PlayersList{})

	case types.MsgOpenQuestion:
		l.withGame(log, m, func(g *quiz.Game) error {
			if err := g.OpenQuestion(m.QuestionID); err != nil {
				return err
			}
			l.bcast.Broadcast(m.RoomName, g, view.Question{QuestionID: m.QuestionID})
			return nil
		})

	case types.MsgQuestionReady:
		l.withGame(log, m, func(g *quiz.Game) error {
			if err := g.MarkReady(m.QuestionID); err != nil {
				return err
			}
			l.bcast.Broadcast(m.RoomName, g, view.Ready{QuestionID: m.QuestionID})
			return nil
		})

	case types.MsgIKnowAnswer:
		l.withGame(log, m, func(g *quiz.Game) error {
			if err := g.ClaimAnswer(m.QuestionID, m.PlayerName); err != nil {
				return err
			}
			l.bcast.Broadcast(m.RoomName, g, view.Rating{QuestionID: m.QuestionID, Answerer: m.PlayerName})
			return nil
		})

	case types.MsgQuestionAnswer:
		l.withGame(log, m, func(g *quiz.Game) error {
			verdict, err := quiz.ParseVerdict(m.Answer)
			if err != nil {
				return err
			}
			if err := g.Resolve(m.QuestionID, m.AnswererName, verdict); err != nil {
				return err
			}
			l.bcast.Broadcast(m.RoomName, g, view.CloseSignal{})
			l.bcast.Broadcast(m.RoomName, g, view.MainTable{})
			l.bcast.Broadcast(m.RoomName, g, view.PlayersList{})
			return nil
		})

	default:
		log.Debug("ignoring unknown message type")
	}
}

func (l *Loop) withGame(log *zap.Logger, m types.ClientMessage, fn func(*quiz.Game) error) {
	g, err := l.rooms.Get(m.RoomName)
	if err != nil {
		log.Warn("dropping message", zap.Error(err))
		return
	}
	if err := fn(g); err != nil {
		level := log.Warn
		if errors.Is(err, quiz.ErrIllegalPhase) {
			level = log.Debug
		}
		level("dropping message", zap.Error(err))
	}
}
