// Package rooms owns the room name -> game mapping. A single goroutine
// serves all lookups and creations, so two near-simultaneous requests for
// the same unseen room can never build two different games.
package rooms

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"quizroom/internal/quiz"
)

var ErrRoomNotFound = errors.New("room not found")

// Factory builds the game for a room seen for the first time.
type Factory func(roomName string) *quiz.Game

type registryMsg interface{ isRegistryMsg() }

type ensureRoom struct {
	name  string
	reply chan *quiz.Game
}

type getRoom struct {
	name  string
	reply chan *quiz.Game
}

type shutdown struct{}

func (ensureRoom) isRegistryMsg() {}
func (getRoom) isRegistryMsg()    {}
func (shutdown) isRegistryMsg()   {}

type Registry struct {
	inbox   chan registryMsg
	games   map[string]*quiz.Game
	factory Factory
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewRegistry(parent context.Context, factory Factory, log *zap.Logger) *Registry {
	ctx, cancel := context.WithCancel(parent)
	r := &Registry{
		inbox:   make(chan registryMsg, 64),
		games:   make(map[string]*quiz.Game),
		factory: factory,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
	go r.loop()
	return r
}

func (r *Registry) loop() {
	for {
		select {
		case <-r.ctx.Done():
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case ensureRoom:
				g := r.games[msg.name]
				if g == nil {
					g = r.factory(msg.name)
					r.games[msg.name] = g
					r.log.Info("room created", zap.String("room", msg.name))
				}
				msg.reply <- g

			case getRoom:
				msg.reply <- r.games[msg.name] // may be nil

			case shutdown:
				r.cancel()
				return
			}
		}
	}
}

// Ensure returns the room's game, creating it through the factory on first
// sight. Re-ensuring an existing room is a no-op returning the same game.
func (r *Registry) Ensure(name string) *quiz.Game {
	reply := make(chan *quiz.Game, 1)
	r.inbox <- ensureRoom{name: name, reply: reply}
	return <-reply
}

// Get is a pure lookup.
func (r *Registry) Get(name string) (*quiz.Game, error) {
	reply := make(chan *quiz.Game, 1)
	r.inbox <- getRoom{name: name, reply: reply}
	g := <-reply
	if g == nil {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, name)
	}
	return g, nil
}

// Shutdown stops the registry goroutine. Rooms themselves hold no
// resources beyond memory, so there is nothing else to tear down.
func (r *Registry) Shutdown() {
	select {
	case r.inbox <- shutdown{}:
	case <-r.ctx.Done():
	}
}
