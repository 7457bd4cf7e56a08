package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"quizroom/internal/game"
	"quizroom/internal/rooms"
	"quizroom/internal/web"
	"quizroom/internal/ws"
)

func SetupRoutes(reg *rooms.Registry, loop *game.Loop, rnd *web.Renderer, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/", RootPage(rnd, log))
	r.Get("/login", LoginPage(rnd, log))
	r.Post("/rooms", CreateRoom(reg, rnd, log))
	r.Post("/join", JoinRoom(reg, rnd, log))
	r.Get("/table/{room_name}", GameTable(reg, rnd, log))
	r.Get("/game-ws", ws.Handler(loop, log))
	r.Get("/healthz", Healthz)

	return r
}
