package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"quizroom/internal/quiz"
	"quizroom/internal/rooms"
	"quizroom/internal/view"
	"quizroom/internal/web"
)

type gameRoomPage struct {
	RoomName string
	Viewer   string
	Table    view.TableContext
	Players  view.PlayersContext
}

func page(s quiz.Snapshot, viewer string) gameRoomPage {
	return gameRoomPage{
		RoomName: s.RoomName,
		Viewer:   viewer,
		Table:    view.TableContext{RoomName: s.RoomName, Topics: s.Topics, Viewer: viewer},
		Players:  view.PlayersContext{RoomName: s.RoomName, Players: s.Players, Viewer: viewer},
	}
}

func writeHTML(w http.ResponseWriter, rnd *web.Renderer, log *zap.Logger, name string, data any) {
	payload, err := rnd.Render(name, data)
	if err != nil {
		log.Error("page render failed", zap.String("view", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(payload)
}

func RootPage(rnd *web.Renderer, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeHTML(w, rnd, log, "root", nil)
	}
}

func LoginPage(rnd *web.Renderer, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeHTML(w, rnd, log, "login", nil)
	}
}

// CreateRoom handles the showman's form. Creating an already existing
// room just drops the showman into it.
func CreateRoom(reg *rooms.Registry, rnd *web.Renderer, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomName := r.PostFormValue("room_name")
		playerName := r.PostFormValue("player_name")
		if roomName == "" || playerName == "" {
			http.Error(w, "room_name and player_name are required", http.StatusBadRequest)
			return
		}

		g := reg.Ensure(roomName)
		writeHTML(w, rnd, log, "game_room", page(g.Snapshot(), playerName))
	}
}

// JoinRoom drops a player into an existing room; unlike CreateRoom it
// refuses names nobody has hosted yet.
func JoinRoom(reg *rooms.Registry, rnd *web.Renderer, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomName := r.PostFormValue("room_name")
		playerName := r.PostFormValue("player_name")
		if roomName == "" || playerName == "" {
			http.Error(w, "room_name and player_name are required", http.StatusBadRequest)
			return
		}

		g, err := reg.Get(roomName)
		if err != nil {
			http.Error(w, "no such room", http.StatusNotFound)
			return
		}
		writeHTML(w, rnd, log, "game_room", page(g.Snapshot(), playerName))
	}
}

// GameTable serves the bare board fragment for a room.
func GameTable(reg *rooms.Registry, rnd *web.Renderer, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomName := chi.URLParam(r, "room_name")
		g, err := reg.Get(roomName)
		if err != nil {
			http.Error(w, "no such room", http.StatusNotFound)
			return
		}
		s := g.Snapshot()
		writeHTML(w, rnd, log, "main_table", view.TableContext{RoomName: s.RoomName, Topics: s.Topics})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
