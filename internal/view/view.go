// Package view names the fragments the server can push to a room and maps
// each one to its render context. The broadcast engine stays generic by
// working against Request and Renderer only; how a fragment turns into
// bytes is the web layer's business.
package view

import "quizroom/internal/quiz"

// Renderer turns a named view and its context into an opaque payload.
type Renderer interface {
	Render(name string, data any) ([]byte, error)
}

// Request is one of the closed set of pushable views. Context is invoked
// once per recipient because several views are personalized by player name.
type Request interface {
	View() string
	Context(s quiz.Snapshot, viewer string) any
}

type PlayersContext struct {
	RoomName string
	Players  []quiz.PlayerSnapshot
	Viewer   string
}

type QuestionContext struct {
	RoomName string
	Question quiz.QuestionSnapshot
	Viewer   string
}

type RatingContext struct {
	RoomName string
	Question quiz.QuestionSnapshot
	Answerer string
	Viewer   string
}

type TableContext struct {
	RoomName string
	Topics   []quiz.TopicSnapshot
	Viewer   string
}

// PlayersList shows every player and their score.
type PlayersList struct{}

func (PlayersList) View() string { return "players_list" }

func (PlayersList) Context(s quiz.Snapshot, viewer string) any {
	return PlayersContext{RoomName: s.RoomName, Players: s.Players, Viewer: viewer}
}

// Question displays an opened question.
type Question struct{ QuestionID string }

func (Question) View() string { return "question" }

func (v Question) Context(s quiz.Snapshot, viewer string) any {
	q, _ := s.Question(v.QuestionID)
	return QuestionContext{RoomName: s.RoomName, Question: q, Viewer: viewer}
}

// Ready invites the room to buzz in on the current question.
type Ready struct{ QuestionID string }

func (Ready) View() string { return "ready_prompt" }

func (v Ready) Context(s quiz.Snapshot, viewer string) any {
	q, _ := s.Question(v.QuestionID)
	return QuestionContext{RoomName: s.RoomName, Question: q, Viewer: viewer}
}

// Rating asks the showman to rate the named answerer.
type Rating struct {
	QuestionID string
	Answerer   string
}

func (Rating) View() string { return "rate_answer" }

func (v Rating) Context(s quiz.Snapshot, viewer string) any {
	q, _ := s.Question(v.QuestionID)
	return RatingContext{RoomName: s.RoomName, Question: q, Answerer: v.Answerer, Viewer: viewer}
}

// CloseSignal tells clients to drop the open question overlay.
type CloseSignal struct{}

func (CloseSignal) View() string { return "close_question_signal" }

func (CloseSignal) Context(quiz.Snapshot, string) any { return nil }

// MainTable redraws the full board.
type MainTable struct{}

func (MainTable) View() string { return "main_table" }

func (MainTable) Context(s quiz.Snapshot, viewer string) any {
	return TableContext{RoomName: s.RoomName, Topics: s.Topics, Viewer: viewer}
}
