// Package demo builds throwaway games so a room is playable the moment it
// is created, without any question database behind it.
package demo

import (
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"quizroom/internal/quiz"
)

const (
	topicsPerGame     = 6
	questionsPerTopic = 6
	costStep          = 100
)

// NewGame is the room factory handed to the room registry.
func NewGame(roomName string) *quiz.Game {
	topics := make([]*quiz.Topic, 0, topicsPerGame)
	for range topicsPerGame {
		topics = append(topics, newTopic())
	}
	return quiz.NewGame(roomName, topics)
}

func newTopic() *quiz.Topic {
	t := &quiz.Topic{Name: gofakeit.JobTitle()}
	for i := 1; i <= questionsPerTopic; i++ {
		t.Questions = append(t.Questions, newQuestion(i*costStep))
	}
	return t
}

func newQuestion(cost int) *quiz.Question {
	return &quiz.Question{
		ID:     uuid.NewString(),
		Cost:   cost,
		Text:   gofakeit.Question(),
		Answer: gofakeit.Sentence(8),
	}
}
