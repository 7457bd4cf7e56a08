// Package types defines the websocket wire protocol.
//
// Clients send JSON objects discriminated by msg_type; the server pushes
// back rendered HTML fragments with no acknowledgment protocol.
package types

const (
	MsgRoomHello      = "room_hello"
	MsgOpenQuestion   = "open_question"
	MsgQuestionReady  = "question_ready"
	MsgIKnowAnswer    = "I_know_answer"
	MsgQuestionAnswer = "question_answer"
)

type ClientMessage struct {
	MsgType      string `json:"msg_type"`
	RoomName     string `json:"room_name,omitempty"`
	PlayerName   string `json:"player_name,omitempty"`
	QuestionID   string `json:"question_id,omitempty"`
	Answer       string `json:"answer,omitempty"` // "correct" | "wrong" | "no_answer"
	AnswererName string `json:"answerer_name,omitempty"`
}
