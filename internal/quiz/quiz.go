package quiz

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var ErrQuestionNotFound = errors.New("question not found")
var ErrPlayerNotFound = errors.New("player not found")
var ErrIllegalPhase = errors.New("illegal phase transition")
var ErrUnknownVerdict = errors.New("unknown verdict")

// Verdict is the showman's rating of an answer.
type Verdict string

const (
	VerdictCorrect  Verdict = "correct"
	VerdictWrong    Verdict = "wrong"
	VerdictNoAnswer Verdict = "no_answer"
)

func ParseVerdict(s string) (Verdict, error) {
	switch Verdict(s) {
	case VerdictCorrect, VerdictWrong, VerdictNoAnswer:
		return Verdict(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVerdict, s)
	}
}

type Question struct {
	ID       string
	Cost     int
	Text     string
	Answer   string
	WasAsked bool
}

type Topic struct {
	Name      string
	Questions []*Question
}

type Player struct {
	Name  string
	Score int
}

// ApplyVerdict is the only place a score changes. It is not idempotent;
// Game.Resolve guarantees at most one call per question resolution.
func ApplyVerdict(q *Question, p *Player, v Verdict) {
	switch v {
	case VerdictCorrect:
		p.Score += q.Cost
	case VerdictWrong:
		p.Score -= q.Cost
	case VerdictNoAnswer:
		// score unchanged
	}
}

// Game is the full state of one room. It owns its topics, questions and
// players exclusively; nothing outside this package holds a pointer into
// them. The mutex is needed because the HTTP layer renders pages from the
// same Game the event loop mutates.
type Game struct {
	roomName string

	mu       sync.RWMutex
	topics   []*Topic
	players  []*Player
	phase    Phase
	current  string // question id, set while phase != PhaseIdle
	answerer string // player who claimed the answer, set in PhaseRating
}

func NewGame(roomName string, topics []*Topic) *Game {
	return &Game{
		roomName: roomName,
		topics:   topics,
		phase:    PhaseIdle,
	}
}

func (g *Game) RoomName() string { return g.roomName }

func (g *Game) findQuestion(id string) *Question {
	for _, t := range g.topics {
		for _, q := range t.Questions {
			if q.ID == id {
				return q
			}
		}
	}
	return nil
}

func (g *Game) findPlayer(name string) *Player {
	for _, p := range g.players {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// FindQuestionByID returns a copy of the question with the given id.
func (g *Game) FindQuestionByID(id string) (QuestionSnapshot, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	q := g.findQuestion(id)
	if q == nil {
		return QuestionSnapshot{}, fmt.Errorf("%w: %s", ErrQuestionNotFound, id)
	}
	return snapshotQuestion(q), nil
}

// FindPlayer looks a player up by name, case-insensitively.
func (g *Game) FindPlayer(name string) (PlayerSnapshot, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	p := g.findPlayer(name)
	if p == nil {
		return PlayerSnapshot{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
	}
	return PlayerSnapshot{Name: p.Name, Score: p.Score}, nil
}

// EnsurePlayer adds a player with score 0 unless one already exists under
// the same case-folded name. Reports whether a player was created.
func (g *Game) EnsurePlayer(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.findPlayer(name) != nil {
		return false
	}
	g.players = append(g.players, &Player{Name: name})
	return true
}

// OpenQuestion displays a question on the board.
func (g *Game) OpenQuestion(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.findQuestion(id) == nil {
		return fmt.Errorf("%w: %s", ErrQuestionNotFound, id)
	}
	if g.phase != PhaseIdle && g.phase != PhaseResolved {
		return fmt.Errorf("%w: open in %s", ErrIllegalPhase, g.phase)
	}
	g.phase = PhaseDisplayed
	g.current = id
	g.answerer = ""
	return nil
}

// MarkReady moves the displayed question to the answering stage.
func (g *Game) MarkReady(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseDisplayed || g.current != id {
		return fmt.Errorf("%w: ready for %s in %s", ErrIllegalPhase, id, g.phase)
	}
	g.phase = PhaseAwaitingAnswer
	return nil
}

// ClaimAnswer records that a player wants to answer the current question.
func (g *Game) ClaimAnswer(id, playerName string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseAwaitingAnswer || g.current != id {
		return fmt.Errorf("%w: claim for %s in %s", ErrIllegalPhase, id, g.phase)
	}
	if g.findPlayer(playerName) == nil {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerName)
	}
	g.phase = PhaseRating
	g.answerer = playerName
	return nil
}

// Resolve closes the current question with the showman's verdict. The
// question is marked as asked and, unless the verdict is no_answer, the
// answerer's score moves by the question cost. A question can be resolved
// once; a second attempt fails with ErrIllegalPhase.
func (g *Game) Resolve(id, answererName string, v Verdict) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if (g.phase != PhaseAwaitingAnswer && g.phase != PhaseRating) || g.current != id {
		return fmt.Errorf("%w: resolve for %s in %s", ErrIllegalPhase, id, g.phase)
	}
	q := g.findQuestion(id)
	if q == nil {
		return fmt.Errorf("%w: %s", ErrQuestionNotFound, id)
	}

	if v != VerdictNoAnswer {
		p := g.findPlayer(answererName)
		if p == nil {
			return fmt.Errorf("%w: %s", ErrPlayerNotFound, answererName)
		}
		ApplyVerdict(q, p, v)
	}

	q.WasAsked = true
	g.phase = PhaseResolved
	g.answerer = ""
	return nil
}
