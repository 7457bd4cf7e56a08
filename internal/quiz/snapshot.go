package quiz

// Snapshot is a point-in-time copy of a Game, safe to hand to renderers
// and templates without holding the game lock.
type Snapshot struct {
	RoomName string
	Topics   []TopicSnapshot
	Players  []PlayerSnapshot
	Phase    Phase
	Current  string
	Answerer string
}

type TopicSnapshot struct {
	Name      string
	Questions []QuestionSnapshot
}

type QuestionSnapshot struct {
	ID       string
	Cost     int
	Text     string
	Answer   string
	WasAsked bool
}

type PlayerSnapshot struct {
	Name  string
	Score int
}

func snapshotQuestion(q *Question) QuestionSnapshot {
	return QuestionSnapshot{
		ID:       q.ID,
		Cost:     q.Cost,
		Text:     q.Text,
		Answer:   q.Answer,
		WasAsked: q.WasAsked,
	}
}

func (g *Game) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s := Snapshot{
		RoomName: g.roomName,
		Topics:   make([]TopicSnapshot, 0, len(g.topics)),
		Players:  make([]PlayerSnapshot, 0, len(g.players)),
		Phase:    g.phase,
		Current:  g.current,
		Answerer: g.answerer,
	}
	for _, t := range g.topics {
		ts := TopicSnapshot{Name: t.Name, Questions: make([]QuestionSnapshot, 0, len(t.Questions))}
		for _, q := range t.Questions {
			ts.Questions = append(ts.Questions, snapshotQuestion(q))
		}
		s.Topics = append(s.Topics, ts)
	}
	for _, p := range g.players {
		s.Players = append(s.Players, PlayerSnapshot{Name: p.Name, Score: p.Score})
	}
	return s
}

// Question returns the snapshot of the question with the given id, if any.
func (s Snapshot) Question(id string) (QuestionSnapshot, bool) {
	for _, t := range s.Topics {
		for _, q := range t.Questions {
			if q.ID == id {
				return q, true
			}
		}
	}
	return QuestionSnapshot{}, false
}
