package store

import (
	"sync"
)

// Listener hears about everything a presenter screen needs to redraw. Calls
// are made without the event lock held, from whichever goroutine caused the
// change.
type Listener interface {
	Rolling(name string)
	DrawFinished(record WinnerRecord)
	HistoryChanged(history []WinnerRecord)
	RosterChanged(participants []Participant)
	GroupsChanged(groups []Group)
}

// DrawStatus is what the draw tab shows.
type DrawStatus struct {
	Drawing bool           `json:"drawing"`
	Rolling string         `json:"rolling"`
	Winner  *Participant   `json:"winner,omitempty"`
	History []WinnerRecord `json:"history"`
}

// Event holds all state for one HR event: who is attending, who won what and
// how people were split into teams.
type Event struct {
	mu sync.Mutex

	participants []Participant
	history      []WinnerRecord
	groups       []Group

	drawing bool
	rolling string
	winner  *Participant

	rng    RNG
	drawer *Drawer
	roll   Roll

	listener Listener
}

type EventOptions struct {
	// Rng picks winners and shuffles teams.
	Rng RNG
	// RollRng picks the names flashed during the rolling animation.
	RollRng  RNG
	Roll     Roll
	Listener Listener
}

func NewEvent(opts EventOptions) *Event {
	return &Event{
		rng:      opts.Rng,
		drawer:   NewDrawer(opts.RollRng),
		roll:     opts.Roll.withDefaults(),
		listener: opts.Listener,
	}
}

// Close stops any draw in progress. The interrupted draw records nothing.
func (e *Event) Close() {
	e.drawer.Stop()
}

// ImportNames replaces the participant list.
func (e *Event) ImportNames(names []string) []Participant {
	participants := NewParticipants(names)

	e.mu.Lock()
	e.participants = participants
	e.mu.Unlock()

	e.notifyRoster(participants)
	return participants
}

func (e *Event) UseDemo() []Participant {
	return e.ImportNames(DemoNames)
}

// RemoveDuplicates drops repeated names from the participant list and returns
// how many entries were removed.
func (e *Event) RemoveDuplicates() int {
	e.mu.Lock()
	before := len(e.participants)
	e.participants = RemoveDuplicates(e.participants)
	participants := e.participants
	e.mu.Unlock()

	e.notifyRoster(participants)
	return before - len(participants)
}

func (e *Event) Participants() []Participant {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Participant(nil), e.participants...)
}

func (e *Event) Duplicates() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Duplicates(e.participants)
}

// StartDraw picks the winner for prize and starts the rolling animation. The
// winner is revealed and recorded once the animation has run its course.
func (e *Event) StartDraw(prize string, allow_duplicate_winners bool) error {
	if prize == "" {
		prize = DefaultPrize
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.participants) == 0 {
		return ErrEmptyParticipants
	}
	if e.drawing {
		return ErrDrawInProgress
	}

	eligible := ComputeEligible(e.participants, e.history, allow_duplicate_winners)
	if len(eligible) == 0 {
		return ErrNoEligibleWinners
	}

	winner := SelectWinner(e.rng, eligible)
	pool := append([]Participant(nil), e.participants...)

	err := e.drawer.Start(pool, e.roll, e.tick, func(completed bool) {
		e.finishDraw(prize, winner, completed)
	})
	if err != nil {
		return err
	}

	e.drawing = true
	e.winner = nil
	return nil
}

func (e *Event) tick(p Participant) {
	e.mu.Lock()
	e.rolling = p.Name
	e.mu.Unlock()

	if e.listener != nil {
		e.listener.Rolling(p.Name)
	}
}

func (e *Event) finishDraw(prize string, winner Participant, completed bool) {
	e.mu.Lock()
	e.drawing = false
	e.rolling = ""
	if !completed {
		e.mu.Unlock()
		return
	}

	record := WinnerRecord{Prize: prize, Name: winner.Name}
	e.history = append([]WinnerRecord{record}, e.history...)
	e.winner = &winner
	e.mu.Unlock()

	if e.listener != nil {
		e.listener.DrawFinished(record)
	}
}

// ResetHistory forgets every past winner.
func (e *Event) ResetHistory() {
	e.mu.Lock()
	e.history = nil
	e.winner = nil
	e.mu.Unlock()

	if e.listener != nil {
		e.listener.HistoryChanged([]WinnerRecord{})
	}
}

// History is newest first.
func (e *Event) History() []WinnerRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]WinnerRecord(nil), e.history...)
}

func (e *Event) DrawStatus() DrawStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	status := DrawStatus{
		Drawing: e.drawing,
		Rolling: e.rolling,
		History: append([]WinnerRecord(nil), e.history...),
	}
	if e.winner != nil {
		w := *e.winner
		status.Winner = &w
	}
	return status
}

// GenerateGroups replaces the current groups with a fresh random split.
func (e *Event) GenerateGroups(mode GroupMode, value int) ([]Group, error) {
	var groups []Group
	err := e.transact(func() error {
		g, err := GenerateGroups(e.rng, e.participants, mode, value)
		if err != nil {
			return err
		}
		e.groups = g
		groups = g
		return nil
	})
	if err != nil {
		return nil, err
	}

	if e.listener != nil {
		e.listener.GroupsChanged(groups)
	}
	return groups, nil
}

func (e *Event) Groups() []Group {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Group(nil), e.groups...)
}

func (e *Event) notifyRoster(participants []Participant) {
	if e.listener != nil {
		e.listener.RosterChanged(participants)
	}
}
