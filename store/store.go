package store

import (
	"errors"
)

var (
	ErrEmptyParticipants = errors.New("no participants to draw from")
	ErrNoEligibleWinners = errors.New("all participants have already won")
	ErrDrawInProgress    = errors.New("a draw is already in progress")
	ErrNoGroups          = errors.New("no groups have been generated")
	ErrInvalidNames      = errors.New("name list could not be parsed")
)

type Participant struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type WinnerRecord struct {
	Prize string `json:"prize"`
	Name  string `json:"name"`
}

type Group struct {
	Index     int           `json:"index"`
	GroupName string        `json:"group_name"`
	Members   []Participant `json:"members"`
}

// snapshot is the part of an Event that transact restores when a mutation fails.
type snapshot struct {
	participants []Participant
	history      []WinnerRecord
	groups       []Group
}

func (e *Event) save() snapshot {
	return snapshot{
		participants: e.participants,
		history:      e.history,
		groups:       e.groups,
	}
}

func (e *Event) restore(s snapshot) {
	e.participants = s.participants
	e.history = s.history
	e.groups = s.groups
}

// transact runs db_func while holding the event lock. If db_func returns an
// error the participant list, history and groups are put back the way they
// were and the error is returned unchanged.
//
// db_func must replace slices rather than write through them, the snapshot
// only keeps the old slice headers.
func (e *Event) transact(db_func func() error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	saved := e.save()

	err := db_func()
	if err != nil {
		e.restore(saved)
		return err
	}

	return nil
}
