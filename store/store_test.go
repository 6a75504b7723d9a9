package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransact_RollsBackOnError(t *testing.T) {
	e := &Event{}
	e.participants = NewParticipants([]string{"A", "B"})
	e.history = []WinnerRecord{{Prize: "獎", Name: "A"}}
	before := e.save()
	boom := errors.New("boom")

	err := e.transact(func() error {
		e.participants = nil
		e.history = append([]WinnerRecord{{Prize: "獎", Name: "B"}}, e.history...)
		e.groups = []Group{{Index: 1}}
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, before.participants, e.participants)
	assert.Equal(t, before.history, e.history)
	assert.Nil(t, e.groups)
}

func TestTransact_KeepsChanges(t *testing.T) {
	e := &Event{}

	err := e.transact(func() error {
		e.participants = NewParticipants([]string{"A"})
		return nil
	})

	require.NoError(t, err)
	assert.Len(t, e.participants, 1)
}
