package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thewug/eventmaster/store"
)

func TestNewParticipants(t *testing.T) {
	ps := store.NewParticipants([]string{"  王小明 ", "", "   ", "李大華", "王小明"})

	require.Len(t, ps, 3)
	assert.Equal(t, "王小明", ps[0].Name)
	assert.Equal(t, "李大華", ps[1].Name)
	assert.Equal(t, "王小明", ps[2].Name)

	ids := map[string]bool{}
	for _, p := range ps {
		assert.NotEmpty(t, p.Id)
		ids[p.Id] = true
	}
	assert.Len(t, ids, 3, "same name must still get its own id")
}

func TestDuplicates(t *testing.T) {
	ps := store.NewParticipants([]string{"B", "A", "B", "C", "A", "B"})
	assert.Equal(t, []string{"B", "A"}, store.Duplicates(ps))

	assert.Empty(t, store.Duplicates(store.NewParticipants([]string{"A", "B"})))
	assert.Empty(t, store.Duplicates(nil))
}

func TestRemoveDuplicates_KeepsFirst(t *testing.T) {
	ps := store.NewParticipants([]string{"A", "B", "A", "C", "B"})
	unique := store.RemoveDuplicates(ps)

	require.Len(t, unique, 3)
	assert.Equal(t, ps[0], unique[0])
	assert.Equal(t, ps[1], unique[1])
	assert.Equal(t, ps[3], unique[2])
}

func TestDemoNames(t *testing.T) {
	ps := store.NewParticipants(store.DemoNames)
	assert.Len(t, ps, 20)
	assert.Equal(t, []string{"陳小明", "林美惠"}, store.Duplicates(ps))
	assert.Len(t, store.RemoveDuplicates(ps), 18)
}
