package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
)

func TestIsRegistered(t *testing.T) {
	regs := []model.Registration{{UserID: "U1"}, {UserID: "U2"}}

	assert.True(t, IsRegistered(regs, "U1"))
	assert.False(t, IsRegistered(regs, "U3"))
	assert.False(t, IsRegistered(regs, ""))
	assert.False(t, IsRegistered(nil, "U1"))
}

func TestParticipantsCount(t *testing.T) {
	assert.Equal(t, 0, ParticipantsCount(nil))
	assert.Equal(t, 2, ParticipantsCount([]model.Registration{{ID: "a"}, {ID: "b"}}))
}

func TestRegistrationsForEvent(t *testing.T) {
	regs := []model.Registration{
		{ID: "r1", EventID: "E1"},
		{ID: "r2", EventID: "E2"},
		{ID: "r3", EventID: "E1"},
	}

	got := RegistrationsForEvent(regs, "E1")
	require.Len(t, got, 2)
	assert.Equal(t, "r1", got[0].ID)
	assert.Equal(t, "r3", got[1].ID)
	assert.Empty(t, RegistrationsForEvent(regs, "E9"))
}

func TestFilterEvents(t *testing.T) {
	events := []model.Event{
		{ID: "1", City: "Bogotá", Date: "2025-12-05T18:00:00Z"},
		{ID: "2", City: "Cali", Date: "2025-01-01T00:00:00Z"},
	}

	t.Run("city is case-insensitive", func(t *testing.T) {
		got := FilterEvents(events, "bogotá", "")
		require.Len(t, got, 1)
		assert.Equal(t, "1", got[0].ID)
	})

	t.Run("date is a prefix", func(t *testing.T) {
		got := FilterEvents(events, "", "2025-12-05")
		require.Len(t, got, 1)
		assert.Equal(t, "1", got[0].ID)
	})

	t.Run("empty filters keep order", func(t *testing.T) {
		got := FilterEvents(events, "", "")
		assert.Equal(t, events, got)
	})

	t.Run("both filters must match", func(t *testing.T) {
		assert.Empty(t, FilterEvents(events, "Cali", "2025-12-05"))
	})

	t.Run("city is exact, not substring", func(t *testing.T) {
		assert.Empty(t, FilterEvents(events, "Bog", ""))
	})

	t.Run("offset timestamps do not match", func(t *testing.T) {
		shifted := []model.Event{{ID: "3", City: "Cali", Date: "2025-12-04T23:00:00-05:00"}}
		assert.Empty(t, FilterEvents(shifted, "", "2025-12-05"))
	})
}

func TestJoinedEvents(t *testing.T) {
	events := []model.Event{{ID: "E1"}, {ID: "E2"}, {ID: "E3"}}

	got := JoinedEvents(events, []model.Registration{{EventID: "E2"}})
	assert.Equal(t, []model.Event{{ID: "E2"}}, got)

	got = JoinedEvents(events, []model.Registration{{EventID: "E3"}, {EventID: "E1"}, {EventID: "E3"}})
	assert.Equal(t, []model.Event{{ID: "E1"}, {ID: "E3"}}, got)

	assert.Empty(t, JoinedEvents(events, nil))
}

func TestAnnotateEvents(t *testing.T) {
	events := []model.Event{{ID: "E1"}, {ID: "E2"}}
	regs := []model.Registration{{EventID: "E2"}, {EventID: "E2"}, {EventID: "E9"}}

	got := AnnotateEvents(events, regs)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].ParticipantsCount)
	assert.Equal(t, 2, got[1].ParticipantsCount)
}

func TestPrependDoesNotAlias(t *testing.T) {
	in := make([]model.Event, 2, 8)
	in[0] = model.Event{ID: "E2"}
	in[1] = model.Event{ID: "E3"}

	got := Prepend(in, model.Event{ID: "Enew"})

	assert.Equal(t, []model.Event{{ID: "Enew"}, {ID: "E2"}, {ID: "E3"}}, got)
	assert.Equal(t, []model.Event{{ID: "E2"}, {ID: "E3"}}, in)

	got[1].ID = "changed"
	assert.Equal(t, "E2", in[0].ID)
}

func TestAppendDoesNotAlias(t *testing.T) {
	in := make([]model.Comment, 1, 8)
	in[0] = model.Comment{ID: "c1"}

	a := Append(in, model.Comment{ID: "c2"})
	b := Append(in, model.Comment{ID: "c3"})

	assert.Equal(t, "c2", a[1].ID)
	assert.Equal(t, "c3", b[1].ID)
	assert.Len(t, in, 1)
}
