package generator

import (
	"sync"
	"testing"
	"time"

	"github.com/alovak/cardgen-playground/generator/models"
	"github.com/stretchr/testify/require"
)

func rec(number string) models.Record {
	return models.Record{Number: number, Month: "01", Year: "30", CVV: "123"}
}

func TestSession_SaveListClear(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	s := NewSession("s1", []byte("k"), now)

	saved := s.Save([]models.Record{rec("4532015112830366"), rec("4000000000000002")}, now)
	require.Len(t, saved, 2)
	require.NotEmpty(t, saved[0].ID)
	require.NotEqual(t, saved[0].ID, saved[1].ID)
	require.Equal(t, "4532015112830366|01|30|123", saved[0].Line)

	s.Save([]models.Record{rec("5555555555554444")}, now.Add(time.Minute))
	require.Equal(t, 3, s.Len())

	last := s.List(2)
	require.Len(t, last, 2)
	require.Equal(t, "4000000000000002", last[0].Record.Number)
	require.Equal(t, "5555555555554444", last[1].Record.Number)
	require.Len(t, s.List(0), 3)
	require.Len(t, s.List(10), 3)

	// callers get a copy of the slice
	all := s.All()
	all[0] = nil
	require.NotNil(t, s.All()[0])

	s.Clear()
	require.Zero(t, s.Len())
	require.Equal(t, models.Stats{}, s.Stats())
}

func TestSession_Stats(t *testing.T) {
	now := time.Now()
	s := NewSession("s1", []byte("k"), now)
	s.Save([]models.Record{
		rec("4111111111111111"),
		rec("5555555555554444"),
		rec("5555555555554444"),
		rec("4111111111111111"),
		rec("3782822463"),
	}, now)

	st := s.Stats()
	require.Equal(t, 5, st.Total)
	require.Equal(t, 3, st.Unique)
	// 411111 and 555555 tie at 2; the first seen wins
	require.Equal(t, "411111", st.TopBIN)
	require.Equal(t, 2, st.TopBINCount)

	s.Save([]models.Record{rec("5555554444333322")}, now)
	st = s.Stats()
	require.Equal(t, "555555", st.TopBIN)
	require.Equal(t, 3, st.TopBINCount)
}

func TestSession_StatsTieGoesToFirstSeen(t *testing.T) {
	now := time.Now()
	s := NewSession("s1", []byte("k"), now)
	// 555555 reaches two first, but 411111 appeared first
	s.Save([]models.Record{
		rec("4111111111111111"),
		rec("5555555555554444"),
		rec("5555555555554444"),
		rec("4111111111111111"),
	}, now)

	st := s.Stats()
	require.Equal(t, "411111", st.TopBIN)
	require.Equal(t, 2, st.TopBINCount)
	require.Equal(t, 2, st.Unique)
}

func TestSession_ConcurrentSave(t *testing.T) {
	s := NewSession("s1", []byte("k"), time.Now())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Save([]models.Record{rec("4111111111111111")}, time.Now())
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 400, s.Len())
	require.Equal(t, 1, s.Stats().Unique)
}

func TestSessionStore(t *testing.T) {
	store := NewSessionStore([]byte("k"))
	a := store.Create(time.Now())
	b := store.Create(time.Now())
	require.NotEqual(t, a.ID, b.ID)
	require.Equal(t, 2, store.Len())

	got, err := store.Get(a.ID)
	require.NoError(t, err)
	require.Same(t, a, got)

	// sessions do not share saved cards
	a.Save([]models.Record{rec("4111111111111111")}, time.Now())
	require.Zero(t, b.Len())

	require.NoError(t, store.Delete(a.ID))
	_, err = store.Get(a.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, store.Delete(a.ID), ErrNotFound)
}
