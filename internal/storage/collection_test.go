package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"visadesk/pkg/platform/sentinel"
)

type note struct {
	ID   int
	Text string
	Tags []string
}

func (n note) Key() int { return n.ID }

func (n note) WithKey(id int) note {
	n.ID = id
	return n
}

func (n note) Clone() note {
	n.Tags = append([]string(nil), n.Tags...)
	return n
}

type CollectionSuite struct {
	suite.Suite
	store *Collection[note]
	ctx   context.Context
}

func (s *CollectionSuite) SetupTest() {
	s.store = NewCollection[note]()
	s.ctx = context.Background()
}

func TestCollectionSuite(t *testing.T) {
	suite.Run(t, new(CollectionSuite))
}

func (s *CollectionSuite) TestIDs() {
	s.Run("first id is 1 on an empty collection", func() {
		created, err := s.store.Create(s.ctx, note{Text: "a"})
		s.Require().NoError(err)
		s.Equal(1, created.ID)
	})

	s.Run("next id is max existing plus one after seeding", func() {
		s.store.Seed(note{ID: 7, Text: "seeded"})
		created, err := s.store.Create(s.ctx, note{Text: "b"})
		s.Require().NoError(err)
		s.Equal(8, created.ID)
	})

	s.Run("ids are not reused after deleting the highest", func() {
		_, err := s.store.Delete(s.ctx, 8)
		s.Require().NoError(err)
		created, err := s.store.Create(s.ctx, note{Text: "c"})
		s.Require().NoError(err)
		s.Equal(9, created.ID)
	})

	s.Run("caller supplied id is ignored", func() {
		created, err := s.store.Create(s.ctx, note{ID: 500, Text: "d"})
		s.Require().NoError(err)
		s.Equal(10, created.ID)
	})
}

func (s *CollectionSuite) TestNotFound() {
	_, err := s.store.Get(s.ctx, 42)
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.Update(s.ctx, 42, func(n note) (note, error) { return n, nil })
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.Delete(s.ctx, 42)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *CollectionSuite) TestCopySemantics() {
	created, err := s.store.Create(s.ctx, note{Text: "a", Tags: []string{"x"}})
	s.Require().NoError(err)

	created.Tags[0] = "mutated"
	got, err := s.store.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal([]string{"x"}, got.Tags)

	got.Tags[0] = "mutated again"
	list, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"x"}, list[0].Tags)
}

func (s *CollectionSuite) TestUpdate() {
	created, err := s.store.Create(s.ctx, note{Text: "a"})
	s.Require().NoError(err)

	s.Run("applies mutation and keeps id", func() {
		updated, err := s.store.Update(s.ctx, created.ID, func(n note) (note, error) {
			n.Text = "b"
			n.ID = 99
			return n, nil
		})
		s.Require().NoError(err)
		s.Equal(created.ID, updated.ID)
		s.Equal("b", updated.Text)
	})

	s.Run("mutation error leaves record unchanged", func() {
		boom := errors.New("boom")
		_, err := s.store.Update(s.ctx, created.ID, func(n note) (note, error) {
			n.Text = "c"
			return n, boom
		})
		s.ErrorIs(err, boom)
		got, err := s.store.Get(s.ctx, created.ID)
		s.Require().NoError(err)
		s.Equal("b", got.Text)
	})
}

func (s *CollectionSuite) TestListAndFilterOrderedByID() {
	s.store.Seed(note{ID: 3, Text: "c"}, note{ID: 1, Text: "a"}, note{ID: 2, Text: "b"})

	all, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal([]int{1, 2, 3}, []int{all[0].ID, all[1].ID, all[2].ID})

	odd, err := s.store.Filter(s.ctx, func(n note) bool { return n.ID%2 == 1 })
	s.Require().NoError(err)
	s.Len(odd, 2)
}

func (s *CollectionSuite) TestDeleteReturnsRecord() {
	created, err := s.store.Create(s.ctx, note{Text: "gone"})
	s.Require().NoError(err)
	deleted, err := s.store.Delete(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("gone", deleted.Text)
	s.Zero(s.store.Len())
}

func (s *CollectionSuite) TestLatencyHonoursContext() {
	slow := NewCollection[note](WithLatency(Latency{List: time.Hour}))
	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Millisecond)
	defer cancel()

	_, err := slow.List(ctx)
	s.ErrorIs(err, context.DeadlineExceeded)
}

func (s *CollectionSuite) TestLatencyIsApplied() {
	slow := NewCollection[note](WithLatency(Latency{Get: 30 * time.Millisecond}))
	slow.Seed(note{ID: 1})
	start := time.Now()
	_, err := slow.Get(s.ctx, 1)
	s.Require().NoError(err)
	s.GreaterOrEqual(time.Since(start), 30*time.Millisecond)
}

func (s *CollectionSuite) TestConcurrentCreatesGetDistinctIDs() {
	const n = 50
	var wg sync.WaitGroup
	ids := make(chan int, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := s.store.Create(s.ctx, note{})
			s.NoError(err)
			ids <- created.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int]bool{}
	for id := range ids {
		s.False(seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	s.Len(seen, n)
}

func TestLatencyScale(t *testing.T) {
	l := Latency{List: 400 * time.Millisecond, Create: 600 * time.Millisecond}.Scale(0.5)
	if l.List != 200*time.Millisecond || l.Create != 300*time.Millisecond {
		t.Fatalf("unexpected scaled latency: %+v", l)
	}
}
