package store

import (
	"sync"
	"time"

	"github.com/cppla/riqqa/models"
)

// Listener receives the state as it was right after a mutation.
type Listener func(models.AppState)

// Store is the single owner of AppState. Mutations are serialized by mu and
// never fail; reading a post that does not exist is a silent no-op.
type Store struct {
	mu        sync.Mutex
	state     models.AppState
	listeners map[uint64]Listener
	nextID    uint64

	// queue holds notifications not yet delivered, in version order. Only the
	// goroutine that set draining delivers them.
	queue    []notification
	draining bool
}

type notification struct {
	snap      models.AppState
	listeners []Listener
}

// New returns a store holding the initial state.
func New() *Store {
	return &Store{
		state:     models.NewAppState(),
		listeners: map[uint64]Listener{},
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// update applies fn under the lock, bumps the version when fn reports a
// change, and notifies listeners outside the lock. Snapshots are delivered
// in version order: when another goroutine is already delivering, the
// snapshot is queued and handed to listeners by that goroutine. A mutation
// made from inside a listener is delivered after the current snapshot.
func (s *Store) update(fn func(st *models.AppState) bool) {
	s.mu.Lock()
	if !fn(&s.state) {
		s.mu.Unlock()
		return
	}
	s.state.Version++
	n := notification{snap: s.state.Clone(), listeners: make([]Listener, 0, len(s.listeners))}
	for _, l := range s.listeners {
		n.listeners = append(n.listeners, l)
	}
	s.queue = append(s.queue, n)
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()

	s.drain()
}

func (s *Store) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.queue = nil
			s.mu.Unlock()
			return
		}
		n := s.queue[0]
		s.queue[0] = notification{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		for _, l := range n.listeners {
			l(n.snap)
		}
	}
}

func (s *Store) SetAdmin(flag bool) {
	s.update(func(st *models.AppState) bool {
		st.IsAdmin = flag
		return true
	})
}

// SetPosts replaces the post list wholesale.
func (s *Store) SetPosts(posts []models.Post) {
	cp := make([]models.Post, len(posts))
	copy(cp, posts)
	s.update(func(st *models.AppState) bool {
		st.Posts = cp
		return true
	})
}

// AddPost appends post to the list.
func (s *Store) AddPost(post models.Post) {
	s.update(func(st *models.AppState) bool {
		st.Posts = append(st.Posts, post)
		return true
	})
}

func (s *Store) DeletePost(id string) {
	s.update(func(st *models.AppState) bool {
		for i := range st.Posts {
			if st.Posts[i].ID == id {
				st.Posts = append(st.Posts[:i:i], st.Posts[i+1:]...)
				return true
			}
		}
		return false
	})
}

// LikePost increments the counter of the matching post by one.
func (s *Store) LikePost(id string) {
	s.update(func(st *models.AppState) bool {
		for i := range st.Posts {
			if st.Posts[i].ID == id {
				st.Posts[i].Likes++
				return true
			}
		}
		return false
	})
}

// SetPostLikes overwrites the counter with an authoritative value. Negative
// values are stored as zero. Writing the value already held is a no-op.
func (s *Store) SetPostLikes(id string, likes int) {
	if likes < 0 {
		likes = 0
	}
	s.update(func(st *models.AppState) bool {
		for i := range st.Posts {
			if st.Posts[i].ID == id {
				if st.Posts[i].Likes == likes {
					return false
				}
				st.Posts[i].Likes = likes
				return true
			}
		}
		return false
	})
}

// AddComment appends c to the comment list.
func (s *Store) AddComment(c models.Comment) {
	s.update(func(st *models.AppState) bool {
		st.Comments = append(st.Comments, c)
		return true
	})
}

// UpdateHealthData shallow-merges patch into the health record.
func (s *Store) UpdateHealthData(patch models.HealthPatch) {
	s.update(func(st *models.AppState) bool {
		st.HealthData = st.HealthData.Merge(patch)
		return true
	})
}

// RecordFeeding sets the last feeding time and increments the feeding count
// in one step.
func (s *Store) RecordFeeding(at time.Time) {
	s.update(func(st *models.AppState) bool {
		st.HealthData = st.HealthData.Merge(models.HealthPatch{LastFeedingTime: &at})
		st.HealthData.FeedingCount++
		return true
	})
}

func (s *Store) SetLoading(flag bool) {
	s.update(func(st *models.AppState) bool {
		st.IsLoading = flag
		return true
	})
}
