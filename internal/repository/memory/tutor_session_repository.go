package memory

import (
	"sync"
	"time"

	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/pkg/llm"

	"github.com/patrickmn/go-cache"
)

type TutorSessionRepository struct {
	cache *cache.Cache
	mu    sync.Mutex
}

// NewTutorSessionRepository keeps sessions for an hour, sweeping every ten
// minutes.
func NewTutorSessionRepository() *TutorSessionRepository {
	return &TutorSessionRepository{
		cache: cache.New(1*time.Hour, 10*time.Minute),
	}
}

func (r *TutorSessionRepository) Save(session *entity.TutorSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Set(session.Id, session, cache.DefaultExpiration)
}

// Get returns a copy; writes go through Update.
func (r *TutorSessionRepository) Get(sessionId string) (*entity.TutorSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.get(sessionId)
	if !ok {
		return nil, false
	}
	snapshot := *session
	snapshot.History = append([]llm.Message(nil), session.History...)
	return &snapshot, true
}

func (r *TutorSessionRepository) get(sessionId string) (*entity.TutorSession, bool) {
	if x, found := r.cache.Get(sessionId); found {
		return x.(*entity.TutorSession), true
	}
	return nil, false
}

// Update runs fn on the stored session under the lock and refreshes its TTL.
func (r *TutorSessionRepository) Update(sessionId string, fn func(*entity.TutorSession) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.get(sessionId)
	if !ok {
		return ErrSessionNotFound
	}
	if err := fn(session); err != nil {
		return err
	}
	r.cache.Set(session.Id, session, cache.DefaultExpiration)
	return nil
}

func (r *TutorSessionRepository) Delete(sessionId string) {
	r.cache.Delete(sessionId)
}
