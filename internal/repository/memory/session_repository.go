package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"smart-hire-be/pkg/store"
)

// Sessions are conversation state only; losing one on expiry means the user
// starts a fresh dialogue, never data loss.
const (
	sessionTTL    = 1 * time.Hour
	purgeInterval = 10 * time.Minute
)

type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		cache: cache.New(sessionTTL, purgeInterval),
	}
}

// Save stores the session and refreshes its TTL.
func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
