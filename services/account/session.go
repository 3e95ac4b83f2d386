package account

import (
	"context"
	"encoding/json"
	"sync"

	"travelagency/models"
	"travelagency/utils"

	"go.uber.org/zap"
)

// KeyValue is the persistent store sessions are written to.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// SessionEvent reports a sign-in (User set) or sign-out (User nil).
type SessionEvent struct {
	UserID string
	User   *models.User
}

// Session is the signed-in-user context. The account service is its only
// writer; other components read it or subscribe to changes.
type Session struct {
	mu      sync.RWMutex
	store   KeyValue
	current map[string]models.User
	subs    map[int]func(SessionEvent)
	nextSub int
}

func NewSession(store KeyValue) *Session {
	return &Session{store: store, current: map[string]models.User{}, subs: map[int]func(SessionEvent){}}
}

func sessionKey(userID string) string {
	return utils.SessionKey + ":" + userID
}

// Subscribe registers fn for session changes and returns a cancel function.
func (s *Session) Subscribe(fn func(SessionEvent)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Current returns the signed-in profile for userID, restoring it from the
// persistent store after a restart.
func (s *Session) Current(ctx context.Context, userID string) (*models.User, bool) {
	s.mu.RLock()
	u, ok := s.current[userID]
	s.mu.RUnlock()
	if ok {
		return &u, true
	}
	if s.store == nil {
		return nil, false
	}

	raw, found, err := s.store.Get(ctx, sessionKey(userID))
	if err != nil || !found {
		return nil, false
	}
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		utils.GetLogger().Warn("Discarding unreadable session", zap.String("user", userID), zap.Error(err))
		return nil, false
	}
	s.mu.Lock()
	s.current[userID] = u
	s.mu.Unlock()
	return &u, true
}

func (s *Session) set(ctx context.Context, u models.User) {
	u = u.Public()
	s.mu.Lock()
	s.current[u.ID] = u
	s.mu.Unlock()

	if s.store != nil {
		data, err := json.Marshal(u)
		if err == nil {
			err = s.store.Set(ctx, sessionKey(u.ID), string(data))
		}
		if err != nil {
			utils.GetLogger().Warn("Failed to persist session", zap.String("user", u.ID), zap.Error(err))
		}
	}
	s.notify(SessionEvent{UserID: u.ID, User: &u})
}

// refresh updates a signed-in profile without notifying when nobody is signed in as it.
func (s *Session) refresh(ctx context.Context, u models.User) {
	s.mu.RLock()
	_, ok := s.current[u.ID]
	s.mu.RUnlock()
	if ok {
		s.set(ctx, u)
	}
}

func (s *Session) clear(ctx context.Context, userID string) {
	s.mu.Lock()
	delete(s.current, userID)
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Remove(ctx, sessionKey(userID)); err != nil {
			utils.GetLogger().Warn("Failed to remove session", zap.String("user", userID), zap.Error(err))
		}
	}
	s.notify(SessionEvent{UserID: userID})
}

func (s *Session) notify(ev SessionEvent) {
	s.mu.RLock()
	fns := make([]func(SessionEvent), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(ev)
	}
}
