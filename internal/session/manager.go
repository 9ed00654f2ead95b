package session

import (
	"context"
	"sync"
)

// Manager owns one session per chat. Events for the same chat serialize on
// the session lock; different chats proceed in parallel. Abandoned sessions
// keep their accumulated input until a cancel, completion or restart; there
// is deliberately no timer-based expiry.
type Manager struct {
	machine *Machine

	mu       sync.Mutex
	sessions map[int64]*managedSession
}

type managedSession struct {
	mu   sync.Mutex
	sess Session
}

func NewManager(machine *Machine) *Manager {
	return &Manager{machine: machine, sessions: map[int64]*managedSession{}}
}

// Dispatch routes one event into the chat's session and returns the prompt
// to render.
func (mgr *Manager) Dispatch(ctx context.Context, chatID int64, ev Event) (Prompt, error) {
	ms := mgr.session(chatID)
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return mgr.machine.Handle(ctx, &ms.sess, ev)
}

// Reset forces the chat's session back to idle, discarding accumulated
// input. Used by the /start command.
func (mgr *Manager) Reset(chatID int64) {
	ms := mgr.session(chatID)
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sess.reset()
}

func (mgr *Manager) session(chatID int64) *managedSession {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	ms, ok := mgr.sessions[chatID]
	if !ok {
		ms = &managedSession{sess: Session{ChatID: chatID}}
		mgr.sessions[chatID] = ms
	}
	return ms
}
