// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"sync"
)

// MockStore is an in-memory Store implementation for testing. It mirrors
// the guard semantics of SQLiteStore, including membership rows kept in
// insertion order with duplicates.
type MockStore struct {
	mu         sync.RWMutex
	users      map[string]string // keyed by username -> password
	chats      map[int64]string  // keyed by chat id -> owner
	members    []ChatMember      // membership rows in insertion order
	userTable  bool
	chatTables bool
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		users: make(map[string]string),
		chats: make(map[int64]string),
	}
}

// CreateUserTable marks the user table as created.
func (m *MockStore) CreateUserTable(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.userTable {
		return ErrTableExists
	}
	m.userTable = true
	return nil
}

// CreateChatTables marks the chat tables as created.
func (m *MockStore) CreateChatTables(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.chatTables {
		return ErrTableExists
	}
	m.chatTables = true
	return nil
}

// CreateUser registers a new user.
func (m *MockStore) CreateUser(ctx context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.Username]; ok {
		return ErrUserExists
	}
	m.users[user.Username] = user.Password
	return nil
}

// UserExists reports whether the username is registered.
func (m *MockStore) UserExists(ctx context.Context, username string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.users[username]
	return ok, nil
}

// VerifyCredentials checks a username/password pair.
func (m *MockStore) VerifyCredentials(ctx context.Context, username, password string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.users[username]
	if !ok {
		return false, ErrUserNotFound
	}
	return stored == password, nil
}

// CreateChat creates a chat and its membership rows.
func (m *MockStore) CreateChat(ctx context.Context, chat *Chat, members []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.chats[chat.ID]; ok {
		return ErrChatExists
	}
	if _, ok := m.users[chat.Owner]; !ok {
		return ErrUserNotFound
	}

	m.chats[chat.ID] = chat.Owner
	for _, member := range members {
		m.members = append(m.members, ChatMember{ChatID: chat.ID, Username: member})
	}
	return nil
}

// DeleteChat deletes a chat and its membership rows, owner-gated.
func (m *MockStore) DeleteChat(ctx context.Context, chatID int64, requester string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	owner, ok := m.chats[chatID]
	if !ok {
		return ErrChatNotFound
	}
	if requester != owner {
		return ErrNotChatOwner
	}

	delete(m.chats, chatID)

	kept := m.members[:0]
	for _, row := range m.members {
		if row.ChatID != chatID {
			kept = append(kept, row)
		}
	}
	m.members = kept
	return nil
}

// ChatExists reports whether the chat id is taken.
func (m *MockStore) ChatExists(ctx context.Context, chatID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.chats[chatID]
	return ok, nil
}

// GetChatOwner returns the chat's owner.
func (m *MockStore) GetChatOwner(ctx context.Context, chatID int64) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	owner, ok := m.chats[chatID]
	if !ok {
		return "", ErrChatNotFound
	}
	return owner, nil
}

// ListChatMembers returns the chat's members in insertion order.
func (m *MockStore) ListChatMembers(ctx context.Context, chatID int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.chats[chatID]; !ok {
		return []string{}, nil
	}
	return m.chatMembersLocked(chatID), nil
}

// ListUserChats returns the ids of the chats the user is in.
func (m *MockStore) ListUserChats(ctx context.Context, username string) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.users[username]; !ok {
		return []int64{}, nil
	}
	return m.userChatsLocked(username), nil
}

// UsersShareChat reports whether two users share at least one chat.
func (m *MockStore) UsersShareChat(ctx context.Context, userA, userB string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.userChatsLocked(userA) {
		for _, b := range m.userChatsLocked(userB) {
			if a == b {
				return true, nil
			}
		}
	}
	return false, nil
}

// ListUserChatPeers returns the other members of every chat the user is in.
func (m *MockStore) ListUserChatPeers(ctx context.Context, username string) ([]ChatMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	peers := []ChatMember{}
	if _, ok := m.users[username]; !ok {
		return peers, nil
	}
	for _, chatID := range m.userChatsLocked(username) {
		for _, member := range m.chatMembersLocked(chatID) {
			if member == username {
				continue
			}
			peers = append(peers, ChatMember{ChatID: chatID, Username: member})
		}
	}
	return peers, nil
}

// Close is a no-op for the mock.
func (m *MockStore) Close() error {
	return nil
}

// chatMembersLocked collects the usernames for a chat. Callers must hold
// the lock.
func (m *MockStore) chatMembersLocked(chatID int64) []string {
	members := []string{}
	for _, row := range m.members {
		if row.ChatID == chatID {
			members = append(members, row.Username)
		}
	}
	return members
}

// userChatsLocked collects the chat ids for a user. Callers must hold
// the lock.
func (m *MockStore) userChatsLocked(username string) []int64 {
	chatIDs := []int64{}
	for _, row := range m.members {
		if row.Username == username {
			chatIDs = append(chatIDs, row.ChatID)
		}
	}
	return chatIDs
}

// Ensure MockStore implements Store interface
var _ Store = (*MockStore)(nil)
