package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a temporary SQLite store with the schema in place.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "chat.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
	})

	ctx := context.Background()
	require.NoError(t, store.CreateUserTable(ctx))
	require.NoError(t, store.CreateChatTables(ctx))

	return store
}

// TestStore_ChatLifecycleScenario walks the full flow: register users,
// create chats, query memberships, and tear a chat down again.
func TestStore_ChatLifecycleScenario(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	users := []User{
		{Username: "Bob", Password: "password1"},
		{Username: "Fred", Password: "password2"},
		{Username: "Harry", Password: "password3"},
		{Username: "Rick", Password: "password4"},
	}
	for i := range users {
		require.NoError(t, store.CreateUser(ctx, &users[i]))
	}

	// Credentials
	ok, err := store.VerifyCredentials(ctx, "Bob", "password1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.VerifyCredentials(ctx, "Bob", "password2")
	require.NoError(t, err)
	assert.False(t, ok)

	// A chat owned by an unregistered user is rejected
	err = store.CreateChat(ctx, &Chat{ID: 1, Owner: "Nick"}, []string{"Bob", "Fred"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	// Two chats: Bob's with three members, Harry's with two
	err = store.CreateChat(ctx, &Chat{ID: 1, Owner: "Bob"}, []string{"Bob", "Fred", "Harry"})
	require.NoError(t, err)
	err = store.CreateChat(ctx, &Chat{ID: 2, Owner: "Harry"}, []string{"Fred", "Harry"})
	require.NoError(t, err)

	owner, err := store.GetChatOwner(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Bob", owner)

	_, err = store.GetChatOwner(ctx, 9)
	assert.ErrorIs(t, err, ErrChatNotFound)

	members, err := store.ListChatMembers(ctx, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Bob", "Fred", "Harry"}, members)

	chats, err := store.ListUserChats(ctx, "Fred")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, chats)

	chats, err = store.ListUserChats(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, chats)

	shared, err := store.UsersShareChat(ctx, "Bob", "Harry")
	require.NoError(t, err)
	assert.True(t, shared)

	shared, err = store.UsersShareChat(ctx, "Bob", "Rick")
	require.NoError(t, err)
	assert.False(t, shared)

	peers, err := store.ListUserChatPeers(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, "1,Fred,1,Harry", FormatPeerList(peers))

	// Only the owner can remove the chat
	err = store.DeleteChat(ctx, 1, "Harry")
	assert.ErrorIs(t, err, ErrNotChatOwner)

	err = store.DeleteChat(ctx, 1, "Bob")
	require.NoError(t, err)

	exists, err := store.ChatExists(ctx, 1)
	require.NoError(t, err)
	assert.False(t, exists)

	chats, err = store.ListUserChats(ctx, "Bob")
	require.NoError(t, err)
	assert.Empty(t, chats)

	shared, err = store.UsersShareChat(ctx, "Bob", "Harry")
	require.NoError(t, err)
	assert.False(t, shared)

	// Harry's chat is untouched
	members, err = store.ListChatMembers(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fred", "Harry"}, members)
}

// TestStore_SetupOrder pins the table creation dependency: userinfo
// before the chat tables, matching how callers bring up a new database.
func TestStore_SetupOrder(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "chat.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})

	ctx := context.Background()
	require.NoError(t, store.CreateUserTable(ctx))
	require.NoError(t, store.CreateChatTables(ctx))

	// Repeat setup is reported, not silently swallowed
	assert.ErrorIs(t, store.CreateUserTable(ctx), ErrTableExists)
	assert.ErrorIs(t, store.CreateChatTables(ctx), ErrTableExists)
}
