// ABOUTME: Store interface and data types for chatstore persistence
// ABOUTME: Defines User, Chat, ChatMember structs and the Store interface for database operations

package store

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned when a referenced user does not exist
var ErrUserNotFound = errors.New("user not found")

// ErrUserExists is returned when trying to create a user that already exists
var ErrUserExists = errors.New("user already exists")

// ErrChatNotFound is returned when a referenced chat does not exist
var ErrChatNotFound = errors.New("chat not found")

// ErrChatExists is returned when trying to create a chat whose id is already taken
var ErrChatExists = errors.New("chat already exists")

// ErrNotChatOwner is returned when someone other than the owner tries to delete a chat
var ErrNotChatOwner = errors.New("requester is not the chat owner")

// ErrTableExists is returned by the schema operations when a table is already present
var ErrTableExists = errors.New("table already exists")

// User represents a registered user with their login credentials.
// Passwords are stored verbatim; there is no hashing in this layer.
type User struct {
	Username string
	Password string
}

// Chat represents a chat room. IDs are supplied by the caller, not
// generated by the store.
type Chat struct {
	ID    int64
	Owner string
}

// ChatMember is a single (chat, username) membership pair. A chat has one
// row per member; the same username may appear more than once if it was
// listed more than once at creation time.
type ChatMember struct {
	ChatID   int64
	Username string
}

// Store defines the interface for user, chat, and membership persistence
type Store interface {
	// Schema
	CreateUserTable(ctx context.Context) error
	CreateChatTables(ctx context.Context) error

	// Users
	CreateUser(ctx context.Context, user *User) error
	UserExists(ctx context.Context, username string) (bool, error)
	VerifyCredentials(ctx context.Context, username, password string) (bool, error)

	// Chats
	CreateChat(ctx context.Context, chat *Chat, members []string) error
	DeleteChat(ctx context.Context, chatID int64, requester string) error
	ChatExists(ctx context.Context, chatID int64) (bool, error)
	GetChatOwner(ctx context.Context, chatID int64) (string, error)

	// Membership
	ListChatMembers(ctx context.Context, chatID int64) ([]string, error)
	ListUserChats(ctx context.Context, username string) ([]int64, error)
	UsersShareChat(ctx context.Context, userA, userB string) (bool, error)
	ListUserChatPeers(ctx context.Context, username string) ([]ChatMember, error)

	// Close releases any resources held by the store
	Close() error
}
