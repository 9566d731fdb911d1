// Package store provides persistent storage for chat users, chat rooms,
// and chat membership using SQLite.
//
// # Architecture
//
// A single Store interface covers four groups of operations:
//
//   - Schema: explicit table creation (CreateUserTable, CreateChatTables)
//   - Users: registration, existence checks, credential verification
//   - Chats: creation with an initial member list, owner-gated deletion,
//     existence and owner lookups
//   - Membership: members of a chat, chats of a user, shared-chat checks,
//     and the per-user peer listing
//
// SQLiteStore is the production implementation; MockStore is an
// in-memory implementation with the same semantics for tests.
//
// # Data Model
//
//   - User: username (primary key) and password, stored verbatim
//   - Chat: caller-supplied integer id and the owning username
//   - ChatMember: one (chat id, username) row per member; the same
//     username may appear more than once in a chat
//
// Three tables back the model:
//
//	userinfo(username TEXT PRIMARY KEY, password TEXT)
//	chats(chatid INTEGER PRIMARY KEY, owner TEXT NOT NULL REFERENCES userinfo(username))
//	chatusers(rowid INTEGER PRIMARY KEY, chatid INTEGER REFERENCES chats(chatid),
//	          username TEXT NOT NULL REFERENCES userinfo(username))
//
// The foreign keys are declared but not enforced at runtime: a chat's
// owner is validated against userinfo when the chat is created, while
// membership rows are inserted exactly as given, so they may name
// usernames that were never registered.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA busy_timeout=5000;
//
// Table creation is an explicit operation rather than part of opening
// the store; creating a table that already exists reports ErrTableExists
// and callers treat that as "already set up".
//
// Chat creation (chat row plus membership rows) and chat deletion (chat
// row plus membership rows) each run in a single transaction, so a
// failure mid-sequence leaves no partial state.
//
// # Error Handling
//
// Failures are reported as sentinel errors so callers can tell the cases
// apart with errors.Is:
//
//   - ErrUserNotFound / ErrChatNotFound: referenced entity is absent
//   - ErrUserExists / ErrChatExists / ErrTableExists: target already present
//   - ErrNotChatOwner: chat deletion attempted by a non-owner
//
// Driver failures are wrapped with context. All methods accept
// context.Context for cancellation support.
//
// # Testing
//
// Use NewMockStore() for unit tests:
//
//	store := store.NewMockStore()
//
// Use NewSQLiteStore with a t.TempDir() path for integration tests
// against real SQLite.
package store
