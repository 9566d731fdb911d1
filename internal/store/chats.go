// ABOUTME: Chat lifecycle store methods for the SQLite backend
// ABOUTME: Covers chat creation with initial members, owner-gated deletion, and owner lookup

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// ChatExists reports whether a chat with the given id exists.
// Returns false for unknown ids (not an error).
func (s *SQLiteStore) ChatExists(ctx context.Context, chatID int64) (bool, error) {
	query := `SELECT COUNT(*) FROM chats WHERE chatid = ?`

	var count int
	err := s.db.QueryRowContext(ctx, query, chatID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking chat existence: %w", err)
	}

	return count > 0, nil
}

// GetChatOwner returns the username of the chat's owner.
// Returns ErrChatNotFound if the chat doesn't exist.
func (s *SQLiteStore) GetChatOwner(ctx context.Context, chatID int64) (string, error) {
	query := `SELECT owner FROM chats WHERE chatid = ?`

	var owner string
	err := s.db.QueryRowContext(ctx, query, chatID).Scan(&owner)
	if err == sql.ErrNoRows {
		return "", ErrChatNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying chat owner: %w", err)
	}

	return owner, nil
}

// CreateChat creates a chat with the given owner and one membership row
// per listed member, in list order. The owner must be a registered user;
// the members are inserted as given, so duplicates are kept and the
// usernames are not checked against userinfo. The owner only becomes a
// member if they appear in the list. An empty member list creates the
// chat with no members.
//
// The chat row and all membership rows are written in a single
// transaction. Returns ErrChatExists for a duplicate id and
// ErrUserNotFound for an unregistered owner; in both cases nothing is
// written.
func (s *SQLiteStore) CreateChat(ctx context.Context, chat *Chat, members []string) error {
	exists, err := s.ChatExists(ctx, chat.ID)
	if err != nil {
		return err
	}
	if exists {
		return ErrChatExists
	}

	exists, err = s.UserExists(ctx, chat.Owner)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning chat creation: %w", err)
	}
	defer tx.Rollback()

	insertChat := `INSERT INTO chats (chatid, owner) VALUES (?, ?)`
	if _, err := tx.ExecContext(ctx, insertChat, chat.ID, chat.Owner); err != nil {
		if isConstraintViolation(err) {
			return ErrChatExists
		}
		return fmt.Errorf("inserting chat: %w", err)
	}

	insertMember := `INSERT INTO chatusers (chatid, username) VALUES (?, ?)`
	for _, member := range members {
		if _, err := tx.ExecContext(ctx, insertMember, chat.ID, member); err != nil {
			return fmt.Errorf("inserting chat member %q: %w", member, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chat creation: %w", err)
	}

	s.logger.Debug("created chat", "chatid", chat.ID, "owner", chat.Owner, "members", len(members))
	return nil
}

// DeleteChat deletes a chat and all of its membership rows. Only the
// recorded owner may delete a chat; the requester is compared against
// the owner by exact string match.
//
// Both deletes run in a single transaction. Returns ErrChatNotFound if
// the chat doesn't exist and ErrNotChatOwner if the requester isn't the
// owner; the chat and its members are left intact in both cases.
func (s *SQLiteStore) DeleteChat(ctx context.Context, chatID int64, requester string) error {
	owner, err := s.GetChatOwner(ctx, chatID)
	if err != nil {
		return err
	}
	if requester != owner {
		return ErrNotChatOwner
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning chat deletion: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chats WHERE chatid = ?`, chatID); err != nil {
		return fmt.Errorf("deleting chat: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM chatusers WHERE chatid = ?`, chatID); err != nil {
		return fmt.Errorf("deleting chat members: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chat deletion: %w", err)
	}

	s.logger.Debug("deleted chat", "chatid", chatID, "requester", requester)
	return nil
}
