// ABOUTME: Membership query methods for the SQLite backend
// ABOUTME: Lists chat members, the chats a user is in, shared-chat checks, and peer pairs

package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// ListChatMembers returns the usernames with a membership row for the
// given chat, in insertion order. Returns an empty slice if the chat
// doesn't exist or has no members.
func (s *SQLiteStore) ListChatMembers(ctx context.Context, chatID int64) ([]string, error) {
	exists, err := s.ChatExists(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []string{}, nil
	}

	query := `
		SELECT username FROM chatusers
		WHERE chatid = ?
		ORDER BY rowid
	`

	rows, err := s.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("querying chat members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("scanning chat member: %w", err)
		}
		members = append(members, username)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat members: %w", err)
	}

	// Return empty slice (not nil) if no members
	if members == nil {
		members = []string{}
	}

	return members, nil
}

// ListUserChats returns the ids of the chats the user has a membership
// row in, in insertion order. A user listed twice in the same chat
// yields the id twice. Returns an empty slice if the user doesn't exist
// or belongs to no chat.
func (s *SQLiteStore) ListUserChats(ctx context.Context, username string) ([]int64, error) {
	exists, err := s.UserExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []int64{}, nil
	}

	query := `
		SELECT chatid FROM chatusers
		WHERE username = ?
		ORDER BY rowid
	`

	rows, err := s.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("querying user chats: %w", err)
	}
	defer rows.Close()

	var chatIDs []int64
	for rows.Next() {
		var chatID int64
		if err := rows.Scan(&chatID); err != nil {
			return nil, fmt.Errorf("scanning chat id: %w", err)
		}
		chatIDs = append(chatIDs, chatID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user chats: %w", err)
	}

	// Return empty slice (not nil) if no chats
	if chatIDs == nil {
		chatIDs = []int64{}
	}

	return chatIDs, nil
}

// UsersShareChat reports whether the two users are members of at least
// one common chat. The check is symmetric and short-circuits on the
// first shared id. An unknown user simply has no chats, so the result
// is false rather than an error.
func (s *SQLiteStore) UsersShareChat(ctx context.Context, userA, userB string) (bool, error) {
	chatsA, err := s.ListUserChats(ctx, userA)
	if err != nil {
		return false, err
	}

	chatsB, err := s.ListUserChats(ctx, userB)
	if err != nil {
		return false, err
	}

	for _, a := range chatsA {
		for _, b := range chatsB {
			if a == b {
				return true, nil
			}
		}
	}

	return false, nil
}

// ListUserChatPeers returns, for every chat the user is in, a
// (chat, username) pair for every other member of that chat. The user
// themself is skipped. Pairs are ordered by the user's chats first
// (insertion order) and the chat's members second (insertion order).
// Returns an empty slice if the user has no qualifying peers.
func (s *SQLiteStore) ListUserChatPeers(ctx context.Context, username string) ([]ChatMember, error) {
	chatIDs, err := s.ListUserChats(ctx, username)
	if err != nil {
		return nil, err
	}

	var peers []ChatMember
	for _, chatID := range chatIDs {
		members, err := s.ListChatMembers(ctx, chatID)
		if err != nil {
			return nil, err
		}
		for _, member := range members {
			if member == username {
				continue
			}
			peers = append(peers, ChatMember{ChatID: chatID, Username: member})
		}
	}

	if peers == nil {
		peers = []ChatMember{}
	}

	return peers, nil
}

// FormatPeerList flattens peer pairs into the wire form consumed by
// clients: comma-separated alternating <chatId>,<username> tokens with
// no trailing delimiter. An empty list yields "".
func FormatPeerList(peers []ChatMember) string {
	var b strings.Builder
	for i, p := range peers {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(p.ChatID, 10))
		b.WriteByte(',')
		b.WriteString(p.Username)
	}
	return b.String()
}
