package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tOgg1/uplink/internal/models"
)

// Friend repository errors.
var (
	ErrFriendNotFound      = errors.New("friend not found")
	ErrFriendAlreadyExists = errors.New("friend already exists")
)

// Friend is a stored relationship row.
type Friend struct {
	Peer     models.PeerID
	Username string
	Picture  string
	AddedAt  time.Time
}

// FriendRepository handles friend persistence.
type FriendRepository struct {
	db *DB
}

// NewFriendRepository creates a new FriendRepository.
func NewFriendRepository(db *DB) *FriendRepository {
	return &FriendRepository{db: db}
}

// Add inserts a friend.
func (r *FriendRepository) Add(ctx context.Context, friend *Friend) error {
	if err := friend.Peer.Validate(); err != nil {
		return fmt.Errorf("invalid friend: %w", err)
	}
	if friend.AddedAt.IsZero() {
		friend.AddedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO friends (peer, username, picture, added_at)
		VALUES (?, ?, ?, ?)
	`, string(friend.Peer), friend.Username, friend.Picture, friend.AddedAt.Format(time.RFC3339))
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrFriendAlreadyExists
		}
		return fmt.Errorf("failed to insert friend: %w", err)
	}
	return nil
}

// Remove deletes a friend.
func (r *FriendRepository) Remove(ctx context.Context, peer models.PeerID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM friends WHERE peer = ?`, string(peer))
	if err != nil {
		return fmt.Errorf("failed to delete friend: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrFriendNotFound
	}
	return nil
}

// Get returns a single friend.
func (r *FriendRepository) Get(ctx context.Context, peer models.PeerID) (*Friend, error) {
	var (
		f       Friend
		addedAt string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT peer, username, picture, added_at FROM friends WHERE peer = ?
	`, string(peer)).Scan(&f.Peer, &f.Username, &f.Picture, &addedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrFriendNotFound
		}
		return nil, fmt.Errorf("failed to query friend: %w", err)
	}
	f.AddedAt, _ = time.Parse(time.RFC3339, addedAt)
	return &f, nil
}

// List returns all friends ordered by username then peer.
func (r *FriendRepository) List(ctx context.Context) ([]*Friend, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT peer, username, picture, added_at
		FROM friends
		ORDER BY username, peer
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query friends: %w", err)
	}
	defer rows.Close()

	var friends []*Friend
	for rows.Next() {
		var (
			f       Friend
			addedAt string
		)
		if err := rows.Scan(&f.Peer, &f.Username, &f.Picture, &addedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		f.AddedAt, _ = time.Parse(time.RFC3339, addedAt)
		friends = append(friends, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friends: %w", err)
	}
	return friends, nil
}
