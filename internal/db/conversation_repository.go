package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tOgg1/uplink/internal/models"
)

// ErrConversationNotFound is returned when no conversation exists for a peer.
var ErrConversationNotFound = errors.New("conversation not found")

// ConversationRepository stores one conversation per peer.
type ConversationRepository struct {
	db *DB
}

// NewConversationRepository creates a new ConversationRepository.
func NewConversationRepository(db *DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Create inserts a conversation for peer. If one already exists, its
// handle is returned with created=false.
func (r *ConversationRepository) Create(ctx context.Context, peer models.PeerID) (handle models.ConversationHandle, created bool, err error) {
	err = r.db.TransactionWithRetry(ctx, 0, 0, func(tx *sql.Tx) error {
		existing, err := lookupConversation(ctx, tx, peer)
		if err == nil {
			handle, created = existing, false
			return nil
		}
		if !errors.Is(err, ErrConversationNotFound) {
			return err
		}

		id := models.ConversationHandle(uuid.New().String())
		_, err = tx.ExecContext(ctx, `
			INSERT INTO conversations (id, peer, created_at) VALUES (?, ?, ?)
		`, string(id), string(peer), time.Now().UTC().Format(time.RFC3339Nano))
		if err != nil {
			if isUniqueConstraintError(err) {
				existing, lookupErr := lookupConversation(ctx, tx, peer)
				if lookupErr != nil {
					return lookupErr
				}
				handle, created = existing, false
				return nil
			}
			return fmt.Errorf("failed to insert conversation: %w", err)
		}
		handle, created = id, true
		return nil
	})
	return handle, created, err
}

// ForPeer returns the conversation handle for peer.
func (r *ConversationRepository) ForPeer(ctx context.Context, peer models.PeerID) (models.ConversationHandle, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM conversations WHERE peer = ?`, string(peer)).Scan(&id)
	if err != nil {
		if isNoRows(err) {
			return "", ErrConversationNotFound
		}
		return "", fmt.Errorf("failed to query conversation: %w", err)
	}
	return models.ConversationHandle(id), nil
}

// Count returns the number of stored conversations.
func (r *ConversationRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM conversations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count conversations: %w", err)
	}
	return n, nil
}

func lookupConversation(ctx context.Context, tx *sql.Tx, peer models.PeerID) (models.ConversationHandle, error) {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM conversations WHERE peer = ?`, string(peer)).Scan(&id)
	if err != nil {
		if isNoRows(err) {
			return "", ErrConversationNotFound
		}
		return "", fmt.Errorf("failed to query conversation: %w", err)
	}
	return models.ConversationHandle(id), nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
