package store

import (
	"context"
	"fmt"
	"time"

	"auraverse/internal/models"
)

// AddComment appends a brand-scoped comment. Username and avatar are
// snapshotted at write time so history reads as it appeared.
func (s *Store) AddComment(ctx context.Context, brandID, userID, username, text, avatarURL string) (*models.Comment, error) {
	now := time.Now()
	comment := &models.Comment{
		ID:        newCommentID(),
		BrandID:   brandID,
		UserID:    userID,
		Username:  username,
		Text:      text,
		Timestamp: now.Format("15:04"),
		AvatarURL: avatarURL,
		CreatedAt: now.UTC().Format(time.RFC3339Nano),
	}

	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO comments
		(id, brand_id, user_id, username, text, timestamp, avatar_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		comment.ID, comment.BrandID, comment.UserID, comment.Username,
		comment.Text, comment.Timestamp, comment.AvatarURL, comment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return comment, nil
}

// ListComments returns all comments for a brand, oldest first.
func (s *Store) ListComments(ctx context.Context, brandID string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := s.db.SelectContext(ctx, &comments,
		s.rebind("SELECT * FROM comments WHERE brand_id = ? ORDER BY created_at"), brandID); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

// AddGlobalComment appends a system-wide comment.
func (s *Store) AddGlobalComment(ctx context.Context, userID, username, text, avatarURL string) (*models.GlobalComment, error) {
	now := time.Now()
	comment := &models.GlobalComment{
		ID:        newGlobalCommentID(),
		UserID:    userID,
		Username:  username,
		Text:      text,
		Timestamp: now.Format("15:04"),
		AvatarURL: avatarURL,
		CreatedAt: now.UTC().Format(time.RFC3339Nano),
	}

	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO global_comments
		(id, user_id, username, text, timestamp, avatar_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		comment.ID, comment.UserID, comment.Username,
		comment.Text, comment.Timestamp, comment.AvatarURL, comment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add global comment: %w", err)
	}
	return comment, nil
}

// ListGlobalComments returns the newest system-wide comments, bounded
// by limit.
func (s *Store) ListGlobalComments(ctx context.Context, limit int) ([]models.GlobalComment, error) {
	if limit <= 0 {
		limit = 50
	}

	var comments []models.GlobalComment
	if err := s.db.SelectContext(ctx, &comments,
		s.rebind("SELECT * FROM global_comments ORDER BY created_at DESC LIMIT ?"), limit); err != nil {
		return nil, fmt.Errorf("failed to list global comments: %w", err)
	}
	if comments == nil {
		comments = []models.GlobalComment{}
	}
	return comments, nil
}
