package service

import (
	"context"
	"time"

	"auraverse/config"
	"auraverse/internal/broker"
	"auraverse/internal/models"
	"auraverse/internal/redisclient"
	"auraverse/internal/store"
	"auraverse/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Feed cache keys.
const (
	feedKeyRecentOrders   = "recent-orders"
	feedKeyGlobalComments = "global-comments"
)

// FeedService serves the polling feeds: recent order activity and
// comments. Reads go through the optional Redis cache; a miss falls
// back to the store. Staleness up to one poll interval is expected.
type FeedService struct {
	store     *store.Store
	cfg       config.FeedConfig
	redis     *redisclient.Client
	publisher broker.Publisher
	logger    *zap.Logger
}

// NewFeedService creates a new feed service
func NewFeedService(st *store.Store, cfg config.FeedConfig, redis *redisclient.Client, publisher broker.Publisher) *FeedService {
	return &FeedService{
		store:     st,
		cfg:       cfg,
		redis:     redis,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

func (fs *FeedService) cacheTTL() time.Duration {
	return time.Duration(fs.cfg.PollSeconds) * time.Second
}

// RecentOrders returns the newest orders joined with their buyers.
func (fs *FeedService) RecentOrders(ctx context.Context) ([]models.ActivityFeedItem, error) {
	var cached []models.ActivityFeedItem
	hit, err := fs.redis.GetFeed(ctx, feedKeyRecentOrders, &cached)
	if err != nil {
		fs.logger.Warn("Feed cache read failed, falling back to store", zap.Error(err))
	} else if hit {
		return cached, nil
	}

	feed, err := fs.store.ListRecentOrders(ctx, fs.cfg.RecentOrdersLimit)
	if err != nil {
		return nil, err
	}

	if err := fs.redis.CacheFeed(ctx, feedKeyRecentOrders, feed, fs.cacheTTL()); err != nil {
		fs.logger.Warn("Feed cache write failed", zap.Error(err))
	}
	return feed, nil
}

// Comments returns a brand's comment thread.
func (fs *FeedService) Comments(ctx context.Context, brandID string) ([]models.Comment, error) {
	return fs.store.ListComments(ctx, brandID)
}

// GlobalComments returns the newest system-wide comments.
func (fs *FeedService) GlobalComments(ctx context.Context) ([]models.GlobalComment, error) {
	var cached []models.GlobalComment
	hit, err := fs.redis.GetFeed(ctx, feedKeyGlobalComments, &cached)
	if err != nil {
		fs.logger.Warn("Feed cache read failed, falling back to store", zap.Error(err))
	} else if hit {
		return cached, nil
	}

	comments, err := fs.store.ListGlobalComments(ctx, fs.cfg.GlobalCommentsLimit)
	if err != nil {
		return nil, err
	}

	if err := fs.redis.CacheFeed(ctx, feedKeyGlobalComments, comments, fs.cacheTTL()); err != nil {
		fs.logger.Warn("Feed cache write failed", zap.Error(err))
	}
	return comments, nil
}

// AddComment appends a sanitized comment to a brand's thread.
func (fs *FeedService) AddComment(ctx context.Context, brandID, userID, username, text, avatarURL string) (*models.Comment, error) {
	comment, err := fs.store.AddComment(ctx, brandID, userID,
		util.Sanitize(username), util.Sanitize(text), util.Sanitize(avatarURL))
	if err != nil {
		return nil, err
	}

	util.CommentsPostedTotal.WithLabelValues("brand").Inc()
	fs.publishCommentEvent(ctx, comment.ID, brandID, userID)
	return comment, nil
}

// AddGlobalComment appends a sanitized system-wide comment.
func (fs *FeedService) AddGlobalComment(ctx context.Context, userID, username, text, avatarURL string) (*models.GlobalComment, error) {
	comment, err := fs.store.AddGlobalComment(ctx, userID,
		util.Sanitize(username), util.Sanitize(text), util.Sanitize(avatarURL))
	if err != nil {
		return nil, err
	}

	util.CommentsPostedTotal.WithLabelValues("global").Inc()
	fs.publishCommentEvent(ctx, comment.ID, "", userID)
	return comment, nil
}

func (fs *FeedService) publishCommentEvent(ctx context.Context, commentID, brandID, userID string) {
	event := &models.CommentPostedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeCommentPosted,
			Timestamp: time.Now(),
		},
		CommentID: commentID,
		BrandID:   brandID,
		UserID:    userID,
	}
	if err := fs.publisher.PublishCommentPosted(ctx, event); err != nil {
		fs.logger.Error("Failed to publish CommentPosted event", zap.Error(err))
	}
}
