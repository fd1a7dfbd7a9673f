package models

import "time"

// Event types
const (
	EventTypeOrderPlaced      = "ORDER_PLACED"
	EventTypeFundsTransferred = "FUNDS_TRANSFERRED"
	EventTypeFundsDeposited   = "FUNDS_DEPOSITED"
	EventTypeDesignPublished  = "DESIGN_PUBLISHED"
	EventTypeDesignSold       = "DESIGN_SOLD"
	EventTypeCommentPosted    = "COMMENT_POSTED"
)

// BaseEvent contains common fields for all activity events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent published after a successful checkout
type OrderPlacedEvent struct {
	BaseEvent
	OrderID   string `json:"order_id"`
	UserID    string `json:"user_id"`
	Total     int64  `json:"total"`
	ItemCount int    `json:"item_count"`
}

// FundsTransferredEvent published after a successful peer transfer
type FundsTransferredEvent struct {
	BaseEvent
	SenderID string   `json:"sender_id"`
	Receiver string   `json:"receiver"`
	Amount   int64    `json:"amount"`
	Currency Currency `json:"currency"`
}

// FundsDepositedEvent published after a simulated deposit
type FundsDepositedEvent struct {
	BaseEvent
	UserID   string   `json:"user_id"`
	Amount   int64    `json:"amount"`
	Currency Currency `json:"currency"`
}

// DesignPublishedEvent published when a creator lists a design
type DesignPublishedEvent struct {
	BaseEvent
	DesignID string `json:"design_id"`
	UserID   string `json:"user_id"`
	Price    int64  `json:"price"`
}

// DesignSoldEvent published when a brand purchases a design
type DesignSoldEvent struct {
	BaseEvent
	DesignID  string `json:"design_id"`
	BrandID   string `json:"brand_id"`
	CreatorID string `json:"creator_id"`
	ProductID string `json:"product_id"`
	Payout    int64  `json:"payout"`
}

// CommentPostedEvent published for both brand and global comments
type CommentPostedEvent struct {
	BaseEvent
	CommentID string `json:"comment_id"`
	BrandID   string `json:"brand_id,omitempty"`
	UserID    string `json:"user_id"`
}
