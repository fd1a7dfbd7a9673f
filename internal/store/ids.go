package store

import (
	"fmt"

	"github.com/google/uuid"
)

// Prefixed entity ids. Products created from a purchased design use the
// derived convention "prod-<designID>" instead (see PurchaseDesign).

func newOrderID() string {
	return fmt.Sprintf("ord-%s", uuid.New().String()[:8])
}

func newCommentID() string {
	return fmt.Sprintf("cmt-%s", uuid.New().String()[:8])
}

func newGlobalCommentID() string {
	return fmt.Sprintf("gcmt-%s", uuid.New().String()[:8])
}

func newDesignID() string {
	return fmt.Sprintf("dsgn-%s", uuid.New().String()[:8])
}

// NewUserID generates a user id. Exported because registration happens
// at the service layer, where the row is assembled.
func NewUserID() string {
	return fmt.Sprintf("usr-%s", uuid.New().String()[:8])
}
