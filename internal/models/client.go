package models

import "time"

// Client belongs to exactly one manager. AccountBalance is kept in the
// smallest currency unit and is only ever mutated by the balance service.
// DeletedAt is an explicit soft delete: a deleted client stays out of
// manager listings, searches and transfers but the row is never removed.
type Client struct {
	ID                  uint `gorm:"primarykey"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	UserID              uint    `gorm:"uniqueIndex;not null"`
	User                User    `gorm:"foreignKey:UserID"`
	ManagerID           uint    `gorm:"index;not null"`
	AccountBalance      int64   `gorm:"not null;default:0"`
	ActivationToken     *string `gorm:"uniqueIndex"`
	ActivationExpiresAt *time.Time
	IsActivated         bool `gorm:"default:false"`
	IsBlocked           bool `gorm:"default:false"`
	BlockedReason       string
	BlockedAt           *time.Time
	DeletedAt           *time.Time
}

// Active reports whether the client may send or receive money and open
// chat messages: activated, not blocked, not soft-deleted.
func (c *Client) Active() bool {
	return c.IsActivated && !c.IsBlocked && c.DeletedAt == nil
}
