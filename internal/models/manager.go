package models

import "time"

// Manager is the advisor side of the bank. CreditBalance is the prepaid
// float used to fund client accounts, in the smallest currency unit.
type Manager struct {
	ID            uint `gorm:"primarykey"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	UserID        uint  `gorm:"uniqueIndex;not null"`
	User          User  `gorm:"foreignKey:UserID"`
	CreditBalance int64 `gorm:"not null;default:0"`
	Clients       []Client
}
