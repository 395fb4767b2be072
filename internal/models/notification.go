package models

import "time"

type Notification struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	ClientID  uint  `gorm:"index;not null"`
	ManagerID *uint `gorm:"index"`
	Title     string
	Message   string `gorm:"type:text"`
	Type      string `gorm:"type:varchar(30);default:'info'"`
	IsRead    bool   `gorm:"default:false"`
	ReadAt    *time.Time
}
