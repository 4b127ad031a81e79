package model

import "time"

// User is a row of the externally managed users table.
type User struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	GroupName string    `gorm:"column:group_name;size:64;index;not null"`
	Points    int64     `gorm:"column:points;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}
