package entity

import "time"

type Comment struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"size:280;not null"`
	Content   string    `gorm:"size:280;not null"`
	CreatedOn time.Time `gorm:"not null"`
	StockID   uint      `gorm:"not null;index"`
	UserID    uint      `gorm:"not null;index"`
	Stock     Stock     `gorm:"constraint:OnDelete:CASCADE"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
}

func (Comment) TableName() string {
	return "comments"
}
