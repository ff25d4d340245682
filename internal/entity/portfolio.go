package entity

import "time"

// Portfolio links a user to a stock they hold. The composite primary key
// guarantees a user holds a given stock at most once.
type Portfolio struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false"`
	StockID   uint      `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	Stock     Stock     `gorm:"constraint:OnDelete:CASCADE"`
}

func (Portfolio) TableName() string {
	return "portfolios"
}
