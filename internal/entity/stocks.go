package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Stock struct {
	ID          uint            `gorm:"primaryKey"`
	Symbol      string          `gorm:"size:10;not null;uniqueIndex"`
	CompanyName string          `gorm:"size:100;not null"`
	Description string          `gorm:"size:500"`
	Industry    string          `gorm:"size:50"`
	MarketCap   int64           `gorm:"not null;default:0"`
	Price       decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	LastDiv     decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

func (Stock) TableName() string {
	return "stocks"
}
