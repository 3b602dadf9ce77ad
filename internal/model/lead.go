package model

import "time"

// Lead represents a sales lead stored in the database. Phone and Source are
// nullable; a nil pointer is rendered as JSON null and as an empty CSV cell.
type Lead struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Email       string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone       *string   `json:"phone" gorm:"type:varchar(50)"`
	Source      *string   `json:"source" gorm:"type:varchar(255)"`
	CreatedTime time.Time `json:"created_time" gorm:"column:created_time;not null"`
}

// TableName overrides the default pluralization
func (Lead) TableName() string {
	return "leads"
}
