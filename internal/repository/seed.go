package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/Ysherlin/ec3-assessment/internal/model"
)

func strPtr(s string) *string {
	return &s
}

// SeedIfEmpty inserts mock leads when the table is empty and returns the
// number of rows inserted. Used in development to have data to poke at.
func SeedIfEmpty(db *gorm.DB) (int, error) {
	var count int64
	if err := db.Model(&model.Lead{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	mockLeads := []model.Lead{
		{Name: "John Doe", Email: "john.doe@example.com", Phone: strPtr("0123456789"), Source: strPtr("Website"), CreatedTime: now},
		{Name: "Jane Smith", Email: "jane.smith@example.com", Phone: strPtr("0987654321"), Source: strPtr("Referral"), CreatedTime: now},
		{Name: "Bob Brown", Email: "bob.brown@example.com", Source: strPtr("Email Campaign"), CreatedTime: now},
		{Name: "Alice Green", Email: "alice.green@example.com", Phone: strPtr("0112233445"), Source: strPtr("Social Media"), CreatedTime: now},
		{Name: "Michael White", Email: "michael.white@example.com", Source: strPtr("Cold Call"), CreatedTime: now},
	}

	if err := db.Create(&mockLeads).Error; err != nil {
		return 0, err
	}
	return len(mockLeads), nil
}
