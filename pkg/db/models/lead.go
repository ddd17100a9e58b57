package models

import (
	"time"

	"github.com/adbroadcast/website-backend/pkg/enums"
)

// Lead is one inbound contact message or shop purchase request.
type Lead struct {
	ID               uint64           `gorm:"column:id;primaryKey;autoIncrement"`
	Source           enums.LeadSource `gorm:"column:source;type:varchar(32);not null;index:leads_source_idx"`
	Name             string           `gorm:"column:name;not null"`
	Email            string           `gorm:"column:email;not null"`
	Phone            *string          `gorm:"column:phone"`
	Company          *string          `gorm:"column:company"`
	Country          *string          `gorm:"column:country"`
	ContactMethod    *string          `gorm:"column:contact_method"`
	DeliveryLocation *string          `gorm:"column:delivery_location"`
	Message          *string          `gorm:"column:message"`
	ItemsJSON        *string          `gorm:"column:items_json"`
	Status           enums.LeadStatus `gorm:"column:status;type:varchar(32);not null;default:new"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
}

func (Lead) TableName() string {
	return "leads"
}
