package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_employee_dates"`

	LeaveType   string    `gorm:"type:varchar(30);not null"`
	FromDate    time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	ToDate      time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	Description string    `gorm:"type:text"`
	AppliedDate time.Time `gorm:"type:date;not null"`

	Status       string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	ApprovedBy   *uuid.UUID `gorm:"type:uuid"`
	ApprovedDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leaves_deleted_at"`
}
