package period

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	StatusOpen       = "OPEN"
	StatusInProgress = "IN_PROGRESS"
	StatusClosed     = "CLOSED"
	StatusPaid       = "PAID"
)

const DateLayout = "2006-01-02"

type Period struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Year      int       `gorm:"not null;uniqueIndex:uq_period_year_month,priority:1"`
	Month     int       `gorm:"not null;uniqueIndex:uq_period_year_month,priority:2"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	PayDate   time.Time `gorm:"type:date;not null"`
	Status    string    `gorm:"size:20;not null;default:'OPEN';index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Period) TableName() string {
	return "payroll_periods"
}

// IsClosed reports whether payrolls of the period are frozen.
func (p Period) IsClosed() bool {
	return p.Status == StatusClosed || p.Status == StatusPaid
}

func (p Period) Label() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Contains reports whether d falls within the period, both ends inclusive.
func (p Period) Contains(d time.Time) bool {
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}
