package payroll

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/period"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const (
	ActionCreate      = "CREATE"
	ActionRecalculate = "RECALCULATE"
	ActionDelete      = "DELETE"
)

type Payroll struct {
	ID         uuid.UUID          `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_employee_period,priority:1"`
	Employee   *employee.Employee `gorm:"foreignKey:EmployeeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	PeriodID   uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_employee_period,priority:2;index"`
	Period     *period.Period     `gorm:"foreignKey:PeriodID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	HoursWorked   decimal.Decimal `gorm:"type:numeric(8,2);not null"`
	OvertimeHours decimal.Decimal `gorm:"type:numeric(8,2);not null"`
	SalesAmount   decimal.Decimal `gorm:"type:numeric(14,2);not null"`

	GrossSalary     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalBonuses    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalBenefits   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalDeductions decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	NetSalary       decimal.Decimal `gorm:"type:numeric(14,2);not null;check:chk_payroll_net_salary,net_salary >= 0"`

	ComputedBy string    `gorm:"size:100;not null"`
	ComputedAt time.Time `gorm:"not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`

	Bonuses    []BonusLine     `gorm:"foreignKey:PayrollID;constraint:OnDelete:CASCADE"`
	Benefits   []BenefitLine   `gorm:"foreignKey:PayrollID;constraint:OnDelete:CASCADE"`
	Deductions []DeductionLine `gorm:"foreignKey:PayrollID;constraint:OnDelete:CASCADE"`
	AuditTrail []AuditEntry    `gorm:"foreignKey:PayrollID;constraint:OnDelete:CASCADE"`
}

func (Payroll) TableName() string {
	return "payrolls"
}

// Totals is the audited view of a payroll.
func (p Payroll) Totals() Snapshot {
	return Snapshot{
		"hours_worked":     p.HoursWorked.StringFixed(2),
		"overtime_hours":   p.OvertimeHours.StringFixed(2),
		"sales_amount":     p.SalesAmount.StringFixed(2),
		"gross_salary":     p.GrossSalary.StringFixed(2),
		"total_bonuses":    p.TotalBonuses.StringFixed(2),
		"total_benefits":   p.TotalBenefits.StringFixed(2),
		"total_deductions": p.TotalDeductions.StringFixed(2),
		"net_salary":       p.NetSalary.StringFixed(2),
	}
}

type BonusLine struct {
	ID             uuid.UUID           `gorm:"type:uuid;primaryKey"`
	PayrollID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	Sequence       int                 `gorm:"not null"`
	TypeCode       string              `gorm:"size:50;not null"`
	Description    string              `gorm:"size:200"`
	Amount         decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	AppliedPercent decimal.NullDecimal `gorm:"type:numeric(7,3)"`
	CreatedAt      time.Time           `gorm:"autoCreateTime"`
}

func (BonusLine) TableName() string {
	return "payroll_bonuses"
}

type BenefitLine struct {
	ID             uuid.UUID           `gorm:"type:uuid;primaryKey"`
	PayrollID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	Sequence       int                 `gorm:"not null"`
	TypeCode       string              `gorm:"size:50;not null"`
	Description    string              `gorm:"size:200"`
	Amount         decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	AppliedPercent decimal.NullDecimal `gorm:"type:numeric(7,3)"`
	CreatedAt      time.Time           `gorm:"autoCreateTime"`
}

func (BenefitLine) TableName() string {
	return "payroll_benefits"
}

type DeductionLine struct {
	ID              uuid.UUID           `gorm:"type:uuid;primaryKey"`
	PayrollID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	Sequence        int                 `gorm:"not null"`
	TypeCode        string              `gorm:"size:50;not null"`
	Description     string              `gorm:"size:200"`
	Amount          decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	AppliedPercent  decimal.NullDecimal `gorm:"type:numeric(7,3)"`
	CalculationBase decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	CreatedAt       time.Time           `gorm:"autoCreateTime"`
}

func (DeductionLine) TableName() string {
	return "payroll_deductions"
}

// AuditEntry is append-only.
type AuditEntry struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	PayrollID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Action         string    `gorm:"size:20;not null"`
	Actor          string    `gorm:"size:100;not null"`
	Description    string    `gorm:"size:255"`
	PreviousValues Snapshot
	NewValues      Snapshot
	CreatedAt      time.Time `gorm:"autoCreateTime;index"`
}

func (AuditEntry) TableName() string {
	return "payroll_audit_entries"
}

// Snapshot is a flat JSON object of audited values.
type Snapshot map[string]string

func (s Snapshot) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *Snapshot) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("snapshot: unsupported type %T", value)
	}
	return json.Unmarshal(raw, s)
}

func (Snapshot) GormDataType() string {
	return "json"
}

func (Snapshot) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}

// bonusLines, benefitLines and deductionLines turn computed items into rows
// of one payroll, keeping the calculator order in Sequence.
func bonusLines(payrollID uuid.UUID, items []LineItem) []BonusLine {
	rows := make([]BonusLine, len(items))
	for i, it := range items {
		rows[i] = BonusLine{
			ID:             uuid.New(),
			PayrollID:      payrollID,
			Sequence:       i + 1,
			TypeCode:       it.TypeCode,
			Description:    it.Description,
			Amount:         it.Amount,
			AppliedPercent: it.AppliedPercent,
		}
	}
	return rows
}

func benefitLines(payrollID uuid.UUID, items []LineItem) []BenefitLine {
	rows := make([]BenefitLine, len(items))
	for i, it := range items {
		rows[i] = BenefitLine{
			ID:             uuid.New(),
			PayrollID:      payrollID,
			Sequence:       i + 1,
			TypeCode:       it.TypeCode,
			Description:    it.Description,
			Amount:         it.Amount,
			AppliedPercent: it.AppliedPercent,
		}
	}
	return rows
}

func deductionLines(payrollID uuid.UUID, items []LineItem) []DeductionLine {
	rows := make([]DeductionLine, len(items))
	for i, it := range items {
		rows[i] = DeductionLine{
			ID:              uuid.New(),
			PayrollID:       payrollID,
			Sequence:        i + 1,
			TypeCode:        it.TypeCode,
			Description:     it.Description,
			Amount:          it.Amount,
			AppliedPercent:  it.AppliedPercent,
			CalculationBase: it.CalculationBase,
		}
	}
	return rows
}
