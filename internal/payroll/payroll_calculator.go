package payroll

import (
	"fmt"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/employeetype"
	payrollerrors "go-payroll/internal/payroll/errors"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	BonusSeniority = "BONO_ANTIGUEDAD"
	BonusSales     = "BONO_VENTAS"

	BenefitFood           = "BONO_ALIMENTACION"
	BenefitEmployerSaving = "FONDO_AHORRO"

	DeductionPension        = "SEGURIDAD_SOCIAL_PENSION"
	DeductionARL            = "ARL"
	DeductionEmployeeSaving = "FONDO_AHORRO_EMPLEADO"
)

var hundred = decimal.NewFromInt(100)

var amountPrinter = message.NewPrinter(language.Spanish)

// LineItem is a computed bonus, benefit or deduction before persistence.
type LineItem struct {
	TypeCode        string
	Description     string
	Amount          decimal.Decimal
	AppliedPercent  decimal.NullDecimal
	CalculationBase decimal.NullDecimal
}

// Inputs are the period-variable quantities of one payroll.
type Inputs struct {
	HoursWorked   decimal.Decimal
	OvertimeHours decimal.Decimal
	SalesAmount   decimal.Decimal
}

type Computation struct {
	Gross           decimal.Decimal
	TotalBonuses    decimal.Decimal
	TotalBenefits   decimal.Decimal
	TotalDeductions decimal.Decimal
	Net             decimal.Decimal
	Bonuses         []LineItem
	Benefits        []LineItem
	Deductions      []LineItem
}

// Calculator applies the payroll rules of a RateTable. It performs no I/O;
// the clock is only used as the reference date for tenure.
type Calculator struct {
	rates RateTable
	now   func() time.Time
}

func NewCalculator(rates RateTable, now func() time.Time) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{rates: rates, now: now}
}

func (c *Calculator) Rates() RateTable {
	return c.rates
}

// TenureYears counts whole years from hire to today's calendar date.
func (c *Calculator) TenureYears(hire time.Time) int {
	y, m, d := c.now().Date()
	return employee.TenureYears(hire, time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func (c *Calculator) Gross(emp employee.Employee, hours, overtime, sales decimal.Decimal) (decimal.Decimal, error) {
	switch code := emp.TypeCode(); code {
	case employeetype.CodeSalaried, employeetype.CodeTemporary:
		return emp.BaseSalary.RoundBank(2), nil

	case employeetype.CodeHourly:
		if hours.IsNegative() {
			return decimal.Zero, payrollerrors.ErrInvalidInput.
				WithDetails(map[string]any{"field": "hours_worked", "reason": "must not be negative"})
		}
		if overtime.IsNegative() {
			return decimal.Zero, payrollerrors.ErrInvalidInput.
				WithDetails(map[string]any{"field": "overtime_hours", "reason": "must not be negative"})
		}
		regular := hours.Mul(emp.HourlyRate)
		extra := overtime.Mul(emp.HourlyRate).Mul(c.rates.OvertimeMultiplier)
		return regular.Add(extra).RoundBank(2), nil

	case employeetype.CodeCommission:
		if sales.IsNegative() {
			return decimal.Zero, payrollerrors.ErrInvalidInput.
				WithDetails(map[string]any{"field": "sales_amount", "reason": "must not be negative"})
		}
		commission := sales.Mul(emp.CommissionPercent).Div(hundred)
		return emp.BaseSalary.Add(commission).RoundBank(2), nil

	default:
		return decimal.Zero, payrollerrors.ErrUnsupportedEmployeeType.
			WithDetails(map[string]any{"employee_type": code})
	}
}

func (c *Calculator) Bonuses(emp employee.Employee, sales decimal.Decimal) (decimal.Decimal, []LineItem) {
	var lines []LineItem

	switch emp.TypeCode() {
	case employeetype.CodeSalaried:
		if years := c.TenureYears(emp.HireDate); years >= c.rates.SeniorityBonusMinYears {
			lines = append(lines, LineItem{
				TypeCode:       BonusSeniority,
				Description:    fmt.Sprintf("Bono por %d años de antigüedad", years),
				Amount:         percentOf(emp.BaseSalary, c.rates.SeniorityBonusPercent),
				AppliedPercent: decimal.NewNullDecimal(c.rates.SeniorityBonusPercent),
			})
		}
	case employeetype.CodeCommission:
		if sales.GreaterThan(c.rates.SalesBonusThreshold) {
			lines = append(lines, LineItem{
				TypeCode:       BonusSales,
				Description:    "Bono por ventas superiores a $" + thousands(c.rates.SalesBonusThreshold),
				Amount:         percentOf(sales, c.rates.SalesBonusPercent),
				AppliedPercent: decimal.NewNullDecimal(c.rates.SalesBonusPercent),
			})
		}
	}

	return sum(lines), lines
}

func (c *Calculator) Benefits(emp employee.Employee) (decimal.Decimal, []LineItem) {
	var lines []LineItem

	switch emp.TypeCode() {
	case employeetype.CodeSalaried, employeetype.CodeCommission:
		lines = append(lines, LineItem{
			TypeCode:    BenefitFood,
			Description: "Subsidio de alimentación mensual",
			Amount:      c.rates.FoodAllowance.RoundBank(2),
		})
	case employeetype.CodeHourly:
		if c.savingsFundApplies(emp) {
			amount := percentOf(emp.BaseSalary, c.rates.EmployerSavingsFundPercent)
			if amount.IsPositive() {
				lines = append(lines, LineItem{
					TypeCode:       BenefitEmployerSaving,
					Description:    "Aporte empresarial a fondo de ahorro",
					Amount:         amount,
					AppliedPercent: decimal.NewNullDecimal(c.rates.EmployerSavingsFundPercent),
				})
			}
		}
	}

	return sum(lines), lines
}

func (c *Calculator) Deductions(emp employee.Employee, gross decimal.Decimal) (decimal.Decimal, []LineItem) {
	base := decimal.NewNullDecimal(gross)
	lines := []LineItem{
		{
			TypeCode:        DeductionPension,
			Description:     "Aporte a Seguridad Social y Pensión",
			Amount:          percentOf(gross, c.rates.PensionPercent),
			AppliedPercent:  decimal.NewNullDecimal(c.rates.PensionPercent),
			CalculationBase: base,
		},
		{
			TypeCode:        DeductionARL,
			Description:     "Aporte a Riesgos Laborales",
			Amount:          percentOf(gross, c.rates.ARLPercent),
			AppliedPercent:  decimal.NewNullDecimal(c.rates.ARLPercent),
			CalculationBase: base,
		},
	}

	if emp.TypeCode() == employeetype.CodeHourly && c.savingsFundApplies(emp) {
		lines = append(lines, LineItem{
			TypeCode:        DeductionEmployeeSaving,
			Description:     "Aporte del empleado a fondo de ahorro",
			Amount:          percentOf(gross, c.rates.EmployeeSavingsFundPercent),
			AppliedPercent:  decimal.NewNullDecimal(c.rates.EmployeeSavingsFundPercent),
			CalculationBase: base,
		})
	}

	return sum(lines), lines
}

// Compute runs gross, bonuses, benefits and deductions in that order and
// rejects a negative net.
func (c *Calculator) Compute(emp employee.Employee, in Inputs) (Computation, error) {
	gross, err := c.Gross(emp, in.HoursWorked, in.OvertimeHours, in.SalesAmount)
	if err != nil {
		return Computation{}, err
	}

	totalBonuses, bonuses := c.Bonuses(emp, in.SalesAmount)
	totalBenefits, benefits := c.Benefits(emp)
	totalDeductions, deductions := c.Deductions(emp, gross)

	net := gross.Add(totalBonuses).Add(totalBenefits).Sub(totalDeductions)
	if net.IsNegative() {
		return Computation{}, payrollerrors.ErrNegativeNetSalary.
			WithDetails(map[string]any{"net_salary": net.StringFixed(2)})
	}

	return Computation{
		Gross:           gross,
		TotalBonuses:    totalBonuses,
		TotalBenefits:   totalBenefits,
		TotalDeductions: totalDeductions,
		Net:             net,
		Bonuses:         bonuses,
		Benefits:        benefits,
		Deductions:      deductions,
	}, nil
}

func (c *Calculator) savingsFundApplies(emp employee.Employee) bool {
	return emp.AcceptsSavingsFund && c.TenureYears(emp.HireDate) >= c.rates.SavingsFundMinYears
}

func percentOf(base, percent decimal.Decimal) decimal.Decimal {
	return base.Mul(percent).Div(hundred).RoundBank(2)
}

func sum(lines []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}

// thousands groups the integer part of d the way Spanish amounts are
// written: 20.000.000.
func thousands(d decimal.Decimal) string {
	return amountPrinter.Sprintf("%d", d.IntPart())
}
