package payroll_test

import (
	"testing"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/employeetype"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return today }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newCalculator() *payroll.Calculator {
	return payroll.NewCalculator(payroll.DefaultRates(), fixedClock)
}

func worker(code string, hire time.Time) employee.Employee {
	return employee.Employee{
		FirstName:    "Ana",
		LastName:     "Gomez",
		HireDate:     hire,
		Status:       employee.StatusActive,
		EmployeeType: &employeetype.EmployeeType{Name: code},
	}
}

func codes(lines []payroll.LineItem) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.TypeCode
	}
	return out
}

func TestCalculator_Gross(t *testing.T) {
	calc := newCalculator()
	hire := today.AddDate(-2, 0, 0)

	t.Run("salaried and temporary take base salary", func(t *testing.T) {
		for _, code := range []string{employeetype.CodeSalaried, employeetype.CodeTemporary} {
			emp := worker(code, hire)
			emp.BaseSalary = dec("3000000")
			gross, err := calc.Gross(emp, dec("10"), dec("10"), dec("10"))
			require.NoError(t, err)
			assert.True(t, dec("3000000").Equal(gross), code)
		}
	})

	t.Run("hourly pays overtime at 1.5", func(t *testing.T) {
		emp := worker(employeetype.CodeHourly, hire)
		emp.HourlyRate = dec("20000")

		gross, err := calc.Gross(emp, dec("45"), dec("5"), decimal.Zero)

		require.NoError(t, err)
		assert.Equal(t, "1050000.00", gross.StringFixed(2))
	})

	t.Run("hourly rejects negative hours", func(t *testing.T) {
		emp := worker(employeetype.CodeHourly, hire)
		_, err := calc.Gross(emp, dec("-1"), decimal.Zero, decimal.Zero)
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidInput)

		_, err = calc.Gross(emp, decimal.Zero, dec("-0.5"), decimal.Zero)
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidInput)
	})

	t.Run("commission adds percent of sales", func(t *testing.T) {
		emp := worker(employeetype.CodeCommission, hire)
		emp.BaseSalary = dec("2000000")
		emp.CommissionPercent = dec("5")

		gross, err := calc.Gross(emp, decimal.Zero, decimal.Zero, dec("10000000"))

		require.NoError(t, err)
		assert.Equal(t, "2500000.00", gross.StringFixed(2))

		_, err = calc.Gross(emp, decimal.Zero, decimal.Zero, dec("-1"))
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidInput)
	})

	t.Run("rounds once with banker's rounding", func(t *testing.T) {
		emp := worker(employeetype.CodeCommission, hire)
		emp.BaseSalary = decimal.Zero
		emp.CommissionPercent = dec("1")

		// 0.125 rounds half to even
		gross, err := calc.Gross(emp, decimal.Zero, decimal.Zero, dec("12.5"))
		require.NoError(t, err)
		assert.Equal(t, "0.12", gross.StringFixed(2))
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := calc.Gross(worker("PASANTE", hire), decimal.Zero, decimal.Zero, decimal.Zero)
		assert.ErrorIs(t, err, payrollerrors.ErrUnsupportedEmployeeType)
	})
}

func TestCalculator_SeniorityBonus(t *testing.T) {
	calc := newCalculator()

	tests := []struct {
		name    string
		hire    time.Time
		wantHit bool
	}{
		{"exactly five years today", time.Date(2019, 6, 15, 0, 0, 0, 0, time.UTC), true},
		{"five years tomorrow", time.Date(2019, 6, 16, 0, 0, 0, 0, time.UTC), false},
		{"ten years", time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"new hire", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emp := worker(employeetype.CodeSalaried, tt.hire)
			emp.BaseSalary = dec("4000000")

			total, lines := calc.Bonuses(emp, decimal.Zero)

			if !tt.wantHit {
				assert.Empty(t, lines)
				assert.True(t, total.IsZero())
				return
			}
			require.Len(t, lines, 1)
			assert.Equal(t, payroll.BonusSeniority, lines[0].TypeCode)
			assert.Equal(t, "400000.00", lines[0].Amount.StringFixed(2))
			assert.True(t, lines[0].AppliedPercent.Valid)
			assert.Contains(t, lines[0].Description, "años de antigüedad")
			assert.True(t, total.Equal(lines[0].Amount))
		})
	}

	t.Run("hourly never gets seniority bonus", func(t *testing.T) {
		emp := worker(employeetype.CodeHourly, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
		emp.BaseSalary = dec("4000000")
		_, lines := calc.Bonuses(emp, decimal.Zero)
		assert.Empty(t, lines)
	})
}

func TestCalculator_SalesBonus(t *testing.T) {
	calc := newCalculator()
	emp := worker(employeetype.CodeCommission, today.AddDate(-1, 0, 0))
	emp.BaseSalary = dec("2000000")
	emp.CommissionPercent = dec("5")

	total, lines := calc.Bonuses(emp, dec("20000001"))
	require.Len(t, lines, 1)
	assert.Equal(t, payroll.BonusSales, lines[0].TypeCode)
	assert.Equal(t, "600000.03", total.StringFixed(2))
	assert.Equal(t, "Bono por ventas superiores a $20.000.000", lines[0].Description)

	_, lines = calc.Bonuses(emp, dec("20000000"))
	assert.Empty(t, lines, "threshold itself does not qualify")

	rates := payroll.DefaultRates()
	rates.SalesBonusThreshold = dec("1500000")
	_, lines = payroll.NewCalculator(rates, fixedClock).Bonuses(emp, dec("1500000.01"))
	require.Len(t, lines, 1)
	assert.Equal(t, "Bono por ventas superiores a $1.500.000", lines[0].Description)
}

func TestCalculator_Benefits(t *testing.T) {
	calc := newCalculator()
	hire := today.AddDate(-3, 0, 0)

	for _, code := range []string{employeetype.CodeSalaried, employeetype.CodeCommission} {
		total, lines := calc.Benefits(worker(code, hire))
		require.Len(t, lines, 1, code)
		assert.Equal(t, payroll.BenefitFood, lines[0].TypeCode)
		assert.Equal(t, "1000000.00", total.StringFixed(2))
	}

	hourly := worker(employeetype.CodeHourly, hire)
	hourly.AcceptsSavingsFund = true
	total, lines := calc.Benefits(hourly)
	assert.Empty(t, lines, "employer contribution is zero, no line")
	assert.True(t, total.IsZero())

	total, lines = calc.Benefits(worker(employeetype.CodeTemporary, hire))
	assert.Empty(t, lines)
	assert.True(t, total.IsZero())
}

func TestCalculator_EmployerSavingsFundRate(t *testing.T) {
	rates := payroll.DefaultRates()
	rates.EmployerSavingsFundPercent = dec("1")
	calc := payroll.NewCalculator(rates, fixedClock)

	emp := worker(employeetype.CodeHourly, today.AddDate(-2, 0, 0))
	emp.BaseSalary = dec("1000000")
	emp.AcceptsSavingsFund = true

	total, lines := calc.Benefits(emp)
	require.Len(t, lines, 1)
	assert.Equal(t, payroll.BenefitEmployerSaving, lines[0].TypeCode)
	assert.Equal(t, "10000.00", total.StringFixed(2))
}

func TestCalculator_Deductions(t *testing.T) {
	calc := newCalculator()
	gross := dec("4375000")

	t.Run("mandatory deductions always present", func(t *testing.T) {
		emp := worker(employeetype.CodeSalaried, today.AddDate(-1, 0, 0))

		total, lines := calc.Deductions(emp, gross)

		assert.Equal(t, []string{payroll.DeductionPension, payroll.DeductionARL}, codes(lines))
		assert.Equal(t, "175000.00", lines[0].Amount.StringFixed(2))
		assert.Equal(t, "22837.50", lines[1].Amount.StringFixed(2))
		assert.Equal(t, "197837.50", total.StringFixed(2))
		for _, l := range lines {
			require.True(t, l.CalculationBase.Valid)
			assert.True(t, gross.Equal(l.CalculationBase.Decimal))
		}
	})

	t.Run("hourly savings fund needs a year and consent", func(t *testing.T) {
		emp := worker(employeetype.CodeHourly, today.AddDate(-1, 0, 0))
		emp.AcceptsSavingsFund = true
		_, lines := calc.Deductions(emp, gross)
		assert.Contains(t, codes(lines), payroll.DeductionEmployeeSaving)

		emp.AcceptsSavingsFund = false
		_, lines = calc.Deductions(emp, gross)
		assert.NotContains(t, codes(lines), payroll.DeductionEmployeeSaving)

		rookie := worker(employeetype.CodeHourly, today.AddDate(0, -11, 0))
		rookie.AcceptsSavingsFund = true
		_, lines = calc.Deductions(rookie, gross)
		assert.NotContains(t, codes(lines), payroll.DeductionEmployeeSaving)
	})
}

func TestCalculator_Compute(t *testing.T) {
	calc := newCalculator()

	t.Run("hourly end to end", func(t *testing.T) {
		emp := worker(employeetype.CodeHourly, today.AddDate(-2, 0, 0))
		emp.HourlyRate = dec("25000")
		emp.AcceptsSavingsFund = true

		comp, err := calc.Compute(emp, payroll.Inputs{HoursWorked: dec("160"), OvertimeHours: dec("10")})

		require.NoError(t, err)
		assert.Equal(t, "4375000.00", comp.Gross.StringFixed(2))
		assert.True(t, comp.TotalBonuses.IsZero())
		assert.True(t, comp.TotalBenefits.IsZero())
		assert.Equal(t, "285337.50", comp.TotalDeductions.StringFixed(2))
		assert.Equal(t, "4089662.50", comp.Net.StringFixed(2))
		assert.Len(t, comp.Deductions, 3)
	})

	t.Run("salaried veteran", func(t *testing.T) {
		emp := worker(employeetype.CodeSalaried, today.AddDate(-7, 0, 0))
		emp.BaseSalary = dec("5000000")

		comp, err := calc.Compute(emp, payroll.Inputs{})

		require.NoError(t, err)
		// 5,000,000 + 500,000 + 1,000,000 - (200,000 + 26,100)
		assert.Equal(t, "6273900.00", comp.Net.StringFixed(2))
	})

	t.Run("net equals the sum of its parts", func(t *testing.T) {
		emp := worker(employeetype.CodeCommission, today.AddDate(-1, 0, 0))
		emp.BaseSalary = dec("1300000")
		emp.CommissionPercent = dec("2.5")

		comp, err := calc.Compute(emp, payroll.Inputs{SalesAmount: dec("25000000")})

		require.NoError(t, err)
		want := comp.Gross.Add(comp.TotalBonuses).Add(comp.TotalBenefits).Sub(comp.TotalDeductions)
		assert.True(t, want.Equal(comp.Net))
		assert.Equal(t, []string{payroll.BonusSales}, codes(comp.Bonuses))
	})

	t.Run("negative net is rejected", func(t *testing.T) {
		rates := payroll.DefaultRates()
		rates.PensionPercent = dec("150")
		harsh := payroll.NewCalculator(rates, fixedClock)

		emp := worker(employeetype.CodeTemporary, today.AddDate(-1, 0, 0))
		emp.BaseSalary = dec("1000000")

		_, err := harsh.Compute(emp, payroll.Inputs{})
		assert.ErrorIs(t, err, payrollerrors.ErrNegativeNetSalary)
	})

	t.Run("is deterministic", func(t *testing.T) {
		emp := worker(employeetype.CodeSalaried, today.AddDate(-6, 0, 0))
		emp.BaseSalary = dec("3333333.33")

		first, err := calc.Compute(emp, payroll.Inputs{})
		require.NoError(t, err)
		second, err := calc.Compute(emp, payroll.Inputs{})
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}
