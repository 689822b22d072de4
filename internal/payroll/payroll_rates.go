package payroll

import "github.com/shopspring/decimal"

// RateTable holds every percentage and threshold the calculator applies.
// Percentages are expressed in percent units (4 means 4%).
type RateTable struct {
	OvertimeMultiplier decimal.Decimal

	SeniorityBonusPercent  decimal.Decimal
	SeniorityBonusMinYears int
	SalesBonusPercent      decimal.Decimal
	SalesBonusThreshold    decimal.Decimal

	FoodAllowance decimal.Decimal

	// EmployerSavingsFundPercent stays at zero until the company contributes;
	// no benefit line is emitted while it is zero.
	EmployerSavingsFundPercent decimal.Decimal
	EmployeeSavingsFundPercent decimal.Decimal
	SavingsFundMinYears        int

	PensionPercent decimal.Decimal
	ARLPercent     decimal.Decimal
}

func DefaultRates() RateTable {
	return RateTable{
		OvertimeMultiplier: decimal.RequireFromString("1.5"),

		SeniorityBonusPercent:  decimal.NewFromInt(10),
		SeniorityBonusMinYears: 5,
		SalesBonusPercent:      decimal.NewFromInt(3),
		SalesBonusThreshold:    decimal.NewFromInt(20_000_000),

		FoodAllowance: decimal.NewFromInt(1_000_000),

		EmployerSavingsFundPercent: decimal.Zero,
		EmployeeSavingsFundPercent: decimal.NewFromInt(2),
		SavingsFundMinYears:        1,

		PensionPercent: decimal.NewFromInt(4),
		ARLPercent:     decimal.RequireFromString("0.522"),
	}
}
