package payroll

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

func payslipFilename(p Payroll) string {
	label := p.PeriodID.String()
	if p.Period != nil {
		label = p.Period.Label()
	}
	who := p.EmployeeID.String()
	if p.Employee != nil {
		who = p.Employee.Identification
	}
	return fmt.Sprintf("payslip_%s_%s.pdf", label, strings.ReplaceAll(who, " ", ""))
}

func money(d decimal.Decimal) string {
	return "$ " + d.StringFixed(2)
}

// renderPayslipPDF lays out header, the three line sections and the totals
// on a single A4 page.
func renderPayslipPDF(p Payroll) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Comprobante de nómina"))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	if p.Employee != nil {
		pdf.Cell(0, 7, tr(fmt.Sprintf("Empleado: %s (%s)", p.Employee.FullName(), p.Employee.Identification)))
		pdf.Ln(6)
		pdf.Cell(0, 7, tr("Tipo: "+p.Employee.TypeCode()))
		pdf.Ln(6)
	}
	if p.Period != nil {
		pdf.Cell(0, 7, fmt.Sprintf("Periodo: %s (%s a %s)",
			p.Period.Label(),
			p.Period.StartDate.Format("2006-01-02"),
			p.Period.EndDate.Format("2006-01-02"),
		))
		pdf.Ln(6)
		pdf.Cell(0, 7, "Fecha de pago: "+p.Period.PayDate.Format("2006-01-02"))
		pdf.Ln(6)
	}
	pdf.Cell(0, 7, tr(fmt.Sprintf("Calculado por %s el %s", p.ComputedBy, p.ComputedAt.Format("2006-01-02 15:04"))))
	pdf.Ln(10)

	row := func(label string, amount decimal.Decimal) {
		pdf.CellFormat(130, 7, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, money(amount), "", 1, "R", false, 0, "")
	}
	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(180, 8, tr(title), "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
	}

	section("Devengado")
	row("Salario bruto", p.GrossSalary)
	for _, l := range p.Bonuses {
		row(l.Description, l.Amount)
	}
	for _, l := range p.Benefits {
		row(l.Description, l.Amount)
	}
	pdf.Ln(3)

	section("Deducciones")
	for _, l := range p.Deductions {
		label := l.Description
		if l.AppliedPercent.Valid {
			label = fmt.Sprintf("%s (%s%%)", label, l.AppliedPercent.Decimal.String())
		}
		row(label, l.Amount)
	}
	pdf.Ln(3)

	section("Resumen")
	row("Total bonificaciones", p.TotalBonuses)
	row("Total beneficios", p.TotalBenefits)
	row("Total deducciones", p.TotalDeductions)
	pdf.SetFont("Helvetica", "B", 12)
	row("Neto a pagar", p.NetSalary)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
