package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/shopspring/decimal"
)

// TableFormatter renders the ranked scenarios as a console report. Detail adds
// the invoice of every scenario instead of only the best one.
type TableFormatter struct {
	Detail bool
}

func (t TableFormatter) Name() string {
	if t.Detail {
		return "detail"
	}
	return "table"
}

const reportWidth = 86

func (t TableFormatter) Format(quote *domain.QuoteResult) ([]byte, error) {
	if quote == nil {
		return nil, fmt.Errorf("quote cannot be nil")
	}
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", reportWidth))
	fmt.Fprintln(&buf, "WIRELESS DEAL QUOTE")
	fmt.Fprintln(&buf, strings.Repeat("=", reportWidth))
	fmt.Fprintf(&buf, "Tables: %s (%s)\n", quote.TablesVersion, shortHash(quote.TablesHash))
	if quote.Best != nil {
		fmt.Fprintf(&buf, "Best:   %s at %s over %d months\n",
			quote.Best.Name, FormatCurrency(quote.Best.TotalCost), quote.Best.FinancingTermMonths)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "RANKED SCENARIOS")
	fmt.Fprintln(&buf, strings.Repeat("-", reportWidth))
	fmt.Fprintf(&buf, "%-3s %-24s %12s %12s %14s %14s\n", "#", "Scenario", "Monthly", "Upfront", "Reimbursement", "Total Cost")
	for i, s := range quote.Scenarios {
		fmt.Fprintf(&buf, "%-3d %-24s %12s %12s %14s %14s\n",
			i+1, s.Name,
			FormatCurrency(s.MonthlyTotal),
			FormatCurrency(s.UpfrontTotal),
			FormatCurrency(s.Reimbursements),
			FormatCurrency(s.TotalCost))
	}
	fmt.Fprintln(&buf)

	if t.Detail {
		for i, s := range quote.Scenarios {
			writeScenario(&buf, i+1, s)
		}
	} else if quote.Best != nil {
		writeScenario(&buf, 1, *quote.Best)
	}

	if len(quote.Warnings) > 0 {
		fmt.Fprintln(&buf, "WARNINGS")
		fmt.Fprintln(&buf, strings.Repeat("-", reportWidth))
		for _, w := range quote.Warnings {
			fmt.Fprintf(&buf, "• [%s] %s\n", w.Code, w.Message)
		}
		fmt.Fprintln(&buf)
	}

	return buf.Bytes(), nil
}

func writeScenario(buf *bytes.Buffer, rank int, s domain.Scenario) {
	fmt.Fprintf(buf, "SCENARIO %d: %s\n", rank, s.Name)
	fmt.Fprintln(buf, strings.Repeat("=", 50))

	autopay := "without AutoPay"
	if s.Plan.AutoPayApplied {
		autopay = fmt.Sprintf("with AutoPay (-%s)", FormatCurrency(s.Plan.AutopayDiscountTotal))
	}
	fmt.Fprintf(buf, "Plan %s, %d lines: %s %s\n\n", s.Plan.PlanID, s.Plan.LineCount, FormatCurrency(s.Plan.Monthly()), autopay)

	fmt.Fprintf(buf, "%-16s %-16s %10s %10s %10s %10s %10s\n", "Line", "Device", "Service", "Line Fee", "Financing", "Protection", "Credits")
	for _, row := range s.PerLineBreakdown {
		device := "-"
		if row.DeviceModel != nil {
			device = string(*row.DeviceModel)
		}
		credits := row.TradeInCredit.Add(row.PromotionCredit)
		fmt.Fprintf(buf, "%-16s %-16s %10s %10s %10s %10s %10s\n",
			row.Label, device,
			FormatCurrency(row.MonthlyService),
			FormatCurrency(row.MonthlyLineFee),
			FormatCurrency(row.MonthlyFinancing),
			FormatCurrency(row.MonthlyInsurance),
			FormatCurrency(credits))
	}
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "MONTHLY")
	line(buf, "Service", s.MonthlyService)
	line(buf, "Device financing", s.MonthlyDeviceFinancing)
	line(buf, "Accessory lines", s.MonthlyAccessory)
	line(buf, "Device protection", s.MonthlyInsurance)
	line(buf, "Taxes & fees", s.MonthlyTaxesAndFees)
	line(buf, "Total per month", s.MonthlyTotal)
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "DUE AT SIGNING")
	line(buf, "Device taxes", s.Upfront.DeviceTaxes)
	line(buf, "Accessory taxes", s.Upfront.AccessoryTaxes)
	line(buf, "Activation fees", s.Upfront.ActivationFees)
	line(buf, "Connection fees", s.Upfront.ConnectionFees)
	line(buf, "First month", s.Upfront.FirstMonth)
	line(buf, "Total upfront", s.UpfrontTotal)
	fmt.Fprintln(buf)

	if len(s.PromotionsApplied) > 0 {
		fmt.Fprintln(buf, "PROMOTIONS")
		for _, p := range s.PromotionsApplied {
			target := "account"
			if p.TargetLineIndex != nil {
				target = fmt.Sprintf("line %d", *p.TargetLineIndex+1)
			}
			fmt.Fprintf(buf, "  %-24s %-10s %12s  %s\n", p.PromotionID, target, FormatCurrency(p.CreditAmount), p.Description)
		}
		fmt.Fprintln(buf)
	}

	if !s.Reimbursements.IsZero() {
		line(buf, "Switcher reimbursement", s.Reimbursements)
	}
	line(buf, fmt.Sprintf("Total over %d months", s.FinancingTermMonths), s.TotalCost)
	line(buf, "Effective monthly", s.EffectiveMonthly())
	fmt.Fprintln(buf)
}

func line(buf *bytes.Buffer, label string, amount decimal.Decimal) {
	fmt.Fprintf(buf, "  %-28s %14s\n", label+":", FormatCurrency(amount))
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
