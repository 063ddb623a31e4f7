package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/dealopt/internal/domain"
)

// CSVSummarizer writes one row per scenario in ranked order
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(quote *domain.QuoteResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Rank", "Scenario", "Type", "MonthlyService", "MonthlyDeviceFinancing", "MonthlyAccessory",
		"MonthlyInsurance", "MonthlyTaxesAndFees", "MonthlyTotal", "UpfrontTotal", "Reimbursements", "TotalCost", "Warnings"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i, s := range quote.Scenarios {
		row := []string{
			strconv.Itoa(i + 1),
			s.Name,
			string(s.Type),
			s.MonthlyService.StringFixed(2),
			s.MonthlyDeviceFinancing.StringFixed(2),
			s.MonthlyAccessory.StringFixed(2),
			s.MonthlyInsurance.StringFixed(2),
			s.MonthlyTaxesAndFees.StringFixed(2),
			s.MonthlyTotal.StringFixed(2),
			s.UpfrontTotal.StringFixed(2),
			s.Reimbursements.StringFixed(2),
			s.TotalCost.StringFixed(2),
			strconv.Itoa(len(s.Warnings)),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// CSVLineFormatter writes the per-line invoice rows of every scenario
type CSVLineFormatter struct{}

func (c CSVLineFormatter) Name() string { return "csv-lines" }

func (c CSVLineFormatter) Format(quote *domain.QuoteResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Index", "Kind", "Label", "Device", "FullRetailPrice", "TradeInCredit", "PromotionCredit",
		"FinancedAmount", "MonthlyFinancing", "UpfrontDeviceTax", "CreditSource", "MonthlyService", "MonthlyLineFee",
		"InsuranceTier", "MonthlyInsurance", "Reimbursement"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, s := range quote.Scenarios {
		for _, row := range s.PerLineBreakdown {
			device := ""
			if row.DeviceModel != nil {
				device = string(*row.DeviceModel)
			}
			record := []string{
				string(s.Type),
				strconv.Itoa(row.Index),
				string(row.Kind),
				row.Label,
				device,
				row.FullRetailPrice.StringFixed(2),
				row.TradeInCredit.StringFixed(2),
				row.PromotionCredit.StringFixed(2),
				row.FinancedAmount.StringFixed(2),
				row.MonthlyFinancing.StringFixed(2),
				row.UpfrontDeviceTax.StringFixed(2),
				string(row.CreditSource),
				row.MonthlyService.StringFixed(2),
				row.MonthlyLineFee.StringFixed(2),
				string(row.InsuranceTier),
				row.MonthlyInsurance.StringFixed(2),
				row.Reimbursement.StringFixed(2),
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
