package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/shopspring/decimal"
)

// Formatter renders a quote result in one output format
type Formatter interface {
	Name() string
	Format(quote *domain.QuoteResult) ([]byte, error)
}

// FormatterFunc adapts a plain function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(quote *domain.QuoteResult) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(quote *domain.QuoteResult) ([]byte, error) {
	return f.F(quote)
}

// Formats lists the names NewFormatter accepts
var Formats = []string{"table", "detail", "csv", "csv-lines", "json", "html"}

// NewFormatter creates a formatter based on the format name
func NewFormatter(format string) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "table", "console":
		return TableFormatter{}, nil
	case "detail", "verbose":
		return TableFormatter{Detail: true}, nil
	case "csv":
		return CSVSummarizer{}, nil
	case "csv-lines":
		return CSVLineFormatter{}, nil
	case "json":
		return JSONFormatter{Pretty: true}, nil
	case "html":
		return HTMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (expected one of %s)", format, strings.Join(Formats, ", "))
	}
}

// WriteFormatted renders the quote and writes it to a timestamped file in dir
func WriteFormatted(f Formatter, quote *domain.QuoteResult, dir, ext string) (string, error) {
	data, err := f.Format(quote)
	if err != nil {
		return "", err
	}
	name := filepath.Join(dir, fmt.Sprintf("quote_%s.%s", time.Now().Format("20060102_150405"), ext))
	if err := os.WriteFile(name, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return name, nil
}

// FormatCurrency formats a decimal as currency
func FormatCurrency(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Abs().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}

// PolicyAssumptions lists the defaults a quote was computed under, for display
// alongside any warnings that relied on them
func PolicyAssumptions(policy domain.DefaultsPolicy) []string {
	out := []string{
		fmt.Sprintf("Unlisted jurisdictions are taxed as %q", policy.DefaultJurisdiction),
		fmt.Sprintf("Devices missing from the catalog are priced at %s", FormatCurrency(policy.UnknownDevicePrice)),
	}
	if policy.AssumeAutoPay {
		out = append(out, "AutoPay is assumed unless the customer declines it")
	} else {
		out = append(out, "AutoPay is not assumed unless the customer enrolls")
	}
	if policy.AssumeEligibleWhenCarrierUnknown {
		out = append(out, "New customers with no recorded carrier are treated as switcher-eligible")
	} else {
		out = append(out, "Switcher credits require a recorded eligible carrier")
	}
	return out
}
