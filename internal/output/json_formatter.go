package output

import (
	"encoding/json"

	"github.com/rgehrsitz/dealopt/internal/domain"
)

// JSONFormatter encodes the quote result as is
type JSONFormatter struct {
	Pretty bool
}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(quote *domain.QuoteResult) ([]byte, error) {
	if j.Pretty {
		return json.MarshalIndent(quote, "", "  ")
	}
	return json.Marshal(quote)
}
