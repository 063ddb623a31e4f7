package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/dealopt/internal/domain"
)

// HTMLFormatter produces a printable quote sheet
type HTMLFormatter struct {
	Assumptions []string
}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/quote.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("quote").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"inc":  func(i int) int { return i + 1 },
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(quote *domain.QuoteResult) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.QuoteResult
		Assumptions []string
	}{quote, h.Assumptions}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
