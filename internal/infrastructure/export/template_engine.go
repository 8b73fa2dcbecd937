package export

import (
	"bytes"
	"html/template"
	"maps"
	"strings"

	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TemplateEngine renders html/template views with money and date helpers
type TemplateEngine struct {
	funcMap   template.FuncMap
	templates map[string]*template.Template
}

// NewTemplateEngine parses the built-in views
func NewTemplateEngine() (*TemplateEngine, error) {
	e := &TemplateEngine{templates: make(map[string]*template.Template)}
	e.funcMap = template.FuncMap{
		"formatMoney":    formatMoney,
		"formatMoneyRaw": formatMoneyRaw,
		"formatQuantity": formatQuantity,
		"formatPercent":  formatPercent,
		"formatDate":     formatDate,
		"title":          titleCase,
		"upper":          strings.ToUpper,
		"lines":          lines,
	}
	for name, content := range defaultTemplates {
		if err := e.Register(name, content); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Register parses and stores a named template, replacing any existing one
func (e *TemplateEngine) Register(name, content string) error {
	if strings.TrimSpace(content) == "" {
		return NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return NewRenderError(ErrCodeInvalidHTML, "failed to parse template "+name, err)
	}
	e.templates[name] = tmpl
	return nil
}

// Render executes the named template with data
func (e *TemplateEngine) Render(name string, data any) (string, error) {
	tmpl, ok := e.templates[name]
	if !ok {
		return "", NewRenderError(ErrCodeInvalidHTML, "unknown template "+name, nil)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template "+name, err)
	}
	return buf.String(), nil
}

// FuncMap returns a copy of the template function map
func (e *TemplateEngine) FuncMap() template.FuncMap {
	m := make(template.FuncMap, len(e.funcMap))
	maps.Copy(m, e.funcMap)
	return m
}

// formatMoney formats an amount with the currency symbol.
// Example: 25000, ZAR -> "R25,000.00"
func formatMoney(d decimal.Decimal, c valueobject.Currency) string {
	if c == "" {
		c = valueobject.DefaultCurrency
	}
	raw := formatMoneyRaw(d)
	if strings.HasPrefix(raw, "-") {
		return "-" + c.Symbol() + raw[1:]
	}
	return c.Symbol() + raw
}

// formatMoneyRaw formats an amount with thousands separators and 2 places
func formatMoneyRaw(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	parts := strings.Split(d.StringFixed(2), ".")
	intPart := parts[0]
	decPart := "00"
	if len(parts) > 1 {
		decPart = parts[1]
	}

	var result strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	return sign + result.String() + "." + decPart
}

// formatQuantity drops trailing zeros: 10.00 -> "10", 2.50 -> "2.5"
func formatQuantity(d decimal.Decimal) string {
	return d.String()
}

func formatPercent(d decimal.Decimal) string {
	return d.String() + "%"
}

func formatDate(d valueobject.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// lines splits multi-line text such as addresses for <br> rendering
func lines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
