package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tirasundara/settlement-optimizer/internal/domain"
)

// OutputFormatter defines the interface for formatting settlement results
type OutputFormatter interface {
	Format(result domain.SettlementResult) ([]byte, error)
	FileExtension() string
}

// NewFormatter returns the formatter registered under name
func NewFormatter(name string, prettyPrint bool) (OutputFormatter, error) {
	switch strings.ToLower(name) {
	case "json", "":
		return NewJSONFormatter(prettyPrint), nil
	case "csv":
		return NewCSVFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", name)
	}
}

// JSONFormatter formats settlement results as JSON
type JSONFormatter struct {
	PrettyPrint bool
}

func NewJSONFormatter(prettyPrint bool) *JSONFormatter {
	return &JSONFormatter{
		PrettyPrint: prettyPrint,
	}
}

// Format implements the OutputFormatter interface for JSON
func (f *JSONFormatter) Format(result domain.SettlementResult) ([]byte, error) {
	if f.PrettyPrint {
		return json.MarshalIndent(result, "", "  ")
	}
	return json.Marshal(result)
}

func (f *JSONFormatter) FileExtension() string {
	return "json"
}

// CSVFormatter writes one from,to,amount row per settling payment
type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

// Format implements the OutputFormatter interface for CSV
func (f *CSVFormatter) Format(result domain.SettlementResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"from", "to", "amount"}); err != nil {
		return nil, err
	}
	for _, s := range result.Settlements {
		if err := w.Write([]string{s.From, s.To, s.Amount.StringFixed(result.DecimalPlaces)}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("writing csv report: %w", err)
	}

	return buf.Bytes(), nil
}

func (f *CSVFormatter) FileExtension() string {
	return "csv"
}
