package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/common/model"

	"mercator-hq/galileo/pkg/promapi"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
	// FormatCSV is CSV output.
	FormatCSV OutputFormat = "csv"
)

// ParseFormat converts a format flag value into an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatText, FormatJSON, FormatCSV:
		return OutputFormat(s), nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q: must be 'text', 'json', or 'csv'", s)
	}
}

// Formatter formats command output.
type Formatter interface {
	Format(data interface{}) ([]byte, error)
	FormatTo(w io.Writer, data interface{}) error
}

// NewFormatter creates a new formatter for the specified format.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatCSV:
		return &CSVFormatter{}
	default:
		return &TextFormatter{}
	}
}

// TextFormatter formats output as plain text. Query results render in
// the expression browser style: one `metric => value @[timestamp]` line
// per sample, with matrix streams listing their points under the metric.
type TextFormatter struct{}

// Format converts data to text format.
func (f *TextFormatter) Format(data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.FormatTo(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatTo writes data to writer in text format.
func (f *TextFormatter) FormatTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case *promapi.QueryResult:
		for _, warning := range v.Warnings {
			if _, err := fmt.Fprintf(w, "WARNING: %s\n", warning); err != nil {
				return err
			}
		}
		return f.FormatTo(w, v.Value)

	case model.Vector:
		if len(v) == 0 {
			_, err := fmt.Fprintln(w, "(empty result)")
			return err
		}
		for _, sample := range v {
			if _, err := fmt.Fprintln(w, sample.String()); err != nil {
				return err
			}
		}
		return nil

	case model.Matrix:
		if len(v) == 0 {
			_, err := fmt.Fprintln(w, "(empty result)")
			return err
		}
		for _, stream := range v {
			if _, err := fmt.Fprintln(w, stream.String()); err != nil {
				return err
			}
		}
		return nil

	case *model.Scalar:
		_, err := fmt.Fprintln(w, v.String())
		return err

	case *model.String:
		_, err := fmt.Fprintln(w, v.String())
		return err

	case model.Value:
		_, err := fmt.Fprintln(w, v.String())
		return err

	case model.LabelValues:
		for _, value := range v {
			if _, err := fmt.Fprintln(w, string(value)); err != nil {
				return err
			}
		}
		return nil

	case []model.LabelSet:
		for _, set := range v {
			if _, err := fmt.Fprintln(w, set.String()); err != nil {
				return err
			}
		}
		return nil

	case []string:
		for _, line := range v {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil

	default:
		_, err := fmt.Fprintf(w, "%v\n", data)
		return err
	}
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Indent bool
}

// Format converts data to JSON format.
func (f *JSONFormatter) Format(data interface{}) ([]byte, error) {
	if f.Indent {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}

// FormatTo writes data to writer in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// CSVFormatter formats output as CSV. Query results render one row per
// sample with metric, RFC 3339 timestamp, and value columns.
type CSVFormatter struct {
	// Headers overrides the per-type default header row.
	Headers []string
}

// Format converts data to CSV format.
func (f *CSVFormatter) Format(data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.FormatTo(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatTo writes data to writer in CSV format.
func (f *CSVFormatter) FormatTo(w io.Writer, data interface{}) error {
	csvWriter := csv.NewWriter(w)

	if result, ok := data.(*promapi.QueryResult); ok {
		data = result.Value
	}

	switch v := data.(type) {
	case model.Vector:
		if err := f.writeHeader(csvWriter, []string{"metric", "timestamp", "value"}); err != nil {
			return err
		}
		for _, sample := range v {
			row := []string{
				sample.Metric.String(),
				sample.Timestamp.Time().Format(time.RFC3339),
				sample.Value.String(),
			}
			if err := csvWriter.Write(row); err != nil {
				return err
			}
		}

	case model.Matrix:
		if err := f.writeHeader(csvWriter, []string{"metric", "timestamp", "value"}); err != nil {
			return err
		}
		for _, stream := range v {
			metric := stream.Metric.String()
			for _, pair := range stream.Values {
				row := []string{
					metric,
					pair.Timestamp.Time().Format(time.RFC3339),
					pair.Value.String(),
				}
				if err := csvWriter.Write(row); err != nil {
					return err
				}
			}
		}

	case *model.Scalar:
		if err := f.writeHeader(csvWriter, []string{"timestamp", "value"}); err != nil {
			return err
		}
		row := []string{
			v.Timestamp.Time().Format(time.RFC3339),
			v.Value.String(),
		}
		if err := csvWriter.Write(row); err != nil {
			return err
		}

	case model.LabelValues:
		if err := f.writeHeader(csvWriter, []string{"value"}); err != nil {
			return err
		}
		for _, value := range v {
			if err := csvWriter.Write([]string{string(value)}); err != nil {
				return err
			}
		}

	case []model.LabelSet:
		if err := f.writeHeader(csvWriter, []string{"series"}); err != nil {
			return err
		}
		for _, set := range v {
			if err := csvWriter.Write([]string{set.String()}); err != nil {
				return err
			}
		}

	case []string:
		if err := f.writeHeader(csvWriter, []string{"value"}); err != nil {
			return err
		}
		for _, line := range v {
			if err := csvWriter.Write([]string{line}); err != nil {
				return err
			}
		}

	default:
		return fmt.Errorf("unsupported data type for CSV output: %T", data)
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func (f *CSVFormatter) writeHeader(w *csv.Writer, defaults []string) error {
	headers := defaults
	if len(f.Headers) > 0 {
		headers = f.Headers
	}
	return w.Write(headers)
}
