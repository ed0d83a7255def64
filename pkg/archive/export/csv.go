package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"mercator-hq/galileo/pkg/archive"
)

// CSVExporter exports query records to CSV format.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{
		IncludeHeader: includeHeader,
	}
}

// Export writes query records to the provided writer in CSV format.
func (e *CSVExporter) Export(ctx context.Context, records []*archive.QueryRecord, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		if err := writer.Write(headerRow()); err != nil {
			return archive.NewExportError("csv", len(records), err)
		}
	}

	for _, record := range records {
		if err := writer.Write(recordToRow(record)); err != nil {
			return archive.NewExportError("csv", len(records), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return archive.NewExportError("csv", len(records), err)
	}

	return nil
}

// ExportStream exports query records from a channel in CSV format.
// The writer flushes periodically so long exports make visible
// progress.
func (e *CSVExporter) ExportStream(ctx context.Context, recordsCh <-chan *archive.QueryRecord, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		if err := writer.Write(headerRow()); err != nil {
			return archive.NewExportError("csv", 0, err)
		}
	}

	recordCount := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case record, ok := <-recordsCh:
			if !ok {
				writer.Flush()
				if err := writer.Error(); err != nil {
					return archive.NewExportError("csv", recordCount, err)
				}
				return nil
			}

			if err := writer.Write(recordToRow(record)); err != nil {
				return archive.NewExportError("csv", recordCount, err)
			}

			recordCount++

			if recordCount%100 == 0 {
				writer.Flush()
				if err := writer.Error(); err != nil {
					return archive.NewExportError("csv", recordCount, err)
				}
			}
		}
	}
}

// headerRow returns the CSV header row.
func headerRow() []string {
	return []string{
		"id", "endpoint", "expr",
		"start", "end", "step",
		"executed_at", "duration_ms", "status",
		"error_type", "error", "result_type", "warning_count", "status_code", "attempts",
		"server_url",
	}
}

// recordToRow converts a query record to a CSV row.
func recordToRow(record *archive.QueryRecord) []string {
	formatTime := func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(time.RFC3339)
	}

	step := ""
	if record.Step > 0 {
		step = record.Step.String()
	}

	return []string{
		record.ID,
		record.Endpoint,
		record.Expr,
		formatTime(record.Start),
		formatTime(record.End),
		step,
		formatTime(record.ExecutedAt),
		fmt.Sprintf("%d", record.Duration.Milliseconds()),
		record.Status,
		record.ErrorType,
		record.Error,
		record.ResultType,
		fmt.Sprintf("%d", record.WarningCount),
		fmt.Sprintf("%d", record.StatusCode),
		fmt.Sprintf("%d", record.Attempts),
		record.ServerURL,
	}
}
