package export

import (
	"context"
	"encoding/json"
	"io"

	"mercator-hq/galileo/pkg/archive"
)

// JSONExporter exports query records to JSON format.
type JSONExporter struct {
	// Pretty enables pretty-printing with indentation.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{
		Pretty: pretty,
	}
}

// Export writes query records to the provided writer as a JSON array.
// If Pretty is true, the JSON is indented for readability.
func (e *JSONExporter) Export(ctx context.Context, records []*archive.QueryRecord, w io.Writer) error {
	if len(records) == 0 {
		// Write empty array
		_, err := w.Write([]byte("[]"))
		return err
	}

	var data []byte
	var err error

	if e.Pretty {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return archive.NewExportError("json", len(records), err)
	}

	if _, err := w.Write(data); err != nil {
		return archive.NewExportError("json", len(records), err)
	}

	return nil
}

// ExportStream exports query records from a channel as a JSON array.
// This is memory-efficient for large result sets: records are written
// one at a time as they arrive instead of being held in memory.
func (e *JSONExporter) ExportStream(ctx context.Context, recordsCh <-chan *archive.QueryRecord, w io.Writer) error {
	if _, err := w.Write([]byte("[")); err != nil {
		return archive.NewExportError("json", 0, err)
	}

	first := true
	recordCount := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case record, ok := <-recordsCh:
			if !ok {
				// Channel closed, terminate the array
				if _, err := w.Write([]byte("]")); err != nil {
					return archive.NewExportError("json", recordCount, err)
				}
				return nil
			}

			if !first {
				if _, err := w.Write([]byte(",")); err != nil {
					return archive.NewExportError("json", recordCount, err)
				}
				if e.Pretty {
					if _, err := w.Write([]byte("\n")); err != nil {
						return archive.NewExportError("json", recordCount, err)
					}
				}
			}
			first = false

			data, err := e.serializeRecord(record)
			if err != nil {
				return archive.NewExportError("json", recordCount, err)
			}

			if _, err := w.Write(data); err != nil {
				return archive.NewExportError("json", recordCount, err)
			}

			recordCount++
		}
	}
}

// serializeRecord serializes a single query record to JSON.
func (e *JSONExporter) serializeRecord(record *archive.QueryRecord) ([]byte, error) {
	if e.Pretty {
		return json.MarshalIndent(record, "  ", "  ")
	}
	return json.Marshal(record)
}
