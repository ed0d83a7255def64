// Package export provides query record exporters.
//
// # Export Formats
//
//   - JSON: array of records, with optional pretty-printing
//   - CSV: flattened schema with an optional header row
//
// # JSON Export
//
//	exporter := export.NewJSONExporter(true) // pretty-print
//
//	err := exporter.Export(ctx, records, os.Stdout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # CSV Export
//
//	exporter := export.NewCSVExporter(true) // include header
//
//	f, _ := os.Create("archive.csv")
//	defer f.Close()
//
//	err := exporter.Export(ctx, records, f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Streaming
//
// Both exporters also accept a record channel (ExportStream), pairing
// with Storage.QueryStream so large archives can be exported without
// loading every record into memory.
//
// # Error Handling
//
// Exporters return *archive.ExportError when serialization or the
// underlying writer fails.
package export
