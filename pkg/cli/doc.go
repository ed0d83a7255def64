/*
Package cli provides command-line interface utilities for Galileo.

The cli package includes output formatters, progress reporters, exit code
mapping, and common CLI helpers used by the galileo command.

Output Formatting:

The cli package supports multiple output formats (text, JSON, CSV) for
displaying query results and listings. The text and CSV formatters know
how to render the Prometheus model types, so commands hand results
straight to the formatter:

	formatter := cli.NewFormatter(cli.FormatText)
	result, err := client.Query(ctx, "up", time.Now())
	if err != nil {
		return err
	}
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Exit Codes:

Command errors map to process exit codes by error type, so scripts can
distinguish a bad query from an unreachable server:

	if err := rootCmd.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}

Progress Reporting:

For long-running operations, use the progress reporter. Pass a zero
total for streams whose length is not known up front:

	progress := cli.NewProgressReporter(os.Stdout)
	progress.Start(0)
	for record := range records {
		// Do work
		progress.Increment()
	}
	progress.Finish()

Signal Handling:

For graceful cancellation on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
	// Use ctx for requests that should be cancelled on interrupt
*/
package cli
