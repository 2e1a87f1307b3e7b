// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mvellano/constellarium/internal/journal"
)

// inspectTimeout bounds a schema inspection; reading table lists and a
// row count from a local SQLite file should never take this long.
const inspectTimeout = 30 * time.Second

func inspectCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <source>",
		Short: "Inspect a legacy database's schema without importing",
		Long: `Open a legacy SQLite database, report its tables, the table that
would be selected as the entries table, that table's columns, and the
row count. Nothing is extracted or written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), inspectTimeout)
			defer cancel()

			report, err := journal.InspectSource(ctx, args[0])
			if err != nil {
				return err
			}

			if asJSON {
				data, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode report: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}

			printSourceReport(os.Stdout, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the report as JSON")
	return cmd
}

func printSourceReport(w io.Writer, report *journal.SourceReport) {
	fmt.Fprintf(w, "Source: %s\n", report.SourcePath)
	fmt.Fprintf(w, "Tables: %s\n", strings.Join(report.Tables, ", "))

	if report.EntriesTable == "" {
		fmt.Fprintln(w, "\nNo entries table identified; an import would fail.")
		return
	}

	fmt.Fprintf(w, "\nEntries table: %s (%d rows)\n", report.EntriesTable, report.RowCount)
	fmt.Fprintln(w, "Columns:")
	for _, col := range report.Columns {
		if col.DeclaredType != "" {
			fmt.Fprintf(w, "  %-24s %s\n", col.Name, col.DeclaredType)
		} else {
			fmt.Fprintf(w, "  %s\n", col.Name)
		}
	}
}
