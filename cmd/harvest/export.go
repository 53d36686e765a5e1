package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fwojciec/harvest"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	records, err := deps.Contacts.FindContacts(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	out := deps.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if c.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	return writeCSV(out, records)
}

func writeCSV(out io.Writer, records []harvest.ContactRecord) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"Timestamp", "Type", "Value", "Source URL"}); err != nil {
		return err
	}
	for _, record := range records {
		row := []string{
			record.Timestamp.UTC().Format(time.RFC3339),
			string(record.Type),
			record.Value,
			record.SourceURL,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
