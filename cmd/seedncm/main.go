// Command seedncm converts a TEC/TIPI spreadsheet into a SQL seed file for the ncm_codes table.
// The first sheet must hold NCM code, description, II rate and IPI rate in columns A to D.
// Usage: go run ./cmd/seedncm -in tec.xlsx -out db/seeds/ncm_codes.sql
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const batchSize = 500

type ncmEntry struct {
	code        string
	description string
	iiRate      float64
	ipiRate     float64
}

func main() {
	in := flag.String("in", "tec.xlsx", "input spreadsheet")
	out := flag.String("out", "db/seeds/ncm_codes.sql", "output SQL file")
	flag.Parse()

	if err := run(*in, *out); err != nil {
		log.Fatal(err)
	}
}

func run(xlsxPath, outPath string) error {
	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return fmt.Errorf("read rows: %w", err)
	}
	entries := parseRows(rows)
	log.Printf("NCM sheet: %d entries", len(entries))

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if err := writeSeed(out, entries); err != nil {
		return err
	}
	log.Printf("Generated %d entries (%d batches) in %s",
		len(entries), (len(entries)+batchSize-1)/batchSize, outPath)
	return nil
}

// parseRows keeps rows whose first cell is a full 8-digit NCM code. Chapter and heading rows are skipped.
// A repeated code keeps its first occurrence.
func parseRows(rows [][]string) []ncmEntry {
	seen := make(map[string]bool)
	var entries []ncmEntry
	for _, row := range rows {
		code := digitsOnly(cellVal(row, 0))
		if len(code) != 8 || seen[code] {
			continue
		}
		seen[code] = true
		entries = append(entries, ncmEntry{
			code:        code,
			description: strings.TrimSpace(cellVal(row, 1)),
			iiRate:      parseRate(cellVal(row, 2)),
			ipiRate:     parseRate(cellVal(row, 3)),
		})
	}
	return entries
}

var ratePattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// parseRate reads a percentage such as "14", "3,25%" or "NT" (not taxed, stored as 0).
func parseRate(s string) float64 {
	m := ratePattern.FindString(s)
	if m == "" {
		return 0
	}
	rate, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
	if err != nil {
		return 0
	}
	return rate
}

func writeSeed(out *os.File, entries []ncmEntry) error {
	var b strings.Builder
	b.WriteString("-- NCM tariff seed data generated from spreadsheet.\n")
	fmt.Fprintf(&b, "-- %d entries in batches of %d.\n", len(entries), batchSize)
	b.WriteString("BEGIN;\n\n")
	for i := 0; i < len(entries); i += batchSize {
		end := i + batchSize
		if end > len(entries) {
			end = len(entries)
		}
		writeBatch(&b, entries[i:end])
	}
	b.WriteString("\nCOMMIT;\n")

	if _, err := out.WriteString(b.String()); err != nil {
		return fmt.Errorf("write seed: %w", err)
	}
	return nil
}

func writeBatch(b *strings.Builder, batch []ncmEntry) {
	if len(batch) == 0 {
		return
	}
	b.WriteString("INSERT INTO ncm_codes (code, description, ii_rate, ipi_rate) VALUES\n")
	for i := range batch {
		e := &batch[i]
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(b, "  ('%s', '%s', %.2f, %.2f)", e.code, escapeSQL(e.description), e.iiRate, e.ipiRate)
	}
	b.WriteString("\nON CONFLICT (code, effective_from) DO NOTHING;\n")
}

func cellVal(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, c := range strings.TrimSpace(s) {
		switch {
		case c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == '.' || c == ' ':
		default:
			return ""
		}
	}
	return b.String()
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
