// Package report renders Manapool API results as JSON, NDJSON, CSV or
// human readable tables.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/scizorman/go-ndjson"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Format string

const (
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatCSV    Format = "csv"
	FormatTable  Format = "table"
)

var Formats = []Format{FormatJSON, FormatNDJSON, FormatCSV, FormatTable}

func ParseFormat(name string) (Format, error) {
	for _, format := range Formats {
		if string(format) == name {
			return format, nil
		}
	}
	return "", fmt.Errorf("invalid format %q, choose one of json, ndjson, csv, table", name)
}

var printer = message.NewPrinter(language.English)

// FormatCents renders an amount of cents as dollars, or N/A when missing.
func FormatCents(cents *int) string {
	if cents == nil {
		return "N/A"
	}
	return formatCents(*cents)
}

func formatCents(cents int) string {
	return printer.Sprintf("$%.2f", float64(cents)/100)
}

// WriteJSON writes v indented by two spaces. Raw messages are re-indented
// without being decoded, so unknown fields survive.
func WriteJSON(w io.Writer, v interface{}) error {
	if raw, ok := v.(json.RawMessage); ok {
		if len(bytes.TrimSpace(raw)) == 0 {
			return nil
		}
		var out bytes.Buffer
		err := json.Indent(&out, raw, "", "  ")
		if err != nil {
			return err
		}
		out.WriteString("\n")
		_, err = out.WriteTo(w)
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteNDJSON writes one JSON document per element of a slice.
func WriteNDJSON(w io.Writer, rows interface{}) error {
	output, err := ndjson.Marshal(rows)
	if err != nil {
		return err
	}
	_, err = w.Write(output)
	return err
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func rule(w io.Writer, n int) {
	fmt.Fprintln(w, strings.Repeat("-", n))
}
