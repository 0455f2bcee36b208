package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/mtgban/go-manapool/manapool"
)

var InventoryHeader = []string{
	"Scryfall ID", "Name", "Set", "Language", "Condition", "Finish", "Price", "Quantity", "Market Low",
}

// InventoryRow is one seller listing, flattened for CSV and NDJSON.
type InventoryRow struct {
	ScryfallID  string `json:"scryfall_id,omitempty"`
	Name        string `json:"name"`
	Set         string `json:"set"`
	LanguageID  string `json:"language_id,omitempty"`
	ConditionID string `json:"condition_id,omitempty"`
	FinishID    string `json:"finish_id,omitempty"`
	PriceCents  int    `json:"price_cents"`
	Quantity    int    `json:"quantity"`
	MarketLow   *int   `json:"market_low,omitempty"`
}

func InventoryRows(items []manapool.InventoryItem) []InventoryRow {
	rows := make([]InventoryRow, 0, len(items))
	for _, item := range items {
		row := InventoryRow{
			Name:       "Unknown",
			Set:        "???",
			PriceCents: item.PriceCents,
			Quantity:   item.Quantity,
		}
		single := item.Product.Single
		if single != nil {
			if single.Name != "" {
				row.Name = single.Name
			}
			if single.SetName() != "" {
				row.Set = single.SetName()
			}
			row.ScryfallID = single.ScryfallID
			row.LanguageID = single.LanguageID
			row.ConditionID = single.ConditionID
			row.FinishID = single.FinishID
		}
		low, found := manapool.SelectLowest(item)
		if found {
			row.MarketLow = &low
		}
		rows = append(rows, row)
	}
	return rows
}

// InventorySummary aggregates listing prices, in cents.
type InventorySummary struct {
	Listings    int     `json:"listings"`
	Quantity    int     `json:"quantity"`
	TotalCents  int     `json:"total_cents"`
	MeanCents   float64 `json:"mean_cents"`
	MedianCents float64 `json:"median_cents"`
}

func Summarize(items []manapool.InventoryItem) (InventorySummary, error) {
	var summary InventorySummary
	if len(items) == 0 {
		return summary, nil
	}

	var values []float64
	for _, item := range items {
		summary.Listings++
		summary.Quantity += item.Quantity
		summary.TotalCents += item.PriceCents * item.Quantity
		values = append(values, float64(item.PriceCents))
	}

	var err error
	summary.MeanCents, err = stats.Mean(values)
	if err != nil {
		return summary, err
	}
	summary.MedianCents, err = stats.Median(values)
	if err != nil {
		return summary, err
	}
	return summary, nil
}

// WriteInventoryTable prints a fixed width summary of the listings. When
// withStats is set, the marketplace low of the exact same variant is added.
func WriteInventoryTable(w io.Writer, items []manapool.InventoryItem, withStats bool) error {
	width := 55
	if withStats {
		width = 66
		fmt.Fprintf(w, "%-30s %-10s %8s %4s %10s\n", "Name", "Set", "Price", "Qty", "Market Low")
	} else {
		fmt.Fprintf(w, "%-30s %-10s %8s %4s\n", "Name", "Set", "Price", "Qty")
	}
	rule(w, width)

	for _, row := range InventoryRows(items) {
		price := fmt.Sprintf("%.2f", float64(row.PriceCents)/100)
		if withStats {
			fmt.Fprintf(w, "%-30s %-10s %8s %4d %10s\n", truncate(row.Name, 30), row.Set, price, row.Quantity, FormatCents(row.MarketLow))
		} else {
			fmt.Fprintf(w, "%-30s %-10s %8s %4d\n", truncate(row.Name, 30), row.Set, price, row.Quantity)
		}
	}

	summary, err := Summarize(items)
	if err != nil {
		return err
	}
	rule(w, width)
	_, err = fmt.Fprintf(w, "%d listings, %d cards, total %s, median %s\n",
		summary.Listings, summary.Quantity, formatCents(summary.TotalCents), formatCents(int(math.Round(summary.MedianCents))))
	return err
}

func WriteInventoryCSV(w io.Writer, items []manapool.InventoryItem) error {
	csvWriter := csv.NewWriter(w)

	err := csvWriter.Write(InventoryHeader)
	if err != nil {
		return err
	}

	for _, row := range InventoryRows(items) {
		low := ""
		if row.MarketLow != nil {
			low = fmt.Sprintf("%0.2f", float64(*row.MarketLow)/100)
		}
		err = csvWriter.Write([]string{
			row.ScryfallID,
			row.Name,
			row.Set,
			row.LanguageID,
			row.ConditionID,
			row.FinishID,
			fmt.Sprintf("%0.2f", float64(row.PriceCents)/100),
			fmt.Sprint(row.Quantity),
			low,
		})
		if err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
