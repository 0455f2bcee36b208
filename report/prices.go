package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/mtgban/go-manapool/manapool"
)

var PriceListHeader = []string{
	"Scryfall ID", "Name", "Set", "Number", "NM", "NM Foil", "LP+", "LP+ Foil", "Quantity",
}

func cents(c int) string {
	if c == 0 {
		return ""
	}
	return fmt.Sprintf("%0.2f", float64(c)/100)
}

func WritePriceList(w io.Writer, format Format, entries []manapool.PriceEntry) error {
	switch format {
	case FormatNDJSON:
		return WriteNDJSON(w, entries)
	case FormatTable:
		fmt.Fprintf(w, "%-30s %-8s %-6s %10s %10s %6s\n", "Name", "Set", "Number", "NM", "NM Foil", "Qty")
		rule(w, 75)
		for _, entry := range entries {
			fmt.Fprintf(w, "%-30s %-8s %-6s %10s %10s %6d\n",
				truncate(entry.Name, 30), entry.SetCode, entry.Number,
				formatCents(entry.PriceCentsNm), formatCents(entry.PriceCentsNmFoil), entry.AvailableQuantity)
		}
		return nil
	case FormatCSV:
		csvWriter := csv.NewWriter(w)

		err := csvWriter.Write(PriceListHeader)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			err = csvWriter.Write([]string{
				entry.ScryfallID,
				entry.Name,
				entry.SetCode,
				entry.Number,
				cents(entry.PriceCentsNm),
				cents(entry.PriceCentsNmFoil),
				cents(entry.PriceCentsLpPlus),
				cents(entry.PriceCentsLpPlusFoil),
				fmt.Sprint(entry.AvailableQuantity),
			})
			if err != nil {
				return err
			}
		}
		csvWriter.Flush()
		return csvWriter.Error()
	}
	return WriteJSON(w, entries)
}
