package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/mtgban/go-manapool/manapool"
)

var LowestPricesHeader = []string{
	"Key", "Name", "Set", "Language", "Condition", "Finish", "Manapool Low", "TCG Market",
}

// VariantRow is one priced variant of a single, flattened for CSV and NDJSON.
type VariantRow struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	SetCode     string `json:"set_code"`
	LanguageID  string `json:"language_id"`
	ConditionID string `json:"condition_id"`
	FinishID    string `json:"finish_id"`
	LowPrice    int    `json:"low_price"`
	MarketPrice *int   `json:"market_price"`
}

// listedVariants returns a sorted copy of the variants that have a low price.
func listedVariants(single manapool.Single) []manapool.Variant {
	var variants []manapool.Variant
	for _, variant := range single.Variants {
		if variant.LowPrice == 0 {
			continue
		}
		variants = append(variants, variant)
	}
	manapool.SortVariants(variants)
	return variants
}

func VariantRows(singles []manapool.Single) []VariantRow {
	var rows []VariantRow
	for _, single := range singles {
		for _, variant := range listedVariants(single) {
			rows = append(rows, VariantRow{
				Key:         single.Key(),
				Name:        single.Name,
				SetCode:     single.SetCode,
				LanguageID:  variant.LanguageID,
				ConditionID: variant.ConditionID,
				FinishID:    variant.FinishID,
				LowPrice:    variant.LowPrice,
				MarketPrice: single.MarketPrice(variant.FinishID),
			})
		}
	}
	return rows
}

// WriteLowestPricesTable prints one block per product with its listed
// variants next to the TCG market price of the same finish.
func WriteLowestPricesTable(w io.Writer, singles []manapool.Single) error {
	for _, single := range singles {
		fmt.Fprintf(w, "Product: %s (%s)\n", single.Name, single.SetCode)
		fmt.Fprintf(w, "TCGPlayer Market Price: %s (NF), %s (Foil)\n",
			FormatCents(single.PriceMarket), FormatCents(single.PriceMarketFoil))
		rule(w, 75)
		fmt.Fprintf(w, "%-10s %-10s %-10s %-15s %-15s\n", "Condition", "Finish", "Language", "Manapool Low", "TCG Market")
		rule(w, 75)

		variants := listedVariants(single)
		if len(variants) == 0 {
			fmt.Fprintln(w, "No listings available")
		}
		for _, variant := range variants {
			fmt.Fprintf(w, "%-10s %-10s %-10s %-15s %-15s\n",
				variant.ConditionID,
				variant.FinishID,
				variant.LanguageID,
				formatCents(variant.LowPrice),
				FormatCents(single.MarketPrice(variant.FinishID)))
		}
		_, err := fmt.Fprint(w, "\n\n")
		if err != nil {
			return err
		}
	}
	return nil
}

func WriteLowestPricesCSV(w io.Writer, singles []manapool.Single) error {
	csvWriter := csv.NewWriter(w)

	err := csvWriter.Write(LowestPricesHeader)
	if err != nil {
		return err
	}

	for _, row := range VariantRows(singles) {
		market := ""
		if row.MarketPrice != nil {
			market = fmt.Sprintf("%0.2f", float64(*row.MarketPrice)/100)
		}
		err = csvWriter.Write([]string{
			row.Key,
			row.Name,
			row.SetCode,
			row.LanguageID,
			row.ConditionID,
			row.FinishID,
			fmt.Sprintf("%0.2f", float64(row.LowPrice)/100),
			market,
		})
		if err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// WriteLowestPrices renders singles in the requested format.
func WriteLowestPrices(w io.Writer, format Format, singles []manapool.Single) error {
	switch format {
	case FormatTable:
		return WriteLowestPricesTable(w, singles)
	case FormatCSV:
		return WriteLowestPricesCSV(w, singles)
	case FormatNDJSON:
		return WriteNDJSON(w, VariantRows(singles))
	}
	return WriteJSON(w, manapool.SinglesResponse{Data: singles})
}

var SealedHeader = []string{
	"Product", "TCGplayer", "Name", "Set", "Low", "Quantity",
}

func WriteSealed(w io.Writer, format Format, sealed []manapool.Sealed) error {
	switch format {
	case FormatTable:
		fmt.Fprintf(w, "%-30s %-10s %10s %5s\n", "Name", "Set", "Low", "Qty")
		rule(w, 58)
		for _, product := range sealed {
			fmt.Fprintf(w, "%-30s %-10s %10s %5d\n",
				truncate(product.Name, 30), product.SetCode, formatCents(product.LowPrice), product.AvailableQuantity)
		}
		return nil
	case FormatCSV:
		csvWriter := csv.NewWriter(w)

		err := csvWriter.Write(SealedHeader)
		if err != nil {
			return err
		}
		for _, product := range sealed {
			err = csvWriter.Write([]string{
				product.ProductID,
				fmt.Sprint(product.TcgplayerProductID),
				product.Name,
				product.SetCode,
				fmt.Sprintf("%0.2f", float64(product.LowPrice)/100),
				fmt.Sprint(product.AvailableQuantity),
			})
			if err != nil {
				return err
			}
		}
		csvWriter.Flush()
		return csvWriter.Error()
	case FormatNDJSON:
		return WriteNDJSON(w, sealed)
	}
	return WriteJSON(w, manapool.SealedResponse{Data: sealed})
}
