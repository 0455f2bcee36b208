package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mtgban/go-manapool/manapool"
	"github.com/mtgban/go-manapool/report"
)

func searchSingles(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "search-singles")
	var ids idFlags
	ids.register(fs, true)
	err := parseFlags(fs, args)
	if err != nil {
		return err
	}

	byKind, err := ids.byKind()
	if err != nil {
		return err
	}
	lookups := manapool.Batch(byKind)
	if len(lookups) == 0 {
		return usagef("must provide at least one search parameter (-scryfall-ids, -tcgplayer-ids, -product-ids)")
	}

	client, err := a.newClient()
	if err != nil {
		return err
	}

	format := a.formatOr(report.FormatJSON)
	if format == report.FormatJSON && len(lookups) == 1 {
		raw, err := client.SearchSinglesRaw(ctx, lookups[0])
		if err != nil {
			return err
		}
		return report.WriteJSON(a.stdout, raw)
	}

	// One call per lookup, any failure aborts the search
	keyFound := map[string]bool{}
	var singles []manapool.Single
	for _, lookup := range lookups {
		results, err := client.SearchSingles(ctx, lookup)
		if err != nil {
			return err
		}
		for _, single := range results {
			if keyFound[single.Key()] {
				continue
			}
			keyFound[single.Key()] = true
			singles = append(singles, single)
		}
	}

	return report.WriteLowestPrices(a.stdout, format, singles)
}

func searchSealed(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "search-sealed")
	var ids idFlags
	ids.register(fs, false)
	err := parseFlags(fs, args)
	if err != nil {
		return err
	}

	sealedLookups := manapool.BatchSealed(ids.tcgplayer, ids.product)
	if len(sealedLookups) == 0 {
		return usagef("must provide at least one search parameter (-tcgplayer-ids, -product-ids)")
	}

	client, err := a.newClient()
	if err != nil {
		return err
	}

	format := a.formatOr(report.FormatJSON)
	if format == report.FormatJSON && len(sealedLookups) == 1 {
		raw, err := client.SearchSealedRaw(ctx, sealedLookups[0])
		if err != nil {
			return err
		}
		return report.WriteJSON(a.stdout, raw)
	}

	var sealed []manapool.Sealed
	for _, lookup := range sealedLookups {
		results, err := client.SearchSealed(ctx, lookup)
		if err != nil {
			return err
		}
		sealed = append(sealed, results...)
	}

	return report.WriteSealed(a.stdout, format, sealed)
}

func prices(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "prices")
	err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("prices: expected exactly one category (singles, sealed, variants)")
	}

	category, err := manapool.ParseCategory(fs.Arg(0))
	if err != nil {
		return usagef("%v", err)
	}

	format := a.formatOr(report.FormatJSON)
	if format != report.FormatJSON && category != manapool.CategorySingles {
		return usagef("prices: format %s is only supported for singles", format)
	}

	client, err := a.newClient()
	if err != nil {
		return err
	}

	if format == report.FormatJSON {
		raw, err := client.Prices(ctx, category)
		if err != nil {
			return err
		}
		return report.WriteJSON(a.stdout, raw)
	}

	entries, meta, err := client.PriceList(ctx)
	if err != nil {
		return err
	}
	if a.verbose && !meta.AsOf.IsZero() {
		fmt.Fprintln(a.stderr, "Prices as of", meta.AsOf)
	}
	return report.WritePriceList(a.stdout, format, entries)
}

func lowestPrices(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "lowest-prices")
	var ids idFlags
	ids.register(fs, true)
	inventoryFileOpt := fs.String("inventory-file", "", "Path or link to an inventory JSON file, whose scryfall ids are checked")
	err := parseFlags(fs, args)
	if err != nil {
		return err
	}

	byKind, err := ids.byKind()
	if err != nil {
		return err
	}

	if *inventoryFileOpt != "" {
		inventory, err := readInventory(*inventoryFileOpt)
		if err != nil {
			return fmt.Errorf("error reading inventory file: %w", err)
		}
		byKind[manapool.KindScryfall] = append(byKind[manapool.KindScryfall], inventory.ScryfallIDs()...)
	}

	lookups := manapool.Batch(byKind)
	if len(lookups) == 0 {
		return usagef("must provide at least one search parameter (-scryfall-ids, -tcgplayer-ids, -product-ids, -inventory-file)")
	}

	client, err := a.newClient()
	if err != nil {
		return err
	}

	var failed int
	singles, err := client.FetchSingles(ctx, lookups, func(berr *manapool.BatchError) {
		failed++
		fmt.Fprintf(a.stderr, "Error fetching data for batch %d/%d (%s): %v\n", berr.Index, berr.Total, berr.Lookup, berr.Err)
	})
	if err != nil {
		return err
	}

	if len(singles) == 0 {
		fmt.Fprintln(a.stdout, "No products found.")
	} else {
		err = report.WriteLowestPrices(a.stdout, a.formatOr(report.FormatTable), singles)
		if err != nil {
			return err
		}
	}

	if failed == len(lookups) {
		return fmt.Errorf("all %d batches failed", failed)
	}
	return nil
}

func readInventory(path string) (*manapool.Inventory, error) {
	reader, err := loadData(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return manapool.LoadInventory(reader)
}

func optimize(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "optimize")
	err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("optimize: expected the path of a cart JSON file")
	}

	reader, err := loadData(fs.Arg(0))
	if err != nil {
		return err
	}
	cart, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		return err
	}
	if !json.Valid(cart) {
		return errors.New("cart file is not valid JSON")
	}

	client, err := a.newClient()
	if err != nil {
		return err
	}

	raw, err := client.Optimize(ctx, cart)
	if err != nil {
		return err
	}
	return report.WriteJSON(a.stdout, raw)
}

func sellerInventory(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "seller-inventory")
	limitOpt := fs.Int("limit", 100, "Number of items to fetch")
	offsetOpt := fs.Int("offset", 0, "Offset for pagination")
	minQuantityOpt := fs.Int("min-quantity", 0, "Filter by minimum quantity")
	statsOpt := fs.Bool("stats", false, "Include the market low of each listed variant")
	summaryOpt := fs.Bool("summary", false, "Print a human-readable summary")
	err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if *limitOpt <= 0 || *offsetOpt < 0 || *minQuantityOpt < 0 {
		return usagef("seller-inventory: limit must be positive, offset and min-quantity cannot be negative")
	}

	opts := manapool.InventoryOptions{
		Limit:       *limitOpt,
		Offset:      *offsetOpt,
		MinQuantity: *minQuantityOpt,
	}

	format := a.formatOr(report.FormatJSON)
	if *summaryOpt {
		format = report.FormatTable
	}

	client, err := a.newClient()
	if err != nil {
		return err
	}

	if format == report.FormatJSON {
		raw, err := client.SellerInventoryRaw(ctx, opts)
		if err != nil {
			return err
		}
		return report.WriteJSON(a.stdout, raw)
	}

	inventory, err := client.SellerInventory(ctx, opts)
	if err != nil {
		return err
	}

	switch format {
	case report.FormatTable:
		return report.WriteInventoryTable(a.stdout, inventory.Inventory, *statsOpt)
	case report.FormatCSV:
		return report.WriteInventoryCSV(a.stdout, inventory.Inventory)
	}
	return report.WriteNDJSON(a.stdout, report.InventoryRows(inventory.Inventory))
}

func updatePrice(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "update-price")
	skuOpt := fs.String("sku", "", "TCGPlayer SKU")
	priceOpt := fs.Int("price-cents", 0, "Price in cents")
	quantityOpt := fs.Int("quantity", 0, "Quantity (required to prevent accidental reset)")
	err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	err = required(fs, "sku", "price-cents", "quantity")
	if err != nil {
		return err
	}
	if *priceOpt <= 0 || *quantityOpt < 0 {
		return usagef("update-price: price-cents must be positive and quantity cannot be negative")
	}

	client, err := a.newClient()
	if err != nil {
		return err
	}

	raw, err := client.UpdateInventory(ctx, *skuOpt, manapool.InventoryUpdate{
		PriceCents: *priceOpt,
		Quantity:   *quantityOpt,
	})
	if err != nil {
		return err
	}
	return report.WriteJSON(a.stdout, raw)
}
