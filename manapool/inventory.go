package manapool

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// LoadInventory decodes an inventory document, such as a saved
// seller-inventory response.
func LoadInventory(r io.Reader) (*Inventory, error) {
	var inventory struct {
		Inventory *[]InventoryItem `json:"inventory"`
	}
	err := json.NewDecoder(r).Decode(&inventory)
	if err != nil {
		return nil, fmt.Errorf("invalid inventory file: %w", err)
	}
	if inventory.Inventory == nil {
		return nil, errors.New("invalid inventory file: missing \"inventory\" key")
	}
	return &Inventory{Inventory: *inventory.Inventory}, nil
}

// ScryfallIDs returns the scryfall ids of the listed singles, in file
// order, duplicates included.
func (inv *Inventory) ScryfallIDs() []string {
	var ids []string
	for _, item := range inv.Inventory {
		if item.Product.Single == nil || item.Product.Single.ScryfallID == "" {
			continue
		}
		ids = append(ids, item.Product.Single.ScryfallID)
	}
	return ids
}
