package manapool

import (
	"time"
)

// Single is one card product as returned by the singles search.
type Single struct {
	URL             string    `json:"url,omitempty"`
	Name            string    `json:"name"`
	SetCode         string    `json:"set_code"`
	Number          string    `json:"number,omitempty"`
	ScryfallID      string    `json:"scryfall_id,omitempty"`
	ProductID       string    `json:"product_id,omitempty"`
	TCGPlayerID     int       `json:"tcgplayer_id,omitempty"`
	PriceMarket     *int      `json:"price_market"`
	PriceMarketFoil *int      `json:"price_market_foil"`
	Variants        []Variant `json:"variants"`
}

// Key identifies a Single across batches.
func (s Single) Key() string {
	switch {
	case s.ScryfallID != "":
		return s.ScryfallID
	case s.ProductID != "":
		return s.ProductID
	}
	return s.Name
}

// MarketPrice returns the TCG market price matching the finish of a variant.
func (s Single) MarketPrice(finish string) *int {
	if IsFoilFinish(finish) {
		return s.PriceMarketFoil
	}
	return s.PriceMarket
}

// Variant is the lowest listing for one language, condition and finish.
// A null low_price decodes to zero, which means not listed.
type Variant struct {
	LanguageID  string `json:"language_id"`
	ConditionID string `json:"condition_id"`
	FinishID    string `json:"finish_id"`
	LowPrice    int    `json:"low_price"`
	Quantity    int    `json:"available_quantity,omitempty"`
}

type SinglesResponse struct {
	Data []Single `json:"data"`
}

type Sealed struct {
	URL                string `json:"url,omitempty"`
	Name               string `json:"name"`
	SetCode            string `json:"set_code"`
	ProductID          string `json:"product_id,omitempty"`
	TcgplayerProductID int    `json:"tcgplayer_product_id,omitempty"`
	LowPrice           int    `json:"low_price"`
	AvailableQuantity  int    `json:"available_quantity"`
}

type SealedResponse struct {
	Data []Sealed `json:"data"`
}

// PriceEntry is one row of the singles price export.
type PriceEntry struct {
	URL                  string `json:"url"`
	Name                 string `json:"name"`
	SetCode              string `json:"set_code"`
	Number               string `json:"number"`
	MultiverseID         string `json:"multiverse_id"`
	ScryfallID           string `json:"scryfall_id"`
	AvailableQuantity    int    `json:"available_quantity"`
	PriceCents           int    `json:"price_cents"`
	PriceCentsFoil       int    `json:"price_cents_foil"`
	PriceCentsLpPlus     int    `json:"price_cents_lp_plus"`
	PriceCentsLpPlusFoil int    `json:"price_cents_lp_plus_foil"`
	PriceCentsNm         int    `json:"price_cents_nm"`
	PriceCentsNmFoil     int    `json:"price_cents_nm_foil"`
}

type PriceListMeta struct {
	AsOf time.Time `json:"as_of"`
}

// InventorySingle describes the exact card a seller lists.
type InventorySingle struct {
	Name        string `json:"name"`
	Set         string `json:"set,omitempty"`
	SetCode     string `json:"set_code,omitempty"`
	Number      string `json:"number,omitempty"`
	ScryfallID  string `json:"scryfall_id"`
	LanguageID  string `json:"language_id"`
	ConditionID string `json:"condition_id"`
	FinishID    string `json:"finish_id"`
}

// SetName prefers the set code, some payloads only carry "set".
func (s *InventorySingle) SetName() string {
	if s.SetCode != "" {
		return s.SetCode
	}
	return s.Set
}

func (s *InventorySingle) Target() Target {
	return Target{
		LanguageID:  s.LanguageID,
		ConditionID: s.ConditionID,
		FinishID:    s.FinishID,
	}
}

type InventoryProduct struct {
	Type         string           `json:"type,omitempty"`
	ProductID    string           `json:"product_id,omitempty"`
	TCGPlayerSKU int              `json:"tcgplayer_sku,omitempty"`
	Single       *InventorySingle `json:"single,omitempty"`
}

type MarketStats struct {
	Variants []Variant `json:"variants"`
}

type InventoryItem struct {
	Product     InventoryProduct `json:"product"`
	PriceCents  int              `json:"price_cents"`
	Quantity    int              `json:"quantity"`
	MarketStats *MarketStats     `json:"market_stats,omitempty"`
}

type Inventory struct {
	Inventory []InventoryItem `json:"inventory"`
}
