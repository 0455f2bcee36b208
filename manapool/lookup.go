package manapool

import (
	"fmt"
	"net/url"
	"sort"
)

// Maximum number of ids the API accepts in a single search call
const MaxIdsInRequest = 100

type Kind int

const (
	KindScryfall Kind = iota
	KindTCGPlayer
	KindProduct
)

// Kinds lists every id kind in the order Batch processes them.
var Kinds = []Kind{KindScryfall, KindTCGPlayer, KindProduct}

func (k Kind) String() string {
	switch k {
	case KindScryfall:
		return "scryfall"
	case KindTCGPlayer:
		return "tcgplayer"
	case KindProduct:
		return "product"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Param is the query parameter carrying ids of this kind.
func (k Kind) Param() string {
	return k.String() + "_ids"
}

// Lookup is the id list of one search call. The API accepts a single id
// kind per call, so the only implementations are ScryfallIDs, TCGPlayerIDs
// and ProductIDs.
type Lookup interface {
	Kind() Kind
	IDs() []string
	lookup()
}

// SealedLookup is a Lookup accepted by the sealed search, which has no
// scryfall ids.
type SealedLookup interface {
	Lookup
	sealedLookup()
}

type ScryfallIDs []string

func (ScryfallIDs) Kind() Kind { return KindScryfall }
func (ids ScryfallIDs) IDs() []string { return ids }
func (ids ScryfallIDs) String() string { return describe(ids) }
func (ScryfallIDs) lookup() {}

type TCGPlayerIDs []string

func (TCGPlayerIDs) Kind() Kind { return KindTCGPlayer }
func (ids TCGPlayerIDs) IDs() []string { return ids }
func (ids TCGPlayerIDs) String() string { return describe(ids) }
func (TCGPlayerIDs) lookup() {}
func (TCGPlayerIDs) sealedLookup() {}

type ProductIDs []string

func (ProductIDs) Kind() Kind { return KindProduct }
func (ids ProductIDs) IDs() []string { return ids }
func (ids ProductIDs) String() string { return describe(ids) }
func (ProductIDs) lookup() {}
func (ProductIDs) sealedLookup() {}

func describe(l Lookup) string {
	ids := l.IDs()
	if len(ids) == 1 {
		return fmt.Sprintf("%s=%s", l.Kind().Param(), ids[0])
	}
	return fmt.Sprintf("%s (%d ids)", l.Kind().Param(), len(ids))
}

func newLookup(kind Kind, ids []string) Lookup {
	switch kind {
	case KindTCGPlayer:
		return TCGPlayerIDs(ids)
	case KindProduct:
		return ProductIDs(ids)
	}
	return ScryfallIDs(ids)
}

func lookupValues(l Lookup) url.Values {
	if l == nil {
		return nil
	}
	v := url.Values{}
	for _, id := range l.IDs() {
		v.Add(l.Kind().Param(), id)
	}
	return v
}

// Batch splits ids into lookups of a single kind holding at most
// MaxIdsInRequest unique ids each. Kinds are emitted in the order of Kinds
// and ids are sorted, so the same input set always yields the same calls.
func Batch(ids map[Kind][]string) []Lookup {
	var lookups []Lookup
	for _, kind := range Kinds {
		for _, chunk := range chunks(ids[kind]) {
			lookups = append(lookups, newLookup(kind, chunk))
		}
	}
	return lookups
}

// BatchSealed is Batch for the sealed search, which only accepts tcgplayer
// and product ids.
func BatchSealed(tcgplayerIds, productIds []string) []SealedLookup {
	var lookups []SealedLookup
	for _, chunk := range chunks(tcgplayerIds) {
		lookups = append(lookups, TCGPlayerIDs(chunk))
	}
	for _, chunk := range chunks(productIds) {
		lookups = append(lookups, ProductIDs(chunk))
	}
	return lookups
}

func chunks(ids []string) [][]string {
	unique := dedup(ids)
	var out [][]string
	for i := 0; i < len(unique); i += MaxIdsInRequest {
		start := i
		end := i + MaxIdsInRequest
		if end > len(unique) {
			end = len(unique)
		}
		out = append(out, unique[start:end:end])
	}
	return out
}

func dedup(ids []string) []string {
	idFound := map[string]bool{}
	var unique []string
	for _, id := range ids {
		if id == "" || idFound[id] {
			continue
		}
		idFound[id] = true
		unique = append(unique, id)
	}
	sort.Strings(unique)
	return unique
}
