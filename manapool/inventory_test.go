package manapool

import (
	"reflect"
	"strings"
	"testing"
)

type LoadInventoryTest struct {
	Desc  string
	In    string
	Out   []string
	Fails bool
}

var LoadInventoryTests = []LoadInventoryTest{
	{
		Desc: "singles_only",
		In: `{"inventory":[
			{"product":{"single":{"name":"Opt","scryfall_id":"b"}},"price_cents":10,"quantity":1},
			{"product":{"single":{"name":"Shock","scryfall_id":"a"}},"price_cents":20,"quantity":2}
		]}`,
		Out: []string{"b", "a"},
	},
	{
		Desc: "sealed_and_missing_ids_are_skipped",
		In: `{"inventory":[
			{"product":{"type":"mtg_sealed","product_id":"p1"},"price_cents":999,"quantity":1},
			{"product":{"single":{"name":"Opt"}},"price_cents":10,"quantity":1},
			{"product":{"single":{"name":"Opt","scryfall_id":"a"}},"price_cents":10,"quantity":1},
			{"product":{"single":{"name":"Opt","scryfall_id":"a","finish_id":"FO"}},"price_cents":30,"quantity":1}
		]}`,
		Out: []string{"a", "a"},
	},
	{
		Desc: "empty_inventory",
		In:   `{"inventory":[]}`,
	},
	{
		Desc:  "missing_key",
		In:    `{"data":[]}`,
		Fails: true,
	},
	{
		Desc:  "malformed",
		In:    `{"inventory":[`,
		Fails: true,
	},
}

func TestLoadInventory(t *testing.T) {
	for _, entry := range LoadInventoryTests {
		test := entry
		t.Run(test.Desc, func(t *testing.T) {
			inventory, err := LoadInventory(strings.NewReader(test.In))
			if test.Fails {
				if err == nil {
					t.Errorf("FAIL: Expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("FAIL: Unexpected error: %s", err.Error())
			}

			ids := inventory.ScryfallIDs()
			if !reflect.DeepEqual(ids, test.Out) {
				t.Errorf("FAIL: expected %v, got %v", test.Out, ids)
			}
		})
	}
}
