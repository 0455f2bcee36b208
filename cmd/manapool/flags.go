package main

import (
	"flag"
	"strings"

	"github.com/google/uuid"

	"github.com/mtgban/go-manapool/manapool"
)

// listFlag collects a flag that may be repeated or hold comma separated values.
type listFlag []string

func (l *listFlag) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(*l, ",")
}

func (l *listFlag) Set(value string) error {
	for _, field := range strings.Split(value, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		*l = append(*l, field)
	}
	return nil
}

type idFlags struct {
	scryfall  listFlag
	tcgplayer listFlag
	product   listFlag
}

func (ids *idFlags) register(fs *flag.FlagSet, withScryfall bool) {
	if withScryfall {
		fs.Var(&ids.scryfall, "scryfall-ids", "Scryfall ID(s), repeatable or comma separated")
	}
	fs.Var(&ids.tcgplayer, "tcgplayer-ids", "TCGPlayer ID(s), repeatable or comma separated")
	fs.Var(&ids.product, "product-ids", "Product ID(s), repeatable or comma separated")
}

// byKind validates scryfall ids and groups all ids by kind. Scryfall ids
// are sent in their canonical lowercase form.
func (ids *idFlags) byKind() (map[manapool.Kind][]string, error) {
	var scryfall []string
	for _, id := range ids.scryfall {
		u, err := uuid.Parse(id)
		if err != nil {
			return nil, usagef("invalid scryfall id %q", id)
		}
		scryfall = append(scryfall, u.String())
	}
	return map[manapool.Kind][]string{
		manapool.KindScryfall:  scryfall,
		manapool.KindTCGPlayer: ids.tcgplayer,
		manapool.KindProduct:   ids.product,
	}, nil
}

func newFlagSet(a *app, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// parseFlags turns flag errors into usage errors, the flag package has
// already printed the details.
func parseFlags(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == flag.ErrHelp {
		return err
	}
	if err != nil {
		return usagef("%s: %v", fs.Name(), err)
	}
	return nil
}

// required fails unless every named flag was explicitly set.
func required(fs *flag.FlagSet, names ...string) error {
	seen := map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		seen[f.Name] = true
	})
	var missing []string
	for _, name := range names {
		if !seen[name] {
			missing = append(missing, "-"+name)
		}
	}
	if len(missing) > 0 {
		return usagef("%s: missing required option(s) %s", fs.Name(), strings.Join(missing, ", "))
	}
	return nil
}
