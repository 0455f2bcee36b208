package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"sort"
	"strconv"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/mtgban/go-manapool/manapool"
	"github.com/mtgban/go-manapool/report"
)

var Commit = func() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}
	return ""
}()

// usageError marks bad or missing arguments, reported with exit code 2.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func usagef(format string, a ...interface{}) error {
	return &usageError{msg: fmt.Sprintf(format, a...)}
}

type app struct {
	stdout io.Writer
	stderr io.Writer

	config  manapool.Config
	format  report.Format
	verbose bool
}

// newClient is the single point where credentials are validated.
func (a *app) newClient() (*manapool.Client, error) {
	client, err := manapool.NewClient(a.config)
	if err != nil {
		return nil, err
	}
	if a.verbose {
		client.LogCallback = log.New(a.stderr, "", log.LstdFlags).Printf
	}
	return client, nil
}

// formatOr returns the -format option, or def when it was not given.
func (a *app) formatOr(def report.Format) report.Format {
	if a.format == "" {
		return def
	}
	return a.format
}

type command struct {
	Help string
	Run  func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]*command{
	"search-singles": {
		Help: "Search for singles by scryfall, tcgplayer or product ids",
		Run:  searchSingles,
	},
	"search-sealed": {
		Help: "Search for sealed product by tcgplayer or product ids",
		Run:  searchSealed,
	},
	"prices": {
		Help: "Get prices for a category (singles, sealed, variants)",
		Run:  prices,
	},
	"lowest-prices": {
		Help: "Get the lowest Manapool price of every variant of the given cards",
		Run:  lowestPrices,
	},
	"optimize": {
		Help: "Optimize a cart from a JSON file",
		Run:  optimize,
	},
	"seller-inventory": {
		Help: "Get seller inventory",
		Run:  sellerInventory,
	},
	"update-price": {
		Help: "Update price and quantity of a listing by TCGplayer SKU",
		Run:  updatePrice,
	},
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Usage: manapool [options] <command> [command options]")
	fmt.Fprintln(w, "\nCommands:")

	var names []string
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-18s %s\n", name, commands[name].Help)
	}

	fmt.Fprintln(w, "\nOptions:")
	fs.PrintDefaults()
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("manapool", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(fs, stderr) }

	tokenOpt := fs.String("token", os.Getenv("MANAPOOL_API_TOKEN"), "Manapool access token (MANAPOOL_API_TOKEN)")
	emailOpt := fs.String("email", os.Getenv("MANAPOOL_API_EMAIL"), "Manapool account email (MANAPOOL_API_EMAIL)")
	urlOpt := fs.String("url", os.Getenv("MANAPOOL_API_URL"), "Override the API base URL (MANAPOOL_API_URL)")
	formatOpt := fs.String("format", "", "Output format (json/ndjson/csv/table), defaults depend on the command")
	verboseOpt := fs.Bool("verbose", false, "Log every request to stderr")
	versionOpt := fs.Bool("v", false, "Print version information")

	err := fs.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	if *versionOpt {
		fmt.Fprintln(stdout, "manapool version", Commit)
		return 0
	}

	if fs.NArg() == 0 {
		printUsage(fs, stderr)
		return 2
	}

	name := fs.Arg(0)
	cmd, found := commands[name]
	if !found {
		fmt.Fprintln(stderr, "Unknown command", name+", run with -h for a list of commands")
		return 2
	}

	a := &app{
		stdout:  stdout,
		stderr:  stderr,
		verbose: *verboseOpt,
		config: manapool.Config{
			Token:   strings.TrimSpace(*tokenOpt),
			Email:   strings.TrimSpace(*emailOpt),
			BaseURL: strings.TrimSpace(*urlOpt),
		},
	}

	rateEnv := os.Getenv("MANAPOOL_RATE_LIMIT")
	if rateEnv != "" {
		a.config.RateLimit, err = strconv.ParseFloat(rateEnv, 64)
		if err != nil {
			fmt.Fprintln(stderr, "Invalid MANAPOOL_RATE_LIMIT:", err)
			return 1
		}
	}

	if *formatOpt != "" {
		a.format, err = report.ParseFormat(*formatOpt)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = cmd.Run(ctx, a, fs.Args()[1:])
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	var uerr *usageError
	if errors.As(err, &uerr) {
		fmt.Fprintln(stderr, "Usage error:", uerr.msg)
		return 2
	}
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}

	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
