// Command npv prices a book of instruments against a declarative market
// snapshot. Input is JSON on stdin or via -input; output is a single JSON
// object with the total NPV and the NPV bucketed by payment date, amounts
// rendered at the local currency's ISO precision.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/meenmo/almlib/alm"
	"github.com/meenmo/almlib/cmd/internal/marketcfg"
	"github.com/meenmo/almlib/currency"
	"github.com/meenmo/almlib/instruments"
	"github.com/meenmo/almlib/utils"
)

// PricingInput defines the JSON input schema.
//
// Conventions:
//   - dates are "2006-01-02"
//   - rates and spreads are decimal fractions (0.05 means 5%)
type PricingInput struct {
	ReferenceDate string                 `json:"reference_date"`
	LocalCurrency string                 `json:"local_currency"`
	Curves        []marketcfg.Curve      `json:"curves"`
	FxRates       []marketcfg.FxRate     `json:"fx_rates,omitempty"`
	Instruments   []marketcfg.Instrument `json:"instruments"`
	ChunkSize     int                    `json:"chunk_size,omitempty"`
}

type PricingOutput struct {
	ReferenceDate string            `json:"reference_date"`
	Currency      string            `json:"currency"`
	TotalNPV      string            `json:"total_npv"`
	NPVByDate     map[string]string `json:"npv_by_date"`
	Error         string            `json:"error,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("npv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inputPath := fs.String("input", "", "JSON input path (optional; if set, ignores stdin)")
	verbose := fs.Bool("v", false, "Log progress to stderr")
	help := fs.Bool("h", false, "Show help")
	fs.BoolVar(help, "help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *help {
		usage(stderr)
		return 0
	}

	log := logrus.New()
	log.SetOutput(stderr)
	if !*verbose {
		log.SetLevel(logrus.WarnLevel)
	}

	path := strings.TrimSpace(*inputPath)
	if path == "" {
		if f, ok := stdin.(*os.File); ok {
			if stat, err := f.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
				usage(stderr)
				return 2
			}
		}
	}

	inputBytes, err := readInput(stdin, path)
	if err != nil {
		return writeError(stdout, fmt.Sprintf("failed to read input: %v", err))
	}

	var input PricingInput
	if err := json.Unmarshal(inputBytes, &input); err != nil {
		return writeError(stdout, fmt.Sprintf("failed to parse JSON input: %v", err))
	}

	output, err := calculateNPV(input, log)
	if err != nil {
		return writeError(stdout, err.Error())
	}

	outputBytes, _ := json.Marshal(output)
	fmt.Fprintln(stdout, string(outputBytes))
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  npv < input.json")
	fmt.Fprintln(w, "  npv -input /path/to/input.json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Read a JSON market snapshot and book, output NPV by payment date as JSON.")
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(stdin)
}

func writeError(stdout io.Writer, msg string) int {
	output := PricingOutput{Error: msg}
	outputBytes, _ := json.Marshal(output)
	fmt.Fprintln(stdout, string(outputBytes))
	return 1
}

func calculateNPV(input PricingInput, log *logrus.Logger) (*PricingOutput, error) {
	refDate, err := marketcfg.ParseDate(input.ReferenceDate)
	if err != nil {
		return nil, fmt.Errorf("invalid reference_date: %v", err)
	}
	localCcy, err := currency.Parse(input.LocalCurrency)
	if err != nil {
		return nil, fmt.Errorf("invalid local_currency: %v", err)
	}
	if len(input.Curves) == 0 {
		return nil, fmt.Errorf("curves is required")
	}
	if len(input.Instruments) == 0 {
		return nil, fmt.Errorf("instruments is required")
	}

	store, err := marketcfg.BuildStore(refDate, localCcy, input.Curves, input.FxRates)
	if err != nil {
		return nil, fmt.Errorf("failed to build market store: %v", err)
	}

	book := make([]instruments.Instrument, 0, len(input.Instruments))
	for _, cfg := range input.Instruments {
		in, err := marketcfg.BuildInstrument(cfg, localCcy)
		if err != nil {
			return nil, fmt.Errorf("failed to build book: %v", err)
		}
		book = append(book, in)
	}

	log.WithFields(logrus.Fields{
		"instruments": len(book),
		"curves":      len(input.Curves),
		"ref_date":    input.ReferenceDate,
	}).Info("pricing book")

	started := time.Now()
	engine := alm.NewNPVEngine(store, book)
	if input.ChunkSize > 0 {
		engine = engine.WithChunkSize(input.ChunkSize)
	}
	byDate, err := engine.Run(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to price book: %v", err)
	}
	log.WithFields(logrus.Fields{
		"buckets": len(byDate),
		"elapsed": time.Since(started).String(),
	}).Info("priced book")

	var total float64
	buckets := make(map[string]string, len(byDate))
	for _, d := range utils.SortedKeys(byDate) {
		total += byDate[d]
		amount, err := currency.FormatAmount(localCcy, byDate[d])
		if err != nil {
			return nil, err
		}
		buckets[d.Format("2006-01-02")] = amount
	}
	totalAmount, err := currency.FormatAmount(localCcy, total)
	if err != nil {
		return nil, err
	}

	return &PricingOutput{
		ReferenceDate: input.ReferenceDate,
		Currency:      string(localCcy),
		TotalNPV:      totalAmount,
		NPVByDate:     buckets,
	}, nil
}
