// Command rollover simulates reinvesting a book's maturing redemptions over
// a horizon. The scenario comes in as TOML; the tool prints the generated
// position count and the simulated outstanding at each redemption date,
// amounts rendered at the scenario currency's ISO precision.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"github.com/meenmo/almlib/alm"
	"github.com/meenmo/almlib/cmd/internal/marketcfg"
	"github.com/meenmo/almlib/currency"
	"github.com/meenmo/almlib/rates"
	"github.com/meenmo/almlib/utils"
)

// Scenario defines the TOML input schema.
//
// Conventions:
//   - dates are "2006-01-02"
//   - rates are decimal fractions (0.05 means 5%)
//   - redemption keys are payment dates, values the maturing amounts
type Scenario struct {
	ReferenceDate string               `toml:"reference_date"`
	LocalCurrency string               `toml:"local_currency"`
	Horizon       string               `toml:"horizon"`
	GrowthMode    string               `toml:"growth_mode"`
	GrowthRate    float64              `toml:"growth_rate"`
	Curves        []marketcfg.Curve    `toml:"curves"`
	FxRates       []marketcfg.FxRate   `toml:"fx_rates"`
	Redemptions   map[string]float64   `toml:"redemptions"`
	Strategies    []marketcfg.Strategy `toml:"strategies"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rollover", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inputPath := fs.String("input", "", "TOML scenario path (optional; if set, ignores stdin)")
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
		fmt.Fprintf(stderr, "failed to read scenario: %v\n", err)
		return 1
	}

	var scenario Scenario
	if err := toml.Unmarshal(inputBytes, &scenario); err != nil {
		fmt.Fprintf(stderr, "failed to parse TOML scenario: %v\n", err)
		return 1
	}

	if err := simulate(scenario, stdout, log); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  rollover < scenario.toml")
	fmt.Fprintln(w, "  rollover -input /path/to/scenario.toml")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Read a TOML rollover scenario, print the simulated outstanding profile.")
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(stdin)
}

func simulate(scenario Scenario, stdout io.Writer, log *logrus.Logger) error {
	refDate, err := marketcfg.ParseDate(scenario.ReferenceDate)
	if err != nil {
		return fmt.Errorf("invalid reference_date: %v", err)
	}
	localCcy, err := currency.Parse(scenario.LocalCurrency)
	if err != nil {
		return fmt.Errorf("invalid local_currency: %v", err)
	}
	horizon, err := rates.ParsePeriod(scenario.Horizon)
	if err != nil {
		return fmt.Errorf("invalid horizon: %v", err)
	}
	if len(scenario.Redemptions) == 0 {
		return fmt.Errorf("redemptions is required")
	}
	if len(scenario.Strategies) == 0 {
		return fmt.Errorf("strategies is required")
	}

	store, err := marketcfg.BuildStore(refDate, localCcy, scenario.Curves, scenario.FxRates)
	if err != nil {
		return fmt.Errorf("failed to build market store: %v", err)
	}

	redemptions := make(map[time.Time]float64, len(scenario.Redemptions))
	for s, v := range scenario.Redemptions {
		d, err := marketcfg.ParseDate(s)
		if err != nil {
			return fmt.Errorf("invalid redemption date: %v", err)
		}
		redemptions[d] = v
	}

	strategies := make([]alm.RolloverStrategy, 0, len(scenario.Strategies))
	for _, cfg := range scenario.Strategies {
		s, err := marketcfg.BuildStrategy(cfg)
		if err != nil {
			return fmt.Errorf("failed to build strategies: %v", err)
		}
		strategies = append(strategies, s)
	}

	engine := alm.NewRolloverSimulationEngine(store, redemptions, localCcy, horizon)
	if scenario.GrowthMode != "" {
		mode, err := alm.ParseGrowthMode(scenario.GrowthMode)
		if err != nil {
			return fmt.Errorf("invalid growth_mode: %v", err)
		}
		engine = engine.WithGrowth(mode, scenario.GrowthRate)
	}

	log.WithFields(logrus.Fields{
		"ref_date":   scenario.ReferenceDate,
		"horizon":    scenario.Horizon,
		"strategies": len(strategies),
	}).Info("running rollover simulation")

	started := time.Now()
	simulated, err := engine.Run(strategies)
	if err != nil {
		return fmt.Errorf("simulation failed: %v", err)
	}
	log.WithFields(logrus.Fields{
		"positions": len(simulated),
		"elapsed":   time.Since(started).String(),
	}).Info("simulation finished")

	generated, err := alm.MaturingRedemptions(simulated, localCcy)
	if err != nil {
		return err
	}
	profile, err := alm.OutstandingProfile(simulated, utils.SortedKeys(generated))
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "generated positions: %d\n", len(simulated))
	fmt.Fprintln(stdout, "date        redemption      outstanding")
	for _, d := range utils.SortedKeys(generated) {
		redemption, err := currency.FormatAmount(localCcy, generated[d])
		if err != nil {
			return err
		}
		outstanding, err := currency.FormatAmount(localCcy, profile[d])
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s  %14s  %14s\n", d.Format("2006-01-02"), redemption, outstanding)
	}
	return nil
}
