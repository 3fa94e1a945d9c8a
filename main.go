package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/insightdelivered/disclosure-workbench/internal/analysis"
	"github.com/insightdelivered/disclosure-workbench/internal/api"
	"github.com/insightdelivered/disclosure-workbench/internal/batch"
	"github.com/insightdelivered/disclosure-workbench/internal/casefile"
	"github.com/insightdelivered/disclosure-workbench/internal/entity"
	"github.com/insightdelivered/disclosure-workbench/internal/logger"
	"github.com/insightdelivered/disclosure-workbench/internal/models"
)

const version = "1.1.0"

func main() {
	// CLI flags
	entityFlag := flag.String("entity", "", "Entity tag for all inputs: personal, business, trust, credit, spouse")
	formatFlag := flag.String("format", "", "Statement format: fnb, standardbank, generic (auto-detected if omitted)")
	cycleFlag := flag.String("cycle", "", "Statement cycle day: 1-31 or \"last\"")
	monthsFlag := flag.Int("months", 3, "Months in the rolling proven-spend window")
	caseFlag := flag.String("case", "disclosure", "Case name written into the export")
	outputFlag := flag.String("output", "", "Case file output path (defaults to <case>.json)")
	serveFlag := flag.String("serve", "", "Start the HTTP API on this address instead of batch mode, e.g. :8080")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Financial Disclosure Workbench
by Insight Delivered (QEA AutoLens)

Extracts transactions from bank statement CSVs and claimed expenses from
affidavit text or PDFs, then reconciles claims against proven spending.

Usage:
  disclosure-workbench [flags] <statement.csv|affidavit.txt|affidavit.pdf> ...

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Ingest a statement and an affidavit into a case file
  disclosure-workbench --case=smith-v-smith statement.csv affidavit.pdf

  # Tag inputs with an entity and a statement cycle
  disclosure-workbench --entity=business --cycle=25 fnb-march.csv

  # Run the HTTP API
  disclosure-workbench --serve=:8080

Supported statement formats:
  fnb           - FNB (DD/MM/YYYY, preamble before the header row)
  standardbank  - Standard Bank (narrative column)
  generic       - Any CSV with a recognizable date column
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("disclosure-workbench v%s\n", version)
		os.Exit(0)
	}

	log := logger.New()

	if *serveFlag != "" {
		proc := batch.NewProcessor(nil, log)
		app := api.NewApp(proc)
		log.Info().Str("addr", *serveFlag).Msg("starting API")
		if err := app.Listen(*serveFlag); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	ent := models.NormalizeEntity(*entityFlag)
	if ent != "" && !ent.Known() {
		fatalf("Unknown entity %q. Supported: personal, business, trust, credit, spouse\n", *entityFlag)
	}

	format := models.BankFormat(strings.ToLower(*formatFlag))
	switch format {
	case "", models.FormatFNB, models.FormatStandardBank, models.FormatGeneric:
	default:
		fatalf("Unknown format %q. Supported: fnb, standardbank, generic\n", *formatFlag)
	}

	cycle, err := models.ParseCycleDay(*cycleFlag)
	if err != nil {
		fatalf("%v\n", err)
	}

	if *monthsFlag < 1 {
		fatalf("--months must be at least 1\n")
	}

	inputs, err := collectInputs(flag.Args(), ent, format, cycle)
	if err != nil {
		fatalf("%v\n", err)
	}

	proc := batch.NewProcessor(entity.AccountsConfig(nil), log)
	results := proc.Process(inputs)

	cf := casefile.New(*caseFlag, proc.Now())
	failed := 0
	for _, res := range results {
		fmt.Printf("Processing: %s\n", res.File.Name)
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "  Error: %v\n", res.Err)
			continue
		}
		fmt.Printf("  Type: %s\n", res.File.Type)
		if res.Stats.Rows > 0 {
			fmt.Printf("  Rows: %d read, %d kept, %d dropped\n", res.Stats.Rows, res.Stats.Kept, res.Stats.Dropped)
		}
		fmt.Printf("  Extracted: %d transaction(s), %d claim(s)\n", len(res.Transactions), len(res.Claims))
		if res.Warn != nil {
			fmt.Printf("  Warning: %v\n", res.Warn)
		}

		cf.Files = append(cf.Files, res.File)
		cf.Transactions = append(cf.Transactions, res.Transactions...)
		cf.Claims = append(cf.Claims, res.Claims...)
	}

	if len(cf.Claims) > 0 {
		fmt.Printf("\nProof of spending (%d-month rolling average):\n", *monthsFlag)
		for _, v := range analysis.Report(cf.Transactions, cf.Claims, *monthsFlag, time.Time{}) {
			fmt.Printf("  %-24s claimed %10.2f  proven %10s  %s\n",
				v.Category, v.Claimed, v.ProvenAvg.StringFixed(2), v.Label)
		}
	}

	outPath := *outputFlag
	if outPath == "" {
		outPath = *caseFlag + ".json"
	}
	if err := cf.WriteToFile(outPath); err != nil {
		fatalf("%v\n", err)
	}
	fmt.Printf("\nCase file: %s\n", outPath)

	if failed > 0 {
		os.Exit(1)
	}
}

// collectInputs reads each path into a batch input. CSV and text content
// is read up front; PDFs are left to the extractor, which needs the path.
func collectInputs(paths []string, ent models.Entity, format models.BankFormat, cycle models.CycleDay) ([]batch.Input, error) {
	inputs := make([]batch.Input, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("input file not found: %s", p)
		}

		in := batch.Input{
			Name:     filepath.Base(p),
			Path:     p,
			Entity:   ent,
			Format:   format,
			CycleDay: cycle,
		}
		if ext := strings.ToLower(filepath.Ext(p)); ext == ".csv" || ext == ".txt" {
			content, err := os.ReadFile(p)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", p, err)
			}
			in.Text = string(content)
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
