// Package batch ingests a set of uploaded files, dispatching each to the
// right extraction pipeline and collecting per-file outcomes. One file's
// failure never stops the rest of the batch.
package batch

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/disclosure-workbench/internal/category"
	"github.com/insightdelivered/disclosure-workbench/internal/claims"
	"github.com/insightdelivered/disclosure-workbench/internal/entity"
	"github.com/insightdelivered/disclosure-workbench/internal/extractor"
	"github.com/insightdelivered/disclosure-workbench/internal/models"
	"github.com/insightdelivered/disclosure-workbench/internal/parser"
)

// Input is one file handed to the batch. CSV and plain-text content
// arrives in Text. PDFs are read from Path when set (the CLI), otherwise
// their raw bytes are taken from Text (HTTP uploads).
type Input struct {
	Name     string
	Path     string
	Text     string
	Entity   models.Entity
	Format   models.BankFormat
	CycleDay models.CycleDay
}

// FileResult is the outcome for one input file. Err is fatal for the file;
// Warn is advisory (e.g. structurally fine but zero records extracted).
type FileResult struct {
	File         models.FileRecord
	Transactions []models.Transaction
	Claims       []models.Claim
	Stats        parser.Stats
	Err          error
	Warn         error
}

// Processor holds the shared collaborators a batch run needs.
type Processor struct {
	Mapper   *category.Mapper
	Accounts entity.AccountsConfig
	Log      zerolog.Logger
	Now      func() time.Time
}

// NewProcessor wires a processor with the default taxonomy.
func NewProcessor(accounts entity.AccountsConfig, log zerolog.Logger) *Processor {
	return &Processor{
		Mapper:   category.NewMapper(category.DefaultTaxonomy()),
		Accounts: accounts,
		Log:      log,
		Now:      time.Now,
	}
}

// Process runs every input through its pipeline. Per-file errors are
// collected on the results, never returned early.
func (p *Processor) Process(inputs []Input) []FileResult {
	results := make([]FileResult, 0, len(inputs))
	for _, in := range inputs {
		res := p.processOne(in)
		if res.Err != nil {
			p.Log.Warn().Str("file", in.Name).Err(res.Err).Msg("file failed")
		} else {
			p.Log.Info().
				Str("file", in.Name).
				Int("transactions", len(res.Transactions)).
				Int("claims", len(res.Claims)).
				Msg("file processed")
		}
		results = append(results, res)
	}
	return results
}

func (p *Processor) processOne(in Input) FileResult {
	ext := strings.ToLower(filepath.Ext(in.Name))

	res := FileResult{
		File: models.FileRecord{
			ID:       uuid.NewString(),
			Name:     in.Name,
			Entity:   in.Entity,
			CycleDay: in.CycleDay,
		},
	}

	switch ext {
	case ".csv":
		res.File.Type = "Bank Statement"
		p.processStatement(in, &res)
	case ".txt", ".pdf":
		res.File.Type = "Financial Affidavit"
		p.processAffidavit(in, ext, &res)
	default:
		res.Err = &models.UnsupportedFormatError{File: in.Name, Ext: ext}
	}

	return res
}

func (p *Processor) processStatement(in Input, res *FileResult) {
	format := in.Format
	if format == "" {
		format = parser.AutoDetect(in.Text)
	}

	prs, err := parser.New(format, parser.Options{
		Entity:   in.Entity,
		FileID:   res.File.ID,
		CycleDay: in.CycleDay,
	})
	if err != nil {
		res.Err = err
		return
	}

	parsed, err := prs.Parse(in.Text)
	if err != nil {
		var missing *models.MissingColumnError
		if errors.As(err, &missing) {
			missing.File = in.Name
		}
		res.Err = err
		return
	}

	for i := range parsed.Transactions {
		txn := &parsed.Transactions[i]
		txn.Cat = p.Mapper.Map(txn.Cat)
		if txn.Subcat != "" {
			txn.Subcat = p.Mapper.Map(txn.Subcat)
		}
		if txn.Entity == "" {
			txn.Entity = entity.Detect(txn.Acc, p.Accounts)
		}
	}

	res.Transactions = parsed.Transactions
	res.Stats = parsed.Stats
	if len(parsed.Transactions) == 0 {
		res.Warn = models.ErrExtractionEmpty
	}
}

func (p *Processor) processAffidavit(in Input, ext string, res *FileResult) {
	text := in.Text
	if ext == ".pdf" {
		var extracted string
		var err error
		if in.Path != "" {
			extracted, err = extractor.ExtractText(in.Path)
		} else {
			// HTTP uploads arrive as bytes with no backing file.
			extracted, err = extractor.ExtractBytes([]byte(in.Text))
		}
		if err != nil {
			res.Err = err
			return
		}
		text = extracted
	}

	for _, draft := range claims.Extract(text) {
		draft.Category = p.Mapper.Map(draft.Category)
		claim, err := claims.New(draft, res.File.ID, "imported")
		if err != nil {
			continue
		}
		res.Claims = append(res.Claims, claim)
	}

	if len(res.Claims) == 0 {
		res.Warn = models.ErrExtractionEmpty
	}
}

// Errors collects the fatal per-file errors of a batch for reporting after
// the batch completes.
func Errors(results []FileResult) []error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}
