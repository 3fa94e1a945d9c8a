package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/insightdelivered/disclosure-workbench/internal/analysis"
	"github.com/insightdelivered/disclosure-workbench/internal/batch"
	"github.com/insightdelivered/disclosure-workbench/internal/claims"
	"github.com/insightdelivered/disclosure-workbench/internal/extractor"
	"github.com/insightdelivered/disclosure-workbench/internal/models"
	"github.com/insightdelivered/disclosure-workbench/internal/parser"
)

const version = "1.1.0"

// Handler holds the HTTP handlers for the extraction API.
type Handler struct {
	Processor *batch.Processor
}

// NewApp builds the fiber application with all routes registered.
func NewApp(proc *batch.Processor) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 32 << 20, // uploads cap at 32MB
	})
	h := &Handler{Processor: proc}

	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/ingest", h.HandleIngest)
	app.Post("/api/claims", h.HandleClaims)
	app.Post("/api/analyze", h.HandleAnalyze)

	return app
}

func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": version,
	})
}

// IngestResponse is the JSON response from /api/ingest.
type IngestResponse struct {
	Success      bool                 `json:"success"`
	Error        string               `json:"error,omitempty"`
	Warning      string               `json:"warning,omitempty"`
	File         models.FileRecord    `json:"file"`
	Transactions []models.Transaction `json:"transactions"`
	Claims       []models.Claim       `json:"claims"`
	Stats        parser.Stats         `json:"stats"`
	Count        int                  `json:"count"`
}

// HandleIngest accepts one uploaded statement or affidavit and returns the
// extracted records. Form fields: file, entity, format, cycleDay.
func (h *Handler) HandleIngest(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}

	content, err := readUpload(fileHeader)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to read upload.")
	}

	cycle, err := models.ParseCycleDay(c.FormValue("cycleDay"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	in := batch.Input{
		Name:     fileHeader.Filename,
		Text:     string(content),
		Entity:   models.NormalizeEntity(c.FormValue("entity")),
		Format:   models.BankFormat(c.FormValue("format")),
		CycleDay: cycle,
	}
	if in.Entity != "" && !in.Entity.Known() {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Unknown entity %q.", in.Entity))
	}

	results := h.Processor.Process([]batch.Input{in})
	res := results[0]
	if res.Err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, res.Err.Error())
	}

	resp := IngestResponse{
		Success:      true,
		File:         res.File,
		Transactions: res.Transactions,
		Claims:       res.Claims,
		Stats:        res.Stats,
		Count:        len(res.Transactions) + len(res.Claims),
	}
	if res.Warn != nil {
		resp.Warning = res.Warn.Error()
	}
	// nil slices marshal to JSON null, not []
	if resp.Transactions == nil {
		resp.Transactions = []models.Transaction{}
	}
	if resp.Claims == nil {
		resp.Claims = []models.Claim{}
	}
	return c.JSON(resp)
}

// HandleClaims extracts claim drafts from raw affidavit text posted in the
// "text" form field, an uploaded document in the "file" form field, or the
// request body. Drafts come back before canonicalization so the caller can
// review the raw category labels.
func (h *Handler) HandleClaims(c *fiber.Ctx) error {
	text := c.FormValue("text")
	if text == "" {
		if fileHeader, err := c.FormFile("file"); err == nil {
			content, err := readUpload(fileHeader)
			if err != nil {
				return writeError(c, fiber.StatusInternalServerError, "Failed to read upload.")
			}
			if strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
				extracted, err := extractor.ExtractBytes(content)
				if err != nil {
					return writeError(c, fiber.StatusUnprocessableEntity, err.Error())
				}
				text = extracted
			} else {
				text = string(content)
			}
		}
	}
	if text == "" {
		text = string(c.Body())
	}
	if text == "" {
		return writeError(c, fiber.StatusBadRequest, "No text supplied.")
	}

	drafts := claims.Extract(text)
	if drafts == nil {
		drafts = []claims.Draft{}
	}
	return c.JSON(fiber.Map{
		"success": true,
		"drafts":  drafts,
		"count":   len(drafts),
	})
}

// AnalyzeRequest is the JSON body for /api/analyze.
type AnalyzeRequest struct {
	Transactions []models.Transaction `json:"transactions"`
	Claims       []models.Claim       `json:"claims"`
	Months       int                  `json:"months"`
	Account      string               `json:"account,omitempty"`
	CycleDay     models.CycleDay      `json:"cycleDay,omitempty"`
}

// HandleAnalyze computes proof verdicts for the posted claims and missing
// statement cycles for the posted account.
func (h *Handler) HandleAnalyze(c *fiber.Ctx) error {
	var req AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}
	if req.Months <= 0 {
		req.Months = 3
	}

	verdicts := analysis.Report(req.Transactions, req.Claims, req.Months, time.Time{})
	if verdicts == nil {
		verdicts = []analysis.Verdict{}
	}

	missing := []analysis.CycleWindow{}
	if req.Account != "" {
		missing = analysis.MissingStatements(req.Transactions, req.Account, req.CycleDay, h.Processor.Now())
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"verdicts": verdicts,
		"missing":  missing,
	})
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}
