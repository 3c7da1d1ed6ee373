// Package service orchestrates the parsing pipeline: tokenize, build the
// ledger, derive the report views, optionally archive the run.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jastipin/billing/internal/ledger"
	"github.com/jastipin/billing/internal/models"
	"github.com/jastipin/billing/internal/parser"
	"github.com/jastipin/billing/internal/report"
	"github.com/jastipin/billing/internal/storage"
)

var (
	// ErrNoInput: the input document is absent or blank. Fatal; nothing
	// is parsed.
	ErrNoInput = errors.New("no input to parse")

	// ErrArchiveDisabled: a save was requested but no store is configured.
	ErrArchiveDisabled = errors.New("run archive is not configured")
)

// GenerateOptions tunes one run.
type GenerateOptions struct {
	// TopN is the leaderboard size; <= 0 means the default (5).
	TopN int

	// Save archives the run; requires a configured store.
	Save bool

	// Source labels the run in the archive (file name, "http", ...).
	Source string
}

// ReportService runs the pipeline over one input snapshot at a time.
// It holds no state between runs; the optional store only receives
// completed snapshots.
type ReportService struct {
	store storage.Store
}

// NewReportService creates a ReportService. store may be nil, which
// disables archiving.
func NewReportService(store storage.Store) *ReportService {
	return &ReportService{store: store}
}

// Generate parses the input and returns all four views plus diagnostics.
// Parsing anomalies never fail the run; only missing input or a failed
// archive write do.
func (s *ReportService) Generate(ctx context.Context, input string, opts GenerateOptions) (*models.RunResult, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrNoInput
	}

	tokens := parser.Tokenize(input)
	l := ledger.Build(tokens)

	slog.Info("transcript parsed",
		"items", len(l.Items),
		"customers", len(l.Customers),
		"entries", len(l.Entries),
		"diagnostics", len(l.Diagnostics),
	)
	for _, d := range l.Diagnostics {
		slog.Warn("parse diagnostic", "kind", d.Kind, "line", d.Line, "message", d.Message)
	}

	res := &models.RunResult{
		Billing:     report.Billing(l),
		TopSpenders: report.TopSpenders(l, opts.TopN),
		TopItems:    report.TopItems(l, opts.TopN),
		Revenue:     report.Revenue(l),
		Diagnostics: l.Diagnostics,
	}

	if opts.Save {
		if s.store == nil {
			return nil, ErrArchiveDisabled
		}
		run := &models.Run{Source: opts.Source, Ledger: l}
		if err := s.store.SaveRun(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to archive run: %w", err)
		}
		res.RunID = run.ID
		slog.Info("run archived", "run_id", run.ID, "source", run.Source)
	}

	return res, nil
}

// ListRuns returns archive summaries, newest first.
func (s *ReportService) ListRuns(ctx context.Context) ([]models.RunSummary, error) {
	if s.store == nil {
		return nil, ErrArchiveDisabled
	}
	return s.store.ListRuns(ctx)
}
