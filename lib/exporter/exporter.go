package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"diary-export/lib/csvout"
	"diary-export/lib/diary"
	"diary-export/lib/telemetry"
	"diary-export/lib/timezone"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

var tracer = telemetry.Tracer("diary-export/lib/exporter")
var meter = telemetry.Meter("diary-export/lib/exporter")

var recordCount, _ = meter.Int64Counter(
	"diary_export.records",
	metric.WithDescription("food records written to an export"),
)
var skippedRowCount, _ = meter.Int64Counter(
	"diary_export.skipped_rows",
	metric.WithDescription("malformed diary rows skipped during extraction"),
)

var (
	ErrNoAnalyzedUser = errors.New("an analyzed user is required")
	ErrNoOutputPath   = errors.New("an output path is required")
)

// Config holds the parameters of a single export run.
type Config struct {
	AnalyzedUser string
	// Start and End default to today.
	Start time.Time
	End   time.Time
	// OutputPath is replaced atomically, it is left untouched on failure.
	OutputPath  string
	DateLayouts []string
}

// Normalize fills in default dates and validates the config.
func (c Config) Normalize() (Config, error) {
	if c.AnalyzedUser == "" {
		return c, ErrNoAnalyzedUser
	}
	if c.OutputPath == "" {
		return c, ErrNoOutputPath
	}
	if c.Start.IsZero() {
		c.Start = timezone.Today()
	}
	if c.End.IsZero() {
		c.End = timezone.Today()
	}
	c.Start = timezone.Date(c.Start)
	c.End = timezone.Date(c.End)
	if c.Start.After(c.End) {
		return c, fmt.Errorf(
			"start date %s is after end date %s",
			c.Start.Format(timezone.DateLayout),
			c.End.Format(timezone.DateLayout),
		)
	}
	return c, nil
}

type Result struct {
	RunId    string
	Schema   diary.Schema
	Records  int
	Skipped  int
	Sections int
	Output   string
}

// Collect extracts every chunk of the configured range without writing
// anything.
func Collect(ctx context.Context, cfg Config, src PageSource) (diary.Extraction, error) {
	ctx, span := tracer.Start(ctx, "Collect")
	defer span.End()

	var result diary.Extraction
	for _, chunk := range Chunks(cfg.Start, cfg.End) {
		slog.DebugContext(ctx, "fetching diary", "range", chunk.String())

		page, err := src.DiaryPage(ctx, cfg.AnalyzedUser, chunk.From, chunk.To)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch diary page")
			return diary.Extraction{}, fmt.Errorf("fetch diary %s: %w", chunk, err)
		}

		extracted, err := diary.Extract(ctx, page, diary.Options{
			User:        cfg.AnalyzedUser,
			DateLayouts: cfg.DateLayouts,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to extract diary page")
			return diary.Extraction{}, fmt.Errorf("extract diary %s: %w", chunk, err)
		}

		// pages without sections carry no header to compare against
		if len(extracted.Sections) > 0 {
			if result.Schema == nil {
				result.Schema = extracted.Schema
			} else if !result.Schema.Equal(extracted.Schema) {
				err := &diary.SchemaError{Reason: fmt.Sprintf(
					"header of %s differs from the previous ranges", chunk,
				)}
				span.RecordError(err)
				span.SetStatus(codes.Error, "inconsistent schema")
				return diary.Extraction{}, err
			}
		}

		for _, skipped := range extracted.Skipped {
			slog.WarnContext(
				ctx, "skipped malformed row",
				"range", chunk.String(),
				"err", skipped.Error(),
			)
		}

		result.Sections = append(result.Sections, extracted.Sections...)
		result.Records = append(result.Records, extracted.Records...)
		result.Skipped = append(result.Skipped, extracted.Skipped...)
	}

	if result.Schema == nil {
		result.Schema = diary.DefaultSchema
	}
	span.SetAttributes(
		attribute.Int("sections", len(result.Sections)),
		attribute.Int("records", len(result.Records)),
	)
	return result, nil
}

// Run exports the diary of cfg.AnalyzedUser to cfg.OutputPath. The output
// file is only written once every range has been extracted.
func Run(ctx context.Context, cfg Config, src PageSource) (Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	cfg, err := cfg.Normalize()
	if err != nil {
		return Result{}, err
	}

	runId := uuid.NewString()
	span.SetAttributes(attribute.String("run_id", runId))
	slog.InfoContext(
		ctx, "exporting diary",
		"run_id", runId,
		"user", cfg.AnalyzedUser,
		"start", cfg.Start.Format(timezone.DateLayout),
		"end", cfg.End.Format(timezone.DateLayout),
	)

	extraction, err := Collect(ctx, cfg, src)
	if err != nil {
		slog.ErrorContext(ctx, "export failed", "run_id", runId, "err", err)
		return Result{}, err
	}

	err = csvout.WriteFile(cfg.OutputPath, extraction.Schema, extraction.Rows())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write output")
		slog.ErrorContext(ctx, "export failed", "run_id", runId, "err", err)
		return Result{}, err
	}

	recordCount.Add(ctx, int64(len(extraction.Records)))
	skippedRowCount.Add(ctx, int64(len(extraction.Skipped)))

	result := Result{
		RunId:    runId,
		Schema:   extraction.Schema,
		Records:  len(extraction.Records),
		Skipped:  len(extraction.Skipped),
		Sections: len(extraction.Sections),
		Output:   cfg.OutputPath,
	}
	slog.InfoContext(
		ctx, "export finished",
		"run_id", runId,
		"records", result.Records,
		"skipped", result.Skipped,
		"output", result.Output,
	)
	return result, nil
}
