// Package extract runs the full header-to-model pipeline: preprocess, parse,
// load metadata and build the API model.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/bindinfo/pkg/apimodel"
	"github.com/Sumatoshi-tech/bindinfo/pkg/cdecl"
	"github.com/Sumatoshi-tech/bindinfo/pkg/cparse"
	"github.com/Sumatoshi-tech/bindinfo/pkg/levenshtein"
	"github.com/Sumatoshi-tech/bindinfo/pkg/metadata"
	"github.com/Sumatoshi-tech/bindinfo/pkg/observability"
	"github.com/Sumatoshi-tech/bindinfo/pkg/preprocess"
)

// Phase names, also used as span suffixes and metric attributes.
const (
	PhasePreprocess = "preprocess"
	PhaseParse      = "parse"
	PhaseMetadata   = "metadata"
	PhaseModel      = "model"

	spanPrefix = "bindinfo."
)

// Preprocessor expands a header file into plain C text.
type Preprocessor interface {
	Run(ctx context.Context, header string) ([]byte, error)
}

// Request names the inputs of one run. An empty MetadataPath builds the
// model without metadata.
type Request struct {
	HeaderPath   string
	MetadataPath string
}

// Pipeline turns a header and a metadata file into an apimodel.Model.
// Tracer, Metrics and Logger are optional.
type Pipeline struct {
	Preprocessor     Preprocessor
	Parser           *cparse.Parser
	Options          apimodel.Options
	ValidateMetadata bool

	Tracer  trace.Tracer
	Metrics *observability.ExtractionMetrics
	Logger  *slog.Logger
}

// NewPipeline creates a Pipeline with default model options and metadata
// validation enabled.
func NewPipeline(pre Preprocessor) *Pipeline {
	return &Pipeline{
		Preprocessor:     pre,
		Parser:           cparse.New(),
		Options:          apimodel.DefaultOptions(),
		ValidateMetadata: true,
	}
}

// Run executes every phase in order. The first failing phase aborts the run.
func (p *Pipeline) Run(ctx context.Context, req Request) (*apimodel.Model, error) {
	ctx, span := p.tracer().Start(ctx, spanPrefix+"extract", trace.WithAttributes(
		attribute.String("header", req.HeaderPath),
		attribute.String("metadata", req.MetadataPath),
	))
	defer span.End()

	var (
		src   []byte
		unit  *cdecl.TranslationUnit
		doc   *metadata.Document
		model *apimodel.Model
	)

	err := p.phase(ctx, PhasePreprocess, func(ctx context.Context) error {
		var runErr error

		src, runErr = p.Preprocessor.Run(ctx, req.HeaderPath)
		if runErr != nil {
			return runErr
		}

		p.logger().DebugContext(ctx, "header preprocessed",
			slog.String("header", req.HeaderPath),
			slog.String("size", humanize.Bytes(uint64(len(src)))),
			slog.Int("lines", preprocess.CountLines(src)))

		if lang := headerLanguage(req.HeaderPath); lang != "" {
			trace.SpanFromContext(ctx).SetAttributes(attribute.String("header.language", lang))

			if !IsCFamily(lang) {
				p.logger().WarnContext(ctx, "header does not look like C",
					slog.String("header", req.HeaderPath), slog.String("language", lang))
			}
		}

		return nil
	})
	if err == nil {
		err = p.phase(ctx, PhaseParse, func(ctx context.Context) error {
			var parseErr error

			unit, parseErr = p.parser().Parse(ctx, src)

			return parseErr
		})
	}

	if err == nil && req.MetadataPath != "" {
		err = p.phase(ctx, PhaseMetadata, func(context.Context) error {
			var loadErr error

			doc, loadErr = metadata.Load(req.MetadataPath, p.ValidateMetadata)

			return loadErr
		})
	}

	if err == nil {
		err = p.phase(ctx, PhaseModel, func(context.Context) error {
			var buildErr error

			model, buildErr = apimodel.Build(unit, doc, p.Options)

			return buildErr
		})
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	p.warnUnknownImportantEnums(ctx, model)

	stats := Stats(model)
	p.Metrics.RecordRun(ctx, stats)

	p.logger().InfoContext(ctx, "extraction complete",
		slog.Int("functions", stats.Functions),
		slog.Int("typedefs", stats.Typedefs),
		slog.Int("enums", stats.Enums),
		slog.Int("constants", stats.Constants),
	)

	return model, nil
}

// warnUnknownImportantEnums logs metadata enum names that match no extracted
// enumeration, with the closest extracted name when one is near.
func (p *Pipeline) warnUnknownImportantEnums(ctx context.Context, model *apimodel.Model) {
	unknown := model.UnknownImportantEnums()
	if len(unknown) == 0 {
		return
	}

	suggester := levenshtein.NewSuggester(model.ConstantsByEnum.Keys())

	for _, name := range unknown {
		attrs := []any{slog.String("enum", name)}
		if suggestion, ok := suggester.Suggest(name); ok {
			attrs = append(attrs, slog.String("did_you_mean", suggestion))
		}

		p.logger().WarnContext(ctx, "important enum not found in header", attrs...)
	}
}

func (p *Pipeline) phase(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := p.tracer().Start(ctx, spanPrefix+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	p.Metrics.RecordPhase(ctx, name, elapsed)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return fmt.Errorf("%s: %w", name, err)
	}

	p.logger().DebugContext(ctx, "phase complete", slog.String("phase", name), slog.Duration("duration", elapsed))

	return nil
}

func (p *Pipeline) tracer() trace.Tracer {
	if p.Tracer == nil {
		return nooptrace.NewTracerProvider().Tracer("")
	}

	return p.Tracer
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}

	return p.Logger
}

func (p *Pipeline) parser() *cparse.Parser {
	if p.Parser == nil {
		p.Parser = cparse.New()
	}

	return p.Parser
}

// Stats summarizes model for metrics and logs.
func Stats(model *apimodel.Model) observability.ExtractionStats {
	return observability.ExtractionStats{
		Functions:      model.Functions.Len(),
		Typedefs:       model.Typedefs.Len(),
		Enums:          model.ConstantsByEnum.Len(),
		Constants:      model.Constants.Len(),
		ImportantEnums: len(model.ImportantEnums),
	}
}
