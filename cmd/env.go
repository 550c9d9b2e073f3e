package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/traincore/certassist/internal/assistant"
	"github.com/traincore/certassist/internal/extract"
	"github.com/traincore/certassist/internal/ocr"
	"github.com/traincore/certassist/internal/report"
	"github.com/traincore/certassist/internal/secure"
	"github.com/traincore/certassist/internal/store"
	"github.com/traincore/certassist/pkg/anthropic"
	"github.com/traincore/certassist/pkg/vision"
)

// env bundles the wired application components for the commands.
type env struct {
	Store      store.Store
	Dispatcher *assistant.Dispatcher
	Pipeline   *extract.Pipeline
	Exporter   *report.Exporter
}

func (e *env) Close() {
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("store close", zap.Error(err))
	}
}

// initStore opens the configured backend. Used directly by commands that
// need no AI wiring (migrate, report).
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite", "":
		return store.NewSQLite(cfg.Store.SQLitePath)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initEnv wires the full stack: store, model clients, OCR tooling, the
// extraction pipeline, the secure mutator and the dispatcher.
func initEnv(ctx context.Context) (*env, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.Anthropic.Key == "" {
		st.Close() //nolint:errcheck
		return nil, eris.New("anthropic.key is required (CERTASSIST_ANTHROPIC_KEY)")
	}
	llm := anthropic.NewClient(cfg.Anthropic.Key)

	visionClient := vision.NewClient(cfg.Vision.Key,
		vision.WithBaseURL(cfg.Vision.BaseURL),
		vision.WithModel(cfg.Vision.Model),
	)

	reader, err := ocr.NewExtractor(cfg.OCR, cfg.OCR.MistralKey)
	if err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	renderer := ocr.NewPageRenderer(cfg.OCR.PdfToPpmPath)

	mutator, err := secure.NewMutator(st)
	if err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}

	fields := extract.NewFieldExtractor(llm, cfg.Anthropic.ExtractModel)
	return &env{
		Store:      st,
		Dispatcher: assistant.NewDispatcher(llm, st, mutator, cfg.Anthropic.DispatchModel),
		Pipeline:   extract.NewPipeline(st, reader, renderer, visionClient, fields),
		Exporter:   report.NewExporter(st),
	}, nil
}
