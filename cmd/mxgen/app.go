package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mxtools/mxgen/internal/configuration"
	"github.com/mxtools/mxgen/internal/filter"
	"github.com/mxtools/mxgen/internal/mapping"
	"github.com/mxtools/mxgen/internal/output"
	"github.com/mxtools/mxgen/internal/processors"
	"github.com/mxtools/mxgen/internal/schema"
)

type headerParser interface {
	ParseHeaders(paths []string) ([]*schema.Declaration, error)
	SourceDigest() string
}

type renderer interface {
	Render(mapped []*mapping.Mapped, sourceDigest string) (string, []schema.Emission, error)
	Format(src string) (string, error)
}

type outputWriter interface {
	Check(path string, content []byte) error
	Write(path string, content []byte) error
}

type App struct {
	config        *configuration.Config
	parseHandler  headerParser
	filterHandler *filter.Handler
	emitHandler   renderer
	outputHandler outputWriter
	checkOnly     bool
}

func NewApp(config *configuration.Config,
	parseHandler headerParser,
	filterHandler *filter.Handler,
	emitHandler renderer,
	outputHandler outputWriter,
	checkOnly bool,
) *App {
	return &App{
		config:        config,
		parseHandler:  parseHandler,
		filterHandler: filterHandler,
		emitHandler:   emitHandler,
		outputHandler: outputHandler,
		checkOnly:     checkOnly,
	}
}

// Launch runs the single linear extraction pass: parse, filter, map, emit,
// format, write. No output file is touched before every prior stage has
// fully succeeded.
func (app *App) Launch(ctx context.Context) (*RunSummary, error) {
	decls, err := app.parseHandler.ParseHeaders(app.config.Headers)
	if err != nil {
		return nil, fmt.Errorf("(app) %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("(app) %w", err)
	}

	retained, err := app.filterDeclarations(decls)
	if err != nil {
		return nil, err
	}

	mapHandler := mapping.NewHandler(app.config.Options, decls)

	mapped, err := mapHandler.MapDeclarations(retained)
	if err != nil {
		return nil, fmt.Errorf("(app) %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("(app) %w", err)
	}

	text, records, err := app.emitHandler.Render(mapped, app.parseHandler.SourceDigest())
	if err != nil {
		return nil, fmt.Errorf("(app) %w", err)
	}

	formatted, err := app.emitHandler.Format(text)
	if err != nil {
		slog.Error("Formatting failed: preserving unformatted output.", "err", err)
		formatted = text
	}
	content := []byte(formatted)

	if app.checkOnly {
		if err := app.outputHandler.Check(app.config.OutputPath, content); err != nil {
			return nil, fmt.Errorf("(app) %w", err)
		}
	} else {
		if err := app.outputHandler.Write(app.config.OutputPath, content); err != nil {
			return nil, fmt.Errorf("(app) %w", err)
		}
	}

	return &RunSummary{
		OutputPath: app.config.OutputPath,
		Parsed:     len(decls),
		Retained:   len(retained),
		Records:    len(records),
		Bytes:      len(content),
		Digest:     output.Digest(content),
		CheckOnly:  app.checkOnly,
	}, nil
}

// filterDeclarations runs the de-duplication and retention stages as a
// batch-processing pipeline over the parsed declarations.
func (app *App) filterDeclarations(decls []*schema.Declaration) ([]*schema.Declaration, error) {
	pipeline := &processors.Pipeline[*schema.Declaration]{}

	pipeline.AddPreProcess(func(items []*schema.Declaration) ([]*schema.Declaration, bool) {
		return app.filterHandler.Dedupe(items), true
	})
	pipeline.AddPreProcess(func(items []*schema.Declaration) ([]*schema.Declaration, bool) {
		return app.filterHandler.Retain(items), true
	})

	retained, ok := pipeline.PreProcess(decls)
	if !ok {
		return nil, fmt.Errorf("(app) %w", ErrFilterFailed)
	}

	return retained, nil
}
