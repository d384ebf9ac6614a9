package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mxtools/mxgen/internal/configuration"
	"github.com/mxtools/mxgen/internal/emission"
	"github.com/mxtools/mxgen/internal/filter"
	"github.com/mxtools/mxgen/internal/header"
	"github.com/mxtools/mxgen/internal/output"
	"github.com/mxtools/mxgen/internal/schema"
	"github.com/mxtools/mxgen/internal/validation"
)

const (
	stackTraceBufMax = 1 << 24
)

//nolint:gochecknoglobals
var (
	ExitCode = 0
	Version  string

	checkMode  = flag.Bool("check", false, "compare against the existing output instead of writing")
	outputPath = flag.String("output", "", "override the configured output path")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func setupLogging() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		}),
	))
}

func setupSignalHandlers(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		cancel()
	}()

	sigChan2 := make(chan os.Signal, 1)
	signal.Notify(sigChan2, syscall.SIGUSR1)
	go func() {
		for range sigChan2 {
			buf := make([]byte, stackTraceBufMax)
			stacklen := runtime.Stack(buf, true)
			os.Stderr.Write(buf[:stacklen])
		}
	}()
}

// startCPUProfile begins CPU profiling when a path was requested; the
// returned stop function is safe to call either way.
func startCPUProfile(path string) (stop func()) {
	if path == "" {
		return func() {}
	}

	f, err := os.Create(path)
	if err != nil {
		slog.Error("Could not create cpu profile.", "err", err)

		return func() {}
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		slog.Error("Could not start cpu profile.", "err", err)
		f.Close()

		return func() {}
	}

	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}
}

func main() {
	defer func() {
		os.Exit(ExitCode)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	flag.Parse()
	setupLogging()
	setupSignalHandlers(cancel)

	stopProfile := startCPUProfile(*cpuprofile)
	defer stopProfile()

	osProvider := &schema.OS{}
	unixProvider := &schema.Unix{}
	configProvider := &configuration.GodotenvProvider{}
	envProvider := &configuration.OSEnv{}

	workDir, err := os.Getwd()
	if err != nil {
		slog.Error("Failed to resolve working directory.", "err", err)
		ExitCode = 1

		return
	}

	configHandler := configuration.NewHandler(configProvider, envProvider, osProvider)

	config, err := configHandler.EstablishConfig(workDir)
	if err != nil {
		slog.Error("Failed to establish configuration.", "err", err)
		ExitCode = 1

		return
	}

	if *outputPath != "" {
		config.OutputPath = *outputPath
	}

	validationHandler := validation.NewHandler(osProvider, unixProvider)
	if err := validationHandler.ValidateConfig(config); err != nil {
		slog.Error("Failed pre-run validation.", "err", err)
		ExitCode = 1

		return
	}

	headerHandler := header.NewHandler(osProvider, config.IncludeDirs)
	filterHandler := filter.NewHandler(config.Rules)
	emitHandler := emission.NewHandler(config.Options)
	outputHandler := output.NewHandler(osProvider)

	app := NewApp(config, headerHandler, filterHandler, emitHandler, outputHandler, *checkMode)

	summary, err := app.Launch(ctx)
	if err != nil {
		slog.Error("Extraction failed.", "err", err)
		ExitCode = 1

		return
	}

	fmt.Println(summary.Render())
}
