package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iamNilotpal/mediapress/config"
	"github.com/iamNilotpal/mediapress/internal/core/domain"
	"github.com/iamNilotpal/mediapress/internal/core/services/engine"
	"github.com/iamNilotpal/mediapress/internal/serialize"
	"github.com/iamNilotpal/mediapress/internal/telemetry"
	"github.com/iamNilotpal/mediapress/pkg/errors"
	"github.com/iamNilotpal/mediapress/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	method := flag.String("method", string(domain.MethodAuto), "huffman, svd, ffmpeg or auto")
	level := flag.Int("level", domain.DefaultLevel, "compression level between 10 and 90")
	format := flag.String("format", string(serialize.FormatJSON), "report format: json or proto")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: mediapress [flags] <input>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*configPath, *format, flag.Arg(0), domain.CompressionRequest{
		Method: domain.Method(*method),
		Level:  *level,
	}); err != nil {
		os.Exit(1)
	}
}

func run(configPath, format, input string, req domain.CompressionRequest) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	log := logger.New("mediapress", cfg.LogLevel)
	defer log.Sync()
	sugar := log.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var options []engine.Option
	if cfg.Telemetry.Enable {
		provider, shutdown, err := telemetry.InitMetricsProvider(ctx, cfg.Telemetry.OTELEndpoint, "mediapress")
		if err != nil {
			sugar.Errorw("telemetry setup failed", "error", err)
			return err
		}
		options = append(options, engine.WithMeterProvider(provider), engine.WithShutdown(shutdown))
	}

	eng, err := engine.New(cfg.EngineOptions(), log, options...)
	if err != nil {
		if ve := errors.AsValidationError(err); ve != nil {
			sugar.Errorw("create engine error", "field", ve.Field, "value", ve.Value, "error", ve.Err)
		} else {
			sugar.Errorw("create engine error", "error", err)
		}
		return err
	}
	sugar.Debugw("engine ready", "uploadDir", eng.Options().UploadDir, "outputDir", eng.Options().OutputDir)
	defer func() {
		if err := eng.Close(); err != nil {
			sugar.Warnw("error closing engine", "error", err)
		}
	}()

	result, err := eng.CompressFile(ctx, req, input)
	if err != nil {
		if ve := errors.AsValidationError(err); ve != nil {
			sugar.Errorw("invalid request", "field", ve.Field, "value", ve.Value, "error", ve.Err)
		} else {
			sugar.Errorw("compression error", "category", errors.Classify(err), "error", err)
		}
		return err
	}

	report, err := serialize.Marshal(serialize.Format(format), result)
	if err != nil {
		sugar.Errorw("report error", "error", err)
		return err
	}

	if _, err := os.Stdout.Write(report); err != nil {
		return err
	}
	if serialize.Format(format) != serialize.FormatProto {
		fmt.Fprintln(os.Stdout)
	}
	return nil
}
