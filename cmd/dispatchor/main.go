package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/dispatchor"
	"github.com/viant/dispatchor/internal/logging"
	"github.com/viant/dispatchor/service/intake"
	"github.com/viant/dispatchor/tracing"
)

var (
	intakeURL    = flag.String("intake", "", "intake document URL (yaml, json or console text format)")
	serviceTime  = flag.Duration("service-time", 0, "overrides the configured request service time, 0 included")
	outURL       = flag.String("out", "", "optional URL to upload the JSON report to")
	metricsAddr  = flag.String("metrics-addr", "", "optional address to serve prometheus metrics on, e.g. :9090")
	traceFile    = flag.String("trace", "", "enables tracing to the given file, use - for stdout")
	logVerbosity = flag.Int("v", logging.DEFAULT, "number for the log level verbosity")
)

func main() {
	flag.Parse()
	logger, err := logging.New(*logVerbosity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err = run(ctx, logger); err != nil {
		logger.Error(err, "dispatch failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, logger logr.Logger) error {
	if *intakeURL == "" {
		return errors.New("intake URL is required")
	}
	doc, err := intake.Load(ctx, *intakeURL)
	if err != nil {
		return err
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "service-time" {
			doc.Execution.ServiceTime = dispatchor.Duration(*serviceTime)
		}
	})

	registry := prometheus.NewRegistry()
	options := []dispatchor.Option{
		dispatchor.WithLogger(logger),
		dispatchor.WithConfig(&doc.Config),
		dispatchor.WithMetricsRegisterer(registry),
	}
	if *traceFile != "" {
		output := *traceFile
		if output == "-" {
			output = ""
		}
		options = append(options, dispatchor.WithTracing("dispatchor", "", output))
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(shutdownCtx); err != nil {
				logger.Error(err, "failed to flush traces")
			}
		}()
	}
	if *metricsAddr != "" {
		server := &http.Server{Addr: *metricsAddr, Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{})}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error(err, "metrics server failed")
			}
		}()
		defer server.Close()
	}

	srv, err := dispatchor.New(options...)
	if err != nil {
		return err
	}
	runtime := srv.Runtime()
	if err = runtime.Start(ctx); err != nil {
		return err
	}
	if err = doc.Submit(ctx, runtime); err != nil {
		logger.Error(err, "some requests were not submitted")
	}
	if err = runtime.Shutdown(ctx); err != nil {
		return err
	}
	report, err := runtime.Report(ctx)
	if err != nil {
		return err
	}
	if err = report.Write(os.Stdout); err != nil {
		return err
	}
	if *outURL != "" {
		return upload(ctx, *outURL, report)
	}
	return nil
}

func upload(ctx context.Context, URL string, report *dispatchor.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fs := afs.New()
	if err = fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to upload report to %v: %w", URL, err)
	}
	return nil
}
