package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/PBPF11/vacathon/internal/config"
	"github.com/PBPF11/vacathon/internal/importer"
	"github.com/PBPF11/vacathon/internal/metrics"
	"github.com/PBPF11/vacathon/internal/metrics/datadog"
	"github.com/PBPF11/vacathon/internal/metrics/prompush"

	// register all backends with the storage factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "github.com/PBPF11/vacathon/internal/storage/all"
)

// main is the entry point for the race importer. It loads the pipeline
// config, applies flag overrides, optionally initializes a metrics backend,
// and executes the import run.
func main() {
	var (
		cfgPath           string
		csvPath           string
		limit             int
		dryRun            bool
		validate          bool
		metricsBackendFlg string
		pushGatewayURLFlg string
	)

	flag.StringVar(&cfgPath, "config", "", "pipeline config JSON path (defaults apply when empty)")
	flag.StringVar(&csvPath, "csv", "", "input CSV path (overrides config)")
	flag.IntVar(&limit, "limit", -1, "cap on distinct events; 0 means no cap (overrides config)")
	flag.BoolVar(&dryRun, "dry-run", false, "preview derived events without writing to storage")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "none", "metrics backend to use (pushgateway, datadog, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	p := config.Default()
	if cfgPath != "" {
		var err error
		p, err = config.Load(cfgPath)
		if err != nil {
			fatalf("%v", err)
		}
	}

	// Flag overrides on top of the config file.
	if csvPath != "" {
		p.Source.Kind = "file"
		p.Source.File.Path = csvPath
	}
	if limit >= 0 {
		p.Import.Limit = limit
	}
	if dryRun {
		p.Import.DryRun = true
	}

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Printf("Configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}
	if validate {
		log.Printf("Configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	initMetrics(metricsBackendFlg, pushGatewayURLFlg, p.Job, *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	ctx := context.Background()
	start := time.Now()

	if *verbose {
		log.Printf("pipeline: source=%s parser=%s storage=%s dry_run=%v limit=%d",
			p.Source.Kind, p.Parser.Kind, p.Storage.Kind, p.Import.DryRun, p.Import.Limit)
	}

	sum, err := importer.Run(ctx, p)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if p.Import.DryRun {
		fmt.Printf("Dry run complete: %d events derived from %d rows.\n", sum.Events, sum.RowsProcessed)
	} else {
		fmt.Printf("Created %d events.\n", sum.Created)
		fmt.Printf("Updated %d events.\n", sum.Updated)
	}

	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

// initMetrics installs the requested metrics backend: flag → env → none.
func initMetrics(backendName, gwURL, job string, verbose bool) {
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	if job == "" {
		job = "import_job"
	}

	switch backendName {
	case "pushgateway":
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(job, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: url=%v, backend=%v, job_name=%v", gwURL, backendName, job)
		metrics.SetBackend(b)

	case "datadog":
		addr := os.Getenv("DOGSTATSD_ADDR")
		if addr == "" {
			addr = "127.0.0.1:8125"
		}
		b, err := datadog.NewBackend(datadog.Config{Addr: addr, Namespace: "vacathon."})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: addr=%v, backend=%v, job_name=%v", addr, backendName, job)
		metrics.SetBackend(b)

	case "", "none":
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
