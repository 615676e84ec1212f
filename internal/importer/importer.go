// Package importer runs the end-to-end race import: stream the source CSV,
// normalize and aggregate rows into logical events, synthesize schedules,
// resolve distance categories, and upsert everything through the configured
// storage backend. The whole pipeline is streaming; the only thing held in
// memory is the aggregated event set.
package importer

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/PBPF11/vacathon/internal/config"
	"github.com/PBPF11/vacathon/internal/datasource/file"
	"github.com/PBPF11/vacathon/internal/metrics"
	csvp "github.com/PBPF11/vacathon/internal/parser/csv"
	"github.com/PBPF11/vacathon/internal/races"
	"github.com/PBPF11/vacathon/internal/storage"
)

// defaultHeaderMap maps the dataset's verbatim column headers onto the
// canonical field names the normalizer expects. A config-provided header_map
// overrides individual entries.
var defaultHeaderMap = map[string]string{
	"Year of event":             "year",
	"Event name":                "name",
	"Event dates":               "dates",
	"Event number of finishers": "finishers",
	"Event distance/length":     "distance",
}

// Summary reports what one import run did.
type Summary struct {
	// RowsProcessed counts rows that contributed to an event.
	RowsProcessed int
	// RowsSkipped counts rows dropped by normalization or the event limit.
	RowsSkipped int
	// ParseErrors counts malformed CSV lines soft-dropped by the reader.
	ParseErrors int

	// Events is the number of distinct events derived.
	Events int
	// Created and Updated split the upserts by outcome.
	Created int
	Updated int

	// Previews holds the dry-run preview lines, in event order. Empty
	// outside dry-run mode.
	Previews []string
}

// Seams for tests; production code never reassigns these.
var (
	newRepositoryFn = storage.New
	openSourceFn    = openSource
	todayFn         = func() time.Time { return time.Now().UTC() }
)

// rowBuffer bounds the reader-to-aggregator channel.
const rowBuffer = 256

// maxErrorSamples caps how many row-level problems are echoed to the log;
// the rest are only counted.
const maxErrorSamples = 10

// errSample retains the first few error messages and counts the rest.
type errSample struct {
	count   int
	samples []string
}

func (e *errSample) add(msg string) {
	e.count++
	if len(e.samples) < maxErrorSamples {
		e.samples = append(e.samples, msg)
	}
}

func (e *errSample) report(what string) {
	if e.count == 0 {
		return
	}
	log.Printf("import: dropped %d %s (showing up to %d)", e.count, what, maxErrorSamples)
	for _, s := range e.samples {
		log.Printf("import:   %s", s)
	}
}

// Run executes the import described by spec and returns a Summary. The
// pipeline config should have passed config.ValidatePipeline first; Run
// still fails cleanly on unusable specs.
func Run(ctx context.Context, spec config.Pipeline) (Summary, error) {
	var sum Summary

	if kind := spec.Parser.Kind; kind != "" && kind != "csv" {
		return sum, fmt.Errorf("unsupported parser kind %q", kind)
	}

	agg, err := aggregate(ctx, spec, &sum)
	if err != nil {
		return sum, err
	}

	events := agg.Events()
	sum.Events = len(events)
	log.Printf("import: job=%s rows_processed=%d rows_skipped=%d parse_errors=%d events=%d",
		spec.Job, sum.RowsProcessed, sum.RowsSkipped, sum.ParseErrors, sum.Events)

	metrics.RecordRow(spec.Job, "processed", int64(sum.RowsProcessed))
	metrics.RecordRow(spec.Job, "skipped", int64(sum.RowsSkipped))
	metrics.RecordRow(spec.Job, "parse_errors", int64(sum.ParseErrors))

	if spec.Import.DryRun {
		preview(events, todayFn(), &sum)
		return sum, nil
	}

	if err := write(ctx, spec, events, &sum); err != nil {
		return sum, err
	}

	metrics.RecordEvents(spec.Job, "created", int64(sum.Created))
	metrics.RecordEvents(spec.Job, "updated", int64(sum.Updated))
	return sum, nil
}

// aggregate streams the source through the CSV parser and merges rows into
// the returned aggregator. The reader runs in its own goroutine; the
// aggregator is single-threaded, which keeps merge order deterministic.
func aggregate(ctx context.Context, spec config.Pipeline, sum *Summary) (*races.Aggregator, error) {
	started := time.Now()

	src, err := openSourceFn(ctx, spec.Source)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}

	opts := parserOptions(spec.Parser.Options)
	rows := make(chan csvp.Row, rowBuffer)

	var parseErrs, dropped errSample

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(rows)
		return csvp.StreamRows(gctx, src, opts, rows, func(line int, err error) {
			parseErrs.add(fmt.Sprintf("line %d: %v", line, err))
		})
	})

	agg := races.NewAggregator(spec.Import.Limit)
	for row := range rows {
		fact := races.Normalize(races.RawRow{
			Year:      row.Fields["year"],
			Name:      row.Fields["name"],
			Dates:     row.Fields["dates"],
			Finishers: row.Fields["finishers"],
			Distance:  row.Fields["distance"],
		})
		if fact == nil {
			sum.RowsSkipped++
			dropped.add(fmt.Sprintf("line %d: unusable row", row.Line))
			continue
		}
		if !agg.Add(fact) {
			sum.RowsSkipped++
			continue
		}
		sum.RowsProcessed++
	}

	err = g.Wait()
	sum.ParseErrors = parseErrs.count
	parseErrs.report("malformed lines")
	dropped.report("unusable rows")
	metrics.RecordStep(spec.Job, "parse", err, time.Since(started))
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return agg, nil
}

// preview logs what a real run would upsert, without opening storage.
func preview(events []*races.EventRecord, today time.Time, sum *Summary) {
	for _, ev := range events {
		sched := races.Synthesize(ev, today)
		line := fmt.Sprintf("[DRY RUN] Would upsert event: %s (%s - %s) [registration %s -> %s]",
			ev.Title(),
			sched.Start.Format("2006-01-02"),
			sched.EffectiveEnd().Format("2006-01-02"),
			sched.RegistrationOpen.Format("2006-01-02"),
			sched.RegistrationDeadline.Format("2006-01-02"),
		)
		sum.Previews = append(sum.Previews, line)
		log.Print(line)
	}
}

// write opens the configured repository and upserts every event with its
// resolved categories, in first-seen order.
func write(ctx context.Context, spec config.Pipeline, events []*races.EventRecord, sum *Summary) error {
	started := time.Now()

	repo, err := newRepositoryFn(ctx, storage.Config{
		Kind: spec.Storage.Kind,
		DSN:  spec.Storage.DB.DSN,
	})
	if err != nil {
		metrics.RecordStep(spec.Job, "write", err, time.Since(started))
		return fmt.Errorf("open storage: %w", err)
	}
	defer repo.Close()

	if spec.Storage.DB.AutoMigrate {
		if err := storage.EnsureSchema(ctx, spec.Storage.Kind, repo); err != nil {
			metrics.RecordStep(spec.Job, "write", err, time.Since(started))
			return err
		}
	}

	resolver := races.NewCategoryResolver(repo)
	today := todayFn()

	for _, ev := range events {
		sched := races.Synthesize(ev, today)

		cats, err := resolver.Resolve(ctx, ev)
		if err != nil {
			metrics.RecordStep(spec.Job, "write", err, time.Since(started))
			return fmt.Errorf("event %q: %w", ev.Title(), err)
		}
		catIDs := make([]int64, len(cats))
		for i, c := range cats {
			catIDs[i] = c.ID
		}

		created, err := repo.UpsertEvent(ctx, eventRow(ev, sched), catIDs)
		if err != nil {
			metrics.RecordStep(spec.Job, "write", err, time.Since(started))
			return fmt.Errorf("event %q: %w", ev.Title(), err)
		}
		if created {
			sum.Created++
		} else {
			sum.Updated++
		}
	}

	metrics.RecordStep(spec.Job, "write", nil, time.Since(started))
	return nil
}

// eventRow assembles the persisted row for one event. Popularity, limit, and
// registered count all mirror the finisher total; the dataset has no
// separate signal for them.
func eventRow(ev *races.EventRecord, sched races.Schedule) storage.EventRow {
	return storage.EventRow{
		Title:                ev.Title(),
		Description:          races.BuildDescription(ev, sched),
		City:                 ev.City(),
		Country:              ev.Country,
		Venue:                ev.Venue(),
		StartDate:            sched.Start,
		EndDate:              sched.End,
		RegistrationOpen:     sched.RegistrationOpen,
		RegistrationDeadline: sched.RegistrationDeadline,
		Status:               string(sched.Status),
		PopularityScore:      ev.Finishers,
		ParticipantLimit:     ev.Finishers,
		RegisteredCount:      ev.Finishers,
	}
}

// parserOptions layers the built-in dataset header map under any
// user-provided options; explicit config entries win.
func parserOptions(opts config.Options) config.Options {
	merged := config.Options{}
	for k, v := range opts {
		merged[k] = v
	}

	hm := map[string]any{}
	for k, v := range defaultHeaderMap {
		hm[k] = v
	}
	for k, v := range opts.StringMap("header_map") {
		hm[k] = v
	}
	merged["header_map"] = hm
	return merged
}

// openSource resolves the configured source kind into a byte stream.
func openSource(ctx context.Context, src config.Source) (io.ReadCloser, error) {
	switch src.Kind {
	case "", "file":
		return file.NewLocal(src.File.Path).Open(ctx)
	default:
		return nil, fmt.Errorf("unsupported source kind %q", src.Kind)
	}
}
