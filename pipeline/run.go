package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	errs "github.com/c360studio/semstreams/errors"
	"github.com/google/uuid"

	"github.com/c360studio/termset/config"
	"github.com/c360studio/termset/export"
	"github.com/c360studio/termset/graph"
	"github.com/c360studio/termset/metric"
	"github.com/c360studio/termset/notify"
	"github.com/c360studio/termset/source"
	"github.com/c360studio/termset/transform"
)

// Result describes a finished build.
type Result struct {
	RunID      string
	Input      string
	Output     string
	Exports    []string
	Mode       Mode
	Stats      transform.Stats
	Terms      int
	Duration   time.Duration
	FinishedAt time.Time
}

// Publisher announces finished builds.
type Publisher interface {
	Publish(ctx context.Context, ev notify.BuildEvent) error
	Close()
}

// Runner executes builds for one configuration. Metrics accumulate across
// builds of the same runner.
type Runner struct {
	cfg       *config.Config
	logger    *slog.Logger
	registry  *source.Registry
	metrics   *metric.Metrics
	publisher Publisher
}

// Option configures a Runner.
type Option func(*Runner)

// WithMetrics records builds on m instead of a private registry.
func WithMetrics(m *metric.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithPublisher announces builds through p instead of dialing notify.url.
func WithPublisher(p Publisher) Option {
	return func(r *Runner) { r.publisher = p }
}

// NewRunner validates cfg and creates a runner. When notify.url is set and no
// publisher is given, it connects to NATS.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errs.WrapInvalid(errs.ErrInvalidConfig, "pipeline", "NewRunner", "config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errs.WrapInvalid(fmt.Errorf("%w: %w", errs.ErrInvalidConfig, err),
			"pipeline", "NewRunner", "validate config")
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Runner{
		cfg:      cfg,
		logger:   logger,
		registry: source.NewRegistry(cfg.Input.Sheet),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = metric.New()
	}

	if r.publisher == nil && cfg.Notify.URL != "" {
		p, err := notify.Connect(cfg.Notify.URL, cfg.Notify.Subject, logger)
		if err != nil {
			return nil, err
		}
		r.publisher = p
	}

	return r, nil
}

// Metrics returns the runner's build metrics.
func (r *Runner) Metrics() *metric.Metrics {
	return r.metrics
}

// Close releases the notification connection.
func (r *Runner) Close() {
	if r.publisher != nil {
		r.publisher.Close()
	}
}

// Run builds the Terms file once. Stages run strictly in sequence and ctx is
// checked between them; a failed build leaves any previous output in place
// unless the write itself failed part way.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{
		RunID: uuid.New().String(),
		Mode:  r.cfg.Output.Mode,
	}
	if res.Mode == "" {
		res.Mode = ModeTerms
	}
	logger := r.logger.With("run_id", res.RunID)

	err := r.build(ctx, logger, res)

	res.FinishedAt = time.Now()
	res.Duration = res.FinishedAt.Sub(start)
	r.observe(logger, res, err)

	if err != nil {
		logger.Error("Build failed", "error", err, "duration", res.Duration)
		return nil, err
	}

	logger.Info("Build complete",
		"output", res.Output,
		"mode", res.Mode,
		"rows", res.Stats.Rows,
		"terms", res.Terms,
		"synonym_terms", res.Stats.SynonymTerms,
		"mapped_terms", res.Stats.MappedTerms,
		"duration", res.Duration)

	r.announce(ctx, logger, res)
	return res, nil
}

func (r *Runner) build(ctx context.Context, logger *slog.Logger, res *Result) error {
	input, err := source.Resolve(r.cfg.Input.Path)
	if err != nil {
		return errs.WrapInvalid(err, "pipeline", "Run", "resolve input")
	}
	res.Input = input

	reader, err := r.registry.ForPath(input)
	if err != nil {
		return errs.WrapInvalid(err, "pipeline", "Run", "select reader")
	}

	logger.Debug("Reading source table", "input", input)
	table, err := reader.Read(input)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	t, err := transform.New(r.cfg.Transform())
	if err != nil {
		return err
	}
	terms, stats, err := t.Terms(table.Rows)
	res.Stats = stats
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	asm := NewAssembler(r.cfg.Vocabulary.Handle, res.Mode)
	if err := asm.Write(terms, r.cfg.Output.Path); err != nil {
		return err
	}
	res.Output = r.cfg.Output.Path
	res.Terms = distinctHandles(terms)

	if err := ctx.Err(); err != nil {
		return err
	}

	exports, err := r.exportSKOS(terms)
	if err != nil {
		return err
	}
	res.Exports = exports
	return nil
}

// exportSKOS writes one SKOS file per configured format.
func (r *Runner) exportSKOS(terms []*graph.Term) ([]string, error) {
	if len(r.cfg.Export.Formats) == 0 {
		return nil, nil
	}

	e := export.NewSKOSExporter(r.cfg.Vocabulary.Handle)
	for origin, ns := range r.cfg.Export.Namespaces {
		e.SetNamespace(origin, ns)
	}
	e.AddTerms(terms...)

	dir := r.cfg.Export.Dir
	if dir == "" {
		dir = filepath.Dir(r.cfg.Output.Path)
	}

	paths := make([]string, 0, len(r.cfg.Export.Formats))
	for _, name := range r.cfg.Export.Formats {
		format, err := export.ParseFormat(name)
		if err != nil {
			return nil, errs.WrapInvalid(err, "pipeline", "Run", "parse export format")
		}
		path, err := e.WriteFile(format, dir)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// observe records the build and writes the metrics textfile. Textfile
// failures are logged and do not fail the build.
func (r *Runner) observe(logger *slog.Logger, res *Result, buildErr error) {
	r.metrics.ObserveBuild(metric.Build{
		Vocabulary:   r.cfg.Vocabulary.Handle,
		Mapping:      r.mappingHandle(),
		Rows:         res.Stats.Rows,
		Terms:        res.Terms,
		SynonymTerms: res.Stats.SynonymTerms,
		MappedTerms:  res.Stats.MappedTerms,
		Duration:     res.Duration,
		Err:          buildErr,
		FinishedAt:   res.FinishedAt,
	})

	if r.cfg.Metrics.Textfile == "" {
		return
	}
	if err := r.metrics.WriteTextfile(r.cfg.Metrics.Textfile); err != nil {
		logger.Warn("Failed to write metrics textfile", "path", r.cfg.Metrics.Textfile, "error", err)
	}
}

// announce publishes the build event. Notification failures are logged and
// do not fail the build.
func (r *Runner) announce(ctx context.Context, logger *slog.Logger, res *Result) {
	if r.publisher == nil {
		return
	}

	ev := notify.BuildEvent{
		RunID:        res.RunID,
		Vocabulary:   r.cfg.Vocabulary.Handle,
		Mapping:      r.mappingHandle(),
		Input:        res.Input,
		Output:       res.Output,
		Exports:      res.Exports,
		Mode:         string(res.Mode),
		Rows:         res.Stats.Rows,
		Terms:        res.Terms,
		SynonymTerms: res.Stats.SynonymTerms,
		MappedTerms:  res.Stats.MappedTerms,
		FinishedAt:   res.FinishedAt,
	}
	if err := r.publisher.Publish(ctx, ev); err != nil {
		logger.Warn("Failed to publish build event", "error", err)
	}
}

// mappingHandle returns the cross-mapped vocabulary, or "" when mapping is off.
func (r *Runner) mappingHandle() string {
	if r.cfg.Transform().MappingEnabled() {
		return r.cfg.Mapping.Handle
	}
	return ""
}

// Run builds the Terms file once with a fresh runner.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Result, error) {
	r, err := NewRunner(cfg, logger, opts...)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.Run(ctx)
}
