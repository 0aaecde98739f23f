// Package main is the hansard CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/hyperjump/hansard/internal/cli"
	"github.com/hyperjump/hansard/internal/cluster"
	"github.com/hyperjump/hansard/internal/config"
	"github.com/hyperjump/hansard/internal/dataset"
	"github.com/hyperjump/hansard/internal/pipeline"
	"github.com/hyperjump/hansard/internal/storage"
	"github.com/hyperjump/hansard/internal/suggest"
	"github.com/hyperjump/hansard/internal/vectorize"
	"github.com/hyperjump/hansard/internal/vocabulary"
	"github.com/hyperjump/hansard/pkg/utils"
)

var version = "dev"

const (
	// defaultConfigPath is looked up in the working directory; when absent, built-in
	// defaults are used.
	defaultConfigPath = "config.yaml"
	// defaultDatabasePath is used by --save and the runs command when the config sets
	// no database path.
	defaultDatabasePath = "hansard.db"
)

// loadConfig loads config from path. The default path may be missing, in which case
// the built-in defaults apply; an explicitly given path must exist.
func loadConfig(path string) (*config.Config, error) {
	if path == "" || path == defaultConfigPath {
		return config.LoadOrDefault(defaultConfigPath)
	}
	return config.Load(path)
}

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	command := os.Args[1]
	switch command {
	case "cluster":
		err = runCluster(ctx, os.Args[2:], os.Stdout, os.Stderr)
	case "corpus":
		err = runCorpus(os.Args[2:], os.Stdout, os.Stderr)
	case "subjects":
		err = runSubjects(os.Args[2:], os.Stdout)
	case "runs":
		err = runRuns(ctx, os.Args[2:], os.Stdout)
	case "version", "--version", "-v":
		fmt.Printf("hansard version %s\n", version)
	case "help", "--help", "-h":
		printUsage(os.Stdout)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage(os.Stdout)
		os.Exit(1)
	}
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// pipelineFlags are shared by cluster and corpus.
type pipelineFlags struct {
	configPath *string
	subject    *string
	column     *string
	output     *string
	debug      *bool
}

func addPipelineFlags(fs *flag.FlagSet) *pipelineFlags {
	return &pipelineFlags{
		configPath: fs.String("config", defaultConfigPath, "config file path"),
		subject:    fs.String("subject", "", "subject label to select (default from config: Environment)"),
		column:     fs.String("column", "", "text column to cluster (default from config: Lemma)"),
		output:     fs.String("output", "text", "output format: text, compact, or json"),
		debug:      fs.Bool("debug", false, "enable debug logging"),
	}
}

// resolve loads the config and applies flag overrides.
func (p *pipelineFlags) resolve() (*config.Config, cli.OutputFormat, error) {
	format, err := cli.ParseOutputFormat(*p.output)
	if err != nil {
		return nil, "", err
	}
	cfg, err := loadConfig(*p.configPath)
	if err != nil {
		return nil, "", err
	}
	if *p.subject != "" {
		cfg.Pipeline.Subject = *p.subject
	}
	if *p.column != "" {
		cfg.Pipeline.Column = *p.column
	}
	cfg.Debug = cfg.Debug || *p.debug
	return cfg, format, nil
}

func loadTable(cfg *config.Config) (*dataset.Table, error) {
	var opts []dataset.LoadOption
	if cfg.Artifacts.Sheet != "" {
		opts = append(opts, dataset.WithSheet(cfg.Artifacts.Sheet))
	}
	return dataset.Load(cfg.Artifacts.DatasetPath, opts...)
}

func runCluster(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("cluster", flag.ContinueOnError)
	pf := addPipelineFlags(fs)
	algorithm := fs.String("algorithm", "", "clustering algorithm: affinity or kmeans (default from config: affinity)")
	save := fs.Bool("save", false, "store the run in the SQLite database")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, format, err := pf.resolve()
	if err != nil {
		return err
	}
	if *algorithm != "" && *algorithm != cfg.Cluster.Algorithm {
		// A defaulted max_iter follows the algorithm; an explicit one is kept.
		if cfg.Cluster.MaxIter == config.DefaultMaxIter(cfg.Cluster.Algorithm) {
			cfg.Cluster.MaxIter = config.DefaultMaxIter(*algorithm)
		}
		cfg.Cluster.Algorithm = *algorithm
	}

	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	logger.Debug("config loaded",
		zap.String("config_path", *pf.configPath),
		zap.String("vocabulary_path", cfg.Artifacts.VocabularyPath),
		zap.String("dataset_path", cfg.Artifacts.DatasetPath),
		zap.String("algorithm", cfg.Cluster.Algorithm),
	)

	// Both artifacts load before any pipeline work.
	vocab, err := vocabulary.Load(cfg.Artifacts.VocabularyPath)
	if err != nil {
		return err
	}
	table, err := loadTable(cfg)
	if err != nil {
		return err
	}
	logger.Debug("artifacts loaded", zap.Int("terms", vocab.Len()), zap.Int("records", table.Len()))

	vec, err := vectorize.NewTfidfVectorizer(vocab, vectorize.OptionsFromConfig(&cfg.Vectorizer))
	if err != nil {
		return err
	}
	clusterer, err := cluster.New(&cfg.Cluster)
	if err != nil {
		return err
	}

	opts := []pipeline.DriverOption{
		pipeline.WithSubjectColumns(cfg.Pipeline.SubjectColumns...),
	}
	if cfg.Debug {
		opts = append(opts, pipeline.WithLogger(logger))
	}
	if *save || cfg.Storage.DatabasePath != "" {
		store, err := openStorage(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, pipeline.WithStorage(store))
	}

	driver := pipeline.NewDriver(vec, clusterer, opts...)
	run, err := driver.Run(ctx, table, cfg.Pipeline.Column, cfg.Pipeline.Subject)
	if err != nil {
		return err
	}
	if len(run.Documents) == 0 {
		if hint := subjectHint(table, cfg.Pipeline.SubjectColumns, cfg.Pipeline.Subject); hint != "" {
			fmt.Fprintln(stderr, hint)
		}
	}
	return cli.WriteRun(stdout, run, format)
}

func runCorpus(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("corpus", flag.ContinueOnError)
	pf := addPipelineFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, format, err := pf.resolve()
	if err != nil {
		return err
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	table, err := loadTable(cfg)
	if err != nil {
		return err
	}
	rows, err := dataset.ByLabel(table, cfg.Pipeline.Subject, cfg.Pipeline.SubjectColumns...)
	if err != nil {
		return err
	}
	corpus, err := dataset.Extract(rows, cfg.Pipeline.Column)
	if err != nil {
		return err
	}
	logger.Debug("corpus extracted",
		zap.Int("records", table.Len()),
		zap.Int("selected", rows.Len()),
		zap.Int("documents", corpus.Len()),
	)
	if rows.Len() == 0 {
		if hint := subjectHint(table, cfg.Pipeline.SubjectColumns, cfg.Pipeline.Subject); hint != "" {
			fmt.Fprintln(stderr, hint)
		}
	}
	return cli.WriteCorpus(stdout, corpus, format)
}

// subjectHint explains an empty selection: it names close labels when subject is
// not a known label, and returns "" when it is.
func subjectHint(table *dataset.Table, columns []string, subject string) string {
	counts, err := dataset.CountLabels(table, columns...)
	if err != nil {
		return ""
	}
	freq := make(map[string]int, len(counts))
	for _, c := range counts {
		freq[c.Label] = c.Count
	}
	s := suggest.New(freq)
	if s.Known(subject) {
		return ""
	}
	if labels := suggest.Labels(s.Suggest(subject)); len(labels) > 0 {
		return fmt.Sprintf("No records labelled %q. Did you mean: %s?", subject, strings.Join(labels, ", "))
	}
	return fmt.Sprintf("No records labelled %q. Run \"hansard subjects\" to list labels.", subject)
}

func runSubjects(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("subjects", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	output := fs.String("output", "text", "output format: text, compact, or json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	format, err := cli.ParseOutputFormat(*output)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	table, err := loadTable(cfg)
	if err != nil {
		return err
	}
	counts, err := dataset.CountLabels(table, cfg.Pipeline.SubjectColumns...)
	if err != nil {
		return err
	}
	return cli.WriteSubjects(stdout, counts, format)
}

func openStorage(cfg *config.Config) (*storage.SQLiteStorage, error) {
	path := cfg.Storage.DatabasePath
	if path == "" {
		path = defaultDatabasePath
	}
	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return store, nil
}

// argsReorder moves any flags (and their values) that appear after positional
// arguments to the front so that flag.Parse() sees them. Go's flag package stops at
// the first non-flag argument, so "hansard runs show <id> -output json" would
// otherwise leave -output unparsed.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runRuns(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) < 1 {
		return errors.New("usage: hansard runs <list|show|delete> [flags]")
	}
	sub := args[0]
	switch sub {
	case "list", "show", "delete":
	default:
		return fmt.Errorf("unknown runs subcommand: %s (use list, show, or delete)", sub)
	}
	fs := flag.NewFlagSet("runs "+sub, flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	output := fs.String("output", "text", "output format: text, compact, or json")
	limit := fs.Int("limit", 20, "number of runs to list")
	offset := fs.Int("offset", 0, "number of runs to skip")
	if err := fs.Parse(argsReorder(args[1:])); err != nil {
		return err
	}
	if sub != "list" && fs.NArg() != 1 {
		return fmt.Errorf("usage: hansard runs %s <id>", sub)
	}
	format, err := cli.ParseOutputFormat(*output)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	store, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	switch sub {
	case "list":
		runs, err := store.ListRuns(ctx, *offset, *limit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		total, err := store.CountRuns(ctx)
		if err != nil {
			return fmt.Errorf("failed to count runs: %w", err)
		}
		if err := cli.WriteRuns(stdout, runs, total, format); err != nil {
			return err
		}
		if format == cli.OutputText {
			if size, err := store.Size(); err == nil {
				fmt.Fprintf(stdout, "\nDatabase: %s (%s)\n", store.Path(), formatBytes(size))
			}
		}
		return nil
	case "show":
		run, err := store.GetRun(ctx, fs.Arg(0))
		if err != nil {
			return err
		}
		return cli.WriteRun(stdout, run, format)
	case "delete":
		if err := store.DeleteRun(ctx, fs.Arg(0)); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Deleted run %s\n", fs.Arg(0))
	}
	return nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return strconv.FormatInt(n, 10) + " B"
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `hansard - cluster parliamentary records by subject

Usage:
  hansard cluster [flags]              Vectorize and cluster one subject's records
  hansard corpus [flags]               Print the corpus that would be clustered
  hansard subjects [flags]             List subject labels with record counts
  hansard runs <list|show|delete>      Manage saved runs
  hansard version                      Show version
  hansard help                         Show this help

Cluster Flags:
  --config string      Config file path (default: config.yaml, built-in defaults when missing)
  --subject string     Subject label (default from config: Environment)
  --column string      Text column (default from config: Lemma)
  --algorithm string   affinity or kmeans (default from config: affinity)
  --output string      Output format: text, compact, or json (default: text)
  --save               Store the run in the SQLite database
  --debug              Enable debug logging

Corpus Flags:
  --config, --subject, --column, --output, --debug as for cluster

Subjects Flags:
  --config string      Config file path
  --output string      Output format: text, compact, or json

Runs Flags:
  --config string      Config file path (database from storage.database_path, default: hansard.db)
  --limit int          Number of runs to list (default: 20)
  --offset int         Number of runs to skip
  --output string      Output format: text, compact, or json

Examples:
  hansard cluster
  hansard cluster --subject Immigration --algorithm kmeans
  hansard cluster --output json --save
  hansard corpus --column Text --output compact
  hansard subjects
  hansard runs list
  hansard runs show 3f0c... --output json`)
}
