package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	domeval "github.com/kailas-cloud/assessrank/internal/domain/evaluation"
	logpkg "github.com/kailas-cloud/assessrank/internal/logger"
	catalogrepo "github.com/kailas-cloud/assessrank/internal/repository/catalog"
	"github.com/kailas-cloud/assessrank/internal/repository/testset"
	"github.com/kailas-cloud/assessrank/internal/textnorm"
	evaluationuc "github.com/kailas-cloud/assessrank/internal/usecase/evaluation"
	recommenduc "github.com/kailas-cloud/assessrank/internal/usecase/recommend"
	"github.com/kailas-cloud/assessrank/internal/vectorspace"
	"github.com/kailas-cloud/assessrank/internal/version"
)

var logger = zap.NewNop()

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	inputFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "data",
			Aliases: []string{"d"},
			Usage:   "Path to the assessment catalog JSON file",
			Value:   "data/assessments.json",
		},
		&cli.StringFlag{
			Name:     "test",
			Aliases:  []string{"t"},
			Usage:    "Path to the labeled test queries JSON file",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Number of queries evaluated in parallel",
			Value: runtime.NumCPU(),
		},
		&cli.BoolFlag{
			Name:  "stop-words",
			Usage: "Remove English stop words before indexing",
			Value: true,
		},
		&cli.IntFlag{
			Name:  "min-token-length",
			Usage: "Drop tokens shorter than this many characters",
			Value: 2,
		},
	}

	return &cli.App{
		Name:    "assesseval",
		Usage:   "Measure assessment ranking quality with Recall@k and MAP@k",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Before: setupLogger,
		After: func(*cli.Context) error {
			_ = logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "evaluate",
				Usage:  "Evaluate the test queries at a single cutoff",
				Action: evaluateCommand,
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:    "k",
						Aliases: []string{"top-k"},
						Usage:   "Number of results considered per query",
						Value:   10,
					},
					&cli.BoolFlag{
						Name:  "detailed",
						Usage: "Print per-query results",
					},
				}, inputFlags...),
			},
			{
				Name:   "sweep",
				Usage:  "Evaluate the test queries at several cutoffs and write JSON",
				Action: sweepCommand,
				Flags: append([]cli.Flag{
					&cli.IntSliceFlag{
						Name:  "k",
						Usage: "Cutoffs to evaluate, comma separated",
						Value: cli.NewIntSlice(1, 3, 5, 10),
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Write results to this file instead of stdout",
					},
				}, inputFlags...),
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	l, err := logpkg.NewCLILogger(c.String("log-level"))
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func evaluateCommand(c *cli.Context) error {
	ctx := c.Context
	svc, cases, err := prepare(ctx, c)
	if err != nil {
		return err
	}

	report, err := svc.Evaluate(ctx, cases, c.Int("k"))
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	w := c.App.Writer
	if c.Bool("detailed") {
		if err := writeDetails(w, &report); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "Mean Recall@%d: %.4f\nMAP@%d: %.4f\n",
		report.K(), report.MeanRecall(), report.K(), report.MAP())
	return err
}

// sweepRow is one line of the sweep output.
type sweepRow struct {
	K          int     `json:"k"`
	Queries    int     `json:"queries"`
	MeanRecall float64 `json:"mean_recall"`
	MAP        float64 `json:"map"`
}

func sweepCommand(c *cli.Context) error {
	ctx := c.Context
	svc, cases, err := prepare(ctx, c)
	if err != nil {
		return err
	}

	reports, err := svc.Sweep(ctx, cases, c.IntSlice("k"))
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	rows := make([]sweepRow, len(reports))
	for i := range reports {
		rows[i] = sweepRow{
			K:          reports[i].K(),
			Queries:    reports[i].Len(),
			MeanRecall: reports[i].MeanRecall(),
			MAP:        reports[i].MAP(),
		}
	}

	out := c.App.Writer
	if path := c.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
		logger.Info("Writing sweep results", zap.String("path", path))
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// prepare loads the catalog and the test set and wires an evaluation service.
func prepare(ctx context.Context, c *cli.Context) (*evaluationuc.Service, []domeval.Case, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	items, err := catalogrepo.New(c.String("data")).List(ctx)
	if err != nil {
		return nil, nil, err
	}
	cases, err := testset.New(c.String("test")).List(ctx)
	if err != nil {
		return nil, nil, err
	}

	rec := recommenduc.New(logger, vectorspace.WithNormalizer(textnorm.New(
		textnorm.WithStopWords(c.Bool("stop-words")),
		textnorm.WithMinLength(c.Int("min-token-length")),
	)))
	if err := rec.Load(ctx, items); err != nil {
		return nil, nil, err
	}

	logger.Debug("Inputs loaded",
		zap.Int("assessments", len(items)),
		zap.Int("queries", len(cases)),
	)
	return evaluationuc.New(rec, logger).WithWorkers(c.Int("workers")), cases, nil
}

func writeDetails(w io.Writer, report *domeval.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "QUERY\tHITS\tRELEVANT\tRECALL\tAP")
	for _, cr := range report.Cases() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.4f\t%.4f\n",
			truncate(cr.Query(), 60), cr.Hits(), len(cr.Relevant()), cr.Recall(), cr.AveragePrecision())
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
