package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pkg/browser"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/crimson-sun/pagepulse/internal/connector"
	filesource "github.com/crimson-sun/pagepulse/internal/connector/file"
	"github.com/crimson-sun/pagepulse/internal/engine"
	"github.com/crimson-sun/pagepulse/internal/model"
	"github.com/crimson-sun/pagepulse/internal/output"
	"github.com/crimson-sun/pagepulse/internal/output/file"
	"github.com/crimson-sun/pagepulse/internal/output/multi"
	"github.com/crimson-sun/pagepulse/internal/output/stdout"
	"github.com/crimson-sun/pagepulse/internal/pipeline"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url|file|->",
	Short: "Highlight the emotional passages of a page",
	Long: `Fetch or read a page, classify its emotional passages with one model call,
and write the highlighted HTML.

Targets may be an http(s) URL, a local file, or "-" for stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringP("out", "o", "", "Write highlighted HTML here (default derived from the target)")
	analyzeCmd.Flags().Bool("open", false, "Open the highlighted page in the default browser")
	analyzeCmd.Flags().Bool("id-mode", false, "Tag elements with ids and match spans by id")
	analyzeCmd.Flags().Int("max-markers", 20, "Maximum number of highlights")
	analyzeCmd.Flags().Bool("json", false, "Print the JSON report on stdout")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	target := args[0]
	outPath, _ := cmd.Flags().GetString("out")
	openAfter, _ := cmd.Flags().GetBool("open")
	jsonOut, _ := cmd.Flags().GetBool("json")
	if outPath == "" {
		outPath = defaultOutPath(target)
	}

	eng, err := engine.Build(engineSettings(cfg))
	if err != nil {
		return err
	}
	outs, err := sideOutputs(cfg)
	if err != nil {
		return err
	}
	outs = append(outs, file.NewPage(outPath))
	if jsonOut {
		verbosity, _ := output.ParseVerbosity(cfg.Output.Verbosity)
		outs = append(outs, stdout.New(verbosity, cfg.Output.Pretty))
	}

	var spinner *pterm.SpinnerPrinter
	opts := []pipeline.Option{pipeline.WithSourceConfig(sourceConfig(cfg))}
	if !jsonOut {
		spinner, _ = pterm.DefaultSpinner.Start("Starting analysis...")
		opts = append(opts, pipeline.WithStatus(func(_ pipeline.Stage, msg string) {
			spinner.UpdateText(msg)
		}))
	}
	p := pipeline.New(eng, multi.New(outs...), opts...)
	defer p.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, runErr := p.Analyze(ctx, target)
	if spinner != nil {
		finishSpinner(spinner, report, outPath)
	}
	if runErr != nil {
		return runErr
	}

	if openAfter && report.HTML != "" {
		abs, err := filepath.Abs(outPath)
		if err != nil {
			return err
		}
		if err := browser.OpenFile(abs); err != nil {
			pterm.Warning.Printf("Could not open browser: %v\n", err)
		}
	}
	return nil
}

func finishSpinner(s *pterm.SpinnerPrinter, r model.Report, outPath string) {
	switch r.Outcome {
	case model.OutcomeSuccess:
		s.Success(fmt.Sprintf("%s Saved to %s", r.Message, outPath))
	case model.OutcomeWarning:
		s.Warning(r.Message)
	default:
		s.Fail(r.Message)
	}
}

// defaultOutPath names the highlighted copy of target: next to a local file,
// or after the host for a URL.
func defaultOutPath(target string) string {
	switch connector.Scheme(target) {
	case "stdin":
		return "pagepulse.html"
	case "http", "https":
		u, err := url.Parse(target)
		if err != nil || u.Hostname() == "" {
			return "pagepulse.html"
		}
		return "pagepulse-" + strings.ReplaceAll(u.Hostname(), ".", "-") + ".html"
	default:
		path, err := filesource.Path(target)
		if err != nil {
			return "pagepulse.html"
		}
		ext := filepath.Ext(path)
		return strings.TrimSuffix(path, ext) + ".highlighted.html"
	}
}
