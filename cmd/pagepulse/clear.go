package main

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/crimson-sun/pagepulse/internal/connector"
	filesource "github.com/crimson-sun/pagepulse/internal/connector/file"
	"github.com/crimson-sun/pagepulse/internal/engine"
	"github.com/crimson-sun/pagepulse/internal/output/file"
	"github.com/crimson-sun/pagepulse/internal/pipeline"
)

var clearCmd = &cobra.Command{
	Use:   "clear <file>",
	Short: "Remove all highlights from a saved page",
	Args:  cobra.ExactArgs(1),
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().StringP("out", "o", "", "Write the restored page here instead of in place")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	target := args[0]
	if connector.Scheme(target) != "file" {
		return fmt.Errorf("clear works on saved files, got %q", target)
	}
	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		path, err := filesource.Path(target)
		if err != nil {
			return err
		}
		outPath = path
	}

	s := engineSettings(cfg)
	s.Provider = ""
	eng, err := engine.Build(s)
	if err != nil {
		return err
	}
	p := pipeline.New(eng, file.NewPage(outPath), pipeline.WithSourceConfig(sourceConfig(cfg)))
	defer p.Close()

	report, err := p.Clear(context.Background(), target)
	if err != nil {
		pterm.Error.Println("Error clearing highlights")
		return err
	}
	if report.Cleared == 0 {
		pterm.Info.Println("No highlights found")
		return nil
	}
	pterm.Success.Printf("Highlights cleared! Removed %d from %s\n", report.Cleared, outPath)
	return nil
}
