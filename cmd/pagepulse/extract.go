package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/crimson-sun/pagepulse/internal/connector"
	"github.com/crimson-sun/pagepulse/internal/engine"
	"github.com/crimson-sun/pagepulse/internal/model"
)

var extractCmd = &cobra.Command{
	Use:   "extract <url|file|->",
	Short: "Show the text that would be sent to the classifier",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().Bool("id-mode", false, "Tag elements with ids and prefix each segment with its id")
	extractCmd.Flags().Bool("json", false, "Print segments as JSON")
	rootCmd.AddCommand(extractCmd)
}

type extractOutput struct {
	Target    string          `json:"target"`
	Text      string          `json:"text"`
	Segments  []model.Segment `json:"segments"`
	Truncated bool            `json:"truncated"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	jsonOut, _ := cmd.Flags().GetBool("json")

	s := engineSettings(cfg)
	s.Provider = ""
	eng, err := engine.Build(s)
	if err != nil {
		return err
	}
	doc, err := connector.Open(context.Background(), sourceConfig(cfg), args[0])
	if err != nil {
		pterm.Error.Println(err)
		return err
	}
	ext := eng.Extract(doc)

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(extractOutput{Target: args[0], Text: ext.Payload, Segments: ext.Segments, Truncated: ext.Truncated})
	}

	if len(ext.Segments) == 0 {
		pterm.Warning.Println("Not enough text content found on this page.")
		return nil
	}
	rows := pterm.TableData{{"#", "ID", "Text"}}
	for i, seg := range ext.Segments {
		rows = append(rows, []string{fmt.Sprint(i), seg.ElementID, truncateText(seg.Content, 80)})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("%d segments, %d characters in payload", len(ext.Segments), len([]rune(ext.Payload)))
	if ext.Truncated {
		pterm.Printf(" (truncated)")
	}
	pterm.Println()
	return nil
}

func truncateText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
