package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/polymorph-sim/polymorph-sim/sim/output"
)

var historyRunID string // run UUID whose stages are listed

// defaultsCmd prints the resolved parameter set as YAML
var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the resolved parameters as YAML",
	Run: func(cmd *cobra.Command, args []string) {
		params, err := loadParams(cmd, configPath)
		if err != nil {
			logrus.Fatalf("Invalid parameters: %v", err)
		}
		data, err := params.YAML()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		_, _ = os.Stdout.Write(data)
	},
}

// historyCmd lists runs recorded in a SQLite history database
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List runs recorded with --db",
	Run: func(cmd *cobra.Command, args []string) {
		h, err := output.OpenHistory(dbPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		defer h.Close()
		if err := printHistory(os.Stdout, h, historyRunID); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func printHistory(out io.Writer, h *output.History, runID string) error {
	if runID != "" {
		stages, err := h.Stages(runID)
		if err != nil {
			return err
		}
		for _, s := range stages {
			fmt.Fprintf(out, "%5d  %-5s  n=%-7s AA=%.4f AB=%.4f BB=%.4f\n",
				s.Generation, s.Stage, humanize.Comma(int64(s.Population)), s.PAA, s.PAB, s.PBB)
		}
		return nil
	}

	runs, err := h.Runs()
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Fprintf(out, "%s  seed=%d rep=%d  %s  gen=%d  %s\n",
			r.ID, r.Seed, r.Replicate, r.StartedAt, r.FinalGeneration, r.Reason)
	}
	return nil
}
