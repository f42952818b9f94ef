package main

import (
	"fmt"
	"path/filepath"

	"zemedic-service/internal/pkg/synth"
	"zemedic-service/pkg/client"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type analyzeFlags struct {
	modality string
	seed     int64
	json     bool
}

func newAnalyzeCmd(a *app) *cobra.Command {
	flags := &analyzeFlags{}
	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Analyze an image (locally when demo mode is on)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := synth.ParseModality(flags.modality)
			if err != nil {
				return err
			}
			data, err := afero.ReadFile(a.fs, args[0])
			if err != nil {
				return err
			}
			upload := client.Upload{FileName: filepath.Base(args[0]), Data: data}
			if cmd.Flags().Changed("seed") {
				seed := flags.seed
				upload.Seed = &seed
			}

			workflow, err := a.workflow(m)
			if err != nil {
				return err
			}
			if err := workflow.Select(upload); err != nil {
				return err
			}
			if workflow.Latency() > 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "Analyzing...")
			}
			analysis, err := workflow.Submit(cmd.Context())
			if err != nil {
				return err
			}
			if flags.json {
				return printJSON(cmd.OutOrStdout(), analysis)
			}
			printAnalysis(cmd.OutOrStdout(), analysis)
			return nil
		},
	}
	modalityFlag(cmd, &flags.modality)
	cmd.Flags().Int64Var(&flags.seed, "seed", 0, "sequence seed (random when omitted)")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print the analysis JSON")
	return cmd
}

// workflow analyzes locally with simulated latency in demo mode, and through
// the API otherwise.
func (a *app) workflow(m synth.Modality) (*client.Workflow, error) {
	if a.store.DemoMode() {
		return client.NewWorkflow(m, client.LocalAnalyzer(a.now), client.WithLatency(a.latency)), nil
	}
	api := a.api()
	if api.Session() == nil {
		return nil, fmt.Errorf("%w: run 'zemedic login' or 'zemedic demo-mode on'", client.ErrNoSession)
	}
	return client.NewWorkflow(m, api.Analyze, client.WithLatency(0)), nil
}

func newReportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "report ID",
		Short: "Download the PDF report of an analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pdf, err := a.api().Report(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			path := out
			if path == "" {
				path = "zemedic-report-" + args[0] + ".pdf"
			}
			if err := afero.WriteFile(a.fs, path, pdf, 0o644); err != nil {
				return err
			}
			printLine(cmd.OutOrStdout(), "Report saved to "+path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List past analyses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			analyses, err := a.api().History(cmd.Context())
			if err != nil {
				return err
			}
			if len(analyses) == 0 {
				printLine(cmd.OutOrStdout(), "No analyses yet")
				return nil
			}
			printHistory(cmd.OutOrStdout(), analyses)
			return nil
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show one stored analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analysis, err := a.api().Analysis(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), analysis)
			}
			printAnalysis(cmd.OutOrStdout(), analysis)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the analysis JSON")
	return cmd
}

func newDemoModeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "demo-mode [on|off]",
		Short:     "Show or toggle local demo mode",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := a.store.SetDemoMode(args[0] == "on"); err != nil {
					return err
				}
			}
			state := "off"
			if a.store.DemoMode() {
				state = "on"
			}
			printLine(cmd.OutOrStdout(), "Demo mode is "+state)
			return nil
		},
	}
}
