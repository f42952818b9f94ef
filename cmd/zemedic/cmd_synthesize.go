package main

import (
	"net/url"
	"strings"

	"zemedic-service/internal/pkg/synth"
	"zemedic-service/pkg/client"

	"github.com/spf13/cobra"
)

type synthFlags struct {
	modality string
	seed     int64
	json     bool
	svg      bool
}

func newSynthesizeCmd(a *app) *cobra.Command {
	flags := &synthFlags{}
	cmd := &cobra.Command{
		Use:   "synthesize",
		Short: "Generate a synthetic result locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := synth.ParseModality(flags.modality)
			if err != nil {
				return err
			}
			seed := flags.seed
			if !cmd.Flags().Changed("seed") {
				seed = synth.NewSeed()
			}
			analysis, err := client.LocalAnalyzer(a.now)(cmd.Context(), m, client.Upload{Seed: &seed})
			if err != nil {
				return err
			}
			analysis.Image = nil
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

func newHeatmapCmd(_ *app) *cobra.Command {
	flags := &synthFlags{}
	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Print the heatmap overlay of a synthetic result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := synth.ParseModality(flags.modality)
			if err != nil {
				return err
			}
			result := synth.Synthesize(m, synth.NewLCG(flags.seed))
			uri, ok := synth.Composite(result.Conditions)
			out := cmd.OutOrStdout()
			if !ok {
				printLine(out, "no overlay: no localized finding above the threshold")
				return nil
			}
			if !flags.svg {
				printLine(out, uri)
				return nil
			}
			_, payload, _ := strings.Cut(uri, ",")
			svg, err := url.PathUnescape(payload)
			if err != nil {
				return err
			}
			printLine(out, svg)
			return nil
		},
	}
	modalityFlag(cmd, &flags.modality)
	cmd.Flags().Int64Var(&flags.seed, "seed", 0, "sequence seed")
	cmd.Flags().BoolVar(&flags.svg, "svg", false, "print the decoded SVG instead of the data URI")
	_ = cmd.MarkFlagRequired("seed")
	return cmd
}
