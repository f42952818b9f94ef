package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"zemedic-service/internal/pkg/dto/responses"
	"zemedic-service/internal/pkg/synth"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
)

const dateLayout = "2006-01-02 15:04"

func printLine(w io.Writer, s string) {
	fmt.Fprintln(w, s)
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func severityColor(s synth.Severity) *color.Color {
	switch s {
	case synth.SeveritySevere, synth.SeverityMalignant:
		return color.New(color.FgRed, color.Bold)
	case synth.SeverityModerate:
		return color.New(color.FgYellow)
	case synth.SeverityNone:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgCyan)
	}
}

func printAnalysis(w io.Writer, a *responses.Analysis) {
	bold := color.New(color.Bold)

	bold.Fprintf(w, "%s analysis", strings.ToUpper(string(a.Type)))
	if a.ID != "" {
		fmt.Fprintf(w, " %s", a.ID)
	}
	fmt.Fprintf(w, "  (seed %d, confidence %d%%)\n", a.Seed, a.Confidence)
	if !a.Date.IsZero() {
		fmt.Fprintf(w, "Date: %s\n", a.Date.Local().Format(dateLayout))
	}
	if a.Image != nil && a.Image.Width > 0 {
		fmt.Fprintf(w, "Image: %dx%d %s\n", a.Image.Width, a.Image.Height, a.Image.Format)
	}

	fmt.Fprintln(w)
	bold.Fprintln(w, "Conditions")
	for _, c := range a.Conditions {
		severityColor(c.Severity).Fprintf(w, "  %3d%%  %-32s %s\n", c.Probability, c.Name, c.Severity)
	}

	fmt.Fprintln(w)
	bold.Fprintln(w, "Findings")
	fmt.Fprintf(w, "  %s\n", a.Findings)

	fmt.Fprintln(w)
	bold.Fprintln(w, "Recommendation")
	fmt.Fprintf(w, "  %s\n", a.Recommendation)
	for _, r := range a.Recommendations {
		fmt.Fprintf(w, "  - %s\n", r)
	}

	if a.Heatmap != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Heatmap overlay available (use --json to export)")
	}
}

func printHistory(w io.Writer, analyses []responses.Analysis) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Type", "Date", "Primary finding", "Confidence"})
	for _, a := range analyses {
		primary := ""
		if len(a.Conditions) > 0 {
			primary = a.Conditions[0].Name
		}
		table.Append([]string{
			a.ID,
			string(a.Type),
			a.Date.Local().Format(dateLayout),
			primary,
			strconv.Itoa(a.Confidence) + "%",
		})
	}
	table.Render()
}

func printProfile(w io.Writer, p *responses.UserProfile) {
	fmt.Fprintf(w, "Name:    %s\n", p.Name)
	fmt.Fprintf(w, "Email:   %s\n", p.Email)
	fmt.Fprintf(w, "ID:      %s\n", p.UserID)
	if !p.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Joined:  %s\n", p.CreatedAt.Local().Format(dateLayout))
	}
}
