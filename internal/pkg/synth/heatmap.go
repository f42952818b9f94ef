package synth

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	overlayPrefix    = "data:image/svg+xml;charset=utf-8,"
	overlayThreshold = 20

	colorSevere   = "#FF3366"
	colorModerate = "#FFCC00"
	colorDefault  = "#00CCFF"
)

type svgDocument struct {
	XMLName             xml.Name     `xml:"svg"`
	Xmlns               string       `xml:"xmlns,attr"`
	Width               string       `xml:"width,attr"`
	Height              string       `xml:"height,attr"`
	PreserveAspectRatio string       `xml:"preserveAspectRatio,attr,omitempty"`
	Defs                svgDefs      `xml:"defs"`
	Ellipses            []svgEllipse `xml:"ellipse"`
}

type svgDefs struct {
	Gradients []svgGradient `xml:"radialGradient"`
}

type svgGradient struct {
	ID    string    `xml:"id,attr"`
	Stops []svgStop `xml:"stop"`
}

type svgStop struct {
	Offset  string `xml:"offset,attr"`
	Color   string `xml:"stop-color,attr"`
	Opacity string `xml:"stop-opacity,attr"`
}

type svgEllipse struct {
	CX   string `xml:"cx,attr"`
	CY   string `xml:"cy,attr"`
	RX   string `xml:"rx,attr"`
	RY   string `xml:"ry,attr"`
	Fill string `xml:"fill,attr"`
}

// SeverityColor is the overlay color for a severity tier.
func SeverityColor(s Severity) string {
	switch s {
	case SeveritySevere, SeverityMalignant:
		return colorSevere
	case SeverityModerate:
		return colorModerate
	default:
		return colorDefault
	}
}

// Overlayable reports whether a finding contributes a layer to the heatmap.
func Overlayable(f Finding) bool {
	_, ok := f.Located()
	return ok && f.Probability > overlayThreshold
}

// Composite renders located findings above 20% probability as radial
// gradients and returns the SVG as a data URI. ok is false when no finding
// qualifies, which callers treat as "no overlay".
func Composite(findings []Finding) (uri string, ok bool) {
	doc := svgDocument{
		Xmlns:               "http://www.w3.org/2000/svg",
		Width:               "100%",
		Height:              "100%",
		PreserveAspectRatio: "none",
	}
	for _, f := range findings {
		if !Overlayable(f) {
			continue
		}
		loc, _ := f.Located()
		id := fmt.Sprintf("heat-%d", len(doc.Ellipses))
		color := SeverityColor(f.Severity)
		weight := float64(f.Probability) / 100

		doc.Defs.Gradients = append(doc.Defs.Gradients, svgGradient{
			ID: id,
			Stops: []svgStop{
				{Offset: "0%", Color: color, Opacity: formatOpacity(weight * 0.7)},
				{Offset: "70%", Color: color, Opacity: formatOpacity(weight * 0.4)},
				{Offset: "100%", Color: color, Opacity: "0"},
			},
		})
		doc.Ellipses = append(doc.Ellipses, svgEllipse{
			CX:   percent(loc.X),
			CY:   percent(loc.Y),
			RX:   percent(loc.Radius),
			RY:   percent(loc.Radius),
			Fill: "url(#" + id + ")",
		})
	}
	if len(doc.Ellipses) == 0 {
		return "", false
	}

	var sb strings.Builder
	sb.WriteString(xml.Header)
	enc := xml.NewEncoder(&sb)
	if err := enc.Encode(doc); err != nil {
		return "", false
	}
	return overlayPrefix + url.PathEscape(sb.String()), true
}

func formatOpacity(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// OverlayLayer is one decoded heatmap ellipse.
type OverlayLayer struct {
	X, Y, Radius float64
	Color        string
}

// DecodeOverlay parses a data URI produced by Composite.
func DecodeOverlay(uri string) ([]OverlayLayer, error) {
	payload, found := strings.CutPrefix(uri, overlayPrefix)
	if !found {
		return nil, fmt.Errorf("overlay is not an svg data uri")
	}
	raw, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("unescape overlay: %w", err)
	}
	var doc svgDocument
	if err := xml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("parse overlay svg: %w", err)
	}

	colors := make(map[string]string, len(doc.Defs.Gradients))
	for _, g := range doc.Defs.Gradients {
		if len(g.Stops) > 0 {
			colors[g.ID] = g.Stops[0].Color
		}
	}

	layers := make([]OverlayLayer, 0, len(doc.Ellipses))
	for _, e := range doc.Ellipses {
		x, err := parsePercent(e.CX)
		if err != nil {
			return nil, err
		}
		y, err := parsePercent(e.CY)
		if err != nil {
			return nil, err
		}
		r, err := parsePercent(e.RX)
		if err != nil {
			return nil, err
		}
		id := strings.TrimSuffix(strings.TrimPrefix(e.Fill, "url(#"), ")")
		layers = append(layers, OverlayLayer{X: x, Y: y, Radius: r, Color: colors[id]})
	}
	return layers, nil
}

func parsePercent(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("parse overlay coordinate %q: %w", s, err)
	}
	return v, nil
}
