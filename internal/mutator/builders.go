// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     mutator
// Description: Markup fragments for nodes the runner synthesises
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package mutator

import (
	"strconv"
	"strings"

	"github.com/msto63/dashscript/foundation/utils/stringx"
	"github.com/msto63/dashscript/internal/markup"
)

// Group layout defaults
const (
	DefaultOrientation = "horizontal"
	DefaultSizing      = "fr"
	DefaultColsD       = 12
	DefaultGap         = 16
)

// Widget defaults
const (
	DefaultKPIHeight   = 150
	DefaultChartHeight = 360
	DefaultChartType   = "bar"
	DefaultWidth       = "1fr"
)

// GroupSpec describes a <group> container
type GroupSpec struct {
	ID          string
	Title       string
	Orientation string
	Sizing      string
	ColsD       int
	GapX        int
	GapY        int
	Style       map[string]any
}

// DataSpec is the data binding of a widget
type DataSpec struct {
	Schema    string
	Table     string
	Dimension string
	Measure   string
	Agg       string
}

// WidgetSpec describes a <kpi> or <chart>
type WidgetSpec struct {
	ID     string
	Title  string
	Type   string // chart only
	Unit   string // kpi only
	Width  string
	Height int
	Data   DataSpec
	Tokens string
}

// SectionSpec describes a <section> row of articles
type SectionSpec struct {
	ID    string
	Type  string // kpis or charts
	Style []Decl
}

// ArticleSpec describes a card <article> inside a section
type ArticleSpec struct {
	ID        string
	Type      string // kpi or chart
	Title     string
	Value     string
	ChartType string
	ChartID   string
	Height    int
	Fr        string
	Style     []Decl
	Query     *Query
	QueryRepr QueryRepr
}

// HeaderSpec describes the dashboard <header>
type HeaderSpec struct {
	Title    string
	Subtitle string
	Style    []Decl
}

var (
	sectionStyle = ParseDecls("display:flex; flex-direction:row; flex-wrap:wrap; justify-content:flex-start; align-items:stretch; gap:16px; margin-bottom:16px;")
	articleStyle = ParseDecls("--fr:1; flex: var(--fr, 1) 1 0%; min-width:0; background-color:#ffffff; border-color:#e5e7eb; border-width:1px; border-style:solid; border-radius:12px; padding:12px; color:#111827;")
	cardTitleCSS = "margin:0 0 8px; font-family:Inter, system-ui, sans-serif; font-size:16px; font-weight:600; color:#111827;"
	kpiValueCSS  = "font-size:28px; font-weight:700; letter-spacing:-0.02em;"
	headerStyle  = ParseDecls("background-color:#ffffff; border:1px solid #e5e7eb; border-radius:12px; padding:12px; margin:-16px -16px 16px -16px;")
	titleCSS     = "margin:0 0 4px; font-family:Inter, system-ui, sans-serif; font-size:20px; font-weight:700; color:#111827;"
	subtitleCSS  = "margin:0; font-family:Inter, system-ui, sans-serif; font-size:14px; font-weight:400; color:#6b7280;"
)

// GroupMarkup renders a group with an optional compact <style> block
func GroupMarkup(g GroupSpec) markup.Fragment {
	open := "<group" +
		attr("id", g.ID) +
		attr("title", stringx.FromBlankDefault(g.Title, g.ID)) +
		attr("sizing", stringx.FromBlankDefault(g.Sizing, DefaultSizing)) +
		attr("orientation", stringx.FromBlankDefault(g.Orientation, DefaultOrientation)) +
		attr("cols-d", strconv.Itoa(orDefault(g.ColsD, DefaultColsD))) +
		attr("gap-x", strconv.Itoa(orDefault(g.GapX, DefaultGap))) +
		attr("gap-y", strconv.Itoa(orDefault(g.GapY, DefaultGap))) +
		">"

	var body markup.Fragment
	if len(g.Style) > 0 {
		if text, err := encodeObject(g.Style, Compact, ""); err == nil {
			body = markup.Lines("<style>" + text + "</style>")
		}
	}
	return body.Wrap(open, "</group>")
}

// KPIMarkup renders a kpi with its datasource and styling children. The unit
// travels as a kpi:unit token.
func KPIMarkup(w WidgetSpec) markup.Fragment {
	open := "<kpi" +
		attr("id", w.ID) +
		attr("width", stringx.FromBlankDefault(w.Width, DefaultWidth)) +
		attr("height", strconv.Itoa(orDefault(w.Height, DefaultKPIHeight))) +
		attr("title", stringx.FromBlankDefault(w.Title, w.ID)) +
		">"
	tokens := strings.TrimSpace(w.Tokens)
	if w.Unit != "" {
		tokens = strings.TrimSpace(tokens + " kpi:unit:" + w.Unit)
	}
	return markup.Lines(
		DatasourceTag(w.Data, false),
		"<styling"+attr("tw", tokens)+" />",
	).Wrap(open, "</kpi>")
}

// ChartMarkup renders a chart with its datasource and styling children
func ChartMarkup(w WidgetSpec) markup.Fragment {
	open := "<chart" +
		attr("id", w.ID) +
		attr("type", stringx.FromBlankDefault(w.Type, DefaultChartType)) +
		attr("width", stringx.FromBlankDefault(w.Width, DefaultWidth)) +
		attr("height", strconv.Itoa(orDefault(w.Height, DefaultChartHeight))) +
		attr("title", stringx.FromBlankDefault(w.Title, w.ID)) +
		">"
	return markup.Lines(
		DatasourceTag(w.Data, true),
		"<styling"+attr("tw", strings.TrimSpace(w.Tokens))+" />",
	).Wrap(open, "</chart>")
}

// DatasourceTag renders a self-closing datasource. Empty parts are omitted.
func DatasourceTag(d DataSpec, withDimension bool) string {
	schema, table := NormalizeSchemaTable(d.Schema, d.Table)
	measure := BuildMeasure(d.Measure, d.Agg)
	var b strings.Builder
	b.WriteString("<datasource")
	b.WriteString(optAttr("schema", schema))
	b.WriteString(optAttr("table", table))
	if withDimension {
		b.WriteString(optAttr("dimension", d.Dimension))
	}
	b.WriteString(optAttr("measure", measure))
	b.WriteString(" />")
	return b.String()
}

// DatasourceChanges maps a data patch onto datasource attribute changes.
// Only non-empty parts are written.
func DatasourceChanges(d DataSpec) []AttrChange {
	var out []AttrChange
	schema, table := NormalizeSchemaTable(d.Schema, d.Table)
	if schema != "" {
		out = append(out, Set("schema", schema))
	}
	if table != "" {
		out = append(out, Set("table", table))
	}
	if d.Dimension != "" {
		out = append(out, Set("dimension", d.Dimension))
	}
	if m := BuildMeasure(d.Measure, d.Agg); m != "" {
		out = append(out, Set("measure", m))
	}
	return out
}

// SectionMarkup renders an empty section row
func SectionMarkup(s SectionSpec) markup.Fragment {
	style := MergeDecls(sectionStyle, s.Style)
	open := "<section" +
		attr("id", s.ID) +
		attr("class", "row "+s.Type) +
		attr("data-role", "section") +
		attr("style", FormatDecls(style)) +
		">"
	return markup.Lines(open, "</section>")
}

// ArticleMarkup renders a kpi or chart card
func ArticleMarkup(a ArticleSpec) markup.Fragment {
	style := articleStyle
	if a.Fr != "" {
		style = MergeDecls(style, []Decl{{Prop: "--fr", Value: a.Fr}})
	}
	style = MergeDecls(style, a.Style)
	open := "<article" +
		attr("id", a.ID) +
		attr("class", "card") +
		attr("data-role", a.Type) +
		attr("style", FormatDecls(style)) +
		">"

	title := markup.EscapeText(stringx.FromBlankDefault(a.Title, a.ID))
	if a.Type == "kpi" {
		return markup.Lines(
			"<p"+attr("class", "kpi-title")+attr("style", cardTitleCSS)+">"+title+"</p>",
			"<div"+attr("class", "kpi-value")+attr("style", kpiValueCSS)+">"+markup.EscapeText(a.Value)+"</div>",
		).Wrap(open, "</article>")
	}

	chartOpen := "<Chart" +
		attr("id", stringx.FromBlankDefault(a.ChartID, a.ID)) +
		attr("type", stringx.FromBlankDefault(a.ChartType, DefaultChartType)) +
		attr("height", strconv.Itoa(orDefault(a.Height, DefaultChartHeight))) +
		">"
	var chart markup.Fragment
	if a.Query != nil {
		chart = QueryMarkup(*a.Query, a.QueryRepr).Wrap(chartOpen, "</Chart>")
	} else {
		chart = markup.Lines(chartOpen + "</Chart>")
	}
	body := append(markup.Lines("<p"+attr("style", cardTitleCSS)+">"+title+"</p>"), chart...)
	return body.Wrap(open, "</article>")
}

// HeaderMarkup renders the dashboard header with title and subtitle lines
func HeaderMarkup(h HeaderSpec) markup.Fragment {
	style := MergeDecls(headerStyle, h.Style)
	open := "<header" + attr("class", "vb-header") + attr("style", FormatDecls(style)) + ">"
	body := markup.Lines(titleLine(h.Title))
	if h.Subtitle != "" {
		body = append(body, subtitleLine(h.Subtitle))
	}
	return body.Wrap(open, "</header>")
}

func titleLine(text string) string {
	return "<p" + attr("style", titleCSS) + ">" + markup.EscapeText(text) + "</p>"
}

func subtitleLine(text string) string {
	return "<p" + attr("style", subtitleCSS) + ">" + markup.EscapeText(text) + "</p>"
}

func attr(name, value string) string {
	return " " + name + `="` + markup.Escape(value) + `"`
}

func optAttr(name, value string) string {
	if value == "" {
		return ""
	}
	return attr(name, value)
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
