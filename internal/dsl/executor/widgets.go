// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     executor
// Description: Group and widget commands
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package executor

import (
	"strconv"
	"strings"

	"github.com/msto63/dashscript/foundation/utils/stringx"
	"github.com/msto63/dashscript/internal/dsl/command"
	"github.com/msto63/dashscript/internal/markup"
	"github.com/msto63/dashscript/internal/mutator"
)

var widgetTags = []string{"kpi", "chart"}

func (st *state) addGroup(w *work, a *command.AddGroupArgs) outcome {
	spec := mutator.GroupSpec{
		ID:          a.ID,
		Title:       a.Title,
		Orientation: a.Orientation,
		Sizing:      a.Sizing,
		ColsD:       deref(a.ColsD),
		GapX:        deref(a.GapX),
		GapY:        deref(a.GapY),
		Style:       a.Style,
	}
	res := w.do(func(s string) (mutator.Result, error) {
		return mutator.EnsureNode(s, "group", a.ID, mutator.GroupMarkup(spec))
	})
	st.currentGroup = a.ID
	if res.Outcome == mutator.Created {
		return done("group '%s' created", a.ID)
	}
	return done("group '%s' already exists", a.ID)
}

func ensureGroup(w *work, id string) {
	w.do(func(s string) (mutator.Result, error) {
		return mutator.EnsureNode(s, "group", id, mutator.GroupMarkup(mutator.GroupSpec{ID: id}))
	})
}

func (st *state) addKPI(w *work, group string, spec mutator.WidgetSpec) outcome {
	g := stringx.FirstNonBlank(group, st.currentGroup, DefaultKPIGroup)
	return insertWidget(w, g, "kpi", spec.ID, mutator.KPIMarkup(spec))
}

func (st *state) addChart(w *work, group string, spec mutator.WidgetSpec) outcome {
	g := stringx.FirstNonBlank(group, st.currentGroup, DefaultChartGroup)
	return insertWidget(w, g, "chart", spec.ID, mutator.ChartMarkup(spec))
}

func insertWidget(w *work, group, noun, id string, frag markup.Fragment) outcome {
	ensureGroup(w, group)
	res := w.do(func(s string) (mutator.Result, error) {
		return mutator.InsertChild(s, "group", group, frag)
	})
	if !res.Found() {
		return fail("group '%s' not found", group)
	}
	return done("%s '%s' added to group '%s'", noun, id, group)
}

// addWidget routes by type: kpi, chart with chartType, or a chart named by
// its type.
func (st *state) addWidget(w *work, a *command.AddWidgetArgs) outcome {
	typ := strings.ToLower(strings.TrimSpace(a.Type))
	if typ == "chart" {
		typ = strings.ToLower(stringx.FirstNonBlank(a.ChartType, mutator.DefaultChartType))
	}
	if typ == "kpi" {
		return st.addKPI(w, a.Group, kpiSpec(a.ID, a.Title, a.Unit, a.WidthFr, a.Height, a.Data, a.Style))
	}
	return st.addChart(w, a.Group, chartSpec(a.ID, a.Title, typ, a.WidthFr, a.Height, a.Data, a.Style))
}

func kpiSpec(id, title, unit, width string, height *int, d *command.DataSpec, s *command.StyleSpec) mutator.WidgetSpec {
	return mutator.WidgetSpec{
		ID:     id,
		Title:  title,
		Unit:   unit,
		Width:  width,
		Height: deref(height),
		Data:   dataSpec(d),
		Tokens: tw(s),
	}
}

func chartSpec(id, title, typ, width string, height *int, d *command.DataSpec, s *command.StyleSpec) mutator.WidgetSpec {
	return mutator.WidgetSpec{
		ID:     id,
		Title:  title,
		Type:   typ,
		Width:  width,
		Height: deref(height),
		Data:   dataSpec(d),
		Tokens: tw(s),
	}
}

// removeNodes removes every node of tags carrying id
func removeNodes(w *work, noun, id string, tags ...string) outcome {
	res := w.do(func(s string) (mutator.Result, error) {
		return mutator.RemoveNodes(s, id, tags...)
	})
	if res.Count == 0 {
		return fail("%s '%s' not found", noun, id)
	}
	return done("%s '%s' removed (%d)", noun, id, res.Count)
}

func updateWidget(w *work, a *command.UpdateWidgetArgs) outcome {
	doc := markup.Parse(w.text)
	var tags []string
	for _, tag := range widgetTags {
		if len(doc.Find(tag, a.ID)) > 0 {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return fail("widget '%s' not found", a.ID)
	}

	var changes []mutator.AttrChange
	if a.Title != nil {
		changes = append(changes, mutator.Set("title", *a.Title))
	}
	if a.Height != nil {
		changes = append(changes, mutator.Set("height", strconv.Itoa(*a.Height)))
	}
	if !blank(a.Type) {
		changes = append(changes, mutator.Set("type", *a.Type))
	}
	if !blank(a.WidthFr) {
		changes = append(changes, mutator.Set("width", *a.WidthFr))
	}

	for _, tag := range tags {
		if len(changes) > 0 {
			w.do(func(s string) (mutator.Result, error) {
				return mutator.SetAttributes(s, tag, a.ID, changes...)
			})
		}
		if a.Data != nil {
			if ds := mutator.DatasourceChanges(dataSpec(a.Data)); len(ds) > 0 {
				w.do(func(s string) (mutator.Result, error) {
					return mutator.SetChildAttributes(s, tag, a.ID, "datasource", true, ds...)
				})
			}
		}
		if t := tw(a.Style); t != "" {
			w.do(func(s string) (mutator.Result, error) {
				return mutator.MergeChildTokens(s, tag, a.ID, "styling", "tw", t)
			})
		}
		if len(a.Config) > 0 {
			w.do(func(s string) (mutator.Result, error) {
				return mutator.MergeJSONBlock(s, tag, a.ID, "config", a.Config, mutator.Indented)
			})
		}
	}

	for _, tag := range widgetTags {
		w.do(func(s string) (mutator.Result, error) {
			return mutator.DedupeNode(s, tag, a.ID)
		})
	}
	return done("widget '%s' updated", a.ID)
}

func updateGroup(w *work, a *command.UpdateGroupArgs) outcome {
	if markup.Parse(w.text).First("group", a.ID) == nil {
		return fail("group '%s' not found", a.ID)
	}
	var changes []mutator.AttrChange
	if a.Title != nil {
		changes = append(changes, mutator.Set("title", *a.Title))
	}
	if !blank(a.Orientation) {
		changes = append(changes, mutator.Set("orientation", *a.Orientation))
	}
	if !blank(a.Sizing) {
		changes = append(changes, mutator.Set("sizing", *a.Sizing))
	}
	for _, n := range []struct {
		name string
		v    *int
	}{{"cols-d", a.ColsD}, {"gap-x", a.GapX}, {"gap-y", a.GapY}} {
		if n.v != nil {
			changes = append(changes, mutator.Set(n.name, strconv.Itoa(*n.v)))
		}
	}
	if len(changes) > 0 {
		w.do(func(s string) (mutator.Result, error) {
			return mutator.SetAttributes(s, "group", a.ID, changes...)
		})
	}
	if len(a.Style) > 0 {
		w.do(func(s string) (mutator.Result, error) {
			return mutator.MergeJSONBlock(s, "group", a.ID, "style", a.Style, mutator.Compact)
		})
	}
	return done("group '%s' updated", a.ID)
}

func dataSpec(d *command.DataSpec) mutator.DataSpec {
	if d == nil {
		return mutator.DataSpec{}
	}
	return mutator.DataSpec{
		Schema:    d.Schema,
		Table:     d.Table,
		Dimension: d.Dimension,
		Measure:   d.Measure,
		Agg:       d.Agg,
	}
}

func tw(s *command.StyleSpec) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(s.TW)
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func blank(p *string) bool {
	return p == nil || strings.TrimSpace(*p) == ""
}
