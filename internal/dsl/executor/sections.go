// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     executor
// Description: Section, article, header and dashboard commands
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package executor

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/msto63/dashscript/internal/dsl/command"
	"github.com/msto63/dashscript/internal/markup"
	"github.com/msto63/dashscript/internal/mutator"
)

// addSection creates a section. With strict set an existing id fails.
func addSection(w *work, spec command.SectionSpec, strict bool) outcome {
	if markup.Parse(w.text).First("section", spec.ID) != nil {
		if strict {
			return fail("section '%s' already exists", spec.ID)
		}
		return done("section '%s' already exists", spec.ID)
	}
	decls := layoutDecls(&spec.Gap, spec.Direction, spec.Justify, spec.Align)
	decls = mutator.MergeDecls(decls, cssDecls(spec.Style))
	frag := mutator.SectionMarkup(mutator.SectionSpec{ID: spec.ID, Type: spec.Type, Style: decls})
	w.do(func(s string) (mutator.Result, error) {
		return mutator.EnsureNode(s, "section", spec.ID, frag)
	})
	return done("section '%s' created", spec.ID)
}

func updateSection(w *work, a *command.UpdateSectionArgs) outcome {
	if markup.Parse(w.text).First("section", a.ID) == nil {
		return fail("section '%s' not found", a.ID)
	}
	if !blank(a.Type) {
		typ := *a.Type
		other := "charts"
		if typ == "charts" {
			other = "kpis"
		}
		w.do(func(s string) (mutator.Result, error) {
			return mutator.RewriteAttr(s, "section", a.ID, "class", func(cur string) string {
				return mutator.ReplaceToken(cur, other, typ)
			})
		})
	}

	var attrs []mutator.AttrChange
	if a.Gap != nil {
		attrs = append(attrs, mutator.Set("data-gap", a.Gap.String()))
	}
	if !blank(a.Direction) {
		attrs = append(attrs, mutator.Set("data-direction", *a.Direction))
	}
	if len(attrs) > 0 {
		w.do(func(s string) (mutator.Result, error) {
			return mutator.SetAttributes(s, "section", a.ID, attrs...)
		})
	}

	decls := layoutDecls(a.Gap, str(a.Direction), str(a.Justify), str(a.Align))
	decls = mutator.MergeDecls(decls, cssDecls(a.Style))
	if len(decls) > 0 {
		w.do(func(s string) (mutator.Result, error) {
			return mutator.MergeInlineStyle(s, "section", a.ID, decls)
		})
	}
	return done("section '%s' updated", a.ID)
}

func createArticle(w *work, a *command.CreateArticleArgs) outcome {
	doc := markup.Parse(w.text)
	if doc.First("section", a.SectionID) == nil {
		return fail("section '%s' not found", a.SectionID)
	}
	if doc.First("article", a.ID) != nil {
		return fail("article '%s' already exists", a.ID)
	}
	spec := mutator.ArticleSpec{
		ID:        a.ID,
		Type:      a.Type,
		Title:     a.Title,
		Value:     a.Value.String(),
		ChartType: a.ChartType,
		ChartID:   a.ChartID,
		Height:    deref(a.Height),
		Fr:        a.Fr.String(),
		Style:     cssDecls(a.Style),
		Query:     toQuery(a.Query),
		QueryRepr: mutator.QueryRepr(a.QueryMode),
	}
	w.do(func(s string) (mutator.Result, error) {
		return mutator.InsertChild(s, "section", a.SectionID, mutator.ArticleMarkup(spec))
	})
	return done("article '%s' added to section '%s'", a.ID, a.SectionID)
}

func updateArticle(w *work, a *command.UpdateArticleArgs) outcome {
	if markup.Parse(w.text).First("article", a.ID) == nil {
		return fail("article '%s' not found", a.ID)
	}
	if a.Title != nil {
		w.do(func(s string) (mutator.Result, error) {
			return mutator.SetArticleTitle(s, a.ID, *a.Title)
		})
	}
	if a.Value != nil {
		w.do(func(s string) (mutator.Result, error) {
			return mutator.SetArticleValue(s, a.ID, a.Value.String())
		})
	}

	var chart []mutator.AttrChange
	if !blank(a.ChartType) {
		chart = append(chart, mutator.Set("type", *a.ChartType))
	}
	if a.Height != nil {
		chart = append(chart, mutator.Set("height", strconv.Itoa(*a.Height)))
	}
	if len(chart) > 0 {
		w.do(func(s string) (mutator.Result, error) {
			return mutator.SetChildAttributes(s, "article", a.ID, "chart", false, chart...)
		})
	}

	var decls []mutator.Decl
	if a.Fr != nil {
		decls = append(decls, mutator.Decl{Prop: "--fr", Value: a.Fr.String()})
	}
	decls = mutator.MergeDecls(decls, cssDecls(a.Style))
	if len(decls) > 0 {
		w.do(func(s string) (mutator.Result, error) {
			return mutator.MergeInlineStyle(s, "article", a.ID, decls)
		})
	}

	if q := toQuery(a.Query); q != nil {
		w.do(func(s string) (mutator.Result, error) {
			return mutator.UpsertQuery(s, a.ID, *q, mutator.QueryRepr(a.QueryMode))
		})
	}
	return done("article '%s' updated", a.ID)
}

func updateHeader(w *work, a *command.UpdateHeaderArgs) outcome {
	res := w.do(func(s string) (mutator.Result, error) {
		return mutator.UpsertHeader(s, mutator.HeaderPatch{
			Title:    a.Title,
			Subtitle: a.Subtitle,
			Style:    cssDecls(a.Style),
		})
	})
	if res.Outcome == mutator.Created {
		return done("header created")
	}
	return done("header updated")
}

func setDashboard(w *work, a *command.SetDashboardArgs) outcome {
	var changes []mutator.AttrChange
	for _, f := range []struct {
		name string
		v    *string
	}{{"title", a.Title}, {"subtitle", a.Subtitle}, {"theme", a.Theme}} {
		if f.v != nil {
			changes = append(changes, mutator.Set(f.name, *f.v))
		}
	}
	if dr := a.DateRange; dr != nil {
		changes = append(changes, mutator.DateRangeChanges(dr.Type, dr.StartDate, dr.EndDate)...)
	}
	res := w.do(func(s string) (mutator.Result, error) {
		return mutator.SetDashboardAttrs(s, changes...)
	})
	if !res.Found() {
		return fail("dashboard root not found")
	}
	return done("dashboard attributes updated")
}

// layoutDecls maps section layout arguments onto flex declarations
func layoutDecls(gap *command.Text, direction, justify, align string) []mutator.Decl {
	var out []mutator.Decl
	if gap != nil && *gap != "" {
		v := gap.String()
		if gap.IsNumeric() {
			v += "px"
		}
		out = append(out, mutator.Decl{Prop: "gap", Value: v})
	}
	for _, d := range []mutator.Decl{
		{Prop: "flex-direction", Value: direction},
		{Prop: "justify-content", Value: justify},
		{Prop: "align-items", Value: align},
	} {
		if d.Value != "" {
			out = append(out, d)
		}
	}
	return out
}

// cssDecls turns a style argument into declarations sorted by property. A
// null value becomes an empty declaration, which removes the property.
func cssDecls(m map[string]any) []mutator.Decl {
	if len(m) == 0 {
		return nil
	}
	strs := make(map[string]string, len(m))
	for k, v := range m {
		switch x := v.(type) {
		case nil:
			strs[k] = ""
		case string:
			strs[k] = x
		case json.Number:
			strs[k] = x.String()
		default:
			strs[k] = fmt.Sprint(x)
		}
	}
	return mutator.DeclsFromMap(strs)
}

func toQuery(q *command.QuerySpec) *mutator.Query {
	if q == nil {
		return nil
	}
	out := &mutator.Query{
		Schema:        q.Schema,
		Table:         q.Table,
		Measure:       q.Measure,
		Agg:           q.Agg,
		Dimension:     q.Dimension,
		TimeDimension: q.TimeDimension,
		From:          q.From,
		To:            q.To,
		Order:         q.Order,
		Limit:         deref(q.Limit),
	}
	for _, r := range q.Where {
		out.Where = append(out.Where, mutator.WhereRule{
			Col:   r.Col,
			Op:    r.Op,
			Val:   r.Val,
			Vals:  r.Vals,
			Start: r.Start,
			End:   r.End,
		})
	}
	return out
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
