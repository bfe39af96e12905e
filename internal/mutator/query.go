// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     mutator
// Description: Query blocks in attribute, SQL and DSL form
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package mutator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/msto63/dashscript/internal/markup"
)

// QueryRepr selects how a query is written into the document
type QueryRepr string

const (
	ReprAttrs QueryRepr = "attrs"
	ReprSQL   QueryRepr = "sql"
	ReprDSL   QueryRepr = "dsl"
)

// WhereRule is one filter condition. Val serves the scalar operators, Vals
// the list operators and Start/End the between operator.
type WhereRule struct {
	Col   string
	Op    string
	Val   any
	Vals  []any
	Start any
	End   any
}

// Query is the data request attached to a chart or article
type Query struct {
	Schema        string
	Table         string
	Measure       string
	Agg           string
	Dimension     string
	TimeDimension string
	From          string
	To            string
	Order         string
	Limit         int
	Where         []WhereRule
}

var (
	identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
	orderRe = regexp.MustCompile(`(?i)^\s*[A-Za-z_][A-Za-z0-9_.]*(\s+(ASC|DESC))?(\s*,\s*[A-Za-z_][A-Za-z0-9_.]*(\s+(ASC|DESC))?)*\s*$`)
)

// UpsertQuery writes q into the target identified by id, looked up as an
// article, then a chart, then a kpi. An existing <query> below the target is
// replaced; otherwise the query goes into a nested chart, else the target.
func UpsertQuery(src, id string, q Query, repr QueryRepr) (Result, error) {
	doc := markup.Parse(src)
	target := doc.FindAny(id, "article", "chart", "kpi")
	if target == nil {
		return notFound(src), nil
	}
	frag := QueryMarkup(q, repr)

	if existing := target.Descendant("query"); existing != nil {
		indent := doc.LineIndent(existing)
		return commit(src, Updated, 1, []markup.Edit{
			markup.Replace(existing.Start, existing.End, frag.Render(indent)),
		})
	}
	host := target
	if target.Tag == "article" {
		if chart := target.Descendant("chart"); chart != nil {
			host = chart
		}
	}
	return commit(src, Created, 1, []markup.Edit{insertLast(doc, host, frag)})
}

// QueryMarkup renders q in the given representation. Unknown values fall
// back to attrs.
func QueryMarkup(q Query, repr QueryRepr) markup.Fragment {
	switch repr {
	case ReprSQL:
		return markup.Lines(BuildSQL(q)...).Wrap(`<query lang="sql">`, "</query>")
	case ReprDSL:
		return markup.Lines(BuildQueryDSL(q)...).Wrap(`<query lang="dsl">`, "</query>")
	}
	var b strings.Builder
	b.WriteString("<query")
	b.WriteString(optAttr("schema", q.Schema))
	b.WriteString(optAttr("table", q.Table))
	b.WriteString(optAttr("measure", BuildMeasure(q.Measure, q.Agg)))
	b.WriteString(optAttr("dimension", q.Dimension))
	b.WriteString(optAttr("timeDimension", q.TimeDimension))
	b.WriteString(optAttr("from", q.From))
	b.WriteString(optAttr("to", q.To))
	if q.Limit > 0 {
		b.WriteString(attr("limit", strconv.Itoa(q.Limit)))
	}
	if validOrder(q.Order) {
		b.WriteString(attr("order", strings.TrimSpace(q.Order)))
	}
	if conds := WhereSQL(q.Where); len(conds) > 0 {
		b.WriteString(attr("where", strings.Join(conds, " AND ")))
	}
	b.WriteString(" />")
	return markup.Lines(b.String())
}

// BuildSQL assembles a SELECT statement, one clause per line
func BuildSQL(q Query) []string {
	schema, table := NormalizeSchemaTable(q.Schema, q.Table)
	measure := BuildMeasure(q.Measure, q.Agg)
	if measure == "" {
		measure = "COUNT(*)"
	}
	dim := ""
	if identRe.MatchString(q.Dimension) {
		dim = q.Dimension
	}

	var lines []string
	if dim != "" {
		lines = append(lines, fmt.Sprintf("SELECT %s AS label, %s AS value", dim, measure))
	} else {
		lines = append(lines, fmt.Sprintf("SELECT %s AS value", measure))
	}
	from := table
	if schema != "" {
		from = schema + "." + table
	}
	lines = append(lines, "FROM "+from)

	conds := WhereSQL(q.Where)
	if identRe.MatchString(q.TimeDimension) {
		if q.From != "" {
			conds = append(conds, q.TimeDimension+" >= "+quoteLiteral(q.From))
		}
		if q.To != "" {
			conds = append(conds, q.TimeDimension+" <= "+quoteLiteral(q.To))
		}
	}
	if len(conds) > 0 {
		lines = append(lines, "WHERE "+strings.Join(conds, " AND "))
	}
	if dim != "" {
		lines = append(lines, "GROUP BY "+dim)
	}
	if validOrder(q.Order) {
		lines = append(lines, "ORDER BY "+strings.TrimSpace(q.Order))
	}
	if q.Limit > 0 {
		lines = append(lines, "LIMIT "+strconv.Itoa(q.Limit))
	}
	return lines
}

// BuildQueryDSL writes the query as key: value lines
func BuildQueryDSL(q Query) []string {
	var lines []string
	add := func(k, v string) {
		if v != "" {
			lines = append(lines, k+": "+v)
		}
	}
	add("schema", q.Schema)
	add("table", q.Table)
	add("measure", BuildMeasure(q.Measure, q.Agg))
	add("dimension", q.Dimension)
	add("timeDimension", q.TimeDimension)
	add("from", q.From)
	add("to", q.To)
	for _, c := range WhereSQL(q.Where) {
		add("where", c)
	}
	if validOrder(q.Order) {
		add("order", strings.TrimSpace(q.Order))
	}
	if q.Limit > 0 {
		add("limit", strconv.Itoa(q.Limit))
	}
	return lines
}

// WhereSQL renders each valid rule as an SQL condition. Rules with an
// invalid column, an unknown operator or missing operands are skipped.
func WhereSQL(rules []WhereRule) []string {
	var out []string
	for _, r := range rules {
		if c, ok := ruleSQL(r); ok {
			out = append(out, c)
		}
	}
	return out
}

func ruleSQL(r WhereRule) (string, bool) {
	col := strings.TrimSpace(r.Col)
	if !identRe.MatchString(col) {
		return "", false
	}
	switch strings.ToLower(strings.TrimSpace(r.Op)) {
	case "=", "eq":
		return scalarCond(col, "=", r.Val)
	case "!=", "<>", "ne":
		return scalarCond(col, "<>", r.Val)
	case "like":
		return scalarCond(col, "LIKE", r.Val)
	case "in":
		return listCond(col, "IN", r.Vals)
	case "not-in", "not in", "notin":
		return listCond(col, "NOT IN", r.Vals)
	case "between":
		lo, ok1 := literal(r.Start)
		hi, ok2 := literal(r.End)
		if !ok1 || !ok2 {
			return "", false
		}
		return col + " BETWEEN " + lo + " AND " + hi, true
	}
	return "", false
}

func scalarCond(col, op string, v any) (string, bool) {
	lit, ok := literal(v)
	if !ok {
		return "", false
	}
	return col + " " + op + " " + lit, true
}

func listCond(col, op string, vals []any) (string, bool) {
	if len(vals) == 0 {
		return "", false
	}
	lits := make([]string, 0, len(vals))
	for _, v := range vals {
		lit, ok := literal(v)
		if !ok {
			return "", false
		}
		lits = append(lits, lit)
	}
	return col + " " + op + " (" + strings.Join(lits, ", ") + ")", true
}

// literal renders a SQL literal. Strings are single-quoted with quotes
// doubled; numbers and booleans are bare; nil has no literal.
func literal(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return quoteLiteral(x), true
	case json.Number:
		return x.String(), true
	case bool:
		if x {
			return "TRUE", true
		}
		return "FALSE", true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	}
	return "", false
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func validOrder(order string) bool {
	return strings.TrimSpace(order) != "" && orderRe.MatchString(order)
}
