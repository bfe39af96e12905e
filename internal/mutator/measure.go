// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     mutator
// Description: Measure expressions and schema/table normalisation
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package mutator

import (
	"regexp"
	"strings"
)

var (
	aggregatedRe = regexp.MustCompile(`^\s*[A-Za-z_][A-Za-z0-9_]*\s*\(.*\)\s*$`)
	knownAggs    = map[string]bool{"SUM": true, "COUNT": true, "AVG": true, "MIN": true, "MAX": true}
)

// BuildMeasure turns a metric and an aggregation into a measure expression.
// A metric that is already a function call is returned as is.
func BuildMeasure(metric, agg string) string {
	metric = strings.TrimSpace(metric)
	if metric == "" {
		return ""
	}
	if aggregatedRe.MatchString(metric) {
		return metric
	}
	fn := strings.ToUpper(strings.TrimSpace(agg))
	if !knownAggs[fn] {
		fn = "SUM"
	}
	return fn + "(" + metric + ")"
}

// NormalizeSchemaTable splits a qualified "schema.table" name. An explicit
// schema wins over the qualifier.
func NormalizeSchemaTable(schema, table string) (string, string) {
	schema = strings.TrimSpace(schema)
	table = strings.TrimSpace(table)
	if i := strings.IndexByte(table, '.'); i > 0 && i < len(table)-1 {
		if schema == "" {
			schema = table[:i]
		}
		table = table[i+1:]
	}
	return schema, table
}
