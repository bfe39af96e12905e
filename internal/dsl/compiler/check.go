// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     compiler
// Description: Semantic checks on bound arguments
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package compiler

import (
	"strings"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
	"github.com/msto63/dashscript/internal/dsl/command"
)

// check runs the rules a schema cannot express
func check(args command.Args) error {
	switch a := args.(type) {
	case *command.AddWidgetArgs:
		if strings.TrimSpace(a.Type) == "" {
			return mdwerror.New("type must not be empty").WithCode(mdwerror.CodeRequiredField)
		}
	case *command.SetDashboardArgs:
		if a.DateRange != nil && strings.TrimSpace(a.DateRange.Type) == "" {
			return mdwerror.New("dateRange.type is required").WithCode(mdwerror.CodeRequiredField)
		}
	}
	if args.Kind().IsUpdate() && !hasUpdate(args) {
		return mdwerror.Newf("%s needs at least one field to update", args.Kind()).WithCode(mdwerror.CodeEmptyUpdate)
	}
	return nil
}

// hasUpdate reports whether an update command sets anything
func hasUpdate(args command.Args) bool {
	switch a := args.(type) {
	case *command.UpdateArticleArgs:
		return a.Title != nil || a.Value != nil || !blank(a.ChartType) || a.Height != nil ||
			a.Fr != nil || len(a.Style) > 0 || a.Query != nil
	case *command.UpdateHeaderArgs:
		return a.Title != nil || a.Subtitle != nil || len(a.Style) > 0
	case *command.UpdateSectionArgs:
		return !blank(a.Type) || a.Gap != nil || !blank(a.Direction) || !blank(a.Justify) ||
			!blank(a.Align) || len(a.Style) > 0
	case *command.UpdateWidgetArgs:
		return a.Title != nil || a.Height != nil || !blank(a.Type) || !blank(a.WidthFr) ||
			a.Data != nil || (a.Style != nil && a.Style.TW != "") || len(a.Config) > 0
	case *command.UpdateGroupArgs:
		return a.Title != nil || !blank(a.Orientation) || !blank(a.Sizing) || a.ColsD != nil ||
			a.GapX != nil || a.GapY != nil || len(a.Style) > 0
	case *command.SetDashboardArgs:
		return a.Title != nil || a.Subtitle != nil || a.Theme != nil || a.DateRange != nil
	}
	return true
}
