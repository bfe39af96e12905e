// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     command
// Description: Typed argument structs, one per kind
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package command

// Args is implemented only by the argument structs of this package
type Args interface {
	Kind() Kind
	sealed()
}

// DataSpec binds a widget to a table and measure
type DataSpec struct {
	Schema    string `json:"schema,omitempty"`
	Table     string `json:"table,omitempty"`
	Dimension string `json:"dimension,omitempty"`
	Measure   string `json:"measure,omitempty"`
	Agg       string `json:"agg,omitempty"`
}

// StyleSpec carries utility tokens for a widget's styling child
type StyleSpec struct {
	TW string `json:"tw,omitempty"`
}

// AddGroupArgs creates a group container
type AddGroupArgs struct {
	ID          string         `json:"id"`
	Title       string         `json:"title,omitempty"`
	Orientation string         `json:"orientation,omitempty"`
	Sizing      string         `json:"sizing,omitempty"`
	ColsD       *int           `json:"colsD,omitempty"`
	GapX        *int           `json:"gapX,omitempty"`
	GapY        *int           `json:"gapY,omitempty"`
	Style       map[string]any `json:"style,omitempty"`
}

// AddKPIArgs adds a kpi to a group
type AddKPIArgs struct {
	ID      string     `json:"id"`
	Group   string     `json:"group,omitempty"`
	Title   string     `json:"title,omitempty"`
	Unit    string     `json:"unit,omitempty"`
	Height  *int       `json:"height,omitempty"`
	WidthFr string     `json:"widthFr,omitempty"`
	Data    *DataSpec  `json:"data,omitempty"`
	Style   *StyleSpec `json:"style,omitempty"`
}

// AddChartArgs adds a chart to a group
type AddChartArgs struct {
	ID      string     `json:"id"`
	Group   string     `json:"group,omitempty"`
	Type    string     `json:"type,omitempty"`
	Title   string     `json:"title,omitempty"`
	Height  *int       `json:"height,omitempty"`
	WidthFr string     `json:"widthFr,omitempty"`
	Data    *DataSpec  `json:"data,omitempty"`
	Style   *StyleSpec `json:"style,omitempty"`
}

// AddWidgetArgs adds a kpi or chart, chosen by Type
type AddWidgetArgs struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	ChartType string     `json:"chartType,omitempty"`
	Group     string     `json:"group,omitempty"`
	Title     string     `json:"title,omitempty"`
	Unit      string     `json:"unit,omitempty"`
	Height    *int       `json:"height,omitempty"`
	WidthFr   string     `json:"widthFr,omitempty"`
	Data      *DataSpec  `json:"data,omitempty"`
	Style     *StyleSpec `json:"style,omitempty"`
}

// SectionSpec holds the fields shared by the section-creating kinds
type SectionSpec struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Gap       Text           `json:"gap,omitempty"`
	Direction string         `json:"direction,omitempty"`
	Justify   string         `json:"justify,omitempty"`
	Align     string         `json:"align,omitempty"`
	Style     map[string]any `json:"style,omitempty"`
}

// AddSectionArgs creates a section unless it exists
type AddSectionArgs struct {
	SectionSpec
}

// CreateSectionArgs creates a section and fails if it exists
type CreateSectionArgs struct {
	SectionSpec
}

// RemoveSectionArgs removes a section
type RemoveSectionArgs struct {
	ID string `json:"id"`
}

// UpdateSectionArgs edits a section in place
type UpdateSectionArgs struct {
	ID        string         `json:"id"`
	Type      *string        `json:"type,omitempty"`
	Gap       *Text          `json:"gap,omitempty"`
	Direction *string        `json:"direction,omitempty"`
	Justify   *string        `json:"justify,omitempty"`
	Align     *string        `json:"align,omitempty"`
	Style     map[string]any `json:"style,omitempty"`
}

// WhereRule is one query filter
type WhereRule struct {
	Col   string `json:"col"`
	Op    string `json:"op"`
	Val   any    `json:"val,omitempty"`
	Vals  []any  `json:"vals,omitempty"`
	Start any    `json:"start,omitempty"`
	End   any    `json:"end,omitempty"`
}

// QuerySpec is the data request of an article
type QuerySpec struct {
	Schema        string      `json:"schema,omitempty"`
	Table         string      `json:"table,omitempty"`
	Measure       string      `json:"measure,omitempty"`
	Agg           string      `json:"agg,omitempty"`
	Dimension     string      `json:"dimension,omitempty"`
	TimeDimension string      `json:"timeDimension,omitempty"`
	From          string      `json:"from,omitempty"`
	To            string      `json:"to,omitempty"`
	Order         string      `json:"order,omitempty"`
	Limit         *int        `json:"limit,omitempty"`
	Where         []WhereRule `json:"where,omitempty"`
}

// CreateArticleArgs adds a card to an existing section
type CreateArticleArgs struct {
	ID        string         `json:"id"`
	SectionID string         `json:"sectionId"`
	Type      string         `json:"type"`
	Title     string         `json:"title,omitempty"`
	Value     Text           `json:"value,omitempty"`
	ChartType string         `json:"chartType,omitempty"`
	ChartID   string         `json:"chartId,omitempty"`
	Height    *int           `json:"height,omitempty"`
	Fr        Text           `json:"fr,omitempty"`
	Style     map[string]any `json:"style,omitempty"`
	Query     *QuerySpec     `json:"query,omitempty"`
	QueryMode string         `json:"queryMode,omitempty"`
}

// UpdateArticleArgs edits a card in place
type UpdateArticleArgs struct {
	ID        string         `json:"id"`
	Title     *string        `json:"title,omitempty"`
	Value     *Text          `json:"value,omitempty"`
	ChartType *string        `json:"chartType,omitempty"`
	Height    *int           `json:"height,omitempty"`
	Fr        *Text          `json:"fr,omitempty"`
	Style     map[string]any `json:"style,omitempty"`
	Query     *QuerySpec     `json:"query,omitempty"`
	QueryMode string         `json:"queryMode,omitempty"`
}

// UpdateHeaderArgs edits or creates the dashboard header
type UpdateHeaderArgs struct {
	Title    *string        `json:"title,omitempty"`
	Subtitle *string        `json:"subtitle,omitempty"`
	Style    map[string]any `json:"style,omitempty"`
}

// DateRange is the dashboard period filter
type DateRange struct {
	Type      string `json:"type"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// SetDashboardArgs edits root attributes
type SetDashboardArgs struct {
	Title     *string    `json:"title,omitempty"`
	Subtitle  *string    `json:"subtitle,omitempty"`
	Theme     *string    `json:"theme,omitempty"`
	DateRange *DateRange `json:"dateRange,omitempty"`
}

// DeleteWidgetArgs removes kpis, charts and articles with the id
type DeleteWidgetArgs struct {
	ID string `json:"id"`
}

// DeleteGroupArgs removes a group
type DeleteGroupArgs struct {
	ID string `json:"id"`
}

// UpdateWidgetArgs edits a kpi or chart in place
type UpdateWidgetArgs struct {
	ID      string         `json:"id"`
	Title   *string        `json:"title,omitempty"`
	Height  *int           `json:"height,omitempty"`
	Type    *string        `json:"type,omitempty"`
	WidthFr *string        `json:"widthFr,omitempty"`
	Data    *DataSpec      `json:"data,omitempty"`
	Style   *StyleSpec     `json:"style,omitempty"`
	Config  map[string]any `json:"config,omitempty"`
}

// UpdateGroupArgs edits a group in place
type UpdateGroupArgs struct {
	ID          string         `json:"id"`
	Title       *string        `json:"title,omitempty"`
	Orientation *string        `json:"orientation,omitempty"`
	Sizing      *string        `json:"sizing,omitempty"`
	ColsD       *int           `json:"colsD,omitempty"`
	GapX        *int           `json:"gapX,omitempty"`
	GapY        *int           `json:"gapY,omitempty"`
	Style       map[string]any `json:"style,omitempty"`
}

func (*AddGroupArgs) Kind() Kind      { return KindAddGroup }
func (*AddKPIArgs) Kind() Kind        { return KindAddKPI }
func (*AddChartArgs) Kind() Kind      { return KindAddChart }
func (*AddWidgetArgs) Kind() Kind     { return KindAddWidget }
func (*AddSectionArgs) Kind() Kind    { return KindAddSection }
func (*RemoveSectionArgs) Kind() Kind { return KindRemoveSection }
func (*UpdateArticleArgs) Kind() Kind { return KindUpdateArticle }
func (*UpdateHeaderArgs) Kind() Kind  { return KindUpdateHeader }
func (*UpdateSectionArgs) Kind() Kind { return KindUpdateSection }
func (*CreateSectionArgs) Kind() Kind { return KindCreateSection }
func (*CreateArticleArgs) Kind() Kind { return KindCreateArticle }
func (*SetDashboardArgs) Kind() Kind  { return KindSetDashboard }
func (*DeleteWidgetArgs) Kind() Kind  { return KindDeleteWidget }
func (*DeleteGroupArgs) Kind() Kind   { return KindDeleteGroup }
func (*UpdateWidgetArgs) Kind() Kind  { return KindUpdateWidget }
func (*UpdateGroupArgs) Kind() Kind   { return KindUpdateGroup }

func (*AddGroupArgs) sealed()      {}
func (*AddKPIArgs) sealed()        {}
func (*AddChartArgs) sealed()      {}
func (*AddWidgetArgs) sealed()     {}
func (*AddSectionArgs) sealed()    {}
func (*RemoveSectionArgs) sealed() {}
func (*UpdateArticleArgs) sealed() {}
func (*UpdateHeaderArgs) sealed()  {}
func (*UpdateSectionArgs) sealed() {}
func (*CreateSectionArgs) sealed() {}
func (*CreateArticleArgs) sealed() {}
func (*SetDashboardArgs) sealed()  {}
func (*DeleteWidgetArgs) sealed()  {}
func (*DeleteGroupArgs) sealed()   {}
func (*UpdateWidgetArgs) sealed()  {}
func (*UpdateGroupArgs) sealed()   {}

// NewArgs returns an empty argument struct for k, ready to be decoded into
func NewArgs(k Kind) Args {
	switch k {
	case KindAddGroup:
		return &AddGroupArgs{}
	case KindAddKPI:
		return &AddKPIArgs{}
	case KindAddChart:
		return &AddChartArgs{}
	case KindAddWidget:
		return &AddWidgetArgs{}
	case KindAddSection:
		return &AddSectionArgs{}
	case KindRemoveSection:
		return &RemoveSectionArgs{}
	case KindUpdateArticle:
		return &UpdateArticleArgs{}
	case KindUpdateHeader:
		return &UpdateHeaderArgs{}
	case KindUpdateSection:
		return &UpdateSectionArgs{}
	case KindCreateSection:
		return &CreateSectionArgs{}
	case KindCreateArticle:
		return &CreateArticleArgs{}
	case KindSetDashboard:
		return &SetDashboardArgs{}
	case KindDeleteWidget:
		return &DeleteWidgetArgs{}
	case KindDeleteGroup:
		return &DeleteGroupArgs{}
	case KindUpdateWidget:
		return &UpdateWidgetArgs{}
	case KindUpdateGroup:
		return &UpdateGroupArgs{}
	}
	return nil
}
