package services

import (
	"cmp"
	"context"
	"strings"

	"github.com/kidzstudio/examportal/internal/navigation"
	"github.com/kidzstudio/examportal/internal/table"
	apperrors "github.com/kidzstudio/examportal/pkg/errors"
)

// ItemQuery filters and sorts the admin item table.
type ItemQuery struct {
	Search string
	Kind   string
	Status string
	Sort   table.SortState
}

// ItemTable is one page of the admin item table with its filter bar.
type ItemTable struct {
	Rows    []MenuItemDTO   `json:"rows"`
	Total   int             `json:"total"`
	Sort    table.SortState `json:"sort"`
	Filters table.Panel     `json:"filters"`
}

var itemColumns = table.Columns[MenuItemDTO]{
	"key":     func(a, b MenuItemDTO) int { return cmp.Compare(a.ID, b.ID) },
	"title":   func(a, b MenuItemDTO) int { return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)) },
	"url":     func(a, b MenuItemDTO) int { return cmp.Compare(a.URL, b.URL) },
	"kind":    func(a, b MenuItemDTO) int { return cmp.Compare(a.Kind, b.Kind) },
	"parent":  func(a, b MenuItemDTO) int { return cmp.Compare(a.Parent(), b.Parent()) },
	"order":   func(a, b MenuItemDTO) int { return cmp.Compare(a.Order, b.Order) },
	"status":  func(a, b MenuItemDTO) int { return cmp.Compare(a.Status, b.Status) },
	"updated": func(a, b MenuItemDTO) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
}

// ItemFilterPanel describes the filter bar of the item table.
func ItemFilterPanel() table.FieldPanel {
	return table.FieldPanel{Fields: []table.Field{
		{Name: "q", Label: "Search", Type: table.FieldText, Placeholder: "Title, key or URL"},
		{Name: "kind", Label: "Kind", Type: table.FieldSelect, Options: []table.Option{
			{Label: "All", Value: ""},
			{Label: "Internal", Value: string(navigation.KindInternal)},
			{Label: "External", Value: string(navigation.KindExternal)},
			{Label: "Category", Value: string(navigation.KindCategory)},
		}},
		{Name: "status", Label: "Status", Type: table.FieldSelect, Options: statusOptions()},
	}}
}

// MenuFilterPanel describes the filter bar of the menu list.
func MenuFilterPanel() table.SearchPanel {
	return table.SearchPanel{Placeholder: "Search menus", Statuses: statusOptions()}
}

func statusOptions() []table.Option {
	return []table.Option{
		{Label: "All", Value: ""},
		{Label: "Active", Value: string(navigation.StatusActive)},
		{Label: "Inactive", Value: string(navigation.StatusInactive)},
	}
}

// ItemTable returns the menu's stored items filtered and sorted for the admin list.
func (s *MenuService) ItemTable(ctx context.Context, slug string, query ItemQuery) (*ItemTable, error) {
	var kind navigation.Kind
	if strings.TrimSpace(query.Kind) != "" {
		parsed, err := navigation.ParseKind(query.Kind)
		if err != nil {
			return nil, apperrors.NewBadRequest(err.Error())
		}
		kind = parsed
	}
	var status navigation.Status
	if strings.TrimSpace(query.Status) != "" {
		parsed, err := navigation.ParseStatus(query.Status)
		if err != nil {
			return nil, apperrors.NewBadRequest(err.Error())
		}
		status = parsed
	}

	items, err := s.Items(ctx, slug)
	if err != nil {
		return nil, err
	}

	rows := table.Filter(items, func(item MenuItemDTO) bool {
		if kind != "" && item.Kind != kind {
			return false
		}
		if status != "" && item.Status != status {
			return false
		}
		return table.Contains(query.Search, item.Title, item.ID, item.URL)
	})

	rows, err = table.Sort(rows, query.Sort, itemColumns)
	if err != nil {
		return nil, apperrors.NewBadRequest(err.Error())
	}

	return &ItemTable{
		Rows:    rows,
		Total:   len(rows),
		Sort:    query.Sort,
		Filters: table.Panel{FilterPanel: ItemFilterPanel()},
	}, nil
}

// MenuTable returns the menus whose slug, name or description contain search.
func (s *MenuService) MenuTable(ctx context.Context, search string) ([]MenuDTO, error) {
	menus, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return table.Filter(menus, func(menu MenuDTO) bool {
		return table.Contains(search, menu.Slug, menu.Name, menu.Description)
	}), nil
}
