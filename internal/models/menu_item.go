package models

import (
	"gorm.io/datatypes"

	"github.com/kidzstudio/examportal/internal/navigation"
)

// MenuItem is a persisted navigation record. Key is the navigation id and is
// unique within its menu; ParentKey references another item's key in the
// same menu.
type MenuItem struct {
	BaseModel

	MenuID    string         `gorm:"size:36;not null;uniqueIndex:idx_menu_items_menu_key,priority:1" json:"menu_id"`
	Key       string         `gorm:"size:128;not null;uniqueIndex:idx_menu_items_menu_key,priority:2" json:"key"`
	Title     string         `gorm:"not null" json:"title"`
	URL       string         `json:"url"`
	Kind      string         `gorm:"size:16;not null" json:"kind"`
	ParentKey *string        `gorm:"size:128;index" json:"parent_key"`
	Ordering  int            `gorm:"not null;default:0" json:"ordering"`
	Icon      string         `gorm:"size:64" json:"icon"`
	Visible   bool           `gorm:"not null" json:"visible"`
	Status    string         `gorm:"size:16;not null" json:"status"`
	Target    string         `gorm:"size:16" json:"target"`
	Metadata  datatypes.JSON `json:"metadata,omitempty"`
}

// Navigation converts the row into a navigation record.
func (m MenuItem) Navigation() navigation.Item {
	item := navigation.Item{
		ID:      m.Key,
		Title:   m.Title,
		URL:     m.URL,
		Kind:    navigation.Kind(m.Kind),
		Order:   m.Ordering,
		Icon:    m.Icon,
		Visible: m.Visible,
		Status:  navigation.Status(m.Status),
		Target:  navigation.Target(m.Target),
	}
	if m.ParentKey != nil && *m.ParentKey != "" {
		item.ParentID = navigation.ParentRef(*m.ParentKey)
	}
	return item
}

// NewMenuItem builds a row for menuID from a navigation record.
func NewMenuItem(menuID string, item navigation.Item) MenuItem {
	row := MenuItem{
		MenuID:   menuID,
		Key:      item.ID,
		Title:    item.Title,
		URL:      item.URL,
		Kind:     string(item.Kind),
		Ordering: item.Order,
		Icon:     item.Icon,
		Visible:  item.Visible,
		Status:   string(item.Status),
		Target:   string(item.Target),
	}
	if parent := item.Parent(); parent != "" {
		row.ParentKey = &parent
	}
	return row
}

// NavigationItems converts rows into navigation records, preserving order.
func NavigationItems(rows []MenuItem) []navigation.Item {
	items := make([]navigation.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.Navigation())
	}
	return items
}
