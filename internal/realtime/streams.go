package realtime

// StreamMenus carries MenuChange events for every menu.
const StreamMenus = "menus"

// Events published on StreamMenus.
const (
	EventMenuCreated  = "menu.created"
	EventMenuUpdated  = "menu.updated"
	EventMenuImported = "menu.imported"
	EventMenuDeleted  = "menu.deleted"
)

// MenuChange is the payload of every StreamMenus event. Clients refetch the
// tree of Slug; nothing else about the change is sent.
type MenuChange struct {
	Slug string `json:"slug"`
}
