package models

// Menu is a named navigation menu such as the student portal header or the
// admin sidebar.
type Menu struct {
	BaseModel

	Slug        string `gorm:"size:128;not null;uniqueIndex" json:"slug"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`

	Items []MenuItem `gorm:"foreignKey:MenuID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}
