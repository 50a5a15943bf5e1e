package group

type Group struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title" validate:"required,max=200"`
	Slug        string `gorm:"size:100;uniqueIndex;not null" json:"slug" validate:"required,max=100"`
	Description string `gorm:"type:text" json:"description"`
}

func (g Group) String() string {
	return g.Title
}
