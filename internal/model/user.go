package model

type User struct {
	UserID      string `gorm:"column:user_id;primaryKey;type:varchar(64)" json:"user_id"`
	ScreenName  string `gorm:"type:varchar(255);index:idx_screen_name" json:"screen_name"`
	Description string `gorm:"type:text" json:"description"`

	// 仅作展示用途的弱引用，允许为空或过期
	LatestContactPostID *string `gorm:"type:varchar(64)" json:"latest_contact_post_id,omitempty"`
}

func (User) TableName() string {
	return "users"
}
