package model

type UserFavorite struct {
	UserID    uint64 `gorm:"column:user_id;not null;primaryKey"`
	StationID string `gorm:"column:ideess;type:text;not null;primaryKey"`
	CreatedAt string `gorm:"column:created_at;type:text;not null;index"`
}

func (UserFavorite) TableName() string {
	return "user_favorites"
}
