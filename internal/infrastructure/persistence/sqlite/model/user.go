package model

type User struct {
	UserID       uint64 `gorm:"column:user_id;primaryKey;autoIncrement"`
	Nombre       string `gorm:"column:nombre;type:text;not null"`
	Email        string `gorm:"column:email;type:text;uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;type:text;not null"`
	IsAdmin      bool   `gorm:"column:is_admin;not null;default:false"`
	CreatedAt    string `gorm:"column:created_at;type:text;not null"`
}

func (User) TableName() string {
	return "users"
}
