package model

type CacheNamespace struct {
	NamespaceID uint64 `gorm:"column:namespace_id;primaryKey;autoIncrement"`
	Name        string `gorm:"column:name;type:text;uniqueIndex;not null"`
	CreatedAt   string `gorm:"column:created_at;type:text;not null"`
}

func (CacheNamespace) TableName() string {
	return "cache_namespaces"
}
