package model

type CachedResponse struct {
	NamespaceID uint64 `gorm:"column:namespace_id;not null;primaryKey"`
	CacheKey    string `gorm:"column:cache_key;type:text;not null;primaryKey"`
	Method      string `gorm:"column:method;type:text;not null"`
	URL         string `gorm:"column:url;type:text;not null;index"`
	Status      int    `gorm:"column:status;not null"`
	HeaderJSON  string `gorm:"column:header_json;type:text;not null"`
	Body        []byte `gorm:"column:body;type:blob"`
	StoredAt    string `gorm:"column:stored_at;type:text;not null"`
}

func (CachedResponse) TableName() string {
	return "cached_responses"
}
