package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tankgo/internal/domain/offline"
	"tankgo/internal/errs"
	"tankgo/internal/infrastructure/persistence/sqlite/model"
	"tankgo/internal/ports"
)

// SQLiteResponseStore keeps named response namespaces in SQLite. Every storage failure is
// marked with offline.ErrCacheUnavailable.
type SQLiteResponseStore struct {
	db  *gorm.DB
	now func() time.Time
}

var _ ports.ResponseStore = (*SQLiteResponseStore)(nil)

func NewSQLiteResponseStore(db *gorm.DB) *SQLiteResponseStore {
	return &SQLiteResponseStore{db: db, now: time.Now}
}

func (s *SQLiteResponseStore) Open(ctx context.Context, name string) (ports.ResponseCache, error) {
	trimmed, err := checkName(ctx, name)
	if err != nil {
		return nil, err
	}

	row := model.CacheNamespace{Name: trimmed, CreatedAt: model.FormatTime(s.now())}
	db := s.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&row).Error; err != nil {
		return nil, errs.Mark(err, offline.ErrCacheUnavailable, "create namespace")
	}

	var stored model.CacheNamespace
	if err := db.Where("name = ?", trimmed).Take(&stored).Error; err != nil {
		return nil, errs.Mark(err, offline.ErrCacheUnavailable, "load namespace")
	}
	return &sqliteNamespace{store: s, id: stored.NamespaceID, name: stored.Name}, nil
}

func (s *SQLiteResponseStore) Match(ctx context.Context, key offline.RequestKey) (offline.Response, bool, error) {
	if err := checkCtx(ctx); err != nil {
		return offline.Response{}, false, err
	}

	var row model.CachedResponse
	err := s.db.WithContext(ctx).
		Model(&model.CachedResponse{}).
		Joins("JOIN cache_namespaces ON cache_namespaces.namespace_id = cached_responses.namespace_id").
		Where("cached_responses.cache_key = ?", key.String()).
		Order("cache_namespaces.namespace_id asc").
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return offline.Response{}, false, nil
		}
		return offline.Response{}, false, errs.Mark(err, offline.ErrCacheUnavailable, "match response")
	}

	resp, err := mapResponse(row)
	if err != nil {
		return offline.Response{}, false, err
	}
	return resp, true, nil
}

func (s *SQLiteResponseStore) Has(ctx context.Context, name string) (bool, error) {
	trimmed, err := checkName(ctx, name)
	if err != nil {
		return false, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.CacheNamespace{}).Where("name = ?", trimmed).Count(&count).Error; err != nil {
		return false, errs.Mark(err, offline.ErrCacheUnavailable, "check namespace")
	}
	return count > 0, nil
}

func (s *SQLiteResponseStore) Delete(ctx context.Context, name string) (bool, error) {
	trimmed, err := checkName(ctx, name)
	if err != nil {
		return false, err
	}

	deleted := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.CacheNamespace
		if err := tx.Where("name = ?", trimmed).Take(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Where("namespace_id = ?", row.NamespaceID).Delete(&model.CachedResponse{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.CacheNamespace{}, row.NamespaceID).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, errs.Mark(err, offline.ErrCacheUnavailable, "delete namespace")
	}
	return deleted, nil
}

func (s *SQLiteResponseStore) Keys(ctx context.Context) ([]string, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	var names []string
	if err := s.db.WithContext(ctx).Model(&model.CacheNamespace{}).Order("namespace_id asc").Pluck("name", &names).Error; err != nil {
		return nil, errs.Mark(err, offline.ErrCacheUnavailable, "list namespaces")
	}
	return names, nil
}

type sqliteNamespace struct {
	store *SQLiteResponseStore
	id    uint64
	name  string
}

func (n *sqliteNamespace) Name() string {
	return n.name
}

func (n *sqliteNamespace) Match(ctx context.Context, key offline.RequestKey) (offline.Response, bool, error) {
	if err := checkCtx(ctx); err != nil {
		return offline.Response{}, false, err
	}

	var row model.CachedResponse
	err := n.store.db.WithContext(ctx).
		Where("namespace_id = ? AND cache_key = ?", n.id, key.String()).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return offline.Response{}, false, nil
		}
		return offline.Response{}, false, errs.Mark(err, offline.ErrCacheUnavailable, "match response")
	}

	resp, err := mapResponse(row)
	if err != nil {
		return offline.Response{}, false, err
	}
	return resp, true, nil
}

func (n *sqliteNamespace) Put(ctx context.Context, key offline.RequestKey, resp offline.Response) error {
	return n.PutAll(ctx, []ports.CachedEntry{{Key: key, Response: resp}})
}

func (n *sqliteNamespace) PutAll(ctx context.Context, entries []ports.CachedEntry) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	storedAt := model.FormatTime(n.store.now())
	rows := make([]model.CachedResponse, 0, len(entries))
	for _, entry := range entries {
		row, err := n.toRow(entry, storedAt)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	err := n.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "namespace_id"}, {Name: "cache_key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"method", "url", "status", "header_json", "body", "stored_at",
			}),
		}).Create(&rows).Error
	})
	if err != nil {
		return errs.Mark(err, offline.ErrCacheUnavailable, "put responses")
	}
	return nil
}

func (n *sqliteNamespace) toRow(entry ports.CachedEntry, storedAt string) (model.CachedResponse, error) {
	header := entry.Response.Header
	if header == nil {
		header = http.Header{}
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return model.CachedResponse{}, errs.Wrap(err, "encode response header")
	}

	body := entry.Response.Body
	if body == nil {
		body = []byte{}
	}
	return model.CachedResponse{
		NamespaceID: n.id,
		CacheKey:    entry.Key.String(),
		Method:      entry.Key.Method,
		URL:         entry.Key.URL,
		Status:      entry.Response.Status,
		HeaderJSON:  string(headerJSON),
		Body:        body,
		StoredAt:    storedAt,
	}, nil
}

func mapResponse(row model.CachedResponse) (offline.Response, error) {
	header := http.Header{}
	if strings.TrimSpace(row.HeaderJSON) != "" {
		if err := json.Unmarshal([]byte(row.HeaderJSON), &header); err != nil {
			return offline.Response{}, errs.Mark(err, offline.ErrCacheUnavailable, "decode response header")
		}
	}
	storedAt, err := model.ParseTime(row.StoredAt)
	if err != nil {
		return offline.Response{}, errs.Mark(err, offline.ErrCacheUnavailable, "decode stored_at")
	}
	return offline.Response{
		Status:   row.Status,
		Header:   header,
		Body:     row.Body,
		Source:   offline.SourceCache,
		StoredAt: storedAt,
	}, nil
}

func checkCtx(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	return nil
}

func checkName(ctx context.Context, name string) (string, error) {
	if err := checkCtx(ctx); err != nil {
		return "", err
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", errors.New("namespace name is required")
	}
	return trimmed, nil
}
