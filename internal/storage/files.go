package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/airforshare/backend/internal/domain"
)

const (
	fileKeyPrefix  = "file:"
	publicIndexKey = "files:public"
	allIndexKey    = "files:all"
)

// FileStore keeps file metadata as JSON values with a TTL, plus
// sorted-set indexes scored by upload time for listing. Index entries
// whose record already expired are pruned on read.
type FileStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewFileStore(rdb *redis.Client, ttl time.Duration) *FileStore {
	return &FileStore{rdb: rdb, ttl: ttl}
}

func fileKey(publicID string) string {
	return fileKeyPrefix + publicID
}

func (s *FileStore) Save(ctx context.Context, fi domain.FileInfo) error {
	data, err := json.Marshal(fi)
	if err != nil {
		return fmt.Errorf("marshal file record: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, fileKey(fi.PublicID), data, s.ttl)
	score := float64(fi.UploadedAt.Unix())
	pipe.ZAdd(ctx, allIndexKey, redis.Z{Score: score, Member: fi.PublicID})
	if fi.IsPublic {
		pipe.ZAdd(ctx, publicIndexKey, redis.Z{Score: score, Member: fi.PublicID})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save file record: %w", err)
	}
	return nil
}

// Get returns the record for a blob public id; the second value is
// false when it is unknown or already expired.
func (s *FileStore) Get(ctx context.Context, publicID string) (domain.FileInfo, bool, error) {
	data, err := s.rdb.Get(ctx, fileKey(publicID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.FileInfo{}, false, nil
	}
	if err != nil {
		return domain.FileInfo{}, false, fmt.Errorf("get file record: %w", err)
	}
	var fi domain.FileInfo
	if err := json.Unmarshal(data, &fi); err != nil {
		return domain.FileInfo{}, false, fmt.Errorf("decode file record: %w", err)
	}
	return fi, true, nil
}

// ListPublic returns public file records, newest first.
func (s *FileStore) ListPublic(ctx context.Context) ([]domain.FileInfo, error) {
	return s.list(ctx, publicIndexKey)
}

// ListAll returns every stored file record, newest first.
func (s *FileStore) ListAll(ctx context.Context) ([]domain.FileInfo, error) {
	return s.list(ctx, allIndexKey)
}

func (s *FileStore) list(ctx context.Context, indexKey string) ([]domain.FileInfo, error) {
	ids, err := s.rdb.ZRevRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read file index: %w", err)
	}

	out := make([]domain.FileInfo, 0, len(ids))
	var stale []interface{}
	for _, id := range ids {
		fi, ok, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			stale = append(stale, id)
			continue
		}
		out = append(out, fi)
	}

	if len(stale) > 0 {
		if err := s.rdb.ZRem(ctx, indexKey, stale...).Err(); err != nil {
			log.Warn().Err(err).Str("module", "storage.files").Msg("pruning stale index entries")
		}
	}
	return out, nil
}

// Delete removes the record and its index entries. Reports whether a
// record existed.
func (s *FileStore) Delete(ctx context.Context, publicID string) (bool, error) {
	removed, err := s.rdb.Del(ctx, fileKey(publicID)).Result()
	if err != nil {
		return false, fmt.Errorf("delete file record: %w", err)
	}
	pipe := s.rdb.TxPipeline()
	pipe.ZRem(ctx, publicIndexKey, publicID)
	pipe.ZRem(ctx, allIndexKey, publicID)
	if _, err := pipe.Exec(ctx); err != nil {
		return removed > 0, fmt.Errorf("delete file index entries: %w", err)
	}
	return removed > 0, nil
}
