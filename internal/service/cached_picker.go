package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// CachedMessagePicker выбирает случайную закэшированную фразу.
// ok=false означает пустой пул.
type CachedMessagePicker interface {
	PickCachedID(ctx context.Context) (id uuid.UUID, ok bool, err error)
	Invalidate()
}

// CachedIDLister возвращает id фраз, доступных для выдачи из кэша.
type CachedIDLister interface {
	ListCachedMessageIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StoragePicker держит пул id из базы в CacheService с TTL.
// Пул сбрасывается при каждом сохранении фразы с cached=true.
type StoragePicker struct {
	repo  CachedIDLister
	cache *CacheService
	ttl   time.Duration
}

// NewStoragePicker создаёт экземпляр.
func NewStoragePicker(repo CachedIDLister, cache *CacheService, ttl time.Duration) *StoragePicker {
	return &StoragePicker{repo: repo, cache: cache, ttl: ttl}
}

// PickCachedID выбирает id равновероятно.
func (p *StoragePicker) PickCachedID(ctx context.Context) (uuid.UUID, bool, error) {
	raw, err := p.cache.GetOrSet(ctx, cachedMessageIDsKey, p.ttl, func(ctx context.Context) (any, error) {
		return p.repo.ListCachedMessageIDs(ctx)
	})
	if err != nil {
		return uuid.Nil, false, err
	}

	ids, _ := raw.([]uuid.UUID)
	if len(ids) == 0 {
		return uuid.Nil, false, nil
	}
	return lo.Sample(ids), true, nil
}

// Invalidate сбрасывает пул, следующий PickCachedID перечитает базу.
func (p *StoragePicker) Invalidate() {
	p.cache.Delete(cachedMessageIDsKey)
}
