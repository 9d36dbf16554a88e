package credstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/cespare/xxhash/v2"
)

type (
	cachedStore struct {
		Store
		cache *bigcache.BigCache
	}

	xxhasher struct{}
)

func (xxhasher) Sum64(key string) uint64 { return xxhash.Sum64String(key) }

// Cached keeps successful lookups from inner in memory for ttl. Misses are
// never cached, so a user becomes visible as soon as Insert returns.
// A ttl of zero returns inner unchanged.
func Cached(inner Store, ttl time.Duration) (Store, error) {
	if ttl <= 0 {
		return inner, nil
	}
	cfg := bigcache.DefaultConfig(ttl)
	cfg.Verbose = false
	cfg.Hasher = xxhasher{}
	cache, err := bigcache.NewBigCache(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create lookup cache, cause %w", err)
	}
	return &cachedStore{Store: inner, cache: cache}, nil
}

func (c *cachedStore) FindByID(ctx context.Context, id int64) (Credential, error) {
	if cred, ok := c.get(idKey(id)); ok {
		return cred, nil
	}
	cred, err := c.Store.FindByID(ctx, id)
	if err != nil {
		return Credential{}, err
	}
	c.put(cred)
	return cred, nil
}

func (c *cachedStore) FindByName(ctx context.Context, name string) (Credential, error) {
	if cred, ok := c.get(nameKey(name)); ok {
		return cred, nil
	}
	cred, err := c.Store.FindByName(ctx, name)
	if err != nil {
		return Credential{}, err
	}
	c.put(cred)
	return cred, nil
}

func (c *cachedStore) Close() error {
	c.cache.Close()
	return c.Store.Close()
}

func (c *cachedStore) get(key string) (Credential, bool) {
	buf, err := c.cache.Get(key)
	if err != nil {
		return Credential{}, false
	}
	var cred Credential
	if json.Unmarshal(buf, &cred) != nil {
		return Credential{}, false
	}
	return cred, true
}

func (c *cachedStore) put(cred Credential) {
	buf, err := json.Marshal(cred)
	if err != nil {
		return
	}
	c.cache.Set(idKey(cred.ID), buf)
	c.cache.Set(nameKey(cred.Name), buf)
}

func idKey(id int64) string      { return "id:" + strconv.FormatInt(id, 10) }
func nameKey(name string) string { return "name:" + name }
