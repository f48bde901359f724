package records

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/saadbelcaidx/connector-os-sub007/internal/common/errors"
	"github.com/saadbelcaidx/connector-os-sub007/internal/models"
)

func samplePool() []models.SupplyRecord {
	return []models.SupplyRecord{
		{Company: "Hightower Advisors", Contact: "Jordan Blake", Email: "jordan@hightower.com", Capability: "RIA acquisition platform"},
	}
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "intro:supply:wealth", CacheKey("wealth", ""))
	assert.Equal(t, "intro:supply:wealth:ria acquisition", CacheKey("wealth", "  RIA Acquisition "))
}

func TestSupplyCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	cache := NewSupplyCache(client, 10*time.Minute)
	ctx := context.Background()
	key := CacheKey("wealth", "")

	_, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, key, samplePool()))
	assert.Equal(t, 10*time.Minute, mr.TTL(key))

	pool, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, samplePool()[0].Email, pool[0].Email)

	require.NoError(t, cache.Invalidate(ctx, key))
	assert.False(t, mr.Exists(key))
}

func TestSupplyCache_Mocked(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewSupplyCache(client, 5*time.Minute)
	ctx := context.Background()
	key := CacheKey("wealth", "")

	data, _ := json.Marshal(samplePool())
	mock.ExpectSet(key, data, 5*time.Minute).SetVal("OK")
	require.NoError(t, cache.Set(ctx, key, samplePool()))

	mock.ExpectGet(key).SetErr(errors.New("READONLY"))
	_, ok, err := cache.Get(ctx, key)
	assert.False(t, ok)
	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeSupplyCacheFailed, commonerrors.AsStandardError(err).Code)

	mock.ExpectGet(key).SetVal("not json")
	_, _, err = cache.Get(ctx, key)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
