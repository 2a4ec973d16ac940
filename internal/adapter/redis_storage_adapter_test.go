package adapter

import (
	"context"
	"errors"
	"testing"

	"ct-assessment/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisStorageAdapter_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStorageAdapter(db)
	ctx := context.Background()

	key := "ctassess:questions:list"
	expectedValue := `[{"id":1}]`

	t.Run("Success", func(t *testing.T) {
		mock.ExpectGet(key).SetVal(expectedValue)
		val, err := store.Get(ctx, key)
		assert.NoError(t, err)
		assert.Equal(t, expectedValue, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("KeyNotFound", func(t *testing.T) {
		mock.ExpectGet(key).SetErr(redis.Nil)
		val, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("some redis error")
		mock.ExpectGet(key).SetErr(redisErr)
		val, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, redisErr)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisStorageAdapter_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStorageAdapter(db)
	ctx := context.Background()

	key := "ctassess:results:archive"
	value := `[]`

	t.Run("Success", func(t *testing.T) {
		mock.ExpectSet(key, value, 0).SetVal("OK")
		err := store.Set(ctx, key, value)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("some redis error")
		mock.ExpectSet(key, value, 0).SetErr(redisErr)
		err := store.Set(ctx, key, value)
		assert.ErrorIs(t, err, redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisStorageAdapter_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStorageAdapter(db)
	ctx := context.Background()

	key := "ctassess:google:spreadsheet_id"

	t.Run("Success", func(t *testing.T) {
		mock.ExpectDel(key).SetVal(1)
		err := store.Delete(ctx, key)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("some redis error")
		mock.ExpectDel(key).SetErr(redisErr)
		err := store.Delete(ctx, key)
		assert.ErrorIs(t, err, redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
