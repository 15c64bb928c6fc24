package utils

import (
	"context"
	"errors"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"github.com/bsm/redislock"
)

func GetCacheLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN"))
	if err != nil {
		lifespan = 1
	}
	return time.Duration(lifespan) * time.Hour
}

/* generic functions */

func GetTypeName[T any]() string {
	var v T
	typeOfT := reflect.TypeOf(v)
	return typeOfT.Name()
}

/* Redis */

// store instance, obj should be a pointer
func StoreRedis[T any](obj any, id string) error {
	key := GetTypeName[T]() + ":" + id
	return config.SetRedisObject(key, &obj, GetCacheLifespan())
}

// store list under TypeList
func StoreRedisList[T any](obj any) error {
	key := GetTypeName[T]() + "List"
	return config.SetRedisObject(key, &obj, 0)
}

// get from redis
// returns nil if does not exist
func RetrieveRedis[T any](id string) (*T, error) {
	var result *T
	key := GetTypeName[T]() + ":" + id
	exists, err := config.GetRedisObject(key, &result)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return result, nil
}

func RetrieveRedisList[T any]() ([]*T, error) {
	key := GetTypeName[T]() + "List"

	var result []*T
	exists, err := config.GetRedisObject(key, &result)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return result, nil
}

// clear list, TypeList
func RemoveRedisList[T any]() error {
	var key string = GetTypeName[T]() + "List"
	return config.RemoveRedisKey(key)
}

// remove an instance, Type:$id
func RemoveRedisItem[T any](id string) error {
	key := GetTypeName[T]() + ":" + id
	return config.RemoveRedisKey(key)
}

// NextSequence issues the next sequence number for T. The counter lives in
// redis and is seeded from the table's current max(sequence_no). The whole
// issue path runs under a redislock lease: a concurrent INCR against a
// freshly seeded counter must not hand out a value the table already holds.
func NextSequence[T any](ctx context.Context) (int64, error) {
	var model T
	typeName := strings.ToLower(GetTypeName[T]())
	cacheKey := typeName + "_seq"

	locker := config.GetRedisLock()
	if locker != nil {
		lock, lockErr := locker.Obtain(ctx, cacheKey+":lock", 30*time.Second, &redislock.Options{
			RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 100),
		})
		if lockErr == redislock.ErrNotObtained {
			return 0, errors.New("could not obtain sequence lock")
		} else if lockErr != nil {
			return 0, lockErr
		}
		defer func() {
			_ = lock.Release(ctx)
		}()
	}

	seqNo, err := config.GetRedisCounter(ctx, cacheKey)
	if err != nil {
		return 0, err
	}
	// a fresh counter starts at 1; reconcile against the table before issuing
	if seqNo <= 1 {
		db := config.GetDB()
		var dbSeq *int64
		if err := db.WithContext(ctx).Model(&model).Select("max(sequence_no)").Scan(&dbSeq).Error; err != nil {
			return 0, err
		}
		if dbSeq != nil && *dbSeq >= seqNo {
			seqNo = *dbSeq + 1
			if err := config.SetRedisObject(cacheKey, &seqNo, 0); err != nil {
				return 0, err
			}
		}
	}
	return seqNo, nil
}
