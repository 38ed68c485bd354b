package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// Redis key prefixes for the matching engine
	RedisEventKeyPrefix   = "slotopen:event:"
	RedisCounterKeyPrefix = "notify:count:"

	// How long a processed event id is remembered for dedup
	eventDedupTTL = 48 * time.Hour
)

// reserveQuotaScript atomically counts a notification against a patient's
// daily cap. Lua executes atomically in Redis, so concurrent slot-opened
// events cannot lose updates.
//
// Logic:
// 1. INCR the per-(patient, day) counter
// 2. On first increment, set the key to expire at the day boundary
// 3. If the new count exceeds the cap, INCR is rolled back and -1 returned
var reserveQuotaScript = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('EXPIRE', KEYS[1], ARGV[2])
	end
	if count > tonumber(ARGV[1]) then
		redis.call('DECR', KEYS[1])
		return -1
	end
	return count
`)

// NotifyLimiter guards the matching engine's two rate controls: one
// effective delivery per event id, and the per-(patient, day) cap.
type NotifyLimiter interface {
	// FirstDelivery returns true exactly once per event id.
	FirstDelivery(ctx context.Context, eventID uuid.UUID) (bool, error)

	// ReleaseDelivery forgets an event id claimed by FirstDelivery, so a
	// re-delivery can retry after a transient failure mid-processing.
	ReleaseDelivery(ctx context.Context, eventID uuid.UUID) error

	// ReserveQuota counts one notification for the patient on the given
	// day. Returns false when the cap is already reached. A reservation is
	// never rolled back, even if the later dispatch fails.
	ReserveQuota(ctx context.Context, patientID uuid.UUID, day time.Time, cap int) (bool, error)
}

type redisNotifyLimiter struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewRedisNotifyLimiter(redisClient *redis.Client, log *logrus.Logger) NotifyLimiter {
	return &redisNotifyLimiter{
		redisClient: redisClient,
		log:         log,
	}
}

func (l *redisNotifyLimiter) FirstDelivery(ctx context.Context, eventID uuid.UUID) (bool, error) {
	key := RedisEventKeyPrefix + eventID.String()
	first, err := l.redisClient.SetNX(ctx, key, 1, eventDedupTTL).Result()
	if err != nil {
		l.log.Warnf("Failed event dedup check for %s: %+v", eventID, err)
		return false, fmt.Errorf("event dedup for %s: %w", eventID, err)
	}
	return first, nil
}

func (l *redisNotifyLimiter) ReleaseDelivery(ctx context.Context, eventID uuid.UUID) error {
	key := RedisEventKeyPrefix + eventID.String()
	if err := l.redisClient.Del(ctx, key).Err(); err != nil {
		l.log.Warnf("Failed to release event dedup key for %s: %+v", eventID, err)
		return fmt.Errorf("release event dedup for %s: %w", eventID, err)
	}
	return nil
}

func (l *redisNotifyLimiter) ReserveQuota(ctx context.Context, patientID uuid.UUID, day time.Time, cap int) (bool, error) {
	day = day.UTC()
	key := fmt.Sprintf("%s%s:%s", RedisCounterKeyPrefix, patientID, day.Format("2006-01-02"))
	ttl := secondsUntilDayEnd(day)

	// Uses package-level reserveQuotaScript for EVALSHA optimization
	result, err := reserveQuotaScript.Run(ctx, l.redisClient, []string{key}, cap, ttl).Int()
	if err != nil {
		l.log.Warnf("Failed quota reservation for patient %s: %+v", patientID, err)
		return false, fmt.Errorf("quota reservation for patient %s: %w", patientID, err)
	}

	if result == -1 {
		return false, nil
	}

	l.log.Debugf("Reserved notification %d for patient %s", result, patientID)
	return true, nil
}

// secondsUntilDayEnd returns the counter TTL: the key lives until the end
// of its calendar day (UTC), with a minute of slack for clock skew.
func secondsUntilDayEnd(day time.Time) int {
	dayEnd := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	ttl := time.Until(dayEnd) + time.Minute
	if ttl < time.Minute {
		ttl = time.Minute
	}
	return int(ttl.Seconds())
}
