package schedule

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRuleCache shares parsed rules across processes, e.g. between the API
// and the availability-update consumer.
type RedisRuleCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRuleCache(addr, password string, ttl time.Duration) *RedisRuleCache {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	return &RedisRuleCache{client: c, ttl: ttl}
}

// NewRedisRuleCacheFromClient wraps an existing client, used by the consumer.
func NewRedisRuleCacheFromClient(client *redis.Client, ttl time.Duration) *RedisRuleCache {
	return &RedisRuleCache{client: client, ttl: ttl}
}

func ruleKey(technicianID int) string {
	return "technician:rule:" + strconv.Itoa(technicianID)
}

func (c *RedisRuleCache) Get(ctx context.Context, technicianID int) (Rule, bool) {
	m, err := c.client.HGetAll(ctx, ruleKey(technicianID)).Result()
	if err != nil || len(m) == 0 {
		return Rule{}, false
	}
	r, ok := decodeRule(m)
	if !ok {
		return Rule{}, false
	}
	return r, true
}

func (c *RedisRuleCache) Set(ctx context.Context, technicianID int, r Rule) {
	key := ruleKey(technicianID)
	_ = c.client.HSet(ctx, key, encodeRule(r)).Err()
	if c.ttl > 0 {
		_ = c.client.Expire(ctx, key, c.ttl).Err()
	}
}

func encodeRule(r Rule) map[string]interface{} {
	days := make([]string, 0, 7)
	for i, on := range r.Days {
		if on {
			days = append(days, strconv.Itoa(i))
		}
	}
	return map[string]interface{}{
		"days":  strings.Join(days, ","),
		"start": strconv.Itoa(r.StartHour),
		"end":   strconv.Itoa(r.EndHour),
	}
}

func decodeRule(m map[string]string) (Rule, bool) {
	var r Rule
	start, err := strconv.Atoi(m["start"])
	if err != nil {
		return r, false
	}
	end, err := strconv.Atoi(m["end"])
	if err != nil {
		return r, false
	}
	r.StartHour = start
	r.EndHour = end
	if m["days"] == "" {
		return r, false
	}
	for _, d := range strings.Split(m["days"], ",") {
		i, err := strconv.Atoi(d)
		if err != nil || i < 0 || i > 6 {
			return r, false
		}
		r.Days[i] = true
	}
	return r, true
}
