package tray

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	platformredis "gatehouse/internal/platform/redis"
	"gatehouse/internal/visitor/models"
	"gatehouse/pkg/platform/sentinel"
)

// acquireScript pops the lowest-ordinal tray and records its holder in one step.
var acquireScript = redis.NewScript(`
local popped = redis.call('ZPOPMIN', KEYS[1], 1)
if #popped == 0 then
  return false
end
redis.call('HSET', KEYS[2], popped[1], ARGV[1])
return popped[1]
`)

// releaseScript clears the holder and returns the tray to the available set
// unless its ordinal is above the pool size (ARGV[3]). Returns 0 when the tray
// was not held.
var releaseScript = redis.NewScript(`
if redis.call('HDEL', KEYS[2], ARGV[1]) == 0 then
  return 0
end
if tonumber(ARGV[2]) <= tonumber(ARGV[3]) then
  redis.call('ZADD', KEYS[1], ARGV[2], ARGV[1])
end
return 1
`)

// seedScript drops available trays above the pool size (ARGV[1]) and adds
// every tray that is neither available nor held. The remaining ARGV hold
// ordinal/number pairs.
var seedScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '(' .. ARGV[1], '+inf')
local added = 0
for i = 2, #ARGV, 2 do
  local number = ARGV[i + 1]
  if redis.call('HEXISTS', KEYS[2], number) == 0 then
    added = added + redis.call('ZADD', KEYS[1], 'NX', ARGV[i], number)
  end
end
return added
`)

type assignment struct {
	AssignedTo string    `json:"assigned_to"`
	AssignedAt time.Time `json:"assigned_at"`
}

// RedisStore shares one tray pool across server instances. Available trays
// live in a sorted set scored by ordinal; held trays in a hash of number to
// JSON assignment.
type RedisStore struct {
	client *platformredis.Client
	keys   []string
	size   int
}

// NewRedis constructs a Redis-backed tray pool of size trays under the
// client's namespace. Call Seed once at startup to create missing trays.
func NewRedis(client *platformredis.Client, size int) *RedisStore {
	return &RedisStore{
		client: client,
		keys:   []string{client.Key("trays", "available"), client.Key("trays", "assigned")},
		size:   size,
	}
}

// Seed creates any tray that does not exist yet, preserving current holders.
// Available trays left over from a larger pool are retired; held ones are
// retired when released.
func (s *RedisStore) Seed(ctx context.Context) error {
	args := make([]any, 0, s.size*2+1)
	args = append(args, s.size)
	for i := 1; i <= s.size; i++ {
		args = append(args, i, models.TrayNumber(i))
	}
	if err := seedScript.Run(ctx, s.client, s.keys, args...).Err(); err != nil {
		return fmt.Errorf("seed trays: %w", err)
	}
	return nil
}

func (s *RedisStore) Acquire(ctx context.Context, assignee string, at time.Time) (*models.Tray, error) {
	payload, err := json.Marshal(assignment{AssignedTo: assignee, AssignedAt: at})
	if err != nil {
		return nil, fmt.Errorf("encode tray assignment: %w", err)
	}
	number, err := acquireScript.Run(ctx, s.client, s.keys, payload).Text()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrExhausted
	}
	if err != nil {
		return nil, fmt.Errorf("acquire tray: %w", err)
	}
	ordinal, _ := models.TrayOrdinal(number)
	assignedAt := at
	return &models.Tray{
		Number:     number,
		Ordinal:    ordinal,
		Available:  false,
		AssignedTo: assignee,
		AssignedAt: &assignedAt,
	}, nil
}

func (s *RedisStore) Release(ctx context.Context, number string) error {
	ordinal, ok := models.TrayOrdinal(number)
	if !ok {
		return sentinel.ErrNotFound
	}
	released, err := releaseScript.Run(ctx, s.client, s.keys, number, ordinal, s.size).Int()
	if err != nil {
		return fmt.Errorf("release tray: %w", err)
	}
	if released == 0 {
		if ordinal > s.size {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrInvalidState
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]*models.Tray, error) {
	pipe := s.client.Pipeline()
	availableCmd := pipe.ZRangeWithScores(ctx, s.keys[0], 0, -1)
	assignedCmd := pipe.HGetAll(ctx, s.keys[1])
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("list trays: %w", err)
	}

	out := make([]*models.Tray, 0, s.size)
	for _, z := range availableCmd.Val() {
		number, _ := z.Member.(string)
		out = append(out, &models.Tray{Number: number, Ordinal: int(z.Score), Available: true})
	}
	for number, raw := range assignedCmd.Val() {
		var a assignment
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			return nil, fmt.Errorf("decode tray assignment %s: %w", number, err)
		}
		ordinal, _ := models.TrayOrdinal(number)
		assignedAt := a.AssignedAt
		out = append(out, &models.Tray{
			Number:     number,
			Ordinal:    ordinal,
			AssignedTo: a.AssignedTo,
			AssignedAt: &assignedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })
	return out, nil
}
