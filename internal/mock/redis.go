package mock

import (
	"context"
	"fmt"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	samplesKey = "ham:samples"
	totalsKey  = "ham:totals"

	fieldDistance = "distance_m"
	fieldDiet     = "diet_min"
	fieldWater    = "water_min"
	fieldSleep    = "sleep_s"
)

var _ Store = (*RedisStore)(nil)

// RedisStore keeps samples in a capped list and totals in a hash, so
// several mock instances can share one simulated hamster.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// DialRedis parses url and pings the server before returning the client.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

type redisSample struct {
	X               float64   `json:"x"`
	Y               float64   `json:"y"`
	At              time.Time `json:"at"`
	Activity        Activity  `json:"activity"`
	EatingMinutes   float64   `json:"eating_min,omitempty"`
	DrinkingMinutes float64   `json:"drinking_min,omitempty"`
}

func (s *RedisStore) AddSample(ctx context.Context, sample Sample, capacity int) error {
	data, err := go_json.Marshal(redisSample(sample))
	if err != nil {
		return fmt.Errorf("failed to marshal sample: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, samplesKey, data)
		pipe.LTrim(ctx, samplesKey, 0, int64(max(capacity, 1)-1))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to add sample: %w", err)
	}
	return nil
}

func (s *RedisStore) Recent(ctx context.Context, n int) ([]Sample, error) {
	if n <= 0 {
		return []Sample{}, nil
	}
	raw, err := s.client.LRange(ctx, samplesKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list samples: %w", err)
	}

	samples := make([]Sample, 0, len(raw))
	for _, r := range raw {
		var rs redisSample
		if err := go_json.Unmarshal([]byte(r), &rs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sample: %w", err)
		}
		samples = append(samples, Sample(rs))
	}
	return samples, nil
}

func (s *RedisStore) AddTotals(ctx context.Context, delta Totals) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrByFloat(ctx, totalsKey, fieldDistance, delta.DistanceMeters)
		pipe.HIncrByFloat(ctx, totalsKey, fieldDiet, delta.DietMinutes)
		pipe.HIncrByFloat(ctx, totalsKey, fieldWater, delta.WaterMinutes)
		pipe.HIncrByFloat(ctx, totalsKey, fieldSleep, delta.SleepSeconds)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to add totals: %w", err)
	}
	return nil
}

func (s *RedisStore) Totals(ctx context.Context) (Totals, error) {
	var raw struct {
		Distance float64 `redis:"distance_m"`
		Diet     float64 `redis:"diet_min"`
		Water    float64 `redis:"water_min"`
		Sleep    float64 `redis:"sleep_s"`
	}
	if err := s.client.HGetAll(ctx, totalsKey).Scan(&raw); err != nil {
		return Totals{}, fmt.Errorf("failed to read totals: %w", err)
	}
	return Totals{
		DistanceMeters: raw.Distance,
		DietMinutes:    raw.Diet,
		WaterMinutes:   raw.Water,
		SleepSeconds:   raw.Sleep,
	}, nil
}

func (s *RedisStore) Reset(ctx context.Context) error {
	if err := s.client.Del(ctx, samplesKey, totalsKey).Err(); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
