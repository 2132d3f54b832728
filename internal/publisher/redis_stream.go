// Package publisher pushes changed schedules onto a Redis stream so
// downstream consumers (site renderers, bots) react without polling the
// output file. Optional: a pipeline without a Redis URL never constructs one.
package publisher

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ScheduleStream is the stream changed schedules are appended to.
const ScheduleStream = "schedule.updates"

// RedisPublisher publishes schedule updates to a Redis stream.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher connects and pings the Redis instance behind redisURL.
func NewRedisPublisher(redisURL string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisPublisher{client: client}, nil
}

// Close closes the Redis connection.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// PublishSchedule appends the serialized schedule to the update stream.
func (p *RedisPublisher) PublishSchedule(ctx context.Context, encoded []byte, matches int) error {
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: ScheduleStream,
		Values: map[string]interface{}{
			"schedule":  string(encoded),
			"matches":   matches,
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}
