package suite

import (
	"context"
	"log/slog"
	"net"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const (
	containerLifetime = 120 // seconds
	maxWaitDuration   = 120 * time.Second
)

const (
	redisPort  = "6379/tcp"
	redisImage = "redis"
	redisTag   = "alpine"
)

type Suite struct {
	*testing.T
	Logger *slog.Logger

	// Storage talks to a fresh redis in a throwaway container.
	Storage *redis.Client
	// RedisHost and RedisPort point at the same server, for code that dials it itself.
	RedisHost string
	RedisPort string
}

// New starts a redis container for the test and removes it on cleanup.
// The test is skipped when no docker daemon is reachable.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(cancel)

	pool := dockerPool(t)
	resource := runRedis(t, pool)

	addr := resource.GetHostPort(redisPort)
	client := connect(ctx, t, pool, resource, addr)

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("unexpected redis address %q: %v", addr, err)
	}

	return ctx, &Suite{
		T:         t,
		Logger:    slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})),
		Storage:   client,
		RedisHost: host,
		RedisPort: port,
	}
}

func dockerPool(t *testing.T) *dockertest.Pool {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("could not connect to docker: %v", err)
	}

	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker is not available: %v", err)
	}

	pool.MaxWait = maxWaitDuration

	return pool
}

func runRedis(t *testing.T, pool *dockertest.Pool) *dockertest.Resource {
	t.Helper()

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start redis container: %v", err)
	}

	// hard kill in case cleanup never runs
	_ = resource.Expire(containerLifetime)

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Errorf("could not purge redis container: %v", err)
		}
	})

	return resource
}

// connect retries with backoff until redis inside the container accepts connections.
func connect(ctx context.Context, t *testing.T, pool *dockertest.Pool, resource *dockertest.Resource, addr string) *redis.Client {
	t.Helper()

	var client *redis.Client

	err := pool.Retry(func() error {
		if client != nil {
			_ = client.Close()
		}

		client = redis.NewClient(&redis.Options{Addr: addr})

		return client.Ping(ctx).Err()
	})
	if err != nil {
		t.Fatalf("could not connect to redis in %s: %v", resource.Container.Name, err)
	}

	t.Cleanup(func() {
		_ = client.Close()
	})

	if err = client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("could not flush database: %v", err)
	}

	return client
}
