package redis

import (
	"context"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"os"
	"strconv"
	"time"
)

const sessionKeyPrefix = "session:"

var ErrSessionNotFound = errors.New("session not found")

// ISessionStore keeps track of live login sessions so that logout can revoke
// a token before it expires.
type ISessionStore interface {
	SetSession(ctx context.Context, sessionID string, userID string, expiration time.Duration) error
	GetSession(ctx context.Context, sessionID string) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
}

type redisClient struct {
	client *redis.Client
}

func New() ISessionStore {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func NewWithClient(client *redis.Client) ISessionStore {
	return &redisClient{client: client}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (r *redisClient) SetSession(ctx context.Context, sessionID string, userID string, expiration time.Duration) error {
	key := sessionKey(sessionID)
	logrus.Debug(fmt.Sprintf("Setting session %s with expiration %v", key, expiration))
	if err := r.client.Set(ctx, key, userID, expiration).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error setting session %s: %v", key, err))
		return err
	}
	return nil
}

func (r *redisClient) GetSession(ctx context.Context, sessionID string) (string, error) {
	key := sessionKey(sessionID)
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		logrus.Debug(fmt.Sprintf("Session not found for key %s", key))
		return "", ErrSessionNotFound
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting session %s: %v", key, err))
		return "", err
	}
	return val, nil
}

func (r *redisClient) DeleteSession(ctx context.Context, sessionID string) error {
	key := sessionKey(sessionID)
	result, err := r.client.Del(ctx, key).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error deleting session %s: %v", key, err))
		return err
	}

	if result == 0 {
		logrus.Debug(fmt.Sprintf("Session %s not found for deletion", key))
	}

	return nil
}

func (r *redisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
