package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dhoini/checkout-service/internal/domain"
	"github.com/Dhoini/checkout-service/pkg/logger"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

const (
	// Префикс ключей для вердиктов по номеру телефона
	riskKeyPrefix = "risk:phone:"

	// TTL для кэша успешных lookup-вердиктов
	defaultRiskCacheTTL = 5 * time.Minute
)

// RiskCache кэширует успешные результаты line-lookup проверки по
// нормализованному номеру. Результаты отказов не кэшируются никогда.
type RiskCache struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRiskCache создает новый экземпляр Redis кэша.
// Подключение ретраится с экспоненциальным backoff только на старте процесса,
// путь запроса остается однопопыточным.
func NewRiskCache(redisAddr, redisPassword string, redisDB int, log *logger.Logger) (*RiskCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 15 * time.Second

	ping := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return client.Ping(ctx).Err()
	}

	if err := backoff.Retry(ping, bo); err != nil {
		log.Errorw("Failed to connect to Redis", "error", err, "addr", redisAddr)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Infow("Connected to Redis successfully", "addr", redisAddr)
	return &RiskCache{
		client: client,
		log:    log,
	}, nil
}

// Close закрывает соединение с Redis
func (r *RiskCache) Close() error {
	return r.client.Close()
}

// CacheAssessment кэширует успешный вердикт по номеру телефона
func (r *RiskCache) CacheAssessment(ctx context.Context, normalizedPhone string, assessment *domain.RiskAssessment) error {
	key := riskKeyPrefix + normalizedPhone

	data, err := json.Marshal(assessment)
	if err != nil {
		r.log.Errorw("Failed to marshal risk assessment for caching", "error", err, "phone", normalizedPhone)
		return fmt.Errorf("failed to marshal risk assessment: %w", err)
	}

	ttl := assessment.CacheTTL
	if ttl <= 0 {
		ttl = defaultRiskCacheTTL
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		r.log.Errorw("Failed to cache risk assessment in Redis", "error", err, "phone", normalizedPhone)
		return fmt.Errorf("failed to cache risk assessment: %w", err)
	}

	r.log.Debugw("Risk assessment cached", "phone", normalizedPhone, "ttl", ttl)
	return nil
}

// GetCachedAssessment возвращает закэшированный вердикт или (nil, nil) при промахе
func (r *RiskCache) GetCachedAssessment(ctx context.Context, normalizedPhone string) (*domain.RiskAssessment, error) {
	key := riskKeyPrefix + normalizedPhone

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.log.Warnw("Failed to read risk assessment from Redis", "error", err, "phone", normalizedPhone)
		return nil, fmt.Errorf("failed to read cached risk assessment: %w", err)
	}

	var assessment domain.RiskAssessment
	if err := json.Unmarshal(data, &assessment); err != nil {
		r.log.Warnw("Failed to unmarshal cached risk assessment", "error", err, "phone", normalizedPhone)
		return nil, fmt.Errorf("failed to unmarshal cached risk assessment: %w", err)
	}

	return &assessment, nil
}
