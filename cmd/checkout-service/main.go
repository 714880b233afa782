package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dhoini/checkout-service/internal/api/rest"
	"github.com/Dhoini/checkout-service/internal/config"
	"github.com/Dhoini/checkout-service/internal/integration/stripe"
	"github.com/Dhoini/checkout-service/internal/integration/twilio"
	"github.com/Dhoini/checkout-service/internal/kafka"
	"github.com/Dhoini/checkout-service/internal/metrics"
	"github.com/Dhoini/checkout-service/internal/repository"
	"github.com/Dhoini/checkout-service/internal/service"
	"github.com/Dhoini/checkout-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Инициализируем логгер
	log := initLogger()
	defer log.Sync()

	log.Infow("Checkout service starting up...")

	// Загружаем конфигурацию
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		log.Fatalw("Failed to load configuration", "error", err)
	}

	// Проверка наличия ключей провайдеров
	if cfg.Stripe.APIKey == "" {
		log.Fatalw("Stripe API Key is not set")
	}
	if !cfg.LookupConfigured() {
		log.Warnw("Twilio Lookup credentials are not set, phone lookup fallback is disabled")
	}
	if cfg.Twilio.IdentityMatchURL == "" {
		log.Warnw("Identity match URL is not set, identity scoring is disabled")
	}

	// Устанавливаем режим Gin в зависимости от окружения
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Инициализируем Redis кэш lookup-вердиктов (не критичен для потока)
	var riskCache service.RiskCache
	if cfg.Redis.Addr != "" {
		redisCache, err := repository.NewRiskCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Warnw("Failed to initialize Redis cache, continuing without caching", "error", err)
		} else {
			riskCache = redisCache
			defer func() {
				if err := redisCache.Close(); err != nil {
					log.Errorw("Error closing Redis connection", "error", err)
				}
			}()
		}
	}

	// Инициализируем Kafka Producer (не критичен для потока)
	var producer kafka.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err := kafka.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Errorw("Failed to initialize Kafka producer, continuing without event publishing", "error", err)
		} else {
			producer = kafkaProducer
			defer func() {
				if err := kafkaProducer.Close(); err != nil {
					log.Errorw("Error closing Kafka producer", "error", err)
				}
			}()
		}
	}

	// Инициализируем клиентов провайдеров
	stripeClient := stripe.NewClient(cfg.Stripe.APIKey, log)
	twilioClient := twilio.NewClient(twilio.Config{
		AccountSID:       cfg.Twilio.AccountSID,
		AuthToken:        cfg.Twilio.AuthToken,
		IdentityMatchURL: cfg.Twilio.IdentityMatchURL,
	}, log)

	// Метрики
	registry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry, log)

	// Инициализируем service layer
	riskService := service.NewRiskService(twilioClient, riskCache, checkoutMetrics, log)
	customerService := service.NewCustomerService(stripeClient, producer, log)
	subscriptionService := service.NewSubscriptionService(stripeClient, log)
	checkoutService := service.NewCheckoutService(
		stripeClient,
		customerService,
		subscriptionService,
		riskService,
		producer,
		checkoutMetrics,
		log,
	)

	// Настраиваем маршруты и сервер
	router := rest.SetupRouter(log, registry, cfg, rest.Services{
		Customers: customerService,
		Risk:      riskService,
		Checkout:  checkoutService,
	})
	server := rest.NewServer(router, cfg, log)

	// Запускаем HTTP сервер в горутине
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalw("Failed to start HTTP server", "error", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infow("Shutdown signal received")

	// Даем 10 секунд на завершение текущих запросов
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown error", "error", err)
	} else {
		log.Infow("HTTP server gracefully stopped")
	}

	log.Infow("Cleanup finished. Goodbye!")
}

// initLogger инициализирует новый логгер
func initLogger() *logger.Logger {
	logLevel := logger.INFO
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = logger.DEBUG
	}
	return logger.New(logLevel)
}
