package rest

import (
	"github.com/Dhoini/checkout-service/internal/api/rest/handlers"
	"github.com/Dhoini/checkout-service/internal/api/rest/middleware"
	"github.com/Dhoini/checkout-service/internal/config"
	"github.com/Dhoini/checkout-service/internal/service"
	"github.com/Dhoini/checkout-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services собирает сервисы, которые обслуживают HTTP-поверхность
type Services struct {
	Customers service.CustomerService
	Risk      service.RiskService
	Checkout  service.CheckoutService
}

// SetupRouter настраивает маршрутизатор Gin с маршрутами и middleware
func SetupRouter(log *logger.Logger, registry *prometheus.Registry, cfg *config.Config, svcs Services) *gin.Engine {
	r := gin.New()

	// Подключение middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	// Endpoint для проверки работоспособности сервиса
	r.GET("/health", handlers.HealthCheck)

	// Prometheus метрики
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Инициализация обработчиков
	customerHandler := handlers.NewCustomerHandler(svcs.Customers, cfg.IsProduction(), log)
	identityHandler := handlers.NewIdentityHandler(svcs.Risk, log)
	checkoutHandler := handlers.NewCheckoutHandler(svcs.Checkout, cfg.IsProduction(), log)

	v1 := r.Group("/api/v1")
	{
		// Клиенты
		customers := v1.Group("/customers")
		{
			customers.POST("", customerHandler.UpsertCustomer)
		}

		// Проверка телефона/личности
		identity := v1.Group("/identity")
		{
			identity.POST("/check", identityHandler.CheckIdentity)
		}

		// Платежные интенты подписок
		subscriptions := v1.Group("/subscriptions")
		{
			subscriptions.POST("/intent", checkoutHandler.CreateIntent)
		}
	}

	return r
}
