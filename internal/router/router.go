package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/treinasus/admin-api/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine        *gin.Engine
	auth          *middleware.AuthMiddleware
	authH         Handler
	healthH       Handler
	professionalH Handler
	unitH         Handler
	instructorH   Handler
	trainingH     Handler
	classH        Handler
	appointmentH  Handler
	messagingH    Handler
	userH         Handler
	auditH        Handler
	metrics       *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

type Config struct {
	RateLimitRPS  float64
	RateBurst     int
	CORSConfig    middleware.CORSConfig
	MetricsPrefix string
}

func NewRouter(
	logger *zerolog.Logger,
	auth *middleware.AuthMiddleware,
	authH Handler,
	healthH Handler,
	professionalH Handler,
	unitH Handler,
	instructorH Handler,
	trainingH Handler,
	classH Handler,
	appointmentH Handler,
	messagingH Handler,
	userH Handler,
	auditH Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:        engine,
		auth:          auth,
		authH:         authH,
		healthH:       healthH,
		professionalH: professionalH,
		unitH:         unitH,
		instructorH:   instructorH,
		trainingH:     trainingH,
		classH:        classH,
		appointmentH:  appointmentH,
		messagingH:    messagingH,
		userH:         userH,
		auditH:        auditH,
		metrics:       initRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		r.metricsMiddleware(),
		middleware.CORS(config.CORSConfig),
	)

	rateLimiter := middleware.NewRateLimiter(config.RateLimitRPS, config.RateBurst)
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	r.healthH.RegisterRoutes(api)
	api.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	r.authH.RegisterRoutes(api)

	// Protected routes
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	r.professionalH.RegisterRoutes(protected)
	r.unitH.RegisterRoutes(protected)
	r.instructorH.RegisterRoutes(protected)
	r.trainingH.RegisterRoutes(protected)
	r.classH.RegisterRoutes(protected)
	r.appointmentH.RegisterRoutes(protected)
	r.messagingH.RegisterRoutes(protected)

	// Admin-only surface
	admin := protected.Group("")
	admin.Use(r.auth.RequireAdmin())

	r.userH.RegisterRoutes(admin)
	r.auditH.RegisterRoutes(admin)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
