package bootstrap

import (
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/go-shop-backend/config"
	httpapi "github.com/GoSim-25-26J-441/go-shop-backend/internal/api/http"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/api/http/middleware"
	authhttp "github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/http"
	authmw "github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/middleware"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/policy"
	authrepo "github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/repository"
	authsvc "github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/service"
	carthttp "github.com/GoSim-25-26J-441/go-shop-backend/internal/cart/http"
	cartrepo "github.com/GoSim-25-26J-441/go-shop-backend/internal/cart/repository"
	cartsvc "github.com/GoSim-25-26J-441/go-shop-backend/internal/cart/service"
	cataloghttp "github.com/GoSim-25-26J-441/go-shop-backend/internal/catalog/http"
	catalogrepo "github.com/GoSim-25-26J-441/go-shop-backend/internal/catalog/repository"
	catalogsvc "github.com/GoSim-25-26J-441/go-shop-backend/internal/catalog/service"
	dashhttp "github.com/GoSim-25-26J-441/go-shop-backend/internal/dashboard/http"
	dashrepo "github.com/GoSim-25-26J-441/go-shop-backend/internal/dashboard/repository"
	dashsvc "github.com/GoSim-25-26J-441/go-shop-backend/internal/dashboard/service"
	dirhttp "github.com/GoSim-25-26J-441/go-shop-backend/internal/directory/http"
	dirrepo "github.com/GoSim-25-26J-441/go-shop-backend/internal/directory/repository"
	dirsvc "github.com/GoSim-25-26J-441/go-shop-backend/internal/directory/service"
	learnhttp "github.com/GoSim-25-26J-441/go-shop-backend/internal/learning/http"
	learnrepo "github.com/GoSim-25-26J-441/go-shop-backend/internal/learning/repository"
	learnsvc "github.com/GoSim-25-26J-441/go-shop-backend/internal/learning/service"
	notifhttp "github.com/GoSim-25-26J-441/go-shop-backend/internal/notifications/http"
	notifrepo "github.com/GoSim-25-26J-441/go-shop-backend/internal/notifications/repository"
	notifsvc "github.com/GoSim-25-26J-441/go-shop-backend/internal/notifications/service"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/orders/events"
	ordershttp "github.com/GoSim-25-26J-441/go-shop-backend/internal/orders/http"
	ordersrepo "github.com/GoSim-25-26J-441/go-shop-backend/internal/orders/repository"
	orderssvc "github.com/GoSim-25-26J-441/go-shop-backend/internal/orders/service"
	taskshttp "github.com/GoSim-25-26J-441/go-shop-backend/internal/tasks/http"
	tasksrepo "github.com/GoSim-25-26J-441/go-shop-backend/internal/tasks/repository"
	taskssvc "github.com/GoSim-25-26J-441/go-shop-backend/internal/tasks/service"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/tracing"
	uploadhttp "github.com/GoSim-25-26J-441/go-shop-backend/internal/uploads/http"
	uploadsvc "github.com/GoSim-25-26J-441/go-shop-backend/internal/uploads/service"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/uploads/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Config    *config.Config
	Log       *zap.Logger
	DB        *pgxpool.Pool
	Redis     *redis.Client
	Tasks     *tasksrepo.FileStore
	Uploads   storage.Store
	UploadDir string // served at Config.Uploads.PublicURL when set
	Publisher events.Publisher
	Tracer    oteltrace.Tracer
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	cfg := dep.Config
	log := dep.Log

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(log))
	if dep.Tracer != nil {
		r.Use(tracing.Middleware(dep.Tracer))
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	var dbPinger httpapi.DBPinger
	if dep.DB != nil {
		dbPinger = dep.DB
	}
	var redisPinger httpapi.RedisPinger
	if dep.Redis != nil {
		redisPinger = dep.Redis
	}
	httpapi.NewHealthHandler("go-shop-backend", cfg.App.Version, dbPinger, redisPinger).RegisterRoutes(r)

	if dep.UploadDir != "" {
		r.Static(cfg.Uploads.PublicURL, dep.UploadDir)
	}

	// repositories
	users := authrepo.NewUserRepository(dep.DB)
	refresh := authrepo.NewRefreshTokenStore(dep.Redis)
	members := dirrepo.NewMemberRepository(dep.DB)
	categories := catalogrepo.NewCategoryRepository(dep.DB)
	shops := catalogrepo.NewShopRepository(dep.DB)
	products := catalogrepo.NewProductRepository(dep.DB)
	carts := cartrepo.NewCartRepository(dep.Redis)
	orders := ordersrepo.NewOrderRepository(dep.DB)
	inbox := notifrepo.NewInboxRepository(dep.Redis)
	dashboard := dashrepo.NewDashboardRepository(dep.DB)
	quizzes := learnrepo.NewQuizRepository(dep.DB)
	games := learnrepo.NewGameRepository(dep.DB)
	content := learnrepo.NewContentRepository(dep.DB)

	// services
	issuer := authsvc.NewTokenIssuer(authsvc.TokenConfig{
		Secret:    []byte(cfg.Auth.JWTSecret),
		Issuer:    cfg.Auth.Issuer,
		Audience:  cfg.Auth.Audience,
		AccessTTL: cfg.Auth.AccessTTL,
	})
	authService := authsvc.NewAuthService(users, refresh, issuer, cfg.Auth.RefreshTTL, log.Named("auth"))
	orderService := orderssvc.NewOrderService(orders, carts, dep.Publisher, log.Named("orders"))

	enforcer, err := policy.NewEnforcer(policy.DefaultPolicies, log.Named("policy"))
	if err != nil {
		return nil, fmt.Errorf("policy: %w", err)
	}

	authHandler := authhttp.New(authService, log)
	catalogHandler := cataloghttp.New(
		catalogsvc.NewCategoryService(categories),
		catalogsvc.NewShopService(shops, log.Named("shops")),
		catalogsvc.NewProductService(products, shops, log.Named("products")),
		log,
	)
	learningHandler := learnhttp.New(
		learnsvc.NewQuizService(quizzes, log.Named("quizzes")),
		learnsvc.NewGameService(games),
		learnsvc.NewContentService(content),
		log,
	)

	api := r.Group("/api/v1")
	api.Use(middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware())

	public := api.Group("")
	public.Use(authmw.OptionalAuth(issuer))
	authHandler.RegisterPublic(public)
	catalogHandler.RegisterPublic(public)
	learningHandler.RegisterPublic(public)
	if dep.Tasks != nil {
		taskshttp.New(taskssvc.NewTaskService(dep.Tasks, log.Named("tasks")), log).Register(public)
	}

	protected := api.Group("")
	protected.Use(authmw.RequireAuth(issuer), enforcer.Authorize())
	authHandler.RegisterProtected(protected)
	catalogHandler.RegisterProtected(protected)
	learningHandler.RegisterProtected(protected)
	dirhttp.New(dirsvc.NewDirectoryService(members), log).Register(protected)
	carthttp.New(cartsvc.NewCartService(carts, products, log.Named("cart")), log).Register(protected)
	ordershttp.New(orderService, log).Register(protected)
	notifhttp.New(notifsvc.NewNotificationService(inbox), log).Register(protected)
	dashhttp.New(dashsvc.NewDashboardService(dashboard), log).Register(protected)
	if dep.Uploads != nil {
		svc := uploadsvc.NewUploadService(dep.Uploads, cfg.Uploads.MaxBytes, log.Named("uploads"))
		uploadhttp.New(svc, log).Register(protected)
	}

	return r, nil
}
