package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-eshop-core.git/internal/app"
	"github.com/ariefcatur/go-eshop-core.git/internal/auth"
	"github.com/ariefcatur/go-eshop-core.git/internal/config"
	"github.com/ariefcatur/go-eshop-core.git/internal/events"
	"github.com/ariefcatur/go-eshop-core.git/internal/httpx"
	"github.com/ariefcatur/go-eshop-core.git/internal/importer"
	kafkax "github.com/ariefcatur/go-eshop-core.git/internal/kafka"
	"github.com/ariefcatur/go-eshop-core.git/internal/logger"
	"github.com/ariefcatur/go-eshop-core.git/internal/postgres"
	"github.com/ariefcatur/go-eshop-core.git/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", "error", err)
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatal("ensure schema", "error", err)
	}

	// Redis
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, 1024)
	prod.Start(ctx)

	// Dispatcher + post-commit handlers
	disp := events.NewDispatcher(log)

	st := store.New(store.PoolDB{Pool: db}, disp, log)

	relay := &events.KafkaRelay{Producer: prod, Service: cfg.ServiceName}
	relay.Register(disp)
	cache := &events.StatusCache{Redis: rdb}
	cache.Register(disp)
	activity := &events.ActivityRecorder{Activity: st.Activity}
	activity.Register(disp)

	// One-shot import before the service accepts traffic.
	imp := &importer.Importer{
		Store:      st,
		UoW:        func() importer.Coordinator { return st.NewUnitOfWork() },
		AdminEmail: cfg.AdminEmail,
		Log:        log,
	}
	if err := imp.ImportIfNeeded(ctx, cfg.DatasetPath); err != nil {
		log.Fatal("data import", "error", err)
	}

	// Services & handlers
	issuer := auth.NewTokenIssuer(cfg.JWTSecret)
	authSvc := &app.AuthService{
		Accounts: st.Users,
		Tokens:   issuer,
		UoW:      func() app.Coordinator { return st.NewUnitOfWork() },
		Log:      log,
	}
	orderSvc := &app.OrderService{
		Orders:    st.Orders,
		Customers: st.Customers,
		Products:  st.Products,
		UoW:       func() app.Coordinator { return st.NewUnitOfWork() },
		Log:       log,
	}
	customerSvc := &app.CustomerService{
		Customers: st.Customers,
		UoW:       func() app.Coordinator { return st.NewUnitOfWork() },
		Log:       log,
	}

	router := httpx.NewRouter()
	h := &httpx.Handler{Auth: authSvc, Orders: orderSvc, Customers: customerSvc}
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("HTTP listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", "error", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // close inbox -> flush & close writer
	cancel()          // stop producer loop
	prod.WaitClosed() // drain
}
