package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/you/dockside-market/internal/account"
	"github.com/you/dockside-market/internal/cache"
	"github.com/you/dockside-market/internal/market"
	"github.com/you/dockside-market/internal/memstore"
	"github.com/you/dockside-market/internal/netwatch"
	"github.com/you/dockside-market/internal/notify"
	"github.com/you/dockside-market/internal/payments"
	"github.com/you/dockside-market/internal/repository"
	"github.com/you/dockside-market/internal/storage"
	"github.com/you/dockside-market/internal/transport/http/handlers"
	"github.com/you/dockside-market/internal/transport/http/middlewares"
	"github.com/you/dockside-market/internal/verify"
	"github.com/you/dockside-market/pkg/config"
	"github.com/you/dockside-market/pkg/db"
	"github.com/you/dockside-market/pkg/mq"
	"github.com/you/dockside-market/pkg/obs"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	shutdown := obs.InitTracer("market-api")
	defer func() { _ = shutdown(context.Background()) }()

	deps := market.Deps{Notifier: notify.NewConsole()}

	// Postgres when configured; in-memory demo state otherwise.
	if cfg.PGMarketDSN != "" {
		gdb := db.Open(cfg.PGMarketDSN)
		resRepo := repository.NewReservationRepo(gdb)
		lstRepo := repository.NewListingRepo(gdb)
		appRepo := repository.NewApplicantRepo(gdb)
		actRepo := repository.NewActionRepo(gdb)
		must(resRepo.Migrate())
		must(lstRepo.Migrate())
		must(appRepo.Migrate())
		must(actRepo.Migrate())
		deps.Reservations, deps.Listings, deps.Applicants, deps.Actions = resRepo, lstRepo, appRepo, actRepo

		userRepo := account.NewUserRepo(gdb)
		must(userRepo.Migrate())
		accounts := account.NewService(userRepo, time.Duration(cfg.JWTExpireMin)*time.Minute)
		run(cfg, deps, accounts)
		return
	}

	log.Println("[api] no PG_MARKET_DSN, running on in-memory demo state")
	listings := memstore.NewListings()
	listings.SeedDemo(time.Now().UTC())
	deps.Reservations = memstore.NewReservations()
	deps.Listings = listings
	deps.Applicants = memstore.NewApplicants()
	deps.Actions = memstore.NewActions()
	run(cfg, deps, nil)
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func run(cfg config.App, deps market.Deps, accounts *account.Service) {
	if cfg.RabbitURL != "" {
		pub, err := mq.NewPublisher(cfg.RabbitURL, cfg.MarketExchange)
		if err != nil {
			log.Printf("[api] rabbitmq unavailable, events disabled: %v", err)
		} else {
			defer pub.Close()
			deps.Publisher = pub
		}
	}
	if cfg.VerifyBaseURL != "" {
		deps.Verifier = verify.NewRemoteClient(cfg.VerifyBaseURL)
	}
	if cfg.DocsBaseURL != "" {
		deps.Uploader = storage.NewUploader(cfg.DocsBaseURL)
	}
	if cfg.OmiseSecretKey != "" {
		gw, err := payments.NewGateway(cfg.OmisePublicKey, cfg.OmiseSecretKey)
		if err != nil {
			log.Printf("[api] omise disabled: %v", err)
		} else {
			deps.Payments = gw
		}
	}

	svc := market.NewService(deps)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watcher := netwatch.New(cfg.ProbeURL, 15*time.Second, svc.SetOnline)
	go watcher.Run(ctx)

	var listingCache *cache.Listings
	if cfg.RedisAddr != "" {
		listingCache = cache.NewListings(cfg.RedisAddr, 30*time.Second)
		defer listingCache.Close()
	}

	r := gin.Default()
	lh := handlers.NewListingHandler(svc, listingCache)
	rh := handlers.NewReservationHandler(svc)
	vh := handlers.NewVerificationHandler(svc)
	sh := handlers.NewSyncHandler(svc)

	v1 := r.Group("/v1")
	{
		if accounts != nil {
			ah := handlers.NewAuthHandler(accounts)
			v1.POST("/auth/register", ah.Register)
			v1.POST("/auth/login", ah.Login)
		}

		v1.GET("/ports", lh.Ports)
		v1.GET("/listings", lh.List)

		secured := v1.Group("")
		secured.Use(middlewares.JWTAuth())
		{
			secured.POST("/listings", lh.Create)

			secured.POST("/checkout", rh.Checkout)
			secured.GET("/reservations", rh.List)
			secured.GET("/reservations/:id", rh.Get)
			secured.POST("/reservations/:id/confirm", rh.Confirm)
			secured.POST("/reservations/:id/reject", rh.Reject)
			secured.POST("/reservations/:id/pickup", rh.Pickup)
			secured.POST("/reservations/:id/delivery", rh.Delivery)
			secured.POST("/reservations/:id/conformity", rh.Conformity)
			secured.POST("/reservations/:id/release", rh.Release)
			secured.POST("/reservations/:id/arrival/request", rh.RequestArrival)
			secured.POST("/reservations/:id/arrival/confirm", rh.ConfirmArrival)
			secured.POST("/reservations/:id/arrival/declare", rh.DeclareArrival)
			secured.POST("/reservations/:id/delay", rh.Delay)
			secured.POST("/reservations/:id/cancel-late", rh.CancelLate)

			secured.POST("/verification/fisher", vh.SubmitFisher)
			secured.POST("/verification/buyer", vh.SubmitBuyer)
			secured.GET("/verification/me", vh.Me)
			secured.GET("/verification/me/history", vh.History)

			secured.GET("/sync/status", sh.Status)
			secured.POST("/sync/flush", sh.Flush)
			secured.GET("/sync/history", sh.History)

			admin := secured.Group("")
			admin.Use(middlewares.RequireRole("admin"))
			admin.POST("/reservations/:id/dispute", rh.ResolveDispute)
			admin.POST("/admin/reset", rh.Reset)
		}
	}

	log.Println("[api] listening on", cfg.APIHTTPAddr)
	log.Fatal(r.Run(cfg.APIHTTPAddr))
}
