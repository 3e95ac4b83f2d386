package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"travelagency/config"
	"travelagency/cron"
	"travelagency/database"
	"travelagency/database/repository/remote"
	"travelagency/handlers"
	"travelagency/middleware"
	"travelagency/routes"
	"travelagency/services/account"
	"travelagency/services/booking"
	"travelagency/services/flight"
	ai "travelagency/services/intelligence"
	"travelagency/services/notification"
	"travelagency/services/reservation"
	"travelagency/services/tasks"
	"travelagency/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()
	cfg := config.AppConfig

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The store keeps serving from the local cache while MongoDB is down.
	var remoteStore remote.Store = remote.Offline{}
	if err := database.InitDB(); err != nil {
		logger.Warn("main: MongoDB unavailable, starting in offline mode", zap.Error(err))
	}
	if database.MongoClient != nil {
		remoteStore = remote.NewMongoStore(database.MongoClient, cfg.DatabaseName, cfg.RemoteTimeout)
	}

	if err := utils.InitRedis(); err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	if err := utils.FirebaseInit(); err != nil {
		logger.Warn("main: push notifications disabled", zap.Error(err))
	}

	var (
		cache        reservation.LocalCache = reservation.NewMemoryCache()
		accountKV    account.KeyValue       = reservation.NewMemoryCache()
		wizardStore  booking.SessionStore   = booking.NewMemorySessionStore(booking.SessionTTL)
		codeStore    account.CodeStore      = account.NewMemoryCodeStore()
		contextStore ai.ContextStore        = ai.NewMemoryContextStore()
		offerCache   flight.OfferCache      = flight.NewMemoryOfferCache(flight.OfferTTL)
	)
	if utils.RedisEnabled() {
		cache = reservation.NewRedisCache(utils.GetCacheClient(), cfg.CachePrefix)
		accountKV = reservation.NewRedisCache(utils.GetSessionClient(), cfg.CachePrefix)
		wizardStore = booking.NewRedisSessionStore(utils.GetSessionClient(), booking.SessionTTL)
		codeStore = account.NewRedisCodeStore(utils.GetSessionClient())
		contextStore = ai.NewRedisContextStore(utils.GetSessionClient(), 30*time.Minute)
		offerCache = flight.NewRedisOfferCache(utils.GetSessionClient(), flight.OfferTTL)
	}

	seed := reservation.DefaultSeedPackages()
	if cfg.SeedCatalogFile != "" {
		loaded, err := reservation.LoadSeedFile(cfg.SeedCatalogFile)
		if err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
		seed = loaded
	}
	store := reservation.NewStore(remoteStore, cache, reservation.Options{
		SeedPackages: seed,
		MinTopUp:     cfg.WalletMinTopUp,
		Logger:       logger,
	})
	store.Sync(ctx)

	// services.
	flightProvider := flight.NewHTTPProvider(cfg.FlightAPIURL, cfg.FlightAPIKey, cfg.RemoteTimeout, offerCache)
	notificationService := notification.New(utils.FCMClient)
	mailer := notification.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFrom, cfg.MailFromName)

	bookingService := &booking.DefaultBookingService{
		Store:           store,
		Sessions:        wizardStore,
		NotificationSvc: notificationService,
		Config: booking.WizardConfig{
			Pricing:            booking.PricingPolicy{ChildRatio: cfg.PricingChildRatio, BabyRatio: cfg.PricingBabyRatio},
			AllowDeferredProof: cfg.AllowDeferredProof,
		},
		Flights: booking.FlightPricing{ExchangeRate: cfg.FlightExchangeRate, Markup: cfg.FlightMarkup},
		Offers:  flightProvider,
	}

	accountService := &account.DefaultAccountService{
		Store:         store,
		Session:       account.NewSession(accountKV),
		Codes:         codeStore,
		Mailer:        mailer,
		HashPasswords: cfg.HashPasswords,
		AllowBypass:   !config.IsProduction(),
	}
	accountService.Subscribe(func(ev account.SessionEvent) {
		if ev.User == nil {
			logger.Info("Session ended", zap.String("user", ev.UserID))
			return
		}
		logger.Info("Session started", zap.String("user", ev.UserID), zap.String("role", ev.User.Role))
	})

	var generator ai.TextGenerator
	if cfg.GeminiAPIKey != "" {
		gemini, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, "")
		if err != nil {
			logger.Warn("main: Gemini unavailable, chat uses local replies", zap.Error(err))
		} else {
			defer gemini.Close()
			generator = gemini
		}
	}
	aiService := ai.NewAIService(generator, contextStore, store)


	broadcaster := &tasks.Broadcaster{Subscribers: store, Mailer: mailer}
	if utils.RedisEnabled() {
		queue := asynq.NewClient(cron.RedisOpt())
		defer queue.Close()
		broadcaster.Queue = queue
		cron.InitBroadcastWorker(ctx, broadcaster)
	}

	var storageHandler *handlers.StorageHandler
	if cloudinaryStorageService, err := utils.Cloudinary(); err != nil {
		logger.Warn("main: uploads disabled", zap.Error(err))
	} else {
		storageHandler = handlers.NewStorageHandler(cloudinaryStorageService)
	}

	utils.StartHealthMonitor(ctx, utils.RedisClients(), database.MongoClient)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	handlerBundle := &handlers.HandlerBundle{
		Packages:    handlers.NewPackageHandler(store),
		Bookings:    handlers.NewBookingHandler(store),
		Wizard:      handlers.NewWizardHandler(bookingService),
		Wallet:      handlers.NewWalletHandler(store, notificationService),
		Account:     handlers.NewAccountHandler(accountService),
		Subscribers: handlers.NewSubscriberHandler(store, broadcaster),
		AI:          handlers.NewAIHandler(aiService),
		Flights:     handlers.NewFlightHandler(flightProvider, bookingService),
		Storage:     storageHandler,
		Admin:       handlers.NewAdminHandler(store, accountService),
	}
	routes.RegisterRoutes(router, handlerBundle)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	database.Disconnect(shutdownCtx)
	logger.Sugar().Info("main: server stopped gracefully")
}
