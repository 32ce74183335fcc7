package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"simpus_backend/internals/configs"
	database "simpus_backend/internals/databases"
	"simpus_backend/internals/features/access"
	penaltyService "simpus_backend/internals/features/library/penalties/service"
	"simpus_backend/internals/features/library/transactions/events"
	"simpus_backend/internals/features/library/transactions/repository"
	txScheduler "simpus_backend/internals/features/library/transactions/scheduler"
	loanService "simpus_backend/internals/features/library/transactions/service"
	authScheduler "simpus_backend/internals/features/users/auth/scheduler"
	authService "simpus_backend/internals/features/users/auth/service"
	"simpus_backend/internals/middlewares"
	routes "simpus_backend/internals/route"
)

var (
	servePort    string
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Jalankan HTTP API beserta scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port HTTP (default ENV PORT atau 3000)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "AutoMigrate sebelum server jalan")
}

func serve(ctx context.Context) error {
	policy := configs.LoadLibraryPolicy()
	if servePort == "" {
		servePort = configs.GetEnv("PORT", "3000")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close(db)
	if serveMigrate {
		if err := database.Migrate(ctx, db, logger); err != nil {
			return err
		}
	}
	database.WarmUpQueries(ctx, db, logger)

	// event: log + outbox + pg_notify, lewat buffer supaya request tidak menunggu
	sink := events.NewAsyncSink(events.Multi{
		events.LogSink{Log: logger},
		events.OutboxSink{DB: db},
		events.NotifySink{DB: db},
	}, policy.EventBuffer, logger)

	checker := access.NewRoleTable()
	loans := loanService.NewLoanService(repository.NewGormStore(db), checker, sink,
		loanService.WithPolicy(loanService.PolicyFromConfig(policy)),
		loanService.WithLocation(policy.Location()),
		loanService.WithLogger(logger),
	)

	var google authService.GoogleVerifier
	if configs.GoogleClientID != "" {
		google = authService.NewGoogleVerifier(configs.GoogleClientID)
	}
	var gateway penaltyService.Gateway
	if configs.MidtransServerKey != "" {
		gateway = penaltyService.NewMidtransGateway(configs.MidtransServerKey, configs.MidtransUseProd)
	}

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           90 * time.Second,
	})
	middlewares.SetupMiddlewares(app, logger, policy.Timezone)
	routes.SetupRoutes(app, routes.Deps{
		DB:        db,
		Log:       logger,
		Policy:    policy,
		Checker:   checker,
		Auth:      authService.NewAuthService(db, google, logger),
		Loans:     loans,
		Penalties: penaltyService.NewPenaltyService(db, gateway, logger),
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("✅ Listening", zap.String("port", servePort))
		if err := app.Listen("0.0.0.0:" + servePort); err != nil {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})
	g.Go(func() error {
		return txScheduler.RunOverdueSweeper(gctx, loans, policy.OverdueSweepInterval, policy.Location(), logger)
	})
	g.Go(func() error {
		return authScheduler.RunBlacklistCleanup(gctx, db, configs.GetEnvInt("TOKEN_BLACKLIST_TTL_DAYS", 7), 24*time.Hour, logger)
	})
	if policy.EventsListen {
		ln := &events.Listener{
			DSN: database.DSN(),
			Log: logger,
			Handle: func(e events.Event) {
				logger.Info("[NOTIF] kirim notifikasi ke anggota",
					zap.String("type", string(e.Type)),
					zap.String("member_id", e.MemberID.String()),
					zap.String("code", e.Code),
				)
			},
		}
		g.Go(func() error { return ln.Run(gctx) })
	}

	err = g.Wait()

	// buang sisa antrian event sebelum pool DB ditutup
	drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if cerr := sink.Close(drainCtx); cerr != nil {
		logger.Warn("[EVENT] antrian tidak habis saat shutdown", zap.Error(cerr))
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("👋 server berhenti")
	return nil
}
