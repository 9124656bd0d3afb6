package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/investtrack-backend/internal/adapter/grpc"
	"github.com/simaogato/investtrack-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/investtrack-backend/internal/config"
	"github.com/simaogato/investtrack-backend/internal/logging"
	"github.com/simaogato/investtrack-backend/internal/usecase/dashboard"
	"github.com/simaogato/investtrack-backend/internal/usecase/simulation"
)

var configFile = flag.String("config", "investtrack.toml", "Path to the TOML configuration file")

func main() {
	flag.Parse()

	// 1. Configuration
	bootLogger := logging.NewLogger("info")
	if err := config.LoadDotEnv(".env"); err != nil {
		bootLogger.Fatal().Err(err).Msg("Failed to load .env")
	}
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		bootLogger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger := logging.NewLogger(cfg.Logging.Level)

	if cfg.IsProduction() && cfg.Server.APIToken == config.DefaultAPIToken {
		logger.Warn().Msg("Running in production with the default API token")
	}

	// 2. Setup Database
	// Simple retry while Postgres comes up
	var db *postgres.DB
	for attempt := 1; ; attempt++ {
		db, err = postgres.NewDB(cfg.Database.ConnString())
		if err == nil {
			break
		}
		if attempt == 5 {
			logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		logger.Warn().Err(err).Int("attempt", attempt).Msg("Database not ready, retrying")
		time.Sleep(2 * time.Second)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to apply schema")
	}

	// 3. Initialize Repositories (Postgres)
	portfolioRepo := postgres.NewPortfolioRepository(db)
	simulationRepo := postgres.NewSimulationRepository(db)

	// 4. Initialize Services (Use Cases)
	simulationService := simulation.NewSimulationService(simulationRepo, logger)
	dashboardService := dashboard.NewDashboardService(portfolioRepo, simulationRepo, logger)

	// 5. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(logger.Component("grpc")),
			grpcadapter.AuthInterceptor(cfg.Server.APIToken),
		),
	)

	grpcAdapter := grpcadapter.NewServer(simulationService, dashboardService, cfg.Display.Currency)
	grpcadapter.RegisterInvestTrackServiceServer(grpcServer, grpcAdapter)

	reflection.Register(grpcServer)

	addr := cfg.Server.Address()
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatal().Err(err).Str("address", addr).Msg("Failed to listen")
	}

	go func() {
		logger.Info().Str("address", addr).Str("environment", cfg.Environment).Msg("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			logger.Fatal().Err(err).Msg("Failed to serve gRPC server")
		}
	}()

	waitForShutdown(grpcServer, logger)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(grpcServer *grpclib.Server, logger *logging.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")

	grpcServer.GracefulStop()
	logger.Info().Msg("gRPC server stopped")
}
