package main

import (
	"flag"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/JoeShih716/go-mem-point/api/pointrpc"
	grpc_adapter "github.com/JoeShih716/go-mem-point/internal/app/core/adapter/in/grpc"
	rest_adapter "github.com/JoeShih716/go-mem-point/internal/app/core/adapter/in/rest"
	memory_adapter "github.com/JoeShih716/go-mem-point/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-mem-point/internal/app/core/usecase"
	"github.com/JoeShih716/go-mem-point/internal/config"
	"github.com/JoeShih716/go-mem-point/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the yaml config file")
	dotenvPath := flag.String("env", ".env", "optional dotenv file, ignored when missing")
	flag.Parse()

	// 1. 載入設定
	cfg, err := config.Load(*configPath, *dotenvPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// 2. Logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	// 3. 記憶體帳本 (餘額表 + 交易紀錄)
	balances := memory_adapter.NewBalanceTable()
	histories := memory_adapter.NewHistoryTable()

	// 4. 初始化 UseCase
	core := usecase.NewPointUseCase(balances, histories)

	// 5. gRPC Server
	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		log.Error("Failed to listen", "addr", cfg.GRPC.Addr, "error", err)
		os.Exit(1)
	}
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(grpc_adapter.UnaryLogging(log)))
	pointrpc.RegisterPointServiceServer(grpcServer, grpc_adapter.NewGrpcServer(core, log))
	healthServer := health.NewServer()
	healthServer.SetServingStatus(pointrpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer) // 方便 grpcurl 等工具測試

	go func() {
		log.Info("Starting gRPC server", "addr", cfg.GRPC.Addr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("gRPC server stopped", "error", err)
		}
	}()

	// 6. REST Server (fiber)
	app := rest_adapter.NewApp(rest_adapter.NewPointHandler(core, log), log, rest_adapter.Options{
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	})
	go func() {
		log.Info("Starting HTTP server", "addr", cfg.HTTP.Addr)
		if err := app.Listen(cfg.HTTP.Addr); err != nil {
			log.Error("HTTP server stopped", "error", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	healthServer.Shutdown()
	if err := app.Shutdown(); err != nil {
		log.Error("HTTP server shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	log.Info("Server exited")
}
