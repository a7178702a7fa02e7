package main

import (
	"context"
	"errors"
	"fmt"
	"market-lab/auth"
	"market-lab/domain/event"
	"market-lab/infrastructure/grpc/server"
	"market-lab/infrastructure/web"
	"market-lab/internal"
	"market-lab/runtime"
	"market-lab/runtime/workers"
	"market-lab/services"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and owns the lifecycle so deferred cleanups
// always run before the process exits.
func run() (int, error) {
	// 1. Configuration & Logger
	config, err := internal.Load(".env")
	if err != nil {
		return exitConfig, err
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Storage
	store, err := openBackend(ctx, config, logger)
	if err != nil {
		return exitRuntime, err
	}
	defer store.close()

	// 3. Live updates: services publish, the supervised fanout delivers
	events := make(chan event.DomainEvent, config.EventBufferSize)
	registry := runtime.NewRegistry()
	fanout := workers.NewEventFanout(logger, events, registry, config.SinkTimeout)
	sup := workers.NewSupervisor(logger, config.RestartInterval)
	reporter := workers.NewReporterWorker(logger, registry, events, config.ReportInterval)
	sup.Add(fanout, reporter)
	supervisorDone := make(chan struct{})
	go func() {
		defer close(supervisorDone)
		sup.Run(ctx)
	}()

	// 4. Services
	tokens := auth.NewTokenIssuer(config.JwtSecret, config.JwtIssuer, config.AuthTokenDuration)
	conversationService := services.NewConversationService(logger, store.conversations)
	messageService := services.NewMessageService(logger, conversationService, store.messages, events)
	hireService := services.NewHireService(logger, store.hires, events)
	accountService := services.NewAccountService(logger, store.profiles, store.roster)
	identityService := services.NewIdentityService(logger, store.profiles, store.roster, tokens)

	errChan := make(chan error, 2)

	// 5. gRPC Server
	listener, err := net.Listen("tcp", config.GrpcAddress())
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", config.GrpcAddress(), err)
	}
	s := server.New(logger, tokens, config.RequestTimeout,
		server.NewConversationServer(logger, conversationService, messageService, registry, config.SubscriberBufferSize),
		server.NewHireServer(logger, hireService),
		server.NewAccountServer(logger, accountService))

	go func() {
		logger.Info("Starting gRPC server", "address", config.GrpcAddress(), "at", time.Now().UTC())
		for serviceName := range s.GetServiceInfo() {
			logger.Debug("📡 gRPC exposed services", "name", serviceName)
		}
		if err := s.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 6. HTTP sign-in endpoints
	verifier := web.NewGoogleVerifier(config.GoogleClientID, config.GoogleClientSecret, config.GoogleRedirectURL)
	handler := web.NewAuthHandler(logger, verifier, identityService,
		web.NewStateSigner(config.JwtSecret, config.JwtIssuer),
		web.Redirects{FrontendURL: config.FrontendURL, CallbackPath: config.CallbackPath, FailurePath: config.FailurePath})
	httpServer := &http.Server{
		Addr:              config.HttpAddress(),
		Handler:           web.NewRouter(logger, handler, config.Origins()),
		ReadHeaderTimeout: config.RequestTimeout,
		ReadTimeout:       config.RequestTimeout,
		WriteTimeout:      config.RequestTimeout,
	}
	go func() {
		logger.Info("Starting HTTP server", "address", config.HttpAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	code := exitOK
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errChan:
		code = exitRuntime
	}

	// 8. Final Cleanup (Graceful Shutdown)
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.RequestTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}
	stopped := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		// Live subscriptions never end on their own.
		s.Stop()
	}
	stop()
	<-supervisorDone
	logger.Info("Program stopped cleanly")

	return code, runErr
}
