package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"driver-scheduler/internal/config"
	"driver-scheduler/internal/database"
	"driver-scheduler/internal/events"
	"driver-scheduler/internal/grpcweb"
	"driver-scheduler/internal/handler"
	"driver-scheduler/internal/middleware"
	"driver-scheduler/internal/rpc"
	"driver-scheduler/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	for _, w := range cfg.Warnings() {
		log.Printf("warning: %s", w)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// database
	st, err := database.Open(ctx, cfg.DatabaseURL, cfg.DBName)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer st.Close(context.Background())
	log.Printf("connected to %s", database.Driver(cfg.DatabaseURL))

	// events
	var pub events.Publisher = events.Log{}
	if cfg.RedisURL != "" {
		rp, err := events.DialRedis(ctx, cfg.RedisURL, cfg.EventChannel)
		if err != nil {
			log.Printf("redis unavailable, logging events instead: %v", err)
		} else {
			defer rp.Close()
			pub = rp
			log.Printf("publishing events to redis channel %s", cfg.EventChannel)
		}
	}

	svc := service.New(st, service.Options{
		Secret:       cfg.JWTSecret,
		Password:     cfg.Password,
		PasswordHash: cfg.PasswordHash,
		Events:       pub,
		ReportFont:   cfg.ReportFont,
	})
	rl := middleware.NewRateLimiter(ctx, cfg.LoginRPS, cfg.LoginBurst)

	// grpc server
	srv := rpc.NewServer(ctx, svc, rl)
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	go func() {
		log.Printf("grpc on :%s", cfg.GRPCPort)
		if err := srv.Serve(lis); err != nil {
			log.Printf("grpc: %v", err)
		}
	}()

	// grpc-web bridge -> forwards browser requests to grpc on localhost
	bridge, err := grpcweb.New("localhost:" + cfg.GRPCPort)
	if err != nil {
		log.Fatalf("bridge: %v", err)
	}
	defer bridge.Close()

	router := handler.NewRouter(handler.New(svc), handler.RouterOptions{
		CORSOrigins:  cfg.CORSOrigins,
		LoginLimiter: rl,
		GRPCWeb:      bridge.Handler(),
	})

	httpSrv := &http.Server{
		Addr:              ":" + cfg.WebPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("http on :%s", cfg.WebPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http: %v", err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	srv.GracefulStop()
}
