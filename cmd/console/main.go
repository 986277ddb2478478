package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/jrsteele09/monitor-dashboard/api"
	"github.com/jrsteele09/monitor-dashboard/internal/config"
	"github.com/jrsteele09/monitor-dashboard/internal/obs"
	"github.com/jrsteele09/monitor-dashboard/server"
	"github.com/jrsteele09/monitor-dashboard/tokenstore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Ignoring .env: %v\n", err)
	}
	for {
		if err := run(); err != nil {
			log.Printf("Error running console: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Console stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	logger := obs.NewLogger(c.GetEnv(), c.GetLogLevel())
	obs.SetGlobal(logger)
	displayAppname(c.GetAppName())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := obs.NewMetrics(reg)

	client, err := api.New(c.GetAPIBaseURL(),
		api.WithTimeout(c.GetRequestTimeout()),
		api.WithMetrics(metrics),
		api.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("api client: %w", err)
	}

	tokens, closeTokens, err := tokenStore(c)
	if err != nil {
		return err
	}
	defer closeTokens()

	console, err := server.New(c, client, tokens, server.WithMetrics(metrics, reg), server.WithLogger(logger))
	if err != nil {
		return err
	}
	defer console.Close()

	httpServer := &http.Server{Addr: c.GetPort(), Handler: console, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- listenAndServe(httpServer) }()
	select {
	case err := <-errCh:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

// tokenStore returns the configured store and a func that releases it.
func tokenStore(c config.StoreConfig) (tokenstore.Repo, func(), error) {
	switch c.GetTokenStore() {
	case config.TokenStoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: c.GetRedisAddr(), Password: c.GetRedisPassword()})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis %s: %w", c.GetRedisAddr(), err)
		}
		zlog.Info().Str("addr", c.GetRedisAddr()).Msg("tab tokens stored in redis")
		return tokenstore.NewRedisRepo(rdb), func() { _ = rdb.Close() }, nil
	case config.TokenStoreMemory, "":
		return tokenstore.NewInMemoryRepo(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown TOKEN_STORE %q", c.GetTokenStore())
	}
}

func listenAndServe(server *http.Server) error {
	zlog.Info().Str("addr", server.Addr).Msg("console listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
