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
	fakelogrepo "github.com/jrsteele09/monitor-dashboard/activity/repofake"
	"github.com/jrsteele09/monitor-dashboard/internal/config"
	"github.com/jrsteele09/monitor-dashboard/internal/obs"
	"github.com/jrsteele09/monitor-dashboard/mockapi"
	orgrepofakes "github.com/jrsteele09/monitor-dashboard/organizations/repofakes"
	fakeuserrepo "github.com/jrsteele09/monitor-dashboard/users/repofake"
	zlog "github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Ignoring .env: %v\n", err)
	}
	if err := run(); err != nil {
		log.Fatalf("Error running mock api: %s\n", err)
	}
	log.Printf("Mock API stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.NewBackend()
	obs.SetGlobal(obs.NewLogger(c.GetEnv(), c.GetLogLevel()))
	displayAppname("Mock API")

	repos := mockapi.Repos{
		Users:         fakeuserrepo.NewFakeUserRepo(),
		Organizations: orgrepofakes.NewFakeOrganizationRepo(),
		Logs:          fakelogrepo.NewFakeLogRepo(),
	}
	if _, err := mockapi.Seed(repos, time.Now()); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	handler, err := mockapi.New(c, repos)
	if err != nil {
		return err
	}
	server := &http.Server{Addr: c.GetMockAPIPort(), Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- listenAndServe(server) }()
	select {
	case err := <-errCh:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(server)
}

func listenAndServe(server *http.Server) error {
	zlog.Info().Str("addr", server.Addr).Msg("mock api listening")
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
