package main

import (
	"context"
	"errors"
	"medremind/internal/app"
	"medremind/internal/app/catalog"
	"medremind/internal/app/consumers"
	"medremind/internal/app/deps"
	"medremind/internal/app/jobs"
	"medremind/internal/app/services"
	recoverfollowups "medremind/internal/core/services/recover_follow_ups"
	registerschedules "medremind/internal/core/services/register_schedules"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	dl "medremind/internal/core/domain/logging"
)

func main() {
	deps, shutdownDeps := deps.InitDeps()
	services := services.InitServices(deps)
	deps.SetJobHandler(jobs.NewRouter(deps.Logger, services.FireReminder, services.CheckReminder))

	ctx := context.Background()
	if _, err := services.RegisterSchedules.Run(ctx, registerschedules.Input{}); err != nil {
		panic(err)
	}
	if _, err := services.RecoverFollowUps.Run(ctx, recoverfollowups.Input{}); err != nil {
		panic(err)
	}

	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	var schedulerWG sync.WaitGroup
	schedulerWG.Add(1)
	go func() {
		defer schedulerWG.Done()
		deps.Scheduler.Run(schedulerCtx)
	}()

	stopCatalogRefresh := catalog.InitCatalogRefresh(deps, services)
	shutdownConsumers := consumers.InitConsumers(deps, services)

	httpServer := app.InitHttpServer(deps, services)
	go start(httpServer, deps)

	stopCh, closeCh := createChannel()
	defer closeCh()

	<-stopCh
	shutdown(ctx, httpServer, deps, func() {
		shutdownConsumers()
		stopCatalogRefresh()
		stopScheduler()
		schedulerWG.Wait()
		shutdownDeps()
	})
}

func createChannel() (chan os.Signal, func()) {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	return stopCh, func() {
		close(stopCh)
	}
}

func start(server *http.Server, deps *deps.Deps) {
	deps.Logger.Info(
		context.Background(),
		"HTTP server has started.",
		dl.Entry("address", server.Addr),
		dl.Entry("isTestMode", deps.Config.IsTestMode),
		dl.Entry("timezone", deps.Config.Timezone),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	} else {
		deps.Logger.Info(context.Background(), "HTTP service is stopping gracefully.")
	}
}

func shutdown(ctx context.Context, server *http.Server, deps *deps.Deps, shutDownDeps func()) {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		panic(err)
	}

	shutDownDeps()
	deps.Logger.Info(ctx, "HTTP server has shutdowned.")
}
