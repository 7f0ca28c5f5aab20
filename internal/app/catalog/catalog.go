package catalog

import (
	"context"
	"fmt"
	"medremind/internal/app/deps"
	"medremind/internal/app/services"
	dl "medremind/internal/core/domain/logging"
	registerschedules "medremind/internal/core/services/register_schedules"

	"github.com/robfig/cron/v3"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// cronLogger adapts the application logger to cron.Logger.
type cronLogger struct {
	log dl.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(context.Background(), "Cron: "+msg, entries(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(context.Background(), "Cron: "+msg, append(entries(keysAndValues), dl.Entry("err", err))...)
}

func entries(keysAndValues []interface{}) []dl.LogEntry {
	result := make([]dl.LogEntry, 0, len(keysAndValues)/2)
	for ix := 0; ix+1 < len(keysAndValues); ix += 2 {
		result = append(result, dl.Entry(fmt.Sprint(keysAndValues[ix]), keysAndValues[ix+1]))
	}
	return result
}

// InitCatalogRefresh re-registers active schedules periodically so that
// catalog changes made outside this process reach the scheduler.
func InitCatalogRefresh(deps *deps.Deps, services *services.Services) func() {
	logger := cronLogger{log: deps.Logger}
	c := cron.New(
		cron.WithParser(parser),
		cron.WithLocation(deps.Config.Location()),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	spec := deps.Config.CatalogRefreshSchedule
	_, err := c.AddFunc(spec, func() {
		services.RegisterSchedules.Run(context.Background(), registerschedules.Input{})
	})
	if err != nil {
		deps.Logger.Error(
			context.Background(),
			"Invalid catalog refresh schedule.",
			dl.Entry("err", err),
			dl.Entry("schedule", spec),
		)
		panic(err)
	}

	c.Start()
	deps.Logger.Info(context.Background(), "Catalog refresh has started.", dl.Entry("schedule", spec))
	return func() {
		<-c.Stop().Done()
		deps.Logger.Info(context.Background(), "Catalog refresh stopped.")
	}
}
