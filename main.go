package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medibook/config"
	"medibook/cron"
	"medibook/database"
	appointmentRepo "medibook/database/repository/appointment"
	availabilityRepo "medibook/database/repository/availability"
	timeslotRepo "medibook/database/repository/timeslot"
	"medibook/handlers"
	"medibook/routes"
	"medibook/services/availability"
	"medibook/services/scheduling"
	"medibook/services/tasks"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "medibook",
		Short: "Practitioner availability service",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadConfig()
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(indexesCmd())
	rootCmd.AddCommand(regenerateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server, slot worker and horizon scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				config.AppConfig.AppPort = port
			}
			return runServer()
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides APP_PORT)")
	return cmd
}

func indexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create MongoDB indexes and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.InitDB(); err != nil {
				return err
			}
			defer database.Disconnect(context.Background())

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			if err := availabilityRepo.NewMongoAvailabilityRepo().EnsureIndexes(ctx); err != nil {
				return fmt.Errorf("availability indexes: %w", err)
			}
			if err := timeslotRepo.NewMongoTimeSlotRepo().EnsureIndexes(ctx); err != nil {
				return fmt.Errorf("timeslot indexes: %w", err)
			}
			if err := appointmentRepo.NewMongoAppointmentRepo().EnsureIndexes(ctx); err != nil {
				return fmt.Errorf("appointment indexes: %w", err)
			}
			utils.GetLogger().Info("Indexes are up to date")
			return nil
		},
	}
}

func regenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regenerate [practitionerID]",
		Short: "Regenerate bookable slots for one practitioner, or all when none is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.InitDB(); err != nil {
				return err
			}
			defer database.Disconnect(context.Background())

			svc, err := newSchedulingService(nil, nil)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return svc.RollHorizon(cmd.Context())
			}
			conflicts, err := svc.RegenerateSlots(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, c := range conflicts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s-%s: %s\n", c.AppointmentID, c.Date, c.Start, c.End, c.Reason)
			}
			return nil
		},
	}
}

func newSchedulingService(cache scheduling.AvailabilityCache, enqueuer scheduling.SlotTaskEnqueuer) (*scheduling.DefaultSchedulingService, error) {
	return scheduling.NewDefaultSchedulingService(
		availabilityRepo.NewMongoAvailabilityRepo(),
		timeslotRepo.NewMongoTimeSlotRepo(),
		appointmentRepo.NewMongoAppointmentRepo(),
		cache,
		enqueuer,
		scheduling.Settings{
			SlotMinutes: config.AppConfig.SlotDurationMinutes,
			HorizonDays: config.AppConfig.BookingHorizonDays,
			Validation: availability.ValidationOptions{
				AllowOverlap: config.AppConfig.AllowOverlappingSlots,
			},
		},
		utils.GetLogger().Named("scheduling"),
	)
}

func runServer() error {
	logger := utils.GetLogger()
	defer logger.Sync()

	if err := database.InitDB(); err != nil {
		return err
	}
	if err := utils.InitCache(); err != nil {
		return err
	}

	asynqClient := asynq.NewClient(cron.RedisOpt())
	defer asynqClient.Close()

	svc, err := newSchedulingService(
		scheduling.NewRedisAvailabilityCache(utils.GetCacheClient(), config.AppConfig.AvailabilityCacheTTL),
		tasks.NewEnqueuer(asynqClient),
	)
	if err != nil {
		return err
	}

	worker := cron.InitSlotWorker(svc)
	scheduler, err := cron.InitHorizonScheduler(config.AppConfig.HorizonRollCron)
	if err != nil {
		return err
	}

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	utils.StartHealthMonitor(monitorCtx, 30*time.Second, utils.GetCacheClient(), database.MongoClient)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.RegisterRoutes(router, handlers.NewHandlerBundle(svc), config.AppConfig.MaxRequestsPerMin)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + config.AppConfig.AppPort,
		Handler: router,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr))
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		logger.Error("Server failed", zap.Error(err))
	}
	logger.Info("Server is shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	scheduler.Shutdown()
	worker.Shutdown()
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("Failed to disconnect from MongoDB", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
