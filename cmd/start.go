package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"dbkit/core/database"
	"dbkit/core/loader"
	"dbkit/core/logger"
	"dbkit/core/middleware/auth"
	"dbkit/core/middleware/locale"
	"dbkit/core/middleware/rayid"

	"dbkit/feature/difftables"
	queryFeature "dbkit/feature/query"
	"dbkit/feature/redirect"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "dbkit/docs/swagger"
)

// @title dbkit API
// @version 1.0
// @description Table reconciliation and dynamic queries.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the dbkit server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration and Logger
		cfg, logg, err := loadRuntime()
		if err != nil {
			log.Fatal(err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 2. Connect to Database (Optional)
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			db = conn
			defer database.Close(db)
			logg = logg.With(zap.String("database", cfg.Database.Name))
			logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
		}

		// 3. Initialize Storage (Optional)
		store, err := openStorage(cfg)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// 4. Register Features. redirect catches everything left, so it goes last.
		mgr := loader.NewManager(logg)
		mgr.Register(difftables.NewFeature(db, cfg.Database.BatchSize, store, cfg.Storage.Bucket, cfg.Reconcile, logg))
		mgr.Register(queryFeature.NewFeature(db, logg))
		mgr.Register(redirect.NewFeature(cfg.Server.RedirectNoPageFound, logg))

		// 5. Middleware. RayID must be first to trace everything.
		app.Use(rayid.New())
		app.Use(locale.New(cfg.Server.Locale))
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.String("locale", locale.Get(c)),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{
			ApiKey: cfg.Server.ApiKey,
			Skip:   []string{"/swagger"},
		}))

		// 6. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
