package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
	"time"

	"housecup/config"
	"housecup/controller"
	"housecup/docs"
	"housecup/registry"

	"github.com/gin-contrib/cache/persistence"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/urfave/cli/v2"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"golang.org/x/sync/errgroup"
)

// @title           House Cup Scoring API
// @version         1.0
// @description     Live match scoring, sealing and standings for the house cup.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app := &cli.App{
		Name:  "housecup",
		Usage: "live scoring engine for the house cup",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API, the change feed bridge and the reconciliation sweep",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create or update the schema and change feed triggers",
				Action: migrate,
			},
			{
				Name:  "standings",
				Usage: "rebuild standings from the result ledger and print them",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "scope", Value: string(registry.Global), Usage: "sector, or GLOBAL for all sectors"},
				},
				Action: standings,
			},
			{
				Name:   "flush-buffer",
				Usage:  "replay matches buffered while the primary store was down",
				Action: flushBuffer,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("housecup failed")
	}
}

func setup() (*config.Config, zerolog.Logger) {
	cfg := config.Env()
	return cfg, config.Logger(cfg)
}

func serve(c *cli.Context) error {
	t := time.Now()
	cfg, logger := setup()
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer e.Close()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}
	addLogger(r, logger)
	addMetrics(r)
	addDocs(r)
	setCors(r, cfg.CORSOrigins)
	cacheStore := persistence.NewInMemoryStore(60 * time.Second)
	controller.SetRoutes(r, e.Services(), cacheStore)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return e.Bridge().Run(gctx)
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	logger.Info().Str("addr", cfg.HTTPAddr).Str("notify_source", string(cfg.NotifySource)).Dur("startup", time.Since(t)).Msg("server started")
	return g.Wait()
}

func migrate(c *cli.Context) error {
	cfg, logger := setup()
	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	logger.Info().Str("channel", cfg.NotifyChannel).Msg("schema up to date")
	return nil
}

func standings(c *cli.Context) error {
	cfg, logger := setup()
	scope, ok := registry.ParseSector(c.String("scope"))
	if !ok {
		return fmt.Errorf("unknown scope %q", c.String("scope"))
	}
	e, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer e.Close()
	snapshots, err := e.standings.Replay(c.Context)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(snapshots[scope], "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func flushBuffer(c *cli.Context) error {
	cfg, logger := setup()
	if cfg.OfflineBufferPath == "" {
		return errors.New("OFFLINE_BUFFER_PATH is not set")
	}
	e, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer e.Close()
	report, err := e.provisioning.FlushBuffer(c.Context)
	logger.Info().Int("flushed", report.Flushed).Int("dropped", report.Dropped).Int("pending", report.Pending).Msg("buffer flush finished")
	return err
}

func addLogger(r *gin.Engine, logger zerolog.Logger) {
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    logger,
		SkipPaths: []string{"/api/metrics"},
		Skip: func(c *gin.Context) bool {
			return c.Request.URL.Query().Get("token") != ""
		},
	}))
}

var uuidRe = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

func addMetrics(r *gin.Engine) {
	p := ginprometheus.NewPrometheus("gin")
	p.ReqCntURLLabelMappingFn = func(c *gin.Context) string {
		url := strings.Split(c.Request.URL.String(), "?")[0]
		url = uuidRe.ReplaceAllString(url, "?")
		return strings.TrimPrefix(url, "/api")
	}
	p.MetricsPath = "/api/metrics"
	p.Use(r)
}

func addDocs(r *gin.Engine) {
	docs.SwaggerInfo.BasePath = "/api"
	r.GET("/api/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}

// setCors lets anyone read and restricts commands to known origins.
func setCors(r *gin.Engine, origins []string) {
	readCors := cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Client-Role", "X-Client-Sector"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
	writeCors := cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Client-Role", "X-Client-Sector"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
	r.Use(func(c *gin.Context) {
		if c.Request.Method == "OPTIONS" {
			requestedMethod := c.GetHeader("Access-Control-Request-Method")
			if requestedMethod == "GET" || requestedMethod == "OPTIONS" {
				readCors(c)
			} else {
				writeCors(c)
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		if c.Request.Method == "GET" {
			readCors(c)
		} else {
			writeCors(c)
		}
	})
}
