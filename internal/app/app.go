package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/codewithdevelpors/hackorbit/internal/adapter/mdadapter"
	"github.com/codewithdevelpors/hackorbit/internal/adapter/seedadapter"
	"github.com/codewithdevelpors/hackorbit/internal/config"
	httphandler "github.com/codewithdevelpors/hackorbit/internal/handler/http"
	repocatalog "github.com/codewithdevelpors/hackorbit/internal/repository/catalog"
	"github.com/codewithdevelpors/hackorbit/internal/repository/downloads"
	srvcatalog "github.com/codewithdevelpors/hackorbit/internal/service/catalog"
	srvdownload "github.com/codewithdevelpors/hackorbit/internal/service/download"
	"github.com/codewithdevelpors/hackorbit/internal/service/ingest"
	"github.com/codewithdevelpors/hackorbit/internal/service/rating"
	"github.com/codewithdevelpors/hackorbit/internal/service/translate"
)

const (
	connectTimeout  = 5 * time.Second
	ingestTimeout   = 30 * time.Second
	dumpTimeout     = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

type counterDumper interface {
	DumpCounters(ctx context.Context, fileName string) error
}

type App struct {
	cfgPath  string
	cfg      *config.Config
	srv      *http.Server
	ingester httphandler.IngestService
	dumper   counterDumper
	log      *slog.Logger
}

func New(cfgPath string) *App {
	return &App{
		cfgPath: cfgPath,
	}
}

func (a *App) Start() {
	a.cfg = config.MustLoad(a.cfgPath)

	log := newLogger(a.cfg.LogLevel)
	a.log = log

	// The mongo client connects lazily. A dead database must not kill the
	// process, the health endpoint reports it instead.
	opts := options.Client().ApplyURI(a.cfg.MongoURI).SetServerSelectionTimeout(connectTimeout)
	mongoClient, err := mongo.Connect(context.Background(), opts)
	if err != nil {
		panic(err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Warn("Store unreachable, starting degraded", slog.Any("error", err))
	}
	cancel()

	catalogRepo := repocatalog.NewCatalogRepository(mongoClient, a.cfg.MongoDB, log)

	var counterRepo srvdownload.CounterRepository
	if a.cfg.RedisURL != "" {
		opt, err := redis.ParseURL(a.cfg.RedisURL)
		if err != nil {
			panic(err)
		}

		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Warn("Counter store unreachable, download counters disabled", slog.Any("error", err))
		} else {
			counterRepo = downloads.NewDownloadsRepository(rdb, log)
		}
	}

	dict, err := translate.LoadDictionary(afero.NewOsFs(), a.cfg.TranslationsFile)
	if err != nil {
		log.Warn("Cannot load translations, translation disabled", slog.Any("error", err))
		dict = translate.Dictionary{}
	}
	translator := translate.NewTranslateService(dict, a.cfg.DefaultLang, log)

	catalogSrv := srvcatalog.NewCatalogService(catalogRepo, translator, a.cfg.PageSize, log)
	ratingSrv := rating.NewRatingService(catalogRepo, log)
	downloadSrv := srvdownload.NewDownloadService(catalogRepo, counterRepo, log)
	a.dumper = downloadSrv

	var source ingest.RecordSource
	if a.cfg.IngestConfig.DataFile != "" {
		source = seedadapter.NewSeedAdapter(a.cfg.IngestConfig.DataFile, log)
	} else if a.cfg.IngestConfig.WorkDir != "" {
		source = mdadapter.NewMDAdapter(a.cfg.IngestConfig.WorkDir, log)
	}

	mux := http.NewServeMux()
	base := a.cfg.BasePath

	mux.Handle("GET /{$}", httphandler.NewStatusHandler())
	mux.Handle("GET "+base+"/files", httphandler.NewListHandler(catalogSrv, log))
	mux.Handle("GET "+base+"/search", httphandler.NewSearchHandler(catalogSrv, log))
	mux.Handle("GET "+base+"/details/{id}", httphandler.NewDetailsHandler(catalogSrv, log))
	mux.Handle("POST "+base+"/rate/{id}", httphandler.NewRateHandler(ratingSrv, log))
	mux.Handle("GET "+base+"/download/{id}", httphandler.NewDownloadHandler(downloadSrv, log))
	mux.Handle("GET "+base+"/stats", httphandler.NewStatsHandler(downloadSrv, log))
	mux.Handle("GET "+base+"/health", httphandler.NewHealthHandler(catalogRepo, log))

	if source != nil {
		ingestSrv := ingest.NewIngestService(source, catalogRepo, a.cfg.IngestConfig.Mode, log)
		a.ingester = ingestSrv
		mux.Handle("POST "+base+"/ingest", httphandler.NewIngestHandler(ingestSrv, log))
	}

	a.srv = &http.Server{
		Addr:    a.cfg.Listen,
		Handler: httphandler.RequestID(mux, log),
	}

	go func() {
		log.Info("Start listen", slog.String("addr", a.cfg.Listen))

		if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Could not serve", slog.String("listen_addr", a.cfg.Listen), slog.Any("error", err))
			os.Exit(2)
		}
	}()
}

// Ingest runs the configured batch load, triggered by SIGUSR1.
func (a *App) Ingest() {
	if a.ingester == nil {
		a.log.Warn("No ingest source configured")

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	report, err := a.ingester.Ingest(ctx)
	if err != nil {
		a.log.Error("Ingest failed", slog.Any("error", err))

		return
	}

	a.log.Info("Ingest done", slog.Int("inserted", report.Inserted),
		slog.Int("replaced", report.Replaced), slog.Int("rejected", len(report.Rejected)))
}

// Dump writes the download counters snapshot, triggered by SIGUSR2.
func (a *App) Dump() {
	ctx, cancel := context.WithTimeout(context.Background(), dumpTimeout)
	defer cancel()

	if err := a.dumper.DumpCounters(ctx, a.cfg.DumpFileName); err != nil {
		a.log.Error("Cannot dump counters", slog.Any("error", err))
	}
}

func (a *App) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.srv.Shutdown(ctx)
}

func newLogger(level string) *slog.Logger {
	lo := &slog.HandlerOptions{}
	switch level {
	case config.LogLevelInfo:
		lo.Level = slog.LevelInfo
	case config.LogLevelWarn:
		lo.Level = slog.LevelWarn
	case config.LogLevelError:
		lo.Level = slog.LevelError
	case config.LogLevelDebug:
		lo.Level = slog.LevelDebug
	default:
		panic("unknown log level")
	}

	return slog.New(slog.NewTextHandler(os.Stderr, lo))
}
