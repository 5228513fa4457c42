package main

import (
	"context"
	"flag"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"

	"github.com/ethpandaops/blobscope/cache"
	"github.com/ethpandaops/blobscope/db"
	"github.com/ethpandaops/blobscope/handlers/api"
	"github.com/ethpandaops/blobscope/indexer"
	"github.com/ethpandaops/blobscope/metrics"
	"github.com/ethpandaops/blobscope/rpc"
	"github.com/ethpandaops/blobscope/services"
	"github.com/ethpandaops/blobscope/types"
	"github.com/ethpandaops/blobscope/utils"
)

func main() {
	configPath := flag.String("config", "", "Path to the config file, if empty string defaults will be used")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &types.Config{}
	err := utils.ReadConfig(cfg, *configPath)
	if err != nil {
		logrus.Fatalf("error reading config file: %v", err)
	}
	utils.Config = cfg
	logWriter, logger := utils.InitLogger()
	defer logWriter.Dispose()

	logger.WithFields(logrus.Fields{
		"config": *configPath,
		"chain":  cfg.Chain.DisplayName,
	}).Printf("starting")

	db.MustInitDB()
	err = db.ApplyEmbeddedDbSchema(-2)
	if err != nil {
		logger.Fatalf("error initializing db schema: %v", err)
	}

	if cfg.Metrics.Enabled {
		err = metrics.StartMetricsServer(logger.WithField("module", "metrics"), cfg.Metrics.Host, cfg.Metrics.Port)
		if err != nil {
			logger.Fatalf("error starting metrics server: %v", err)
		}
	}

	if cfg.ExecutionApi.Endpoint != "" {
		client := rpc.NewExecutionClient("default", cfg.ExecutionApi.Endpoint, nil)
		blobIndexer := indexer.NewBlobIndexer(logger.WithField("module", "indexer"), client)
		err = blobIndexer.Start(ctx)
		if err != nil {
			logger.Fatalf("error starting blob indexer: %v", err)
		}
	} else {
		logger.Warnf("no execution api endpoint configured, running without ingestion")
	}

	err = services.StartMarketService(logger.WithField("module", "market"))
	if err != nil {
		logger.Fatalf("error starting market service: %v", err)
	}

	if cfg.Api.Enabled {
		err = startApiServer(logger)
		if err != nil {
			logger.Fatalf("error starting api server: %v", err)
		}
	}

	utils.WaitForCtrlC()
	logger.Println("exiting...")
	db.MustCloseDB()
}

func startApiServer(logger logrus.FieldLogger) error {
	cacheSize := utils.Config.Market.LocalCacheSize
	if cacheSize == 0 {
		cacheSize = 100
	}
	tieredCache, err := cache.NewTieredCache(cacheSize, utils.Config.Market.RedisCacheAddr, utils.Config.Market.RedisCachePrefix)
	if err != nil {
		return err
	}
	api.InitApiCache(tieredCache)

	router := mux.NewRouter()
	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.HandleFunc("/stats", api.APIStatsV1).Methods("GET")
	apiRouter.HandleFunc("/blocks", api.APIBlocksV1).Methods("GET")
	apiRouter.HandleFunc("/block/{number}", api.APIBlockV1).Methods("GET")
	apiRouter.HandleFunc("/blob-transactions", api.APIBlobTransactionsV1).Methods("GET")
	apiRouter.HandleFunc("/senders", api.APISendersV1).Methods("GET")
	apiRouter.HandleFunc("/chain-profiles", api.APIChainProfilesV1).Methods("GET")
	apiRouter.HandleFunc("/market", api.APIMarketV1).Methods("GET")
	apiRouter.HandleFunc("/heatmap", api.APIHeatmapV1).Methods("GET")
	apiRouter.HandleFunc("/chart", api.APIChartV1).Methods("GET")
	apiRouter.HandleFunc("/all-time-chart", api.APIAllTimeChartV1).Methods("GET")

	n := negroni.New()
	n.Use(negroni.NewRecovery())
	n.Use(corsMiddleware(utils.Config.Api.CorsOrigins))
	n.UseHandler(router)

	if utils.Config.Server.HttpWriteTimeout == 0 {
		utils.Config.Server.HttpWriteTimeout = time.Second * 15
	}
	if utils.Config.Server.HttpReadTimeout == 0 {
		utils.Config.Server.HttpReadTimeout = time.Second * 15
	}
	if utils.Config.Server.HttpIdleTimeout == 0 {
		utils.Config.Server.HttpIdleTimeout = time.Second * 60
	}
	srv := &http.Server{
		Addr:         utils.Config.Server.Host + ":" + utils.Config.Server.Port,
		WriteTimeout: utils.Config.Server.HttpWriteTimeout,
		ReadTimeout:  utils.Config.Server.HttpReadTimeout,
		IdleTimeout:  utils.Config.Server.HttpIdleTimeout,
		Handler:      n,
	}

	go func() {
		logger.Infof("api server listening on %v", srv.Addr)
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("error serving api")
		}
	}()

	return nil
}

func corsMiddleware(allowedOrigins []string) negroni.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			allowed := len(allowedOrigins) == 0
			for _, allowedOrigin := range allowedOrigins {
				if allowedOrigin == "*" || strings.EqualFold(allowedOrigin, origin) {
					allowed = true
					break
				}
			}
			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}
