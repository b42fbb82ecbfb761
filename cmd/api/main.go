package main

import (
	"context"
	"net/http"
	"os"

	"addressjp-api/internal/config"
	"addressjp-api/internal/handler"
	"addressjp-api/internal/masterdata"
	"addressjp-api/internal/matcher"
	"addressjp-api/internal/metrics"
	"addressjp-api/internal/registry"
	"addressjp-api/internal/repository"
	"addressjp-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	zerolog.SetGlobalLevel(config.Level())
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	ctx := context.Background()
	m := metrics.New(prometheus.DefaultRegisterer)

	// Reference data source
	var source masterdata.Source
	switch config.DataSource {
	case "postgres":
		conn, err := pgxpool.New(ctx, config.DBSource)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to db")
		}
		defer conn.Close()
		source = repository.NewRepository(conn)
	default:
		source = masterdata.NewFileSource(config.DataDir)
	}

	// Initialize layers
	store := masterdata.NewStore(source, logger.With().Str("component", "masterdata").Logger(), m)

	directory, err := registry.NewDirectory(ctx, store, registry.DefaultKinds()...)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load reference data")
	}

	addressMatcher := matcher.New(logger.With().Str("component", "matcher").Logger(), m)
	resolver, err := service.NewAddressResolver(directory, addressMatcher, logger.With().Str("component", "resolver").Logger(), m)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create resolver")
	}
	divisionService := service.NewDivisionService(directory)

	parseHandler := handler.NewParseHandler(resolver)
	divisionHandler := handler.NewDivisionHandler(divisionService)

	gin.SetMode(config.GinMode)
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/parse", parseHandler.Parse)
	r.GET("/prefectures", divisionHandler.Prefectures)
	r.GET("/prefectures/:id/:kind", divisionHandler.Children)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	log.Info().Str("address", config.ServerAddress).Str("data_source", config.DataSource).Msg("starting server")
	if err := r.Run(config.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
