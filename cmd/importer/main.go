package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"addressjp-api/internal/config"
	"addressjp-api/internal/models"
	"addressjp-api/internal/registry"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// DivisionRecord is one row of a division CSV: id,name[,prefecture_id]
type DivisionRecord struct {
	ID           int
	Name         string
	PrefectureID *int
}

func main() {
	file := flag.String("file", "", "Path to the CSV file to import")
	kindName := flag.String("kind", "", "Division kind: prefecture, city, county, town or village")
	flag.Parse()

	if *file == "" || *kindName == "" {
		fmt.Println("Error: --file and --kind flags are required")
		os.Exit(1)
	}

	kind, err := models.ParseKind(*kindName)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid kind")
	}
	cfg := kindConfig(kind)

	log.Info().Str("file", *file).Str("table", cfg.DataSourceKey).Msg("starting import")

	records, err := parseCSV(*file, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error parsing CSV")
	}

	log.Info().Int("records", len(records)).Msg("parsed records")

	// Load config
	appConfig, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatal().Err(err).Msg("error loading config")
	}
	if appConfig.DBSource == "" {
		log.Fatal().Msg("DB_SOURCE is not set")
	}

	// Connect to DB
	ctx := context.Background()
	conn, err := pgx.Connect(ctx, appConfig.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer conn.Close(ctx)

	if err := createTableIfNotExists(ctx, conn, cfg); err != nil {
		log.Fatal().Err(err).Msg("error creating table")
	}

	if err := insertRecords(ctx, conn, cfg, records); err != nil {
		log.Fatal().Err(err).Msg("error inserting records")
	}

	if err := verifyImport(ctx, conn, cfg, len(records)); err != nil {
		log.Fatal().Err(err).Msg("error verifying import")
	}

	log.Info().Int("records", len(records)).Str("table", cfg.DataSourceKey).Msg("import finished")
}

func kindConfig(kind models.Kind) registry.KindConfig {
	for _, cfg := range registry.DefaultKinds() {
		if cfg.Kind == kind {
			return cfg
		}
	}
	return registry.Prefectures
}

func parseCSV(filePath string, cfg registry.KindConfig) ([]DivisionRecord, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	minColumns := 3
	if cfg.TopLevel() {
		minColumns = 2
	}

	var records []DivisionRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		if len(row) < minColumns {
			return nil, fmt.Errorf("line %d: invalid record length %d, expected at least %d columns", line, len(row), minColumns)
		}

		id, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid id: %s", line, row[0])
		}

		record := DivisionRecord{ID: id, Name: row[1]}
		if !cfg.TopLevel() {
			parentID, err := strconv.Atoi(row[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid %s: %s", line, cfg.ParentField, row[2])
			}
			record.PrefectureID = &parentID
		}

		records = append(records, record)
	}

	return records, nil
}

func createTableIfNotExists(ctx context.Context, conn *pgx.Conn, cfg registry.KindConfig) error {
	table := pgx.Identifier{cfg.DataSourceKey}.Sanitize()
	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		prefecture_id INTEGER
	);
	CREATE INDEX IF NOT EXISTS %s ON %s (prefecture_id);
	`, table, pgx.Identifier{cfg.DataSourceKey + "_prefecture_id_idx"}.Sanitize(), table)
	_, err := conn.Exec(ctx, query)
	return err
}

func insertRecords(ctx context.Context, conn *pgx.Conn, cfg registry.KindConfig, records []DivisionRecord) error {
	// Use CopyFrom for bulk insert
	_, err := conn.CopyFrom(
		ctx,
		pgx.Identifier{cfg.DataSourceKey},
		[]string{"id", "name", "prefecture_id"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			r := records[i]
			return []any{r.ID, r.Name, r.PrefectureID}, nil
		}),
	)
	return err
}

func verifyImport(ctx context.Context, conn *pgx.Conn, cfg registry.KindConfig, expectedCount int) error {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", pgx.Identifier{cfg.DataSourceKey}.Sanitize())
	if err := conn.QueryRow(ctx, query).Scan(&count); err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}

	if count < expectedCount {
		return fmt.Errorf("record count mismatch: expected at least %d, got %d", expectedCount, count)
	}

	return nil
}
