package migrate

import (
	"context"
	"log"
	"time"

	"healthmigrate/internal/config"
	"healthmigrate/internal/etl"
	"healthmigrate/internal/etl/sources"
	"healthmigrate/internal/mongodb"
	"healthmigrate/internal/storage"
)

// IndexFields are the lookup fields that get an ascending secondary index
// after every load.
var IndexFields = []string{"Name", "Medical Condition", "Hospital", "Date of Admission"}

// DateFields are the columns parsed into date values during transformation.
var DateFields = []string{"Date of Admission", "Discharge Date"}

// csvCandidates is the fallback chain tried when CSV_PATH is not set:
// local layout first, then the container layout.
var csvCandidates = []string{
	"data/healthcare_dataset.csv",
	"../data/healthcare_dataset.csv",
}

// Run executes one full migration: load the CSV into the patients
// collection with full-replace semantics, build the secondary indexes,
// then run the verification probes. The outcome is recorded in the run
// store when one is configured.
func Run(ctx context.Context, cfg *config.AppConfig, client *mongodb.Client, store *storage.RunStore) error {
	started := time.Now().UTC()

	result, err := run(ctx, cfg, client)
	recordRun(store, started, result)
	return err
}

func run(ctx context.Context, cfg *config.AppConfig, client *mongodb.Client) (*RunResult, error) {
	csvPath, err := sources.ResolveCSVPath(cfg.CSVPath, csvCandidates...)
	if err != nil {
		return &RunResult{Status: "error", Error: err.Error()}, err
	}
	log.Printf("[LOAD] Source file: %s", csvPath)

	pipeline := &Pipeline{
		SourceType: "csv_file",
		SourceCfg:  etl.SourceConfig{"filePath": csvPath},
		Transforms: []etl.Transformer{
			&etl.DateParseTransform{Fields: DateFields},
			&etl.TimestampTransform{CreatedField: "created_at", UpdatedField: "updated_at"},
		},
		Dest:   &mongodb.Writer{Client: client},
		Target: cfg.Mongo.Collection,
	}

	result, err := pipeline.Run(ctx)
	if err != nil {
		return result, err
	}

	if err := client.EnsureIndexes(ctx, cfg.Mongo.Collection, IndexFields); err != nil {
		result.Status = "error"
		result.Error = err.Error()
		return result, err
	}

	verifier := &Verifier{Coll: client.Collection(cfg.Mongo.Collection)}
	if err := verifier.Run(ctx); err != nil {
		result.Status = "error"
		result.Error = err.Error()
		return result, err
	}

	log.Printf("[MIGRATE] Done: %d rows read, %d written in %s",
		result.RowsRead, result.RowsWritten, result.Duration.Round(time.Millisecond))
	return result, nil
}

// recordRun persists the outcome. Run-history failures are logged and
// swallowed: the audit trail must never fail a run that produced a good
// collection.
func recordRun(store *storage.RunStore, started time.Time, result *RunResult) {
	if store == nil {
		return
	}
	err := store.CreateRunLog(&storage.RunLog{
		StartedAt:   started,
		FinishedAt:  time.Now().UTC(),
		Status:      result.Status,
		RowsRead:    result.RowsRead,
		RowsWritten: result.RowsWritten,
		Error:       result.Error,
	})
	if err != nil {
		log.Printf("[RUNLOG] Failed to record run: %v", err)
	}
}
