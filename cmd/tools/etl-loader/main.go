// cmd/tools/etl-loader/main.go
//
// Offline loader for the reference datasets. Validates each CSV row
// against its schema, loads Postgres inside one transaction per
// dataset, rebuilds the Elasticsearch directory index, and writes the
// provenance manifest.
//
// Usage:
//
//	etl-loader -services data/services.csv -seifa data/seifa.csv -labour data/labour.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"govmate-workers/internal/common/config"
	"govmate-workers/internal/common/database"
	"govmate-workers/internal/common/logger"
	"govmate-workers/internal/etl"
)

func main() {
	servicesPath := flag.String("services", "", "Path to the service directory CSV")
	seifaPath := flag.String("seifa", "", "Path to the SEIFA CSV")
	labourPath := flag.String("labour", "", "Path to the labour force CSV")
	skipIndex := flag.Bool("skip-index", false, "Skip rebuilding the Elasticsearch directory index")
	strict := flag.Bool("strict", false, "Fail the whole load on the first invalid row")
	provenancePath := flag.String("provenance", "", "Override the provenance manifest path")
	flag.Parse()

	if *servicesPath == "" && *seifaPath == "" && *labourPath == "" {
		fmt.Fprintln(os.Stderr, "nothing to load: pass at least one of -services, -seifa, -labour")
		flag.Usage()
		os.Exit(1)
	}

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres failed", zap.Error(err))
	}
	defer pg.Close()

	ctx := context.Background()
	loader := etl.NewLoader(pg.DB, log)
	loader.StrictMode = *strict

	var results []*etl.LoadResult

	if *seifaPath != "" {
		result, err := loader.LoadSeifa(ctx, *seifaPath)
		if err != nil {
			zapLog.Fatal("seifa load failed", zap.Error(err))
		}
		zapLog.Info("seifa loaded", zap.Int("loaded", result.Loaded), zap.Int("rejected", result.Rejected))
		results = append(results, result)
	}

	if *labourPath != "" {
		result, err := loader.LoadLabour(ctx, *labourPath)
		if err != nil {
			zapLog.Fatal("labour load failed", zap.Error(err))
		}
		zapLog.Info("labour force loaded", zap.Int("loaded", result.Loaded), zap.Int("rejected", result.Rejected))
		results = append(results, result)
	}

	if *servicesPath != "" {
		result, err := loader.LoadServices(ctx, *servicesPath)
		if err != nil {
			zapLog.Fatal("services load failed", zap.Error(err))
		}
		zapLog.Info("services loaded", zap.Int("loaded", result.Loaded), zap.Int("rejected", result.Rejected))
		results = append(results, result)

		if !*skipIndex {
			esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				zapLog.Fatal("elasticsearch failed", zap.Error(err))
			}
			indexer := etl.NewIndexer(esClient.Client, cfg.Database.Elasticsearch.DirectoryIndex, log)
			indexed, err := indexer.IndexServices(ctx, pg.DB)
			if err != nil {
				zapLog.Fatal("directory index rebuild failed", zap.Error(err))
			}
			zapLog.Info("directory indexed", zap.Int("documents", indexed))
		}
	}

	outPath := cfg.Datasets.ProvenancePath
	if *provenancePath != "" {
		outPath = *provenancePath
	}
	if outPath != "" {
		if err := etl.WriteProvenance(outPath, etl.BuildProvenance(results)); err != nil {
			zapLog.Fatal("provenance write failed", zap.Error(err))
		}
		zapLog.Info("provenance written", zap.String("path", outPath))
	}
}
