package main

import (
	"Resonance/internal/api/config"
	"Resonance/internal/ingest"
	"Resonance/internal/pkg/database"
	"Resonance/internal/pkg/logger"
	"Resonance/internal/repository"
	"context"
	"io"
	log "log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-resty/resty/v2"
)

// 批量摄入入口：读取一个 NDJSON 文件或 HTTP(S) 地址，逐行解析并批量写库。
// 用法：ingest <path|url>
func main() {
	if len(os.Args) != 2 {
		log.Error("usage: ingest <path|url>")
		os.Exit(1)
	}
	source := os.Args[1]

	if err := config.LoadConfig(); err != nil {
		log.Error("Fatal error: failed to load configuration", "err", err)
		panic(err)
	}
	cfg := config.Cfg

	logger.InitLogger()

	dbCfg := cfg.DB
	db, err := database.NewGormDB(&dbCfg)
	if err != nil {
		log.Error("Fatal error: failed to create database connection", "err", err)
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reader, closer, err := openSource(ctx, source)
	if err != nil {
		log.Error("Failed to open ingest source", "source", source, "err", err)
		os.Exit(1)
	}
	defer func() { _ = closer() }()

	pipeline := ingest.NewPipeline(repository.NewIngestRepo(db), cfg.Ingest.BatchSize)
	report, err := pipeline.Run(ctx, reader)
	if err != nil {
		log.Error("Ingest aborted", "source", source, "err", err)
		os.Exit(1)
	}

	log.Info("Ingest finished",
		"source", source,
		"lines", report.Lines,
		"accepted", report.Accepted,
		"malformed", report.Malformed,
		"missing_identity", report.Missing,
		"batches", len(report.Batches),
		"failed_batches", report.FailedBatches(),
	)
	if report.FailedBatches() > 0 {
		os.Exit(1)
	}
}

func openSource(ctx context.Context, source string) (io.Reader, func() error, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		client := resty.New().SetDoNotParseResponse(true)
		resp, err := client.R().SetContext(ctx).Get(source)
		if err != nil {
			return nil, nil, err
		}
		body := resp.RawBody()
		return body, body.Close, nil
	}

	file, err := os.Open(source)
	if err != nil {
		return nil, nil, err
	}
	return file, file.Close, nil
}
