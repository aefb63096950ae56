package job

import (
	"Resonance/internal/ingest"
	"Resonance/internal/pkg/consts"
	"Resonance/internal/pkg/logger"
	"Resonance/internal/repository"
	"context"
	log "log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// SpoolJob 周期扫描落盘目录，摄入新的 NDJSON 文件并重命名标记完成
type SpoolJob struct {
	pipeline *ingest.Pipeline
	dir      string
}

func NewSpoolJob(ingestRepo repository.IngestRepo, batchSize int, dir string) *SpoolJob {
	return &SpoolJob{
		pipeline: ingest.NewPipeline(ingestRepo, batchSize),
		dir:      dir,
	}
}

func (s *SpoolJob) Run() {
	traceID := "job-spool-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		log.ErrorContext(ctx, "read spool dir error", "dir", s.dir, "err", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		s.ingestFile(ctx, filepath.Join(s.dir, name))
	}
}

func (s *SpoolJob) ingestFile(ctx context.Context, path string) {
	file, err := os.Open(path)
	if err != nil {
		log.ErrorContext(ctx, "open spool file error", "path", path, "err", err)
		return
	}

	report, err := s.pipeline.Run(ctx, file)
	_ = file.Close()
	if err != nil {
		log.ErrorContext(ctx, "spool file ingest aborted", "path", path, "err", err)
		return
	}

	log.InfoContext(ctx, "spool file ingested",
		"path", path,
		"lines", report.Lines,
		"accepted", report.Accepted,
		"malformed", report.Malformed,
		"batches", len(report.Batches),
		"failed_batches", report.FailedBatches(),
	)

	if err := os.Rename(path, path+consts.SpoolDoneSuffix); err != nil {
		log.ErrorContext(ctx, "rename spool file error", "path", path, "err", err)
	}
}
