package ingest

import (
	"Resonance/internal/repository"
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
)

// 单行上限 1MiB，超长行按坏行处理
const maxLineBytes = 1 << 20

type Pipeline struct {
	repo      repository.IngestRepo
	batchSize int
}

func NewPipeline(repo repository.IngestRepo, batchSize int) *Pipeline {
	return &Pipeline{repo: repo, batchSize: batchSize}
}

// Run 逐行消费输入流并批量落库，返回本次运行的完整报告
func (s *Pipeline) Run(ctx context.Context, source io.Reader) (*Report, error) {
	acc := NewAccumulator(s.repo, s.batchSize)
	reader := bufio.NewReaderSize(source, 64*1024)

	for {
		if err := ctx.Err(); err != nil {
			return acc.Report(), err
		}

		line, dropped, err := readLine(reader)
		if err != nil && !errors.Is(err, io.EOF) {
			return acc.Report(), err
		}
		switch {
		case dropped > 0:
			acc.DropLine(ctx, dropped)
		case len(line) > 0 || !errors.Is(err, io.EOF):
			acc.AddLine(ctx, line)
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}

	// 收尾批次的失败同样只记录不致命
	_ = acc.Flush(ctx)
	return acc.Report(), nil
}

// readLine 读取一行；超过上限的行整体丢弃，返回其字节数供报告
func readLine(r *bufio.Reader) ([]byte, int, error) {
	var buf []byte
	for {
		frag, err := r.ReadSlice('\n')
		if len(buf)+len(frag) > maxLineBytes {
			dropped := len(buf) + len(frag)
			for errors.Is(err, bufio.ErrBufferFull) {
				frag, err = r.ReadSlice('\n')
				dropped += len(frag)
			}
			return nil, dropped, err
		}
		buf = append(buf, frag...)
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return trimEOL(buf), 0, err
	}
}

func trimEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}
