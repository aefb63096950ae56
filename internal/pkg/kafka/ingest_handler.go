package kafka

import (
	"Resonance/internal/ingest"
	"Resonance/internal/repository"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

// flushInterval 消息稀疏时的兜底提交间隔
const flushInterval = 5 * time.Second

// IngestHandler 把 topic 中的每条消息当作一行原始记录送入摄入累积器。
// 位移仅在累积器清空（批次已提交或按策略放弃）之后标记，
// 与逐批 at-most-once 的持久化语义保持一致。
type IngestHandler struct {
	repo      repository.IngestRepo
	batchSize int
}

func NewIngestHandler(repo repository.IngestRepo, batchSize int) *IngestHandler {
	return &IngestHandler{
		repo:      repo,
		batchSize: batchSize,
	}
}

func (s *IngestHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("ingest consumer setup")
	return nil
}

func (s *IngestHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("ingest consumer cleanup")
	return nil
}

func (s *IngestHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	acc := ingest.NewAccumulator(s.repo, s.batchSize)
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	var last *sarama.ConsumerMessage

	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				s.flushAndMark(session, acc, last)
				return nil
			}
			acc.AddLine(session.Context(), msg.Value)
			last = msg
			// 阈值触发的批量提交已在 AddLine 内完成
			if acc.Pending() == 0 {
				session.MarkMessage(msg, "")
				last = nil
			}
		case <-ticker.C:
			s.flushAndMark(session, acc, last)
			last = nil
		case <-session.Context().Done():
			s.flushAndMark(session, acc, last)
			return nil
		}
	}
}

func (s *IngestHandler) flushAndMark(session sarama.ConsumerGroupSession, acc *ingest.Accumulator, last *sarama.ConsumerMessage) {
	if acc.Pending() == 0 {
		if last != nil {
			session.MarkMessage(last, "")
		}
		return
	}
	if err := acc.Flush(session.Context()); err != nil {
		log.Error("ingest flush error", "err", errors.Wrap(err, "kafka ingest"))
	}
	// 失败批次按设计不重放，位移照常推进
	if last != nil {
		session.MarkMessage(last, "")
	}
}
