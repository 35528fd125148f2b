package syncsched

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/simvista/sim-server/internal/carrier"
	"github.com/simvista/sim-server/internal/metrics"
	"github.com/simvista/sim-server/internal/storage"
	"github.com/simvista/sim-server/internal/storage/models"
)

// SyncFunc 执行一次运营商余额同步。默认实现按档案延迟模拟调用；
// 测试与真实接入通过替换该函数注入行为。
type SyncFunc func(ctx context.Context, job models.SyncJob, profile carrier.Profile) error

// Worker 同步任务消费者。
// 约束（对任务的整个重试生命周期成立）：
// - 仅在网络连通时消费，离线整轮跳过
// - 瞬态失败按固定基数的指数退避重试（not_before = now + base * 2^retry）
// - 同一任务的多次尝试严格串行（单消费循环），markOutcome 幂等可重复调用
type Worker struct {
	repo     storage.CoreRepo
	carriers *carrier.Table
	conn     ConnectivityChecker
	metrics  *metrics.AppMetrics
	logger   *zap.Logger

	interval   time.Duration
	baseDelay  time.Duration
	maxRetries int32
	batchSize  int

	syncFn SyncFunc

	// 统计
	statsAttempts int64
	statsSuccess  int64
	statsRetries  int64
	statsFailed   int64
}

// NewWorker 创建同步 worker
func NewWorker(repo storage.CoreRepo, carriers *carrier.Table, conn ConnectivityChecker, m *metrics.AppMetrics, logger *zap.Logger) *Worker {
	if carriers == nil {
		carriers = carrier.DefaultTable()
	}
	if conn == nil {
		conn = AlwaysOnline{}
	}
	w := &Worker{
		repo:       repo,
		carriers:   carriers,
		conn:       conn,
		metrics:    m,
		logger:     logger,
		interval:   2 * time.Second,
		baseDelay:  10 * time.Second,
		maxRetries: 5,
		batchSize:  20,
	}
	w.syncFn = w.simulateBalanceSync
	return w
}

// Configure 覆盖轮询/退避参数（零值保持默认）
func (w *Worker) Configure(interval, baseDelay time.Duration, maxRetries, batchSize int) {
	if interval > 0 {
		w.interval = interval
	}
	if baseDelay > 0 {
		w.baseDelay = baseDelay
	}
	if maxRetries > 0 {
		w.maxRetries = int32(maxRetries)
	}
	if batchSize > 0 {
		w.batchSize = batchSize
	}
}

// SetSyncFunc 替换同步实现（测试/真实接入）
func (w *Worker) SetSyncFunc(fn SyncFunc) {
	if fn != nil {
		w.syncFn = fn
	}
}

// Run 启动消费循环
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("sync worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("base_delay", w.baseDelay),
		zap.Int32("max_retries", w.maxRetries))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sync worker stopped",
				zap.Int64("attempts", w.statsAttempts),
				zap.Int64("success", w.statsSuccess),
				zap.Int64("retries", w.statsRetries),
				zap.Int64("failed", w.statsFailed))
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

// Tick 消费一轮到期任务（测试直接调用，不经 ticker）
func (w *Worker) Tick(ctx context.Context) { w.tick(ctx) }

func (w *Worker) tick(ctx context.Context) {
	// 连通性约束：离线时不消费，任务保留在队列等待
	if !w.conn.Online(ctx) {
		w.logger.Debug("sync worker offline, skipping round")
		return
	}

	jobs, err := w.repo.DequeueDueSyncJobs(ctx, time.Now(), w.batchSize)
	if err != nil {
		w.logger.Error("dequeue sync jobs failed", zap.Error(err))
		return
	}

	for _, job := range jobs {
		w.process(ctx, job)
	}
}

func (w *Worker) process(ctx context.Context, job models.SyncJob) {
	w.statsAttempts++
	profile := w.carriers.Match(job.CarrierName)

	err := w.syncFn(ctx, job, profile)
	if err == nil {
		// 成功：先写事件结果，再收尾任务
		if markErr := w.repo.MarkSwitchOutcome(ctx, job.EventID, true); markErr != nil {
			w.logger.Error("mark switch outcome failed",
				zap.Int64("event_id", job.EventID),
				zap.Error(markErr))
		}
		if doneErr := w.repo.MarkSyncJobDone(ctx, job.ID); doneErr != nil {
			w.logger.Error("mark sync job done failed",
				zap.Int64("job_id", job.ID),
				zap.Error(doneErr))
		}
		w.statsSuccess++
		w.count("success")
		w.logger.Info("balance sync completed",
			zap.Int64("job_id", job.ID),
			zap.Int64("event_id", job.EventID),
			zap.String("carrier_profile", profile.Name))
		return
	}

	// 失败：无论是否重试都先落事件结果（markOutcome 幂等，重试成功会再次覆盖）
	if markErr := w.repo.MarkSwitchOutcome(ctx, job.EventID, false); markErr != nil {
		w.logger.Error("mark switch outcome failed",
			zap.Int64("event_id", job.EventID),
			zap.Error(markErr))
	}

	if IsTransient(err) && job.RetryCount < w.maxRetries {
		retry := job.RetryCount + 1
		notBefore := time.Now().Add(w.backoff(job.RetryCount))
		if rsErr := w.repo.RescheduleSyncJob(ctx, job.ID, retry, notBefore, err.Error()); rsErr != nil {
			w.logger.Error("reschedule sync job failed",
				zap.Int64("job_id", job.ID),
				zap.Error(rsErr))
			return
		}
		w.statsRetries++
		w.count("retry")
		w.logger.Warn("balance sync transient failure, retrying",
			zap.Int64("job_id", job.ID),
			zap.Int32("retry", retry),
			zap.Time("not_before", notBefore),
			zap.Error(err))
		return
	}

	// 终态失败：非瞬态错误或重试额度耗尽
	if failErr := w.repo.MarkSyncJobFailed(ctx, job.ID, err.Error()); failErr != nil {
		w.logger.Error("mark sync job failed error",
			zap.Int64("job_id", job.ID),
			zap.Error(failErr))
	}
	w.statsFailed++
	w.count("failed")
	w.logger.Warn("balance sync failed terminally",
		zap.Int64("job_id", job.ID),
		zap.Int64("event_id", job.EventID),
		zap.Int32("retries", job.RetryCount),
		zap.Error(err))
}

// backoff 指数退避：base * 2^retryCount
func (w *Worker) backoff(retryCount int32) time.Duration {
	d := w.baseDelay
	for i := int32(0); i < retryCount; i++ {
		d *= 2
	}
	return d
}

// simulateBalanceSync 默认同步实现：按运营商档案延迟模拟一次余额接口调用
func (w *Worker) simulateBalanceSync(ctx context.Context, job models.SyncJob, profile carrier.Profile) error {
	timer := time.NewTimer(profile.Latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (w *Worker) count(result string) {
	if w.metrics != nil {
		w.metrics.SyncJobTotal.WithLabelValues(result).Inc()
	}
}
