package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"mindwell_backend/internal/model"
	"mindwell_backend/internal/util"
	"mindwell_backend/pkg/logger"
	"mindwell_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// RemoteGateway is the submission boundary. Implementations classify
// failures through the util error taxonomy: TransientError for anything
// worth retrying, ValidationError for rejected payloads, plain errors for
// the rest.
type RemoteGateway interface {
	Submit(ctx context.Context, record *model.AssessmentRecord) error
}

// remotePayload mirrors the record field names of the wire contract.
type remotePayload struct {
	ID              string         `json:"id"`
	UserID          uint           `json:"userId"`
	CreatedAt       time.Time      `json:"createdAt"`
	Answers         []model.Answer `json:"answers"`
	Score           int            `json:"score"`
	RiskTier        model.RiskTier `json:"riskLevel"`
	DurationSeconds int            `json:"durationSeconds"`
	Notes           string         `json:"notes,omitempty"`
}

// HTTPGateway posts records to the remote service. Every call carries a
// bounded timeout so a drain can never stall on one record.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

func NewHTTPGateway(baseURL string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (g *HTTPGateway) Submit(ctx context.Context, record *model.AssessmentRecord) error {
	answers, err := record.Answers()
	if err != nil {
		return &util.StorageCorruptionError{Err: err}
	}

	payload := remotePayload{
		ID:              record.ID,
		UserID:          record.UserID,
		CreatedAt:       record.CreatedAt,
		Answers:         answers,
		Score:           record.Score,
		RiskTier:        record.RiskTier,
		DurationSeconds: record.DurationSeconds,
		Notes:           record.Notes,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/responses/submit", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		// DNS failures, refused connections, client timeouts.
		return util.Transient("remote submission failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusRequestTimeout,
		resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode >= 500:
		return util.Transient(fmt.Sprintf("remote returned %d", resp.StatusCode), nil)
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnprocessableEntity:
		return util.Validationf("remote rejected record %s with %d", record.ID, resp.StatusCode)
	default:
		return fmt.Errorf("remote returned unexpected status %d for record %s", resp.StatusCode, record.ID)
	}
}

// RetryPolicy retries transient failures with exponential backoff. Sleep is
// injectable so tests run without real delays.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Sleep       func(time.Duration)
}

func NewRetryPolicy(maxAttempts int, baseDelay time.Duration) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		Sleep:       time.Sleep,
	}
}

// Do runs fn up to MaxAttempts times. Only transient failures are retried;
// validation and fatal errors surface immediately.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	var lastErr error
	delay := p.BaseDelay
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !util.IsTransient(lastErr) {
			return lastErr
		}
		if attempt < p.MaxAttempts {
			p.Sleep(delay)
			delay *= 2
		}
	}
	return lastErr
}

type SyncReport struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// SyncService reconciles unsynced records with the remote boundary. It keeps
// no state of its own beyond in-flight bookkeeping; the unsynced subset is
// queried from the history store on every drain.
type SyncService struct {
	drainMu sync.Mutex

	history *HistoryService
	gateway RemoteGateway
	policy  RetryPolicy
}

func NewSyncService(history *HistoryService, gateway RemoteGateway, policy RetryPolicy) *SyncService {
	return &SyncService{
		history: history,
		gateway: gateway,
		policy:  policy,
	}
}

// SubmitOne pushes a single record. Success flips the synced flag; any
// failure leaves the record untouched so it stays queued for the next drain.
// Already-synced records are a no-op before any network I/O happens.
func (s *SyncService) SubmitOne(ctx context.Context, record *model.AssessmentRecord) error {
	if record.Synced {
		return nil
	}

	err := s.policy.Do(ctx, func() error {
		return s.gateway.Submit(ctx, record)
	})
	if err != nil {
		monitoring.SyncSubmissions.WithLabelValues("failed").Inc()
		return err
	}

	if err := s.history.MarkSynced(record.ID); err != nil {
		// The remote accepted the record but the local flag did not stick;
		// the next drain resubmits, which the remote tolerates by id.
		monitoring.SyncSubmissions.WithLabelValues("failed").Inc()
		return err
	}

	monitoring.SyncSubmissions.WithLabelValues("succeeded").Inc()
	return nil
}

// DrainQueue walks the unsynced subset strictly sequentially: one in-flight
// submission at a time, deterministic counts, at most one remote submission
// per record per pass. Individual failures never abort the batch, and drain
// errors are never fatal to the application.
func (s *SyncService) DrainQueue(ctx context.Context, userID uint) (*SyncReport, error) {
	s.drainMu.Lock()
	defer s.drainMu.Unlock()

	queue, err := s.history.Unsynced(userID)
	if err != nil {
		return nil, err
	}

	report := &SyncReport{}
	for i := range queue {
		record := &queue[i]
		if err := s.SubmitOne(ctx, record); err != nil {
			report.Failed++
			logger.Log.Warn("record submission failed, left queued",
				zap.String("recordId", record.ID),
				zap.Bool("transient", util.IsTransient(err)),
				zap.Error(err))
			continue
		}
		report.Succeeded++
	}

	if report.Succeeded > 0 || report.Failed > 0 {
		logger.Log.Info("sync drain finished",
			zap.Uint("userId", userID),
			zap.Int("succeeded", report.Succeeded),
			zap.Int("failed", report.Failed))
	}
	return report, nil
}

// DrainAll is the background reconciliation pass over every user's queue.
func (s *SyncService) DrainAll(ctx context.Context) (*SyncReport, error) {
	return s.DrainQueue(ctx, 0)
}
