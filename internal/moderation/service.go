package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/robalyx/promptaudit/pkg/audit"
	"github.com/robalyx/promptaudit/pkg/utils"
	"go.uber.org/zap"
)

// Service answers audit requests. It is transport-free; see Worker for the NATS binding.
type Service struct {
	auditor         Auditor
	metrics         *Metrics
	logger          *zap.Logger
	auditLogger     *zap.Logger
	timeout         time.Duration
	maxPromptLength int
}

// NewService creates a moderation service. metrics and auditLogger may be nil.
func NewService(
	auditor Auditor, metrics *Metrics, logger, auditLogger *zap.Logger, timeout time.Duration, maxPromptLength int,
) *Service {
	if auditLogger == nil {
		auditLogger = zap.NewNop()
	}

	return &Service{
		auditor:         auditor,
		metrics:         metrics,
		logger:          logger.Named("moderation"),
		auditLogger:     auditLogger,
		timeout:         timeout,
		maxPromptLength: maxPromptLength,
	}
}

// Handle decodes a request, audits it and encodes the response.
// Undecodable requests still get a response carrying the error.
func (s *Service) Handle(ctx context.Context, data []byte) ([]byte, error) {
	var (
		req  Request
		resp Response
	)

	if err := sonic.Unmarshal(data, &req); err != nil {
		s.logger.Warn("Failed to decode audit request", zap.Error(err))
		resp = failure(req.ID, fmt.Errorf("%w: %w", ErrInvalidRequest, err))
	} else {
		resp = s.Process(ctx, &req)
	}

	if resp.Error != "" && s.metrics != nil {
		s.metrics.InvalidRequest()
	}

	out, err := sonic.Marshal(&resp)
	if err != nil {
		return nil, fmt.Errorf("failed to encode audit response: %w", err)
	}

	return out, nil
}

// Process audits a decoded request.
func (s *Service) Process(ctx context.Context, req *Request) Response {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text := req.text()
	if text == "" {
		return failure(req.ID, ErrEmptyPrompt)
	}

	text = utils.TruncateBytes(text, s.maxPromptLength)

	var (
		start  = time.Now()
		result audit.AuditResult
	)

	switch req.Mode {
	case ModeMetadata:
		result = s.auditor.AuditMetadata(ctx, audit.Metadata{Prompt: text}, req.NSFW)
	case "", ModePrompt:
		result = s.auditor.AuditPrompt(ctx, text)
	default:
		return failure(req.ID, fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, req.Mode))
	}

	if s.metrics != nil {
		s.metrics.Observe(result, time.Since(start))
	}

	resp := Response{
		ID:         req.ID,
		BlockedFor: result.BlockedFor,
		Success:    result.Success,
		Pipeline:   result.Pipeline,
		Trigger:    result.Trigger,
		Tags:       s.auditor.Tags(text),
	}

	if !result.Success {
		s.auditLogger.Info("Blocked prompt",
			zap.String("id", req.ID),
			zap.String("pipeline", string(result.Pipeline)),
			zap.String("trigger", string(result.Trigger)),
			zap.Strings("reasons", result.BlockedFor))

		if req.Highlight {
			resp.Highlight = s.auditor.Highlight(text)
		}
	}

	return resp
}

// failure builds an error response.
func failure(id string, err error) Response {
	return Response{
		ID:         id,
		BlockedFor: []string{},
		Error:      err.Error(),
	}
}
