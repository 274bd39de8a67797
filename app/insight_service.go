package app

import (
	"context"
	"strings"
	"time"

	"sheetlens/internal/logx"
	"sheetlens/ports"
)

// InsightService orchestrates the external insight collaborator. The
// remote generator gets a bounded-time request; on failure, timeout, or an
// empty response the service substitutes the deterministic fallback, so a
// usable summary never depends on the network.
type InsightService struct {
	remote   ports.InsightGenerator // may be nil when no API key is configured
	fallback ports.InsightGenerator
	timeout  time.Duration
	log      *logx.Logger
}

// NewInsightService wires the remote and fallback generators
func NewInsightService(remote, fallback ports.InsightGenerator, timeout time.Duration, log *logx.Logger) *InsightService {
	if log == nil {
		log = logx.DefaultLogger
	}
	return &InsightService{remote: remote, fallback: fallback, timeout: timeout, log: log}
}

// Summarize returns insight text for an analysis result. The second return
// reports whether the remote generator produced the text.
func (s *InsightService) Summarize(ctx context.Context, result *AnalysisResult) (string, bool) {
	req := BuildInsightRequest(result)

	if s.remote != nil {
		reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
		text, err := s.remote.Generate(reqCtx, req)
		cancel()
		if err == nil && strings.TrimSpace(text) != "" {
			return text, true
		}
		if err != nil {
			s.log.Warn("insight generator failed, using fallback: %v", err)
		}
	}

	text, _ := s.fallback.Generate(ctx, req)
	return text, false
}
