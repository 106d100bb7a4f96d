package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/iwvelando/deal-analyzer/internal/analysis"
	"github.com/iwvelando/deal-analyzer/internal/cache"
	"github.com/iwvelando/deal-analyzer/internal/config"
	"github.com/iwvelando/deal-analyzer/internal/optimizer"
	"github.com/iwvelando/deal-analyzer/pkg/optimization"
	"github.com/iwvelando/deal-analyzer/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// cacheStatusHeader reports whether an analysis came from the cache.
const cacheStatusHeader = "X-Cache"

const analysisCacheNamespace = "analysis"

type analyzeRequest struct {
	Deal     analysis.DealInput     `json:"deal"`
	Scenario analysis.ScenarioInput `json:"scenario"`
}

type analyzeResponse struct {
	Metrics  analysis.DealMetrics `json:"metrics"`
	Warnings []string             `json:"warnings,omitempty"`
}

type optimizeRequest struct {
	Deal       analysis.DealInput       `json:"deal"`
	Scenario   analysis.ScenarioInput   `json:"scenario"`
	Directives []config.OptimizerConfig `json:"directives"`
}

type optimizeResponse struct {
	Summaries []optimization.Summary `json:"summaries"`
	Duration  string                 `json:"duration"`
}

type exportRequest struct {
	Deal      analysis.DealInput       `json:"deal"`
	Scenario  analysis.ScenarioInput   `json:"scenario"`
	Optimizer []config.OptimizerConfig `json:"optimizer,omitempty"`
	AsOf      string                   `json:"asOf,omitempty"`
}

func (h *handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAnalyze"

	var req analyzeRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	h.respondAnalysis(r.Context(), w, req.Deal, req.Scenario, op)
}

// respondAnalysis validates the deal and writes its rounded metrics, using
// the cache when one is configured.
func (h *handler) respondAnalysis(ctx context.Context, w http.ResponseWriter, deal analysis.DealInput, scenario analysis.ScenarioInput, op string) {
	if err := validation.ValidateDeal(deal, scenario); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	body, hit, err := h.analysisBody(ctx, deal, scenario, op)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode analysis: %v", err), op)
		return
	}

	status := "MISS"
	if hit {
		status = "HIT"
	}
	w.Header().Set(cacheStatusHeader, status)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("failed to write analysis response", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) analysisBody(ctx context.Context, deal analysis.DealInput, scenario analysis.ScenarioInput, op string) ([]byte, bool, error) {
	var key string
	if h.cache != nil {
		k, err := cache.Key(analysisCacheNamespace, analyzeRequest{Deal: deal, Scenario: scenario})
		if err != nil {
			h.logger.Warn("failed to derive cache key", zap.String("op", op), zap.Error(err))
		} else {
			key = k
			data, ok, err := h.cache.Get(ctx, key)
			switch {
			case err != nil:
				h.logger.Warn("cache lookup failed", zap.String("op", op), zap.Error(err))
			case ok:
				return data, true, nil
			}
		}
	}

	resp := analyzeResponse{
		Metrics:  h.engine.Analyze(deal, scenario).Rounded(),
		Warnings: validation.DealWarnings(deal),
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, false, err
	}
	data = append(data, '\n')

	if key != "" {
		if err := h.cache.Set(ctx, key, data); err != nil {
			h.logger.Warn("cache store failed", zap.String("op", op), zap.Error(err))
		}
	}
	return data, false, nil
}

func (h *handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleOptimize"
	start := time.Now()

	var req optimizeRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	if err := validation.ValidateDeal(req.Deal, req.Scenario); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if len(req.Directives) == 0 {
		h.respondErrorWithOp(w, http.StatusBadRequest, "at least one optimizer directive is required", op)
		return
	}
	for i := range req.Directives {
		req.Directives[i].Normalize()
	}

	runner := optimizer.NewRunner(h.logger, req.Deal, req.Scenario)
	summaries, err := runner.Run(req.Directives)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("optimizer execution failed: %v", err), op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("break-even directives solved",
		zap.String("op", op),
		zap.Int("directives", len(summaries)),
		zap.Duration("duration", elapsed),
	)
	h.writeJSON(w, http.StatusOK, optimizeResponse{Summaries: summaries, Duration: elapsed.String()})
}

// handleConfigExport renders a deal as a deal file the CLI can load.
func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"

	var req exportRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	for i := range req.Optimizer {
		req.Optimizer[i].Normalize()
	}

	cfg := config.Configuration{
		Deal:      req.Deal,
		Scenario:  req.Scenario,
		Optimizer: req.Optimizer,
		AsOf:      req.AsOf,
	}
	yamlBytes, err := yaml.Marshal(cfg)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}
