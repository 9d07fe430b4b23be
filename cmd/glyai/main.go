package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/glynne/glyai/internal/chat"
	"github.com/glynne/glyai/internal/config"
	"github.com/glynne/glyai/internal/httpapi"
	"github.com/glynne/glyai/internal/observability"
	"github.com/glynne/glyai/internal/prompt"
	"github.com/glynne/glyai/internal/provider"
	"github.com/glynne/glyai/internal/report"
	"github.com/glynne/glyai/internal/session"
	"github.com/glynne/glyai/internal/turnlog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	logStore, err := turnlog.New(ctx, cfg.DataDir, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("turn log init failed: %v", err)
	}
	defer logStore.Close()

	chatChain := buildChain(cfg, chainSpec{
		label:       "chat",
		groqKey:     cfg.GroqAPIKey,
		groqModel:   cfg.GroqChatModel,
		temperature: 0.4,
		maxTokens:   110,
		hfKey:       cfg.HuggingFaceAPIKey,
		apology:     prompt.ChatApology,
	})
	reportChain := buildChain(cfg, chainSpec{
		label:       "report",
		groqKey:     cfg.GroqReportAPIKey,
		groqModel:   cfg.GroqReportModel,
		temperature: 0.7,
		hfKey:       cfg.HuggingFaceReportAPIKey,
		apology:     prompt.ReportApology,
	})

	sessions := session.NewStore(cfg.HistoryWindow)
	sessions.SetExpireHook(func(sessionID string) {
		if err := logStore.Delete(context.Background(), sessionID); err != nil {
			log.Printf("delete turn log for expired session %q: %v", sessionID, err)
		}
		metrics.SessionEvents.WithLabelValues("expired").Inc()
		metrics.ActiveSessions.Set(float64(sessions.ActiveCount()))
	})

	orchestrator := chat.NewOrchestrator(sessions, logStore, chatChain, metrics)
	auditor := report.NewAuditor(logStore, reportChain, metrics)

	api := httpapi.New(cfg, orchestrator, auditor, metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	sessions.StartReaper(runCtx, cfg.ReaperPeriod, cfg.InactivityTimeout)

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}

type chainSpec struct {
	label       string
	groqKey     string
	groqModel   string
	temperature float32
	maxTokens   int
	hfKey       string
	apology     string
}

// buildChain assembles the primary/fallback chain for one flow. In auto mode
// a missing Groq key degrades to the local mock generator so the service is
// usable without credentials.
func buildChain(cfg config.Config, spec chainSpec) *provider.Chain {
	mode := strings.ToLower(strings.TrimSpace(cfg.ProviderMode))

	if mode == "mock" {
		log.Printf("%s provider: mock", spec.label)
		return provider.NewChain(provider.NewMock("mock-"+spec.label), nil, spec.apology)
	}

	if spec.groqKey == "" {
		if mode == "live" {
			log.Fatalf("PROVIDER_MODE=live but GROQ_API_KEY is not set")
		}
		log.Printf("%s provider: mock (no groq key)", spec.label)
		return provider.NewChain(provider.NewMock("mock-"+spec.label), nil, spec.apology)
	}

	primary := provider.NewClient(provider.ClientConfig{
		Name:        "groq-" + spec.label,
		APIKey:      spec.groqKey,
		BaseURL:     cfg.GroqBaseURL,
		Model:       spec.groqModel,
		Temperature: spec.temperature,
		MaxTokens:   spec.maxTokens,
	})

	var fallback provider.Generator
	if spec.hfKey != "" {
		fallback = provider.NewClient(provider.ClientConfig{
			Name:        "huggingface-" + spec.label,
			APIKey:      spec.hfKey,
			BaseURL:     cfg.HuggingFaceBaseURL,
			Model:       cfg.HuggingFaceModel,
			Temperature: spec.temperature,
		})
		log.Printf("%s provider: groq %s with huggingface fallback", spec.label, spec.groqModel)
	} else {
		log.Printf("%s provider: groq %s (no fallback key)", spec.label, spec.groqModel)
	}

	return provider.NewChain(primary, fallback, spec.apology)
}
