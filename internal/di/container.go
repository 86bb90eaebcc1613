package di

import (
	"fmt"
	"time"

	"satellite-agent/internal/application/port/input"
	"satellite-agent/internal/application/port/output"
	"satellite-agent/internal/infrastructure/browser/rod"
	"satellite-agent/internal/infrastructure/env"
	"satellite-agent/internal/infrastructure/logger"
	"satellite-agent/internal/usecase/auth"
	"satellite-agent/internal/usecase/download"
	"satellite-agent/internal/usecase/extract"
	"satellite-agent/internal/usecase/portal"
	"satellite-agent/internal/usecase/query"
	"satellite-agent/internal/usecase/session"
)

type Container struct {
	Config output.ConfigPort
	Logger output.LoggerPort
	Agent  input.PortalAgent
}

// NewContainer wires the full agent. Timeouts and browser behavior come
// from the environment:
//
//	BROWSER_HEADLESS        (default true)
//	BROWSER_SLOWMO_MS       (default 500)
//	AGENT_RESULTS_TIMEOUT_SEC   (default 30)
//	AGENT_DOWNLOAD_TIMEOUT_SEC  (default 120)
func NewContainer(runName string) (*Container, error) {
	cfg := env.NewService()

	log, err := logger.New(runName)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	rodCfg := rod.DefaultConfig()
	rodCfg.Headless = cfg.GetBool("BROWSER_HEADLESS", true)
	rodCfg.SlowMotion = time.Duration(cfg.GetInt("BROWSER_SLOWMO_MS", 500)) * time.Millisecond
	factory := rod.NewFactory(rodCfg)

	resultsWait := time.Duration(cfg.GetInt("AGENT_RESULTS_TIMEOUT_SEC", 30)) * time.Second
	downloadWait := time.Duration(cfg.GetInt("AGENT_DOWNLOAD_TIMEOUT_SEC", 120)) * time.Second

	sessions := session.NewManager(factory, log)
	gate := auth.NewGate(cfg, log)
	translator := query.NewTranslator(log, resultsWait)
	extractor := extract.NewExtractor(log)
	downloader := download.NewOrchestrator(log, downloadWait)

	agent := portal.NewAgent(sessions, gate, translator, extractor, downloader, log)

	return &Container{
		Config: cfg,
		Logger: log,
		Agent:  agent,
	}, nil
}

func (c *Container) Close() {
	if c.Logger != nil {
		_ = c.Logger.Close()
	}
}
