package di

import (
	"context"
	"fmt"
	"net/http"

	"webtools/internal/adapter/tools"
	"webtools/internal/application/port/input"
	"webtools/internal/application/port/output"
	"webtools/internal/application/service"
	"webtools/internal/infrastructure/browser/rod"
	"webtools/internal/infrastructure/diagnostics"
	"webtools/internal/infrastructure/env"
	"webtools/internal/infrastructure/httpapi"
	"webtools/internal/infrastructure/llm/openrouter"
	"webtools/internal/infrastructure/logger"
	"webtools/internal/infrastructure/mcp"
	"webtools/internal/infrastructure/prompts"
	"webtools/internal/infrastructure/userinteraction"
	"webtools/internal/usecase/executor"
)

const (
	serverName         = "webtools"
	serverInstructions = "Site-specific tools for the page open in the browser. " +
		"Tools are named <site>__<action> and only work on their own site."
)

type Container struct {
	Browser    *rod.BrowserAdapter
	Logger     output.LoggerPort
	Catalog    *service.Catalog
	Dispatcher *service.Dispatcher

	cfg Config
}

type Config struct {
	LogName  string
	LogLevel string

	Browser    rod.BrowserConfig
	Settle     tools.Settle
	Strict     bool
	CaptureDir string

	OpenRouterAPIKey string
	OpenRouterModel  string
}

// ConfigFromEnv reads every setting from the environment. Missing values fall
// back to the defaults of each component.
func ConfigFromEnv(cfg output.ConfigPort, logName string) Config {
	browserCfg := rod.DefaultConfig()
	browserCfg.Headless = cfg.GetBool(env.KeyHeadless, false)
	browserCfg.ControlURL = cfg.Get(env.KeyControlURL)
	browserCfg.Timeout = cfg.GetDuration(env.KeyTimeout, browserCfg.Timeout)

	settle := tools.DefaultSettle()
	settle.Delay = cfg.GetDuration(env.KeySettleDelay, settle.Delay)
	settle.Timeout = cfg.GetDuration(env.KeySettleTimeout, settle.Timeout)

	return Config{
		LogName:          logName,
		LogLevel:         cfg.GetWithDefault(env.KeyLogLevel, "info"),
		Browser:          browserCfg,
		Settle:           settle,
		Strict:           cfg.GetBool(env.KeyStrict, false),
		CaptureDir:       cfg.Get(env.KeyCaptureDir),
		OpenRouterAPIKey: cfg.Get(env.KeyOpenRouterKey),
		OpenRouterModel:  cfg.Get(env.KeyOpenRouterModel),
	}
}

// NewCatalog builds the catalog without a browser, for listing only.
func NewCatalog() (*service.Catalog, error) {
	return tools.NewCatalog(tools.Deps{Logger: logger.Nop(), Settle: tools.DefaultSettle()})
}

func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(cfg.LogName, logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	browser, err := rod.NewBrowserAdapter(ctx, cfg.Browser)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}

	catalog, err := tools.NewCatalog(tools.Deps{
		Page:   browser,
		Logger: log.Named("tools"),
		Settle: cfg.Settle,
	})
	if err != nil {
		browser.Close()
		log.Close()
		return nil, err
	}

	dispatcherCfg := service.DispatcherConfig{StrictApplicability: cfg.Strict}
	if cfg.CaptureDir != "" {
		dispatcherCfg.Diagnostics = diagnostics.NewRecorder(cfg.CaptureDir, browser, log)
	}

	dispatcher, err := service.NewDispatcher(catalog, browser, log, dispatcherCfg)
	if err != nil {
		browser.Close()
		log.Close()
		return nil, err
	}

	log.Info("Container ready",
		"entries", len(catalog.Entries()),
		"strict", cfg.Strict,
		"attached", cfg.Browser.ControlURL != "",
	)

	return &Container{
		Browser:    browser,
		Logger:     log,
		Catalog:    catalog,
		Dispatcher: dispatcher,
		cfg:        cfg,
	}, nil
}

func (c *Container) MCPServer(version string) *mcp.ToolServer {
	return mcp.NewToolServer(mcp.ServerConfig{
		Name:         serverName,
		Version:      version,
		Description:  "Browser tool bindings for well-known sites",
		Instructions: serverInstructions,
		Catalog:      c.Catalog,
		Invoker:      c.Dispatcher,
		Logger:       c.Logger,
	})
}

func (c *Container) HTTPHandler() http.Handler {
	return httpapi.NewRouter(c.Dispatcher, c.Logger, httpapi.Options{AccessLog: true})
}

// TaskExecutor wires the LLM loop. It needs an OpenRouter key and model.
func (c *Container) TaskExecutor(ctx context.Context) (input.TaskExecutor, error) {
	if c.cfg.OpenRouterAPIKey == "" || c.cfg.OpenRouterModel == "" {
		return nil, fmt.Errorf("%s and %s must be set", env.KeyOpenRouterKey, env.KeyOpenRouterModel)
	}

	llmCfg := openrouter.DefaultConfig(c.cfg.OpenRouterAPIKey, c.cfg.OpenRouterModel)
	llmCfg.Logger = c.Logger
	llm := openrouter.NewOpenRouterAdapter(llmCfg)

	page := ""
	if loc, err := c.Browser.Location(ctx); err == nil {
		page = loc.URL
	}
	systemPrompt, err := prompts.GenerateAgentPrompt(prompts.AgentPrompt, c.Catalog.Infos(), page)
	if err != nil {
		return nil, fmt.Errorf("render system prompt: %w", err)
	}

	return executor.New(llm, c.Dispatcher, c.Logger, userinteraction.NewConsoleUserInteraction(), systemPrompt), nil
}

func (c *Container) Close() {
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
