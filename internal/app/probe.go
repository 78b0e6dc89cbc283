package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/samvad-comment-probe/internal/config"
	"github.com/samvad-hq/samvad-comment-probe/internal/domain"
	"github.com/samvad-hq/samvad-comment-probe/internal/logger"
	"github.com/samvad-hq/samvad-comment-probe/internal/probe"
	"github.com/samvad-hq/samvad-comment-probe/internal/storage"
	"github.com/samvad-hq/samvad-comment-probe/pkg/commentsapi"
	"github.com/samvad-hq/samvad-comment-probe/pkg/httpclient"
	"github.com/samvad-hq/samvad-comment-probe/pkg/publishers"
)

// Probe is the comment-probe runtime. It owns the API client, the publisher fanout,
// and the exchange archive.
type Probe struct {
	cfg     *config.Config
	fanout  *publishers.Fanout
	service *probe.Service
	archive storage.Archive
	log     logger.Logger
}

// New builds a probe runtime from config.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*Probe, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}

	api := commentsapi.New(httpclient.NewRestyClient(cfg.RequestTimeout), cfg.APIBaseURL, nil)
	return NewWithAPI(ctx, cfg, api, log)
}

// NewWithAPI is New with an injected API implementation.
func NewWithAPI(ctx context.Context, cfg *config.Config, api probe.API, log logger.Logger) (*Probe, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)

	pubCfgs, err := loadPublisherConfigs(cfg.PublishersFile)
	if err != nil {
		return nil, err
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), pubCfgs, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(pubCfgs))
	for _, pubCfg := range pubCfgs {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.DebugObj("publishers loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	archiveOpts := storage.Options{
		TTL:             cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	archive, err := storage.NewArchive(cfg.StorageType, cfg.BBoltPath, archiveOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.DebugObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"ttl_seconds":              int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	return &Probe{
		cfg:     cfg,
		fanout:  fanout,
		service: probe.NewService(api, fanout, archive, cfg.AppName, log),
		archive: archive,
		log:     log,
	}, nil
}

// loadPublisherConfigs reads the publishers file, or falls back to console logging.
func loadPublisherConfigs(path string) ([]publishers.PublisherConfig, error) {
	var (
		reg *publishers.ConfigRegistry
		err error
	)
	if path == "" {
		reg, err = publishers.NewConfigRegistry(publishers.DefaultConfigs())
	} else {
		reg, err = publishers.LoadRegistry(path)
	}
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := reg.Enabled()
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}
	return enabled, nil
}

// DefaultOperations returns the GET and the POST the probe issues by default.
func DefaultOperations(cfg *config.Config) []probe.Operation {
	return []probe.Operation{
		probe.GetComment{ID: cfg.CommentID},
		probe.CreateComment{Draft: cfg.Draft()},
	}
}

// Run issues ops once. With no ops, the default pair is used.
func (p *Probe) Run(ctx context.Context, ops ...probe.Operation) error {
	if p == nil || p.service == nil {
		return fmt.Errorf("probe is not initialized")
	}
	if len(ops) == 0 {
		ops = DefaultOperations(p.cfg)
	}

	names := make([]string, 0, len(ops))
	for _, op := range ops {
		names = append(names, op.Name())
	}
	p.log.DebugObj("probe run starting", "probe_state", map[string]any{
		"operations":       names,
		"publishers_count": p.fanout.Size(),
		"base_url":         p.cfg.APIBaseURL,
	})

	return p.service.Run(ctx, ops...)
}

// History returns archived exchanges, oldest first.
func (p *Probe) History() ([]domain.Exchange, error) {
	if p == nil || p.archive == nil {
		return nil, fmt.Errorf("probe is not initialized")
	}
	return p.archive.List()
}

// Close releases publishers and the archive.
func (p *Probe) Close() error {
	if p == nil {
		return nil
	}
	var errs []error
	if err := p.fanout.Close(); err != nil {
		errs = append(errs, err)
	}
	if p.archive != nil {
		if err := p.archive.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage close: %w", err))
		}
	}
	return errors.Join(errs...)
}
