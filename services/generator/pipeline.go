package generator

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
)

// PipelineConfig configures a Pipeline.
type PipelineConfig struct {
	Storage Storage
	Bucket  string
	Now     func() time.Time    // defaults to time.Now
	Sleep   func(time.Duration) // defaults to time.Sleep
	Logger  *log.Logger
}

// Pipeline sequences the generation stages for one build request:
// identity derivation, icon decoding, template rendering, archive assembly,
// and publishing. Each invocation is an independent, stateless unit of work.
type Pipeline struct {
	renderer  *Renderer
	publisher *Publisher
	now       func() time.Time
	logger    *log.Logger
}

// NewPipeline validates the configuration, parses the embedded templates,
// and returns a ready Pipeline.
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if cfg.Storage == nil {
		return nil, errors.New("storage is required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("bucket is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		renderer: renderer,
		publisher: &Publisher{
			Storage: cfg.Storage,
			Bucket:  cfg.Bucket,
			Sleep:   cfg.Sleep,
			Logger:  cfg.Logger,
		},
		now:    cfg.Now,
		logger: cfg.Logger,
	}, nil
}

// Run executes the full generation pipeline for cfg. Any stage failure
// short-circuits the remaining stages; no external state exists before the
// publish step, so no cleanup is required on failure.
func (p *Pipeline) Run(ctx context.Context, cfg Config) (Artifact, error) {
	if err := validate(cfg); err != nil {
		return Artifact{}, err
	}

	id := Identity{
		BuildID:     BuildID(cfg.AppName, p.now()),
		PackageName: PackageName(cfg.AppName),
	}

	icon, err := DecodeIcon(cfg.IconData)
	if err != nil {
		return Artifact{}, err
	}

	project, err := p.renderer.RenderProject(cfg, id, icon)
	if err != nil {
		return Artifact{}, err
	}

	archive, err := Assemble(project)
	if err != nil {
		return Artifact{}, err
	}

	url, err := p.publisher.Publish(ctx, archive, id.BuildID)
	if err != nil {
		return Artifact{}, err
	}

	p.logf("INFO published build %s (%d bytes) at %s", id.BuildID, len(archive), url)

	return Artifact{
		BuildID:     id.BuildID,
		AppName:     cfg.AppName,
		PackageName: id.PackageName,
		DownloadURL: url,
	}, nil
}

func validate(cfg Config) error {
	var missing []string
	if strings.TrimSpace(cfg.WebsiteURL) == "" {
		missing = append(missing, "websiteUrl")
	}
	if strings.TrimSpace(cfg.AppName) == "" {
		missing = append(missing, "appName")
	}
	if strings.TrimSpace(cfg.IconData) == "" {
		missing = append(missing, "iconData")
	}
	if len(missing) > 0 {
		return errorf(KindMissingFields, "missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}
