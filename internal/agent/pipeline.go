package agent

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sentrypass/sentrypass/internal/model"
)

// Report is the result of running a set of plugins: an app/env-scoped
// bundle of findings ready for upload, per §6's ReportUploadDto shape.
type Report struct {
	AppID    string
	Env      string
	Source   string
	Findings []model.Finding
}

// Pipeline runs a fixed set of plugins and aggregates their findings.
// Plugins are independent and side-effect-free from the pipeline's point
// of view, so they run concurrently; a single plugin's failure aborts the
// run rather than silently dropping findings.
type Pipeline struct {
	Plugins []CheckPlugin
}

// NewPipeline builds a Pipeline over the given plugins.
func NewPipeline(plugins []CheckPlugin) *Pipeline {
	return &Pipeline{Plugins: plugins}
}

// Run executes every plugin concurrently and returns their combined
// findings. Each plugin's slot in the results is independent, so no
// locking is needed around the writes themselves.
func (p *Pipeline) Run(ctx context.Context, appID, env, source string) (Report, error) {
	results := make([][]model.Finding, len(p.Plugins))

	g, gCtx := errgroup.WithContext(ctx)
	for i, plugin := range p.Plugins {
		i, plugin := i, plugin
		g.Go(func() error {
			findings, err := plugin.Run(gCtx)
			if err != nil {
				return fmt.Errorf("agent: plugin %s: %w", plugin.Name(), err)
			}
			results[i] = findings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	var findings []model.Finding
	for _, r := range results {
		findings = append(findings, r...)
	}

	return Report{
		AppID:    appID,
		Env:      env,
		Source:   source,
		Findings: findings,
	}, nil
}
