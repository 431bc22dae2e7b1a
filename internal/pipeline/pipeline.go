// Package pipeline runs a conversion: it fixes the tenant prefix, executes
// the derived builders and the per-kind transformers, and merges their
// fragments into one target bundle.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/talifan/adv-reverse2seaf/internal/ids"
	"github.com/talifan/adv-reverse2seaf/internal/logging"
	"github.com/talifan/adv-reverse2seaf/internal/models"
	"github.com/talifan/adv-reverse2seaf/internal/transform"
	"github.com/talifan/adv-reverse2seaf/internal/warnings"
)

// Options tune one run. The zero value infers the prefix, runs every step
// and uses the built-in branch mapping.
type Options struct {
	Prefix         string
	Kinds          []string
	BranchSegments map[string]string
	Logger         *slog.Logger
}

// KindCount is the number of entities a step produced for one target kind.
type KindCount struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// StepReport describes what one step read and produced.
type StepReport struct {
	Name        string      `json:"name"`
	Source      string      `json:"source,omitempty"`
	SourceCount int         `json:"source_count"`
	Produced    []KindCount `json:"produced"`
}

// Total is the number of entities the step produced.
func (r StepReport) Total() int {
	total := 0
	for _, kc := range r.Produced {
		total += kc.Count
	}
	return total
}

// Result is the outcome of a successful run.
type Result struct {
	Prefix   string
	Targets  *models.TargetBundle
	Warnings []warnings.Entry
	Steps    []StepReport
	Skipped  []string
}

// WarningLines renders the warnings in the operator template.
func (r *Result) WarningLines() []string {
	out := make([]string, len(r.Warnings))
	for i, entry := range r.Warnings {
		out[i] = entry.String()
	}
	return out
}

// Convert transforms src into the target model. Soft data defects end up in
// Result.Warnings; a merge conflict aborts the run and no partial result is
// returned.
func Convert(src *models.SourceBundle, opts Options) (*Result, error) {
	if src == nil {
		src = models.NewSourceBundle()
	}
	logger := logging.OrDiscard(opts.Logger)

	idSvc := ids.New()
	prefix := idSvc.EnsurePrefix(opts.Prefix, src)
	collector := warnings.New()
	env := transform.NewEnv(src, idSvc, collector, opts.BranchSegments)

	steps, skipped := Select(opts.Kinds)
	for _, name := range skipped {
		logger.Warn("no converter for entity, skipping", "entity", name)
	}
	logger.Info("pipeline started", "prefix", prefix, "steps", len(steps))

	acc := models.NewTargetBundle()
	reports := make([]StepReport, 0, len(steps))
	for _, step := range steps {
		before := collector.Len()
		fragment := step.Build(src, env)
		if err := Merge(acc, fragment); err != nil {
			logger.Error("merge failed", "step", step.Name, "error", err)
			return nil, fmt.Errorf("failed to merge step %s: %w", step.Name, err)
		}

		report := newReport(step, src, fragment)
		reports = append(reports, report)
		logger.Debug("step finished",
			"step", step.Name,
			"source_count", report.SourceCount,
			"produced", report.Total(),
			"warnings", collector.Len()-before,
		)
	}

	result := &Result{
		Prefix:   prefix,
		Targets:  Canonicalize(acc),
		Warnings: collector.Entries(),
		Steps:    reports,
		Skipped:  skipped,
	}
	logger.Info("pipeline finished", "warnings", len(result.Warnings))
	return result, nil
}

func newReport(step Step, src *models.SourceBundle, fragment *models.TargetBundle) StepReport {
	report := StepReport{Name: step.Name, Produced: []KindCount{}}
	if !step.Derived() {
		report.Source = models.SourceKindName(step.Source)
		report.SourceCount = src.Kind(step.Source).Len()
	}
	fragment.Each(func(kind string, entities *models.Entities) bool {
		report.Produced = append(report.Produced, KindCount{Kind: kind, Count: entities.Len()})
		return true
	})
	return report
}
