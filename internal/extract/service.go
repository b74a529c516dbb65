package extract

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/taskmill/taskmill/internal/assign"
	"github.com/taskmill/taskmill/internal/observe"
	"github.com/taskmill/taskmill/internal/roster"
	"github.com/taskmill/taskmill/internal/task"
	"github.com/taskmill/taskmill/internal/taskstore"
)

// ResolvedTask pairs a normalized task with its assignment disposition.
type ResolvedTask struct {
	task.Task
	Assignment assign.Disposition `json:"assignment"`
}

// Extraction is the caller-facing result of one pipeline run.
type Extraction struct {
	Tasks    []ResolvedTask `json:"tasks"`
	Metadata Metadata       `json:"metadata"`
}

// ServiceOption configures a [Service].
type ServiceOption func(*Service)

// WithRosterStore attaches the team-membership store used to load rosters
// by team id. Without one, extraction runs roster-less and every task
// disposes as NO_ASSIGNEE_SPECIFIED or NOT_A_TEAM_MEMBER.
func WithRosterStore(s roster.Store) ServiceOption {
	return func(svc *Service) {
		svc.rosters = s
	}
}

// WithTaskStore attaches the persistence store extraction results are
// handed off to. Without one, results are returned but not stored.
func WithTaskStore(s taskstore.Store) ServiceOption {
	return func(svc *Service) {
		svc.tasks = s
	}
}

// WithMetrics attaches metric instruments. Default: none.
func WithMetrics(m *observe.Metrics) ServiceOption {
	return func(svc *Service) {
		svc.metrics = m
	}
}

// Service is the single entry point of the extraction pipeline: it loads
// the team roster, runs the configured extractor, resolves assignees, and
// hands the results off to persistence. Safe for concurrent use; runs for
// different transcripts share no mutable state.
type Service struct {
	extractor Extractor
	resolver  *assign.Resolver
	rosters   roster.Store
	tasks     taskstore.Store
	metrics   *observe.Metrics
}

// NewService returns a [Service] on the given extractor and resolver.
func NewService(extractor Extractor, resolver *assign.Resolver, opts ...ServiceOption) *Service {
	svc := &Service{
		extractor: extractor,
		resolver:  resolver,
	}
	for _, o := range opts {
		o(svc)
	}
	return svc
}

// Extract runs the full pipeline for one transcript. teamID may be empty,
// in which case no roster is loaded and nothing is persisted under a team.
//
// Any extractor error aborts the entire run — there is no partial-results
// contract: either every task from one extraction, or none.
func (s *Service) Extract(ctx context.Context, transcript, teamID string) (*Extraction, error) {
	start := time.Now()

	var members []roster.Member
	if teamID != "" && s.rosters != nil {
		var err error
		members, err = s.rosters.List(ctx, teamID)
		if err != nil {
			return nil, fmt.Errorf("extract: load roster for team %q: %w", teamID, err)
		}
	}

	res, err := s.extractor.Extract(ctx, transcript, members)
	if err != nil {
		return nil, err
	}

	resolved := make([]ResolvedTask, len(res.Tasks))
	records := make([]taskstore.Record, len(res.Tasks))
	for i, t := range res.Tasks {
		d := s.resolver.Resolve(t, members)
		resolved[i] = ResolvedTask{Task: t, Assignment: d}
		records[i] = taskstore.Record{TeamID: teamID, Task: t, Disposition: d}

		if s.metrics != nil && !d.Assigned() {
			s.metrics.TasksUnassigned.Add(ctx, 1, metric.WithAttributes(
				attribute.String("reason", string(d.Reason)),
			))
		}
	}

	if s.tasks != nil {
		if _, err := s.tasks.Save(ctx, records); err != nil {
			return nil, fmt.Errorf("extract: persist tasks: %w", err)
		}
	}

	if s.metrics != nil {
		attrs := metric.WithAttributes(attribute.String("extractor", res.Metadata.Model))
		s.metrics.ExtractionDuration.Record(ctx, time.Since(start).Seconds(), attrs)
		s.metrics.TasksExtracted.Add(ctx, int64(len(res.Tasks)), attrs)
	}

	return &Extraction{Tasks: resolved, Metadata: res.Metadata}, nil
}
