package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"jkauppila.dev/internal/cms"
	"jkauppila.dev/internal/fallback"
	"jkauppila.dev/internal/models"
)

// Policy decides what Projects does when the CMS fetch fails
type Policy int

const (
	// PolicySoft logs the failure and serves the fallback dataset
	PolicySoft Policy = iota
	// PolicyExplicit returns the *FetchError to the caller
	PolicyExplicit
)

// ParsePolicy maps "soft" and "explicit" to a Policy
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "soft", "":
		return PolicySoft, nil
	case "explicit":
		return PolicyExplicit, nil
	}
	return PolicySoft, fmt.Errorf("unknown fetch policy %q", s)
}

// Source tells where a project list came from
type Source string

const (
	SourceCMS      Source = "cms"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

// Querier runs a GraphQL query. *cms.Client implements it.
type Querier interface {
	Query(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)
}

// PayloadCache stores the raw projects payload between fetches
type PayloadCache interface {
	Get(ctx context.Context) (json.RawMessage, bool, error)
	Set(ctx context.Context, payload json.RawMessage) error
	Invalidate(ctx context.Context) error
}

// FetchError wraps any failure of the live fetch: transport, GraphQL or
// normalization.
type FetchError struct {
	Endpoint string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch projects from %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one fetch. Err is a *FetchError when the live
// fetch failed, in which case Projects is nil.
type Result struct {
	Projects []models.Project
	Source   Source
	Err      error
}

// OrchestratorOptions configures an Orchestrator. A nil Client or empty
// Endpoint means the CMS is not configured.
type OrchestratorOptions struct {
	Client   Querier
	Endpoint string
	Fallback *fallback.Dataset
	Cache    PayloadCache
	Policy   Policy
	Logger   *slog.Logger
}

// Orchestrator produces the project list, preferring live CMS content
type Orchestrator struct {
	client   Querier
	endpoint string
	fallback *fallback.Dataset
	cache    PayloadCache
	policy   Policy
	logger   *slog.Logger
}

// NewOrchestrator creates an Orchestrator
func NewOrchestrator(opts OrchestratorOptions) *Orchestrator {
	o := &Orchestrator{
		client:   opts.Client,
		endpoint: opts.Endpoint,
		fallback: opts.Fallback,
		cache:    opts.Cache,
		policy:   opts.Policy,
		logger:   opts.Logger,
	}
	if o.fallback == nil {
		o.fallback = fallback.Default()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// Fetch runs the pipeline once without applying the failure policy.
// Without a configured endpoint it returns the fallback dataset and makes
// no network call.
func (o *Orchestrator) Fetch(ctx context.Context) Result {
	if o.client == nil || o.endpoint == "" {
		return Result{Projects: o.fallback.Projects(), Source: SourceFallback}
	}

	if o.cache != nil {
		if projects, ok := o.fromCache(ctx); ok {
			return Result{Projects: projects, Source: SourceCache}
		}
	}

	payload, err := o.client.Query(ctx, cms.ProjectsQuery, nil)
	if err != nil {
		return Result{Err: &FetchError{Endpoint: o.endpoint, Err: err}}
	}

	projects, err := cms.Normalize(payload, o.logger)
	if err != nil {
		return Result{Err: &FetchError{Endpoint: o.endpoint, Err: err}}
	}

	if o.cache != nil {
		if err := o.cache.Set(ctx, payload); err != nil {
			o.logger.Warn("cache store failed", "error", err)
		}
	}

	return Result{Projects: projects, Source: SourceCMS}
}

// Projects returns the projects to display. Under PolicySoft a failed
// fetch is logged and the fallback dataset returned; under PolicyExplicit
// the *FetchError is returned.
func (o *Orchestrator) Projects(ctx context.Context) ([]models.Project, error) {
	res := o.Fetch(ctx)
	if res.Err == nil {
		return res.Projects, nil
	}

	if o.policy == PolicyExplicit {
		return nil, res.Err
	}

	o.logger.Warn("CMS fetch failed, serving fallback projects",
		"endpoint", o.endpoint,
		"error", res.Err,
	)
	return o.fallback.Projects(), nil
}

func (o *Orchestrator) fromCache(ctx context.Context) ([]models.Project, bool) {
	payload, ok, err := o.cache.Get(ctx)
	if err != nil {
		o.logger.Warn("cache lookup failed", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	projects, err := cms.Normalize(payload, o.logger)
	if err != nil {
		o.logger.Warn("discarding unusable cached payload", "error", err)
		if err := o.cache.Invalidate(ctx); err != nil {
			o.logger.Warn("cache invalidate failed", "error", err)
		}
		return nil, false
	}
	return projects, true
}
