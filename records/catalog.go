package records

import (
	"time"

	"github.com/hubdash/go-hub-dashboards/kvstore"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Default collection keys in durable storage.
const (
	DefaultProjectsKey   = "hubdash.projects"
	DefaultDashboardsKey = "hubdash.dashboards"
)

// DashboardStore adds the project-scoped operations the dashboard
// collection needs on top of the generic store.
type DashboardStore struct {
	*Store[*Dashboard]
}

// QueryByProject filters dashboards by their owning project, preserving
// stored order.
func (s *DashboardStore) QueryByProject(projectID string) []*Dashboard {
	all := s.GetAll()
	matches := make([]*Dashboard, 0, len(all))
	for _, dashboard := range all {
		if dashboard.ProjectID == projectID {
			matches = append(matches, dashboard)
		}
	}
	return matches
}

// DeleteByProject removes every dashboard referencing the project and
// returns how many were removed. Used for cascade delete.
func (s *DashboardStore) DeleteByProject(projectID string) (int, error) {
	items := s.GetAll()

	kept := make([]*Dashboard, 0, len(items))
	removed := 0
	for _, dashboard := range items {
		if dashboard.ProjectID == projectID {
			removed++
			continue
		}
		kept = append(kept, dashboard)
	}
	if removed == 0 {
		return 0, nil
	}

	if err := s.writeAll(kept); err != nil {
		return 0, errors.Wrap(err, "[DashboardStore.DeleteByProject]")
	}
	return removed, nil
}

// Catalog composes the two record collections and owns the referential rules
// between them.
type Catalog struct {
	Projects   *Store[*Project]
	Dashboards *DashboardStore
}

// CatalogOption defines a function type to modify the Catalog's stores.
type CatalogOption func(*catalogConfig)

type catalogConfig struct {
	logger        zerolog.Logger
	nowTime       func() time.Time
	projectsKey   string
	dashboardsKey string
}

// WithCatalogLogger sets the logger for both stores.
func WithCatalogLogger(logger zerolog.Logger) CatalogOption {
	return func(c *catalogConfig) {
		c.logger = logger
	}
}

// WithCatalogNowTime sets the now time function (primarily for testing)
func WithCatalogNowTime(nowFunc func() time.Time) CatalogOption {
	return func(c *catalogConfig) {
		c.nowTime = nowFunc
	}
}

// WithCollectionKeys overrides the durable keys for the two collections.
func WithCollectionKeys(projectsKey, dashboardsKey string) CatalogOption {
	return func(c *catalogConfig) {
		c.projectsKey = projectsKey
		c.dashboardsKey = dashboardsKey
	}
}

// NewCatalog initializes both collections over one persistence port.
func NewCatalog(kv kvstore.Store, options ...CatalogOption) (*Catalog, error) {
	cfg := &catalogConfig{
		logger:        zerolog.Nop(),
		nowTime:       time.Now,
		projectsKey:   DefaultProjectsKey,
		dashboardsKey: DefaultDashboardsKey,
	}
	for _, opt := range options {
		opt(cfg)
	}

	projects, err := NewStore[*Project](kv, cfg.projectsKey,
		WithLogger[*Project](cfg.logger), WithNowTime[*Project](cfg.nowTime))
	if err != nil {
		return nil, errors.Wrap(err, "[NewCatalog] projects store")
	}

	dashboards, err := NewStore[*Dashboard](kv, cfg.dashboardsKey,
		WithLogger[*Dashboard](cfg.logger), WithNowTime[*Dashboard](cfg.nowTime))
	if err != nil {
		return nil, errors.Wrap(err, "[NewCatalog] dashboards store")
	}

	return &Catalog{
		Projects:   projects,
		Dashboards: &DashboardStore{Store: dashboards},
	}, nil
}

// DeleteProject removes a project together with every dashboard that
// references it. Dashboards go first so a failure never leaves orphans
// pointing at a removed project.
func (c *Catalog) DeleteProject(projectID string) (bool, error) {
	if _, err := c.Dashboards.DeleteByProject(projectID); err != nil {
		return false, errors.Wrap(err, "[Catalog.DeleteProject] cascade")
	}

	removed, err := c.Projects.Delete(projectID)
	if err != nil {
		return false, errors.Wrap(err, "[Catalog.DeleteProject]")
	}
	return removed, nil
}
