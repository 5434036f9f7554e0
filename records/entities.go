package records

import (
	"time"

	"github.com/google/uuid"
)

// Record is implemented by every entity kind a Store holds. Timestamps are
// RFC 3339 strings so the persisted JSON stays human-inspectable.
type Record interface {
	RecordID() string
	CreatedStamp() string
	Stamp(createdAt, updatedAt string)
}

// Stamp formats an instant the way records persist it.
func Stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Project is a local record referencing an upstream hub/project pair.
type Project struct {
	ID                string `json:"id" validate:"required"`
	Name              string `json:"name" validate:"required"`
	HubID             string `json:"hubId" validate:"required"`
	HubName           string `json:"hubName,omitempty"`
	ExternalProjectID string `json:"externalProjectId" validate:"required"`
	CreatedAt         string `json:"createdAt,omitempty"`
	UpdatedAt         string `json:"updatedAt,omitempty"`
}

func (p *Project) RecordID() string     { return p.ID }
func (p *Project) CreatedStamp() string { return p.CreatedAt }

func (p *Project) Stamp(createdAt, updatedAt string) {
	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt
}

// NewProject generates a client-side id for a fresh project record.
func NewProject(name, hubID, hubName, externalProjectID string) *Project {
	return &Project{
		ID:                uuid.New().String(),
		Name:              name,
		HubID:             hubID,
		HubName:           hubName,
		ExternalProjectID: externalProjectID,
	}
}

// ComponentSpec describes one visualization component on a dashboard. Config
// is opaque to the store; the rendering layer owns its shape.
type ComponentSpec struct {
	Type   string         `json:"type" validate:"required"`
	ID     string         `json:"id" validate:"required"`
	Config map[string]any `json:"config,omitempty"`
}

// Dashboard is an ordered arrangement of components scoped to one project.
// Every dashboard carries a ProjectID; unscoped dashboards are not allowed.
type Dashboard struct {
	ID          string          `json:"id" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description,omitempty"`
	Components  []ComponentSpec `json:"components" validate:"dive"`
	ProjectID   string          `json:"projectId" validate:"required"`
	CreatedAt   string          `json:"createdAt,omitempty"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`
}

func (d *Dashboard) RecordID() string     { return d.ID }
func (d *Dashboard) CreatedStamp() string { return d.CreatedAt }

func (d *Dashboard) Stamp(createdAt, updatedAt string) {
	d.CreatedAt = createdAt
	d.UpdatedAt = updatedAt
}

// NewDashboard generates a client-side id for a fresh dashboard record.
func NewDashboard(name, description, projectID string, components []ComponentSpec) *Dashboard {
	return &Dashboard{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Components:  components,
		ProjectID:   projectID,
	}
}
