package records

// SampleProject returns the example project used to populate a fresh
// install. The ids are fixed so the sample dashboards can reference them.
func SampleProject() *Project {
	return &Project{
		ID:                "sample-project",
		Name:              "Sample Project",
		HubID:             "sample-hub",
		HubName:           "Sample Hub",
		ExternalProjectID: "b.sample-project",
	}
}

// SampleDashboards returns the example dashboards shown before the user has
// created anything of their own.
func SampleDashboards() []*Dashboard {
	return []*Dashboard{
		{
			ID:          "sample-overview",
			Name:        "Project Overview",
			Description: "Key figures for the sample project",
			ProjectID:   "sample-project",
			Components: []ComponentSpec{
				{Type: "bar-chart", ID: "issues-by-status", Config: map[string]any{"groupBy": "status"}},
				{Type: "pie-chart", ID: "models-by-discipline", Config: map[string]any{"groupBy": "discipline"}},
			},
		},
		{
			ID:          "sample-viewer",
			Name:        "Model Viewer",
			Description: "Latest model with a properties panel",
			ProjectID:   "sample-project",
			Components: []ComponentSpec{
				{Type: "viewer", ID: "main-viewer", Config: map[string]any{"extensions": []any{"properties"}}},
			},
		},
	}
}

// SeedSamples populates both collections when they are empty. Existing user
// data is never touched.
func (c *Catalog) SeedSamples() error {
	if err := c.Projects.SeedIfEmpty([]*Project{SampleProject()}); err != nil {
		return err
	}
	return c.Dashboards.SeedIfEmpty(SampleDashboards())
}
