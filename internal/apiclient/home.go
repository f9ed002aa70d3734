package apiclient

import (
	"context"
	"net/http"
)

// Overview is the summary shown on the home view.
type Overview struct {
	DeviceCount    int `json:"deviceCount"`
	ModalTypes     int `json:"modalTypes"`
	SecurityEvents int `json:"securityEvents"`
	DispatchTasks  int `json:"dispatchTasks"`
}

// Deployment is one node on the deployment map. Value holds longitude and
// latitude.
type Deployment struct {
	Name    string     `json:"name"`
	Value   [2]float64 `json:"value"`
	Devices int        `json:"devices"`
	Status  string     `json:"status"`
}

// Health is the body of the backend health check.
type Health struct {
	Status string `json:"status"`
}

// HomeOverview fetches GET /api/home/overview.
func (c *Client) HomeOverview(ctx context.Context) (*Overview, error) {
	var out Overview
	if err := c.do(ctx, http.MethodGet, "/api/home/overview", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HomeDeployments fetches GET /api/home/deployments.
func (c *Client) HomeDeployments(ctx context.Context) ([]Deployment, error) {
	var out struct {
		Deployments []Deployment `json:"deployments"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/home/deployments", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Deployments, nil
}

// Health fetches GET /health.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
