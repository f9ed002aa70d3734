package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Applications lists applications, GET /api/applications.
func (c *Client) Applications(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, "/api/applications", nil, nil)
}

// ApplicationTopology fetches the network topology of an application,
// GET /api/applications/{id}/topology.
func (c *Client) ApplicationTopology(ctx context.Context, applicationID string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, "/api/applications/"+url.PathEscape(applicationID)+"/topology", nil, nil)
}

// CreateTopologyConnection adds a connection to an application's topology,
// POST /api/applications/{id}/topology.
func (c *Client) CreateTopologyConnection(ctx context.Context, applicationID string, data any) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, "/api/applications/"+url.PathEscape(applicationID)+"/topology", nil, data)
}

// UpdateTopologyConnection updates a connection, PUT /api/topology/{id}.
func (c *Client) UpdateTopologyConnection(ctx context.Context, topologyID string, data any) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPut, "/api/topology/"+url.PathEscape(topologyID), nil, data)
}

// DeleteTopologyConnection removes a connection, DELETE /api/topology/{id}.
func (c *Client) DeleteTopologyConnection(ctx context.Context, topologyID string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodDelete, "/api/topology/"+url.PathEscape(topologyID), nil, nil)
}

// SaveTopologyLayout stores the PLM block and link layout,
// POST /api/plm/topology/save.
func (c *Client) SaveTopologyLayout(ctx context.Context, layout any) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, "/api/plm/topology/save", nil, layout)
}

// LoadTopologyLayout loads the PLM layout, GET /api/plm/topology/load.
func (c *Client) LoadTopologyLayout(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, "/api/plm/topology/load", nil, nil)
}
