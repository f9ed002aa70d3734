package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// ChinaGeoJSON fetches the base map, GET /api/map/china-geojson.
func (c *Client) ChinaGeoJSON(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, "/api/map/china-geojson", nil, nil)
}

// Intersections lists signal-controlled intersections, GET /intersections.
// The traffic backend serves these without the /api prefix.
func (c *Client) Intersections(ctx context.Context, params Params) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, "/intersections", params, nil)
}

// MapDevices lists devices placed on the map, GET /map/devices.
func (c *Client) MapDevices(ctx context.Context, params Params) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, "/map/devices", params, nil)
}

// DeviceVideoStream fetches the stream descriptor of a camera,
// GET /video-streams/device/{id}.
func (c *Client) DeviceVideoStream(ctx context.Context, deviceID string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, "/video-streams/device/"+url.PathEscape(deviceID), nil, nil)
}
