package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Devices lists devices, GET /api/devices.
func (c *Client) Devices(ctx context.Context, params Params) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, "/api/devices", params, nil)
}

// Device fetches one device, GET /api/devices/{id}.
func (c *Client) Device(ctx context.Context, id string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, "/api/devices/"+url.PathEscape(id), nil, nil)
}

// CreateDevice creates a device, POST /api/devices.
func (c *Client) CreateDevice(ctx context.Context, data any) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, "/api/devices", nil, data)
}

// UpdateDevice updates a device, PUT /api/devices/{id}.
func (c *Client) UpdateDevice(ctx context.Context, id string, data any) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPut, "/api/devices/"+url.PathEscape(id), nil, data)
}

// DeviceTypes lists device types, GET /api/device-types.
func (c *Client) DeviceTypes(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, "/api/device-types", nil, nil)
}

// CreateDeviceType creates a device type, POST /api/device-types.
func (c *Client) CreateDeviceType(ctx context.Context, data any) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, "/api/device-types", nil, data)
}

// UpdateDeviceType updates a device type, PUT /api/device-types/{id}.
func (c *Client) UpdateDeviceType(ctx context.Context, id string, data any) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPut, "/api/device-types/"+url.PathEscape(id), nil, data)
}

// DeleteDeviceType deletes a device type, DELETE /api/device-types/{id}.
func (c *Client) DeleteDeviceType(ctx context.Context, id string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodDelete, "/api/device-types/"+url.PathEscape(id), nil, nil)
}

// LabelTypes lists laptop label types, GET /api/laptop-label-types.
func (c *Client) LabelTypes(ctx context.Context, params Params) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, "/api/laptop-label-types", params, nil)
}

// CreateLabelType creates a label type, POST /api/laptop-label-types.
func (c *Client) CreateLabelType(ctx context.Context, data any) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, "/api/laptop-label-types", nil, data)
}

// UpdateLabelType updates a label type, PUT /api/laptop-label-types/{id}.
func (c *Client) UpdateLabelType(ctx context.Context, id string, data any) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPut, "/api/laptop-label-types/"+url.PathEscape(id), nil, data)
}

// DeleteLabelType deletes a label type, DELETE /api/laptop-label-types/{id}.
func (c *Client) DeleteLabelType(ctx context.Context, id string) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodDelete, "/api/laptop-label-types/"+url.PathEscape(id), nil, nil)
}

// raw performs a request whose response shape is left to the caller.
func (c *Client) raw(ctx context.Context, method, path string, params Params, body any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, method, path, params, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}
