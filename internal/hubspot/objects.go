// Copyright (c) 2021-2026 Rustam Gilyazov and Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package hubspot

// In this file: generic CRM v3 object operations.  One set of methods covers
// all object types; the tool layer maps tool names onto (type, operation)
// pairs.

import (
	"context"
	"encoding/json"
	"net/url"
	"path"
	"strconv"
	"strings"
)

// ObjectType identifies a CRM object collection.
type ObjectType string

const (
	Contacts  ObjectType = "contacts"
	Companies ObjectType = "companies"
	Deals     ObjectType = "deals"
)

// ObjectTypes enumerates all object types the adapter operates on.
var ObjectTypes = []ObjectType{Contacts, Companies, Deals}

// ValidObjectType reports whether s names a supported object type.
func ValidObjectType(s string) bool {
	switch ObjectType(s) {
	case Contacts, Companies, Deals:
		return true
	}
	return false
}

const objectsRoot = "/crm/v3/objects"

// objPath returns the API path for the object collection with optional
// trailing elements (object ID, "search").  Escaping happens at request
// construction time via URL.JoinPath.
func objPath(typ ObjectType, elem ...string) string {
	return path.Join(append([]string{objectsRoot, string(typ)}, elem...)...)
}

// ListParams are the parameters of a list operation.  Zero values are
// omitted from the request; a zero Limit falls back to the configured
// default page size.
type ListParams struct {
	Limit      int
	After      string   // pagination cursor from the previous page
	Properties []string // property names to return for each object
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.After != "" {
		v.Set("after", p.After)
	}
	if len(p.Properties) > 0 {
		v.Set("properties", strings.Join(p.Properties, ","))
	}
	return v
}

// propertiesEnvelope is the request body for create and update operations.
type propertiesEnvelope struct {
	Properties map[string]any `json:"properties"`
}

// deletedBody is returned for delete operations, which respond with
// 204 No Content on success.
var deletedBody = json.RawMessage(`{"success":true,"message":"operation completed successfully"}`)

// ListObjects returns a single page of objects of the given type.  The
// response is HubSpot's {results, paging} envelope, passed through unchanged.
func (cl *Client) ListObjects(ctx context.Context, typ ObjectType, p ListParams) (json.RawMessage, error) {
	if p.Limit <= 0 {
		p.Limit = cl.cfg.DefaultLimit
	}
	var page json.RawMessage
	if err := cl.get(ctx, objPath(typ), p.values(), &page); err != nil {
		return nil, err
	}
	return page, nil
}

// GetObject returns a single object by ID.
func (cl *Client) GetObject(ctx context.Context, typ ObjectType, id string, properties []string) (json.RawMessage, error) {
	var query url.Values
	if len(properties) > 0 {
		query = url.Values{"properties": []string{strings.Join(properties, ",")}}
	}
	var obj json.RawMessage
	if err := cl.get(ctx, objPath(typ, id), query, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// CreateObject creates an object with the given properties and returns the
// created object as HubSpot reports it.
func (cl *Client) CreateObject(ctx context.Context, typ ObjectType, properties map[string]any) (json.RawMessage, error) {
	var obj json.RawMessage
	if err := cl.post(ctx, objPath(typ), propertiesEnvelope{Properties: properties}, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// UpdateObject patches the properties of an existing object.
func (cl *Client) UpdateObject(ctx context.Context, typ ObjectType, id string, properties map[string]any) (json.RawMessage, error) {
	var obj json.RawMessage
	if err := cl.patch(ctx, objPath(typ, id), propertiesEnvelope{Properties: properties}, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// DeleteObject archives an object by ID.  HubSpot responds with an empty
// body, so a small success envelope is returned instead.
func (cl *Client) DeleteObject(ctx context.Context, typ ObjectType, id string) (json.RawMessage, error) {
	var obj json.RawMessage
	if err := cl.delete(ctx, objPath(typ, id), &obj); err != nil {
		return nil, err
	}
	if len(obj) == 0 {
		obj = deletedBody
	}
	return obj, nil
}
