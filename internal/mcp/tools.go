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

package mcp

// In this file: the static CRM tool table, the generic handler that executes
// it, and the search tool.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/rusq/hubmcp/internal/hubspot"
)

// opKind enumerates the CRM operations a tool can map to.
type opKind int

const (
	opList opKind = iota
	opGet
	opCreate
	opUpdate
	opDelete
)

// crmToolSpec maps one tool name onto a single CRM operation against a
// single endpoint.  The table below is the entire dispatch surface: tools
// are generated from it at server construction, there are no bespoke
// per-tool functions.
type crmToolSpec struct {
	name    string
	desc    string
	objType hubspot.ObjectType
	kind    opKind
	idArg   string   // name of the object ID argument (get/update/delete)
	lift    []string // top-level string args folded into properties on create
	require []string // required argument names, checked before any HTTP call
}

// crmTools is the static tool table.
var crmTools = []crmToolSpec{
	// contacts
	{
		name:    "list_contacts",
		desc:    "List contacts from HubSpot CRM.  Returns a single page of results; pass the paging cursor as \"after\" to fetch the next page.",
		objType: hubspot.Contacts,
		kind:    opList,
	},
	{
		name:    "get_contact",
		desc:    "Get a specific contact by ID.",
		objType: hubspot.Contacts,
		kind:    opGet,
		idArg:   "contact_id",
		require: []string{"contact_id"},
	},
	{
		name:    "create_contact",
		desc:    "Create a new contact in HubSpot.  Top-level email, firstname and lastname are folded into the contact properties.",
		objType: hubspot.Contacts,
		kind:    opCreate,
		lift:    []string{"email", "firstname", "lastname"},
		require: []string{"email"},
	},
	{
		name:    "update_contact",
		desc:    "Update properties of an existing contact.",
		objType: hubspot.Contacts,
		kind:    opUpdate,
		idArg:   "contact_id",
		require: []string{"contact_id", "properties"},
	},
	{
		name:    "delete_contact",
		desc:    "Delete (archive) a contact by ID.",
		objType: hubspot.Contacts,
		kind:    opDelete,
		idArg:   "contact_id",
		require: []string{"contact_id"},
	},
	// companies
	{
		name:    "list_companies",
		desc:    "List companies from HubSpot CRM.  Returns a single page of results; pass the paging cursor as \"after\" to fetch the next page.",
		objType: hubspot.Companies,
		kind:    opList,
	},
	{
		name:    "get_company",
		desc:    "Get a specific company by ID.",
		objType: hubspot.Companies,
		kind:    opGet,
		idArg:   "company_id",
		require: []string{"company_id"},
	},
	{
		name:    "create_company",
		desc:    "Create a new company in HubSpot.  The top-level name is folded into the company properties.",
		objType: hubspot.Companies,
		kind:    opCreate,
		lift:    []string{"name"},
		require: []string{"name"},
	},
	{
		name:    "update_company",
		desc:    "Update properties of an existing company.",
		objType: hubspot.Companies,
		kind:    opUpdate,
		idArg:   "company_id",
		require: []string{"company_id", "properties"},
	},
	// deals
	{
		name:    "list_deals",
		desc:    "List deals from HubSpot CRM.  Returns a single page of results; pass the paging cursor as \"after\" to fetch the next page.",
		objType: hubspot.Deals,
		kind:    opList,
	},
	{
		name:    "get_deal",
		desc:    "Get a specific deal by ID.",
		objType: hubspot.Deals,
		kind:    opGet,
		idArg:   "deal_id",
		require: []string{"deal_id"},
	},
	{
		name:    "create_deal",
		desc:    "Create a new deal in HubSpot.  The top-level dealname is folded into the deal properties.",
		objType: hubspot.Deals,
		kind:    opCreate,
		lift:    []string{"dealname"},
		require: []string{"dealname"},
	},
}

// tools returns all MCP tools that this server exposes: the generated CRM
// tool table plus search.
func (s *Server) tools() []mcpsrv.ServerTool {
	tt := make([]mcpsrv.ServerTool, 0, len(crmTools)+1)
	for _, spec := range crmTools {
		tt = append(tt, s.crmServerTool(spec))
	}
	tt = append(tt, s.toolSearch())
	return tt
}

// crmServerTool generates the MCP tool definition and handler for one table
// entry.
func (s *Server) crmServerTool(spec crmToolSpec) mcpsrv.ServerTool {
	opts := []mcplib.ToolOption{mcplib.WithDescription(spec.desc)}

	switch spec.kind {
	case opList:
		opts = append(opts,
			mcplib.WithNumber("limit",
				mcplib.Description(fmt.Sprintf("Maximum number of %s to return per page (1-100, default %d)", spec.objType, hubspot.DefLimit)),
			),
			mcplib.WithString("after",
				mcplib.Description("Paging cursor from the previous page's paging.next.after value"),
			),
			mcplib.WithArray("properties",
				mcplib.Description("Property names to return for each object; HubSpot defaults apply when omitted"),
				mcplib.Items(map[string]any{"type": "string"}),
			),
			mcplib.WithReadOnlyHintAnnotation(true),
		)
	case opGet:
		opts = append(opts,
			mcplib.WithString(spec.idArg,
				mcplib.Description("The HubSpot object ID"),
				mcplib.Required(),
			),
			mcplib.WithArray("properties",
				mcplib.Description("Property names to return; HubSpot defaults apply when omitted"),
				mcplib.Items(map[string]any{"type": "string"}),
			),
			mcplib.WithReadOnlyHintAnnotation(true),
		)
	case opCreate:
		for _, arg := range spec.lift {
			po := []mcplib.PropertyOption{
				mcplib.Description(fmt.Sprintf("The %q property of the new object", arg)),
			}
			if slices.Contains(spec.require, arg) {
				po = append(po, mcplib.Required())
			}
			opts = append(opts, mcplib.WithString(arg, po...))
		}
		opts = append(opts,
			mcplib.WithObject("properties",
				mcplib.Description("Additional properties of the new object, as a name to value mapping"),
			),
		)
	case opUpdate:
		opts = append(opts,
			mcplib.WithString(spec.idArg,
				mcplib.Description("The HubSpot object ID"),
				mcplib.Required(),
			),
			mcplib.WithObject("properties",
				mcplib.Description("Properties to update, as a name to value mapping"),
				mcplib.Required(),
			),
			mcplib.WithIdempotentHintAnnotation(true),
		)
	case opDelete:
		opts = append(opts,
			mcplib.WithString(spec.idArg,
				mcplib.Description("The HubSpot object ID"),
				mcplib.Required(),
			),
			mcplib.WithDestructiveHintAnnotation(true),
		)
	}

	return mcpsrv.ServerTool{
		Tool:    mcplib.NewTool(spec.name, opts...),
		Handler: s.crmHandler(spec),
	}
}

// crmHandler returns the handler executing one table entry.  Required
// arguments are validated before any network call is made; all failures are
// reported as error results, not protocol errors.
func (s *Server) crmHandler(spec crmToolSpec) mcpsrv.ToolHandlerFunc {
	return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		if s.client == nil {
			return resultErr(fmt.Errorf("%s: %w", spec.name, errNoClient)), nil
		}
		for _, arg := range spec.require {
			if !argPresent(req, arg) {
				return resultErr(fmt.Errorf("%s: %s is required", spec.name, arg)), nil
			}
		}

		s.logger.DebugContext(ctx, "mcp: tool call", "tool", spec.name, "object_type", spec.objType)

		var (
			raw json.RawMessage
			err error
		)
		switch spec.kind {
		case opList:
			after, _ := stringArg(req, "after")
			p := hubspot.ListParams{
				Limit:      intArg(req, "limit", 0),
				After:      after,
				Properties: stringSliceArg(req, "properties"),
			}
			raw, err = s.client.ListObjects(ctx, spec.objType, p)
		case opGet:
			id, _ := stringArg(req, spec.idArg)
			raw, err = s.client.GetObject(ctx, spec.objType, id, stringSliceArg(req, "properties"))
		case opCreate:
			// copy, so that lifted arguments do not alias into the request
			properties := maps.Clone(objectArg(req, "properties"))
			if properties == nil {
				properties = make(map[string]any)
			}
			for _, arg := range spec.lift {
				if v, ok := stringArg(req, arg); ok && v != "" {
					properties[arg] = v
				}
			}
			raw, err = s.client.CreateObject(ctx, spec.objType, properties)
		case opUpdate:
			id, _ := stringArg(req, spec.idArg)
			raw, err = s.client.UpdateObject(ctx, spec.objType, id, objectArg(req, "properties"))
		case opDelete:
			id, _ := stringArg(req, spec.idArg)
			raw, err = s.client.DeleteObject(ctx, spec.objType, id)
		default:
			err = fmt.Errorf("unknown operation kind %d", spec.kind)
		}
		if err != nil {
			return resultErr(fmt.Errorf("%s: %w", spec.name, err)), nil
		}
		return resultRaw(raw), nil
	}
}

// ─── search ───────────────────────────────────────────────────────────────────

func (s *Server) toolSearch() mcpsrv.ServerTool {
	tool := mcplib.NewTool("search",
		mcplib.WithDescription(`Search for objects in HubSpot CRM by a property value.

When object_type is omitted, contacts, companies and deals are all searched
and the per-type results are concatenated (overlaps are not deduplicated).
Each result carries the object type it came from.`),
		mcplib.WithString("object_type",
			mcplib.Description("Type of object to search; searches all three types when omitted"),
			mcplib.Enum("contacts", "companies", "deals"),
		),
		mcplib.WithString("property",
			mcplib.Description("Property name to filter on (e.g. email, name, dealname)"),
			mcplib.Required(),
		),
		mcplib.WithString("value",
			mcplib.Description("Value to compare the property against"),
			mcplib.Required(),
		),
		mcplib.WithString("operator",
			mcplib.Description("Comparison operator (default EQ)"),
			mcplib.Enum(hubspot.Operators...),
			mcplib.DefaultString(hubspot.OpEQ),
		),
		mcplib.WithNumber("limit",
			mcplib.Description(fmt.Sprintf("Maximum number of results per object type (1-100, default %d)", hubspot.DefLimit)),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleSearch}
}

// searchHit is a single search result annotated with the object type it was
// found in.
type searchHit struct {
	ObjectType string          `json:"objectType"`
	Object     json.RawMessage `json:"object"`
}

// searchResults is the thin wrapper the search tool returns: per-type
// results concatenated in object type order.
type searchResults struct {
	Total   int         `json:"total"`
	Results []searchHit `json:"results"`
}

func (s *Server) handleSearch(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if s.client == nil {
		return resultErr(fmt.Errorf("search: %w", errNoClient)), nil
	}
	property, ok := stringArg(req, "property")
	if !ok || property == "" {
		return resultErr(errors.New("search: property is required")), nil
	}
	value, ok := stringArg(req, "value")
	if !ok || value == "" {
		return resultErr(errors.New("search: value is required")), nil
	}
	operator, ok := stringArg(req, "operator")
	if !ok || operator == "" {
		operator = hubspot.OpEQ
	}

	types := hubspot.ObjectTypes
	if typ, ok := stringArg(req, "object_type"); ok && typ != "" {
		if !hubspot.ValidObjectType(typ) {
			return resultErr(fmt.Errorf("search: unknown object_type %q", typ)), nil
		}
		types = []hubspot.ObjectType{hubspot.ObjectType(typ)}
	}

	sreq := hubspot.SearchRequest{
		FilterGroups: []hubspot.FilterGroup{
			{Filters: []hubspot.Filter{{
				PropertyName: property,
				Operator:     operator,
				Value:        value,
			}}},
		},
		Limit: intArg(req, "limit", 0),
	}

	out := searchResults{Results: []searchHit{}}
	for _, typ := range types {
		resp, err := s.client.Search(ctx, typ, sreq)
		if err != nil {
			return resultErr(fmt.Errorf("search %s: %w", typ, err)), nil
		}
		out.Total += resp.Total
		for _, r := range resp.Results {
			out.Results = append(out.Results, searchHit{ObjectType: string(typ), Object: r})
		}
	}

	result, err := resultJSON(out)
	if err != nil {
		return resultErr(fmt.Errorf("search: serialise: %w", err)), nil
	}
	return result, nil
}
