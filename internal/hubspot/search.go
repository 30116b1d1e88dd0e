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

// In this file: CRM search API.  Request and response shapes follow HubSpot's
// POST /crm/v3/objects/{type}/search contract.

import (
	"context"
	"encoding/json"
)

// Search operators supported by the CRM search API.
const (
	OpEQ            = "EQ"
	OpNEQ           = "NEQ"
	OpLT            = "LT"
	OpLTE           = "LTE"
	OpGT            = "GT"
	OpGTE           = "GTE"
	OpContainsToken = "CONTAINS_TOKEN"
)

// Operators enumerates the supported search operators.
var Operators = []string{OpEQ, OpNEQ, OpLT, OpLTE, OpGT, OpGTE, OpContainsToken}

// SearchRequest is a CRM search API request.
type SearchRequest struct {
	Query        string        `json:"query,omitempty"`
	FilterGroups []FilterGroup `json:"filterGroups,omitempty"`
	Sorts        []Sort        `json:"sorts,omitempty"`
	Properties   []string      `json:"properties,omitempty"`
	Limit        int           `json:"limit,omitempty"`
	After        string        `json:"after,omitempty"`
}

// FilterGroup is a group of filters combined with AND.  Multiple groups are
// combined with OR.
type FilterGroup struct {
	Filters []Filter `json:"filters"`
}

// Filter is a single property filter.
type Filter struct {
	PropertyName string   `json:"propertyName"`
	Operator     string   `json:"operator"`
	Value        string   `json:"value,omitempty"`
	HighValue    string   `json:"highValue,omitempty"`
	Values       []string `json:"values,omitempty"`
}

// Sort specifies a sort order for search results.
type Sort struct {
	PropertyName string `json:"propertyName"`
	Direction    string `json:"direction"`
}

// SearchResponse is HubSpot's search result envelope.  Individual results
// are passed through as raw JSON.
type SearchResponse struct {
	Total   int               `json:"total"`
	Results []json.RawMessage `json:"results"`
	Paging  *Paging           `json:"paging,omitempty"`
}

// Paging holds the pagination cursor of a search response.
type Paging struct {
	Next PagingNext `json:"next"`
}

type PagingNext struct {
	After string `json:"after"`
}

// Search searches objects of a single type.  A zero request Limit falls back
// to the configured default page size.
func (cl *Client) Search(ctx context.Context, typ ObjectType, req SearchRequest) (*SearchResponse, error) {
	if req.Limit <= 0 {
		req.Limit = cl.cfg.DefaultLimit
	}
	var sr SearchResponse
	if err := cl.post(ctx, objPath(typ, "search"), req, &sr); err != nil {
		return nil, err
	}
	return &sr, nil
}
