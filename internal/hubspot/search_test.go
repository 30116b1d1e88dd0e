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

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	const resp = `{"total":2,"results":[{"id":"1"},{"id":"2"}],"paging":{"next":{"after":"2"}}}`
	var rec recorded
	cl := recordingClient(t, &rec, http.StatusOK, resp)

	sr, err := cl.Search(t.Context(), Contacts, SearchRequest{
		FilterGroups: []FilterGroup{
			{Filters: []Filter{{PropertyName: "email", Operator: OpEQ, Value: "spock@starfleet.example"}}},
		},
		Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.count)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/crm/v3/objects/contacts/search", rec.path)
	assert.JSONEq(t,
		`{"filterGroups":[{"filters":[{"propertyName":"email","operator":"EQ","value":"spock@starfleet.example"}]}],"limit":10}`,
		rec.body,
	)

	assert.Equal(t, 2, sr.Total)
	require.Len(t, sr.Results, 2)
	assert.JSONEq(t, `{"id":"1"}`, string(sr.Results[0]))
	require.NotNil(t, sr.Paging)
	assert.Equal(t, "2", sr.Paging.Next.After)
}

func TestSearch_defaultLimit(t *testing.T) {
	var rec recorded
	cl := recordingClient(t, &rec, http.StatusOK, `{"total":0,"results":[]}`)

	_, err := cl.Search(t.Context(), Deals, SearchRequest{})
	require.NoError(t, err)
	assert.Contains(t, rec.body, `"limit":100`)
}

func TestSearch_apiError(t *testing.T) {
	const body = `{"status":"error","message":"invalid operator","category":"VALIDATION_ERROR"}`
	var rec recorded
	cl := recordingClient(t, &rec, http.StatusBadRequest, body)

	_, err := cl.Search(t.Context(), Companies, SearchRequest{})
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusBadRequest, ae.StatusCode)
	assert.Equal(t, body, ae.Body)
}
