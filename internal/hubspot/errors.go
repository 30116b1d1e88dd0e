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

// In this file: error types returned by the client.

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNoCredentials is returned when the configuration carries neither an
// access token nor an API key.
var ErrNoCredentials = errors.New("no credentials: set " + EnvAccessToken + " or " + EnvAPIKey)

// APIError is returned when HubSpot responds with a non-2xx status code.
// Body holds the response body verbatim; the standard HubSpot error envelope
// fields are parsed into Message, Category and CorrelationID on a best-effort
// basis and may be empty for non-JSON responses.
type APIError struct {
	StatusCode    int
	Body          string
	Message       string
	Category      string
	CorrelationID string
}

// errEnvelope is the HubSpot error response shape.
type errEnvelope struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	Category      string `json:"category"`
	CorrelationID string `json:"correlationId"`
}

func newAPIError(statusCode int, body []byte) *APIError {
	ae := &APIError{
		StatusCode: statusCode,
		Body:       string(body),
	}
	var env errEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		ae.Message = env.Message
		ae.Category = env.Category
		ae.CorrelationID = env.CorrelationID
	}
	return ae
}

func (ae *APIError) Error() string {
	if ae.Message != "" {
		return fmt.Sprintf("hubspot: %s (status: %d %s)", ae.Message, ae.StatusCode, http.StatusText(ae.StatusCode))
	}
	return fmt.Sprintf("hubspot: unexpected status: %d %s: %s", ae.StatusCode, http.StatusText(ae.StatusCode), ae.Body)
}

// IsNotFound reports whether err is an APIError with a 404 status.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == http.StatusNotFound
}
