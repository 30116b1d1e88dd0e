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

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCmdLine(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want params
	}{
		{
			name: "defaults",
			args: []string{},
			want: params{
				transport:  "stdio",
				listenAddr: "127.0.0.1:8423",
			},
		},
		{
			name: "http transport",
			args: []string{"-transport", "http", "-listen", "0.0.0.0:9000"},
			want: params{
				transport:  "http",
				listenAddr: "0.0.0.0:9000",
			},
		},
		{
			name: "overrides",
			args: []string{"-base-url", "https://api.example.com", "-timeout", "10s", "-v"},
			want: params{
				transport:  "stdio",
				listenAddr: "127.0.0.1:8423",
				baseURL:    "https://api.example.com",
				timeout:    10 * time.Second,
				verbose:    true,
			},
		},
		{
			name: "version",
			args: []string{"-V"},
			want: params{
				transport:    "stdio",
				listenAddr:   "127.0.0.1:8423",
				printVersion: true,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCmdLine(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun_unknownTransport(t *testing.T) {
	t.Setenv("HUBSPOT_ACCESS_TOKEN", "test-token")
	err := run(t.Context(), params{transport: "carrier-pigeon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transport")
}
