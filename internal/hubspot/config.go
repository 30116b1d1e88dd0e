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

// In this file: configuration loading and validation.

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/rusq/osenv/v2"
)

// Environment variables recognised by ConfigFromEnv.
const (
	EnvAPIKey       = "HUBSPOT_API_KEY"
	EnvAccessToken  = "HUBSPOT_ACCESS_TOKEN"
	EnvBaseURL      = "HUBSPOT_API_BASE_URL"
	EnvTimeout      = "HUBSPOT_TIMEOUT"
	EnvDefaultLimit = "HUBSPOT_DEFAULT_LIMIT"
)

const (
	// DefBaseURL is the public HubSpot API endpoint.
	DefBaseURL = "https://api.hubapi.com"
	// DefTimeout is the default per-request timeout.
	DefTimeout = 30 * time.Second
	// DefLimit is the default page size for list and search operations.
	// HubSpot caps list pages at 100.
	DefLimit = 100
)

// Config holds the client configuration.  It is immutable after the client is
// constructed.  Exactly one authentication mode is active: when both
// credentials are present, the access token takes precedence and the API key
// is ignored.
type Config struct {
	// BaseURL is the API endpoint, without a trailing path.
	BaseURL string `validate:"required,url"`
	// APIKey is the legacy developer API key, sent as the "hapikey" query
	// parameter.
	APIKey string
	// AccessToken is the private app access token, sent as a Bearer
	// authorisation header.
	AccessToken string
	// Timeout is the per-request timeout.
	Timeout time.Duration `validate:"gt=0"`
	// DefaultLimit is the page size used when a list or search call does not
	// specify one.
	DefaultLimit int `validate:"gte=1,lte=100"`
}

var validate = validator.New()

// ErrTranslations is the english translation catalogue for the validation
// errors.
var ErrTranslations ut.Translator

func init() {
	english := en.New()
	uni := ut.New(english, english)
	var ok bool
	ErrTranslations, ok = uni.GetTranslator("en")
	if !ok {
		panic("internal error: unable to init translator")
	}
	if err := entranslations.RegisterDefaultTranslations(validate, ErrTranslations); err != nil {
		panic(err)
	}
}

// ConfigFromEnv constructs the configuration from environment variables,
// applying defaults for anything unset or set to an empty value (a dotenv
// file may contain "HUBSPOT_API_BASE_URL=").  It does not validate
// credentials; that happens in New, so that callers can still override
// fields from flags.
//
// Secret variables are removed from the environment after reading, so the
// credentials do not leak into child processes; consequently ConfigFromEnv
// is not idempotent and should be called once at startup.
func ConfigFromEnv() (Config, error) {
	timeout, err := envDuration(EnvTimeout, DefTimeout)
	if err != nil {
		return Config{}, err
	}
	limit, err := envInt(EnvDefaultLimit, DefLimit)
	if err != nil {
		return Config{}, err
	}
	baseURL := osenv.Value(EnvBaseURL, DefBaseURL)
	if baseURL == "" {
		baseURL = DefBaseURL
	}
	return Config{
		BaseURL:      baseURL,
		APIKey:       osenv.Secret(EnvAPIKey, ""),
		AccessToken:  osenv.Secret(EnvAccessToken, ""),
		Timeout:      timeout,
		DefaultLimit: limit,
	}, nil
}

// Validate returns an error if the configuration is unusable.  A missing
// credential pair is reported as ErrNoCredentials; field errors are reported
// with human-readable translations.
func (c Config) Validate() error {
	if c.AccessToken == "" && c.APIKey == "" {
		return ErrNoCredentials
	}
	if err := validate.Struct(c); err != nil {
		var vErr validator.ValidationErrors
		if errors.As(err, &vErr) {
			return fmt.Errorf("config validation: %s", vErr.Translate(ErrTranslations))
		}
		return err
	}
	return nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
