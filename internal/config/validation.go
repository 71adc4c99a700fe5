package config

import (
	"net"
	"strings"

	"git.home.luguber.info/inful/notenav/internal/foundation/errors"
	"git.home.luguber.info/inful/notenav/internal/retry"
)

// Validate checks values defaults cannot repair. Navigation content is not
// validated here; that is the job of nav.Check.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Content.Root) == "" {
		return errors.ConfigError("content.root must not be empty").Build()
	}
	if _, _, err := net.SplitHostPort(c.Serve.Addr); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "serve.addr must be host:port").
			Fatal().WithContext("addr", c.Serve.Addr).Build()
	}
	if _, err := retry.ParseMode(string(c.Content.ExternalBackoff)); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "content.external_backoff is invalid").
			WithContext("value", string(c.Content.ExternalBackoff)).Build()
	}
	if c.Zoom.IsEnabled() && strings.TrimSpace(c.Zoom.Selector) == "" {
		return errors.ConfigError("zoom.selector must not be empty when zoom is enabled").Build()
	}
	if c.Navigation != nil {
		for i, s := range c.Navigation.Sidebar {
			if s.Items == nil && s.Text == "" {
				return errors.ConfigError("navigation.sidebar entry has neither text nor items").
					WithContext("index", i).Build()
			}
		}
	}
	return nil
}
