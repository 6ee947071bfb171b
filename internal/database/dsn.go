package database

import (
	"cmp"
	"net"
	"net/url"
	"strconv"

	"github.com/rickgao/quotecard/internal/config"
)

const applicationName = "quotecard"

// DSN renders cfg as a postgres:// URL. User and password are percent
// encoded by url.URL, so any characters are allowed.
func DSN(cfg config.DBConfig) string {
	q := url.Values{}
	q.Set("application_name", applicationName)
	q.Set("sslmode", cmp.Or(cfg.SSLMode, "prefer"))

	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Name,
		RawQuery: q.Encode(),
	}
	if cfg.User != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			u.User = url.User(cfg.User)
		}
	}
	return u.String()
}
