package config

import (
	"net/url"
	"strings"
)

// PostgresDSN is DBURL with the prepared-binary flag applied when enabled.
func (c Config) PostgresDSN() string {
	return WithBinaryResultFlag(strings.TrimSpace(c.DBURL), c.DBDisablePreparedBinary)
}

// WithBinaryResultFlag sets disable_prepared_binary_result=yes on URL-style
// DSNs that do not carry the flag already. Pgbouncer in transaction mode
// needs it.
func WithBinaryResultFlag(raw string, enabled bool) string {
	if !enabled {
		return raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") != "" {
		return raw
	}
	query.Set("disable_prepared_binary_result", "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// DBNameFromDSN understands both postgres:// URLs and key=value DSNs.
func DBNameFromDSN(raw string) string {
	raw = strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		return strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
	}

	for _, field := range strings.Fields(raw) {
		key, value, ok := strings.Cut(field, "=")
		if ok && key == "dbname" {
			return strings.Trim(value, `"'`)
		}
	}
	return ""
}
