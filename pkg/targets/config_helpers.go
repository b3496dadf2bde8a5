package targets

import "strings"

// Keys recognised in a target's free-form config block.
const (
	ConfigUserAgentKey      = "user_agent"
	ConfigAcceptLanguageKey = "accept_language"
	ConfigFallbackKey       = "fallback_scrape"
)

const defaultPageAccept = "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8"

// ConfigString returns the trimmed string stored under key, or fallback.
func (t Target) ConfigString(key, fallback string) string {
	raw, ok := t.Config[key]
	if !ok {
		return fallback
	}
	val, ok := raw.(string)
	if !ok || strings.TrimSpace(val) == "" {
		return fallback
	}
	return strings.TrimSpace(val)
}

// ConfigBool returns the boolean stored under key, or fallback. YAML booleans
// and the strings "true"/"false" are accepted.
func (t Target) ConfigBool(key string, fallback bool) bool {
	switch v := t.Config[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1":
			return true
		case "false", "no", "0":
			return false
		}
	}
	return fallback
}

// Headers builds the headers used when the page itself is fetched.
func Headers(t Target) map[string]string {
	headers := map[string]string{"Accept": defaultPageAccept}
	if v := t.ConfigString(ConfigUserAgentKey, ""); v != "" {
		headers["User-Agent"] = v
	}
	if v := t.ConfigString(ConfigAcceptLanguageKey, ""); v != "" {
		headers["Accept-Language"] = v
	}
	return headers
}
