package state

// EnvCache holds session-stable environment checks so expensive probes run at
// most once per session. Fields are tri-state: a nil pointer means "not yet
// checked". The aggregator is the only writer; everything else reads the
// derived snapshot fields instead.
type EnvCache struct {
	ghAuthenticated  *bool
	providerUsable   *bool
	playwrightUsable *bool
	hasLabels        *bool
}

// NewEnvCache returns an empty cache.
func NewEnvCache() *EnvCache { return &EnvCache{} }

// Reset clears every cached check. Used for test isolation and the explicit
// refresh-environment path; the cache never expires on its own.
func (c *EnvCache) Reset() { *c = EnvCache{} }

// ForgetLabels re-arms the label-existence check, used after labels are
// created so the next refresh observes them.
func (c *EnvCache) ForgetLabels() { c.hasLabels = nil }

// ForgetProvider re-arms the assistant availability check, used after the
// provider is switched.
func (c *EnvCache) ForgetProvider() { c.providerUsable = nil }

func set(v bool) *bool { return &v }
