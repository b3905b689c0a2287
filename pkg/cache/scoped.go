package cache

import "strings"

// ScopedKeyer namespaces another Keyer's keys under a project scope so that
// several mask projects can share one Redis instance. Keys take the form
// "<scope>:layout:<hash>".
type ScopedKeyer struct {
	inner Keyer
	scope string
}

// NewScopedKeyer scopes inner (the DefaultKeyer when nil). Trailing colons
// on scope are dropped; an empty scope returns inner unchanged.
func NewScopedKeyer(inner Keyer, scope string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	scope = strings.TrimRight(strings.TrimSpace(scope), ":")
	if scope == "" {
		return inner
	}
	return &ScopedKeyer{inner: inner, scope: scope}
}

// Scope returns the namespace without its separator.
func (k *ScopedKeyer) Scope() string { return k.scope }

// LayoutKey implements [Keyer].
func (k *ScopedKeyer) LayoutKey(recipeHash string, opts LayoutKeyOpts) string {
	return k.scope + ":" + k.inner.LayoutKey(recipeHash, opts)
}

// ArtifactKey implements [Keyer].
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.scope + ":" + k.inner.ArtifactKey(layoutHash, opts)
}
