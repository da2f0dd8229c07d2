package cache

// ScopedKeyer prefixes every key of an inner Keyer, so several deployments
// can share one Redis database without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner. A nil inner uses [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ElementsKey returns the prefixed elements key.
func (k *ScopedKeyer) ElementsKey(inputHash string, opts ElementsKeyOpts) string {
	return k.prefix + k.inner.ElementsKey(inputHash, opts)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(elementsHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(elementsHash, opts)
}
