package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// ScheduleKeyOpts holds the options that change a computed plan.
type ScheduleKeyOpts struct {
	Strict bool `json:"strict"`
}

// RenderKeyOpts holds the options that change a rendered artifact.
type RenderKeyOpts struct {
	Format   string `json:"format"`
	Unit     string `json:"unit"`
	Strict   bool   `json:"strict"`
	Detailed bool   `json:"detailed"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ScheduleKey returns the key for the plan computed from a manifest.
	ScheduleKey(manifestHash string, opts ScheduleKeyOpts) string

	// RenderKey returns the key for a rendered diagram of a plan.
	RenderKey(manifestHash string, opts RenderKeyOpts) string
}

// NewKeyer returns the keyer for a deployment: [DefaultKeyer] when prefix
// is empty, otherwise a [ScopedKeyer] under that prefix.
func NewKeyer(prefix string) Keyer {
	if prefix == "" {
		return DefaultKeyer{}
	}
	return NewScopedKeyer(DefaultKeyer{}, prefix)
}

// DefaultKeyer produces keys of the form "schedule:<sha256>" and
// "render:<sha256>". The digest covers the manifest hash and the options.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ScheduleKey implements Keyer.
func (DefaultKeyer) ScheduleKey(manifestHash string, opts ScheduleKeyOpts) string {
	return "schedule:" + digest(manifestHash, opts)
}

// RenderKey implements Keyer.
func (DefaultKeyer) RenderKey(manifestHash string, opts RenderKeyOpts) string {
	return "render:" + digest(manifestHash, opts)
}

// ScopedKeyer prefixes every key of an inner Keyer, so several deployments
// can share one Redis without reading each other's plans. The prefix comes
// from the cache.prefix config key.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) *ScopedKeyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ScheduleKey implements Keyer.
func (k *ScopedKeyer) ScheduleKey(manifestHash string, opts ScheduleKeyOpts) string {
	return k.prefix + k.inner.ScheduleKey(manifestHash, opts)
}

// RenderKey implements Keyer.
func (k *ScopedKeyer) RenderKey(manifestHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(manifestHash, opts)
}

// Hash returns the hex SHA-256 of data. Manifests are hashed with it before
// keying.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// digest hashes a manifest hash together with its JSON-encoded options.
// The options structs contain only plain fields, so encoding cannot fail.
func digest(manifestHash string, opts any) string {
	h := sha256.New()
	h.Write([]byte(manifestHash))
	h.Write([]byte{0})
	_ = json.NewEncoder(h).Encode(opts)
	return hex.EncodeToString(h.Sum(nil))
}

var (
	_ Keyer = DefaultKeyer{}
	_ Keyer = (*ScopedKeyer)(nil)
)
