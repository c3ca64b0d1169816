package paseto

import (
	"slices"
	"strings"
)

// Registry maps version headers to protocols. It is an allow-list: tokens of
// versions not registered are rejected with ErrUnsupportedVersion.
type Registry struct {
	protocols map[string]Protocol
}

// DefaultRegistry holds every implemented version.
var DefaultRegistry = NewRegistry(Version1, Version2, Version3)

// NewRegistry builds a registry of the given protocols. A later protocol
// replaces an earlier one with the same header.
func NewRegistry(protocols ...Protocol) *Registry {
	r := &Registry{protocols: make(map[string]Protocol, len(protocols))}
	for _, p := range protocols {
		if p != nil {
			r.protocols[p.Header()] = p
		}
	}
	return r
}

// Resolve returns the protocol for a version header. Both "v2" and a full
// header such as "v2.enc." are accepted.
func (r *Registry) Resolve(header string) (Protocol, error) {
	version, rest, found := strings.Cut(header, ".")
	if found {
		purpose, tail, ok := strings.Cut(rest, ".")
		if !ok || tail != "" || !Purpose(purpose).Valid() {
			return nil, ErrInvalidHeader
		}
	}

	p, ok := r.protocols[version]
	if !ok {
		return nil, ErrUnsupportedVersion.WithMetadata(map[string]string{"version": truncate(version)})
	}
	return p, nil
}

// ResolveToken returns the protocol for the version prefix of token. The
// token itself is not validated beyond its prefix.
func (r *Registry) ResolveToken(token string) (Protocol, error) {
	version, _, found := strings.Cut(token, ".")
	if !found {
		return nil, ErrMalformedToken
	}
	return r.Resolve(version)
}

// Versions returns the registered versions in ascending order.
func (r *Registry) Versions() []Version {
	versions := make([]Version, 0, len(r.protocols))
	for _, p := range r.protocols {
		versions = append(versions, p.Version())
	}
	slices.Sort(versions)
	return versions
}

// Resolve resolves header against DefaultRegistry.
func Resolve(header string) (Protocol, error) {
	return DefaultRegistry.Resolve(header)
}

// ResolveToken resolves token against DefaultRegistry.
func ResolveToken(token string) (Protocol, error) {
	return DefaultRegistry.ResolveToken(token)
}

// ProtocolFor returns the default protocol for v.
func ProtocolFor(v Version) (Protocol, error) {
	return DefaultRegistry.Resolve(v.String())
}
