// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package line

import "strings"

// ManagerOption configures a LineManager at construction, the same
// functional-options idiom the teacher package uses for its Options type.
type ManagerOption func(*managerOptions)

type managerOptions struct {
	factories    []LineFactory
	ringCapacity int
}

// WithFactory registers an additional LineFactory at construction time,
// in the order given, ahead of any platform defaults appended afterward
// by DefaultManager.
func WithFactory(f LineFactory) ManagerOption {
	return func(o *managerOptions) { o.factories = append(o.factories, f) }
}

// WithRingBufferCapacity overrides the default 64KiB in-process queue
// capacity for the "inproc" factory DefaultManager registers automatically.
// It has no effect if an "inproc" factory is supplied via WithFactory
// instead of through DefaultManager.
func WithRingBufferCapacity(capacity int) ManagerOption {
	return func(o *managerOptions) { o.ringCapacity = capacity }
}

// LineManager owns an ordered list of LineFactory values and dispatches
// create_client/create_server calls to the first factory whose scheme
// matches the URI.
type LineManager struct {
	factories    []LineFactory
	ringCapacity int
}

// NewManager returns a LineManager with no registered factories. Use
// WithFactory to populate it, or DefaultManager for the platform default
// set.
func NewManager(opts ...ManagerOption) *LineManager {
	var o managerOptions
	for _, fn := range opts {
		fn(&o)
	}
	return &LineManager{
		factories:    append([]LineFactory(nil), o.factories...),
		ringCapacity: o.ringCapacity,
	}
}

// ringBufferCapacity returns the capacity configured via
// WithRingBufferCapacity, or 0 if unset (meaning: use defaultRingCapacity).
func (m *LineManager) ringBufferCapacity() int { return m.ringCapacity }

// RegisterFactory appends f to the dispatch list. Dispatch is
// first-match in registration order, so earlier registrations take
// priority over later ones claiming the same scheme.
func (m *LineManager) RegisterFactory(f LineFactory) {
	m.factories = append(m.factories, f)
}

// splitURI splits "scheme://address" at the first occurrence of "://".
func splitURI(uri string) (scheme, address string, err error) {
	idx := strings.Index(uri, "://")
	if idx < 0 {
		return "", "", ErrBadURI
	}
	return uri[:idx], uri[idx+3:], nil
}

func (m *LineManager) factoryFor(scheme string) LineFactory {
	for _, f := range m.factories {
		if f.Scheme() == scheme {
			return f
		}
	}
	return nil
}

// CreateClient parses uri as "scheme://address" and delegates to the
// first registered factory claiming scheme.
func (m *LineManager) CreateClient(uri string) (Line, error) {
	scheme, address, err := splitURI(uri)
	if err != nil {
		return nil, err
	}
	f := m.factoryFor(scheme)
	if f == nil {
		return nil, ErrNoFactory
	}
	return f.CreateClient(address)
}

// CreateServer parses uri as "scheme://address" and delegates to the
// first registered factory claiming scheme.
func (m *LineManager) CreateServer(uri string) (Acceptor, error) {
	scheme, address, err := splitURI(uri)
	if err != nil {
		return nil, err
	}
	f := m.factoryFor(scheme)
	if f == nil {
		return nil, ErrNoFactory
	}
	return f.CreateServer(address)
}
