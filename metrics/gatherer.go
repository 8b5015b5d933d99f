// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/protobuf/proto"

	dto "github.com/prometheus/client_model/go"
)

var (
	_ MultiGatherer = (*prefixGatherer)(nil)

	errOverlappingNamespaces = errors.New("prefix could create overlapping namespaces")
)

// MultiGatherer extends the Gatherer interface by allowing additional gatherers
// to be registered.
type MultiGatherer interface {
	prometheus.Gatherer

	// Register adds the outputs of gatherer to the results of future calls to
	// Gather with prefix prepended to the metric names.
	Register(prefix string, gatherer prometheus.Gatherer) error
}

// NewPrefixGatherer returns a new MultiGatherer that merges metrics by adding a
// prefix to their names.
func NewPrefixGatherer() MultiGatherer {
	return &prefixGatherer{}
}

type prefixGatherer struct {
	lock      sync.RWMutex
	prefixes  []string
	gatherers []prometheus.Gatherer
}

func (g *prefixGatherer) Gather() ([]*dto.MetricFamily, error) {
	g.lock.RLock()
	defer g.lock.RUnlock()

	var allFamilies []*dto.MetricFamily
	for i, gatherer := range g.gatherers {
		// Gather returns partially filled metrics in the case of an error.
		families, err := gatherer.Gather()
		for _, family := range families {
			family.Name = proto.String(AppendNamespace(g.prefixes[i], family.GetName()))
		}
		allFamilies = append(allFamilies, families...)
		if err != nil {
			return allFamilies, err
		}
	}

	// Sort metrics by name for consistent ordering
	sort.Slice(allFamilies, func(i, j int) bool {
		return allFamilies[i].GetName() < allFamilies[j].GetName()
	})
	return allFamilies, nil
}

func (g *prefixGatherer) Register(prefix string, gatherer prometheus.Gatherer) error {
	g.lock.Lock()
	defer g.lock.Unlock()

	for _, existingPrefix := range g.prefixes {
		if eitherIsPrefix(prefix, existingPrefix) {
			return fmt.Errorf("%w: %q conflicts with %q",
				errOverlappingNamespaces,
				prefix,
				existingPrefix,
			)
		}
	}

	g.prefixes = append(g.prefixes, prefix)
	g.gatherers = append(g.gatherers, gatherer)
	return nil
}

// MakeAndRegister creates a registry whose metrics are gathered by gatherer
// under prefix.
func MakeAndRegister(gatherer MultiGatherer, prefix string) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	if err := gatherer.Register(prefix, reg); err != nil {
		return nil, fmt.Errorf("couldn't register %q metrics: %w", prefix, err)
	}
	return reg, nil
}

// AppendNamespace joins namespace and name with the namespace boundary.
func AppendNamespace(namespace, name string) string {
	switch {
	case namespace == "":
		return name
	case name == "":
		return namespace
	default:
		return namespace + "_" + name
	}
}

// eitherIsPrefix returns true if either [a] is a prefix of [b] or [b] is a
// prefix of [a].
//
// This function accounts for the usage of the namespace boundary, so "hello" is
// not considered a prefix of "helloworld". However, "hello" is considered a
// prefix of "hello_world".
func eitherIsPrefix(a, b string) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	return a == b[:len(a)] && // a is a prefix of b
		(len(a) == 0 || // a is empty
			len(a) == len(b) || // a is equal to b
			b[len(a)] == '_') // a ends at a namespace boundary of b
}
