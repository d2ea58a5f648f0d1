// Package classify partitions a component's top-level children into named
// slot buckets.
//
// Classification is a single ordered walk: each child lands in exactly one
// bucket, declaration order is preserved within a bucket, and nested
// descendants (children of children) are never inspected. Classification
// itself never fails - a malformed annotation is inert and routes to the
// default bucket, and an annotation naming an undeclared slot simply fills
// a bucket no declared accessor ever reads.
package classify

import (
	"github.com/dovetail-ui/dovetail/internal/node"
)

// Bucket is the ordered sequence of children assigned to one slot name.
type Bucket []node.Child

// Buckets maps slot names to their ordered content. Names iterate in
// first-appearance order for deterministic traversal.
type Buckets struct {
	byName map[string]Bucket
	names  []string
}

// Classify walks the top-level child list once and assigns each child to a
// bucket by its normalized slot annotation. Children with no annotation go
// to the default bucket. Override and forward markers bucket exactly like
// ordinary content; the resolver interprets them later.
func Classify(children []node.Child) *Buckets {
	b := &Buckets{byName: make(map[string]Bucket)}
	for _, child := range children {
		name := child.SlotName()
		if _, seen := b.byName[name]; !seen {
			b.names = append(b.names, name)
		}
		b.byName[name] = append(b.byName[name], child)
	}
	return b
}

// Get returns the bucket for a slot name. A missing bucket is an empty
// bucket - callers never distinguish the two.
func (b *Buckets) Get(name string) Bucket {
	return b.byName[name]
}

// Has reports whether the bucket exists and is non-empty.
func (b *Buckets) Has(name string) bool {
	return len(b.byName[name]) > 0
}

// Names returns all bucket names in first-appearance order.
func (b *Buckets) Names() []string {
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}

// Orphans returns bucket names that are neither declared nor the default
// slot, in first-appearance order. These buckets are silently excluded from
// resolution; the resolver surfaces them as a non-fatal advisory.
func (b *Buckets) Orphans(declared map[string]bool) []string {
	var orphans []string
	for _, name := range b.names {
		if name == node.DefaultSlot {
			continue
		}
		if !declared[name] {
			orphans = append(orphans, name)
		}
	}
	return orphans
}
