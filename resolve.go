package schemaprep

import (
	"fmt"
	"strings"
)

// RefKey is the keyword holding a reference.
const RefKey = "$ref"

// Resolve replaces every "$ref" object in root with a deep copy of its target
// merged with the object's other keys (those keys win), and resolves the
// result again so chains of references are followed to the end. Targets are
// always looked up in root itself; root is not modified.
//
// A reference that is re-entered while it is still being expanded fails with
// CodeReferenceCycleDetected. So do chains of more than opt.MaxDepth nested
// references and results larger than opt.MaxNodes values; plain nesting of
// the document does not count against either limit.
func Resolve(root Value, opt ResolveOpt) (Value, error) {
	r := &resolver{
		root:     root,
		visiting: make(map[string]bool),
		maxDepth: opt.maxDepth(),
		maxNodes: opt.maxNodes(),
	}
	return r.resolve(root, "")
}

type resolver struct {
	root     Value
	visiting map[string]bool
	chain    []string
	maxDepth int
	maxNodes int
	nodes    int
}

func (r *resolver) resolve(v Value, path string) (Value, error) {
	r.nodes++
	if r.nodes > r.maxNodes {
		return Value{}, &Error{
			Code:    CodeReferenceCycleDetected,
			Path:    pathOrRoot(path),
			Message: fmt.Sprintf("resolved document exceeds %d values", r.maxNodes),
		}
	}
	switch v.Kind() {
	case KindObject:
		if ref, ok := v.Get(RefKey); ok {
			return r.expand(v, ref, path)
		}
		out := newObject()
		for p := v.obj.Oldest(); p != nil; p = p.Next() {
			rv, err := r.resolve(p.Value, path+"/"+escapePointerToken(p.Key))
			if err != nil {
				return Value{}, err
			}
			out.set(p.Key, rv)
		}
		return out, nil
	case KindArray:
		items := make([]Value, len(v.arr))
		for i, it := range v.arr {
			rv, err := r.resolve(it, fmt.Sprintf("%s/%d", path, i))
			if err != nil {
				return Value{}, err
			}
			items[i] = rv
		}
		return Array(items...), nil
	default:
		return v, nil
	}
}

func (r *resolver) expand(node, refv Value, path string) (Value, error) {
	ref, ok := refv.AsString()
	if !ok {
		return Value{}, &Error{Code: CodeUnsupportedReferenceKind, Path: pathOrRoot(path), Message: "$ref must be a string, got " + refv.Kind().String()}
	}
	ptr, err := ParsePointer(ref)
	if err != nil {
		return Value{}, atPath(err, path)
	}
	key := "#/" + strings.Join(escapeTokens(ptr.tokens), "/")
	if r.visiting[key] {
		return Value{}, &Error{
			Code:    CodeReferenceCycleDetected,
			Path:    pathOrRoot(path),
			Ref:     ref,
			Message: "cycle " + strings.Join(append(append([]string(nil), r.chain...), key), " -> "),
		}
	}
	if len(r.chain) >= r.maxDepth {
		return Value{}, &Error{
			Code:    CodeReferenceCycleDetected,
			Path:    pathOrRoot(path),
			Ref:     ref,
			Message: fmt.Sprintf("reference chain exceeds %d hops", r.maxDepth),
		}
	}
	target, err := ptr.Lookup(r.root)
	if err != nil {
		return Value{}, atPath(err, path)
	}

	merged := target.Clone()
	for p := node.obj.Oldest(); p != nil; p = p.Next() {
		if p.Key == RefKey {
			continue
		}
		if merged.Kind() != KindObject {
			return Value{}, &Error{
				Code:    CodeInvalidReferenceTarget,
				Path:    pathOrRoot(path),
				Ref:     ref,
				Message: "target is " + merged.Kind().String() + " and cannot take sibling keys",
			}
		}
		merged.set(p.Key, p.Value.Clone())
	}

	r.visiting[key] = true
	r.chain = append(r.chain, key)
	defer func() {
		delete(r.visiting, key)
		r.chain = r.chain[:len(r.chain)-1]
	}()
	return r.resolve(merged, path)
}

func atPath(err error, path string) error {
	if e, ok := err.(*Error); ok && e.Path == "" {
		e.Path = pathOrRoot(path)
	}
	return err
}
