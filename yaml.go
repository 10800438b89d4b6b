package schemaprep

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a schema document written in YAML. Only the first
// document of a stream is read. Mapping order is preserved; values that have
// no JSON representation (non-string keys, .inf, .nan) are rejected.
func ParseYAML(data []byte, opt ParseOpt) (Value, error) {
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return Value{}, malformed("/", fmt.Sprintf("input is %d bytes, limit %d", len(data), opt.MaxBytes), nil)
	}
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, malformed("/", "empty YAML document", nil)
		}
		return Value{}, malformed("/", "invalid YAML", err)
	}
	y := &yamlDecoder{opt: opt, maxDepth: opt.maxDepth(), expanding: make(map[*yaml.Node]bool)}
	v, err := y.node(&doc, "", 0)
	if err != nil {
		return Value{}, err
	}
	if v.Kind() != KindObject {
		return Value{}, malformed("/", "root is "+v.Kind().String()+", want object", nil)
	}
	return v, nil
}

type yamlDecoder struct {
	opt      ParseOpt
	maxDepth int

	// Alias accounting, modelled on yaml.v3's own decoder: decoded counts
	// every node visited, aliased those reached through an alias.
	decoded    int
	aliased    int
	aliasDepth int
	expanding  map[*yaml.Node]bool
}

// Alias expansion may make up at most this share of the decoded nodes. The
// share shrinks from 0.99 to 0.10 as documents grow, as in yaml.v3.
const (
	aliasRatioRangeLow  = 400000
	aliasRatioRangeHigh = 4000000
)

func allowedAliasRatio(decoded int) float64 {
	switch {
	case decoded <= aliasRatioRangeLow:
		return 0.99
	case decoded >= aliasRatioRangeHigh:
		return 0.10
	default:
		return 0.99 - 0.89*float64(decoded-aliasRatioRangeLow)/float64(aliasRatioRangeHigh-aliasRatioRangeLow)
	}
}

func (y *yamlDecoder) node(n *yaml.Node, path string, depth int) (Value, error) {
	if y.maxDepth > 0 && depth > y.maxDepth {
		return Value{}, malformed(pathOrRoot(path), "max depth exceeded", nil)
	}
	y.decoded++
	if y.aliasDepth > 0 {
		y.aliased++
	}
	if y.aliased > 100 && y.decoded > 1000 && float64(y.aliased)/float64(y.decoded) > allowedAliasRatio(y.decoded) {
		return Value{}, malformed(pathOrRoot(path), "document contains excessive aliasing", nil)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Value{}, malformed("/", "empty YAML document", nil)
		}
		return y.node(n.Content[0], path, depth)
	case yaml.AliasNode:
		if y.expanding[n.Alias] {
			return Value{}, malformed(pathOrRoot(path), fmt.Sprintf("line %d: alias *%s contains itself", n.Line, n.Value), nil)
		}
		y.expanding[n.Alias] = true
		y.aliasDepth++
		v, err := y.node(n.Alias, path, depth)
		y.aliasDepth--
		delete(y.expanding, n.Alias)
		return v, err
	case yaml.MappingNode:
		obj := newObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind == yaml.ScalarNode && k.Tag == "!!merge" {
				return Value{}, malformed(pathOrRoot(path), "YAML merge keys are not supported", nil)
			}
			if k.Kind != yaml.ScalarNode || (k.ShortTag() != "!!str" && k.ShortTag() != "!!int") {
				return Value{}, malformed(pathOrRoot(path), fmt.Sprintf("line %d: mapping key must be a string", k.Line), nil)
			}
			childPath := path + "/" + escapePointerToken(k.Value)
			if obj.Has(k.Value) {
				msg := "key '" + k.Value + "' duplicated"
				switch y.opt.OnDuplicateKey {
				case SeverityError:
					return Value{}, malformed(childPath, msg, nil)
				case SeverityWarn:
					if y.opt.Warn != nil {
						y.opt.Warn(childPath, msg)
					}
				}
			}
			cv, err := y.node(v, childPath, depth+1)
			if err != nil {
				return Value{}, err
			}
			obj.set(k.Value, cv)
		}
		return obj, nil
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for i, c := range n.Content {
			cv, err := y.node(c, path+"/"+strconv.Itoa(i), depth+1)
			if err != nil {
				return Value{}, err
			}
			items = append(items, cv)
		}
		return Array(items...), nil
	case yaml.ScalarNode:
		return yamlScalar(n, path)
	default:
		return Value{}, malformed(pathOrRoot(path), "unsupported YAML node", nil)
	}
}

func yamlScalar(n *yaml.Node, path string) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, malformed(pathOrRoot(path), "invalid boolean", err)
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return Value{}, malformed(pathOrRoot(path), "invalid integer", err)
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, malformed(pathOrRoot(path), "invalid number", err)
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return Value{}, malformed(pathOrRoot(path), "number "+n.Value+" has no JSON form", nil)
		}
		lit := strings.TrimPrefix(n.Value, "+")
		if !isJSONNumber(lit) {
			lit = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return Number(lit), nil
	case "!!str", "!!binary", "!!timestamp":
		return String(n.Value), nil
	default:
		return Value{}, malformed(pathOrRoot(path), "unsupported YAML tag "+n.Tag, nil)
	}
}

// isJSONNumber reports whether s is a number literal in JSON grammar.
func isJSONNumber(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	switch {
	case i < len(s) && s[i] == '0':
		i++
	case i < len(s) && s[i] >= '1' && s[i] <= '9':
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == start {
			return false
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == start {
			return false
		}
	}
	return i == len(s)
}

func pathOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
