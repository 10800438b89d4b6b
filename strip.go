package schemaprep

// CommentKey is the annotation keyword removed by StripComments.
const CommentKey = "$comment"

// StripComments returns a copy of v with every "$comment" member removed,
// at any depth. No other key is touched and v itself is not modified.
func StripComments(v Value) Value {
	switch v.Kind() {
	case KindObject:
		out := newObject()
		for p := v.obj.Oldest(); p != nil; p = p.Next() {
			if p.Key == CommentKey {
				continue
			}
			out.set(p.Key, StripComments(p.Value))
		}
		return out
	case KindArray:
		items := make([]Value, len(v.arr))
		for i, it := range v.arr {
			items[i] = StripComments(it)
		}
		return Array(items...)
	default:
		return v
	}
}
