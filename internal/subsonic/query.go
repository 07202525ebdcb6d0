package subsonic

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Query is an ordered list of request parameters.
//
// Optional arguments that are unset (nil or a nil pointer) are left out entirely
// instead of being sent empty. A Query is immutable; Arg returns a copy.
type Query struct {
	args []queryArg
}

type queryArg struct {
	key   string
	value string
}

// With starts a query with a single argument.
func With(key string, value any) Query {
	return Query{}.Arg(key, value)
}

// Arg appends key unless value is unset.
func (q Query) Arg(key string, value any) Query {
	s, ok := formatArg(value)
	if !ok {
		return q
	}
	args := make([]queryArg, len(q.args), len(q.args)+1)
	copy(args, q.args)
	return Query{args: append(args, queryArg{key: key, value: s})}
}

// Merge appends the arguments of other after those of q.
func (q Query) Merge(other Query) Query {
	args := make([]queryArg, 0, len(q.args)+len(other.args))
	args = append(args, q.args...)
	return Query{args: append(args, other.args...)}
}

// Get returns the first value stored under key.
func (q Query) Get(key string) (string, bool) {
	for _, a := range q.args {
		if a.key == key {
			return a.value, true
		}
	}
	return "", false
}

// Keys returns the argument keys in insertion order.
func (q Query) Keys() []string {
	keys := make([]string, len(q.args))
	for i, a := range q.args {
		keys[i] = a.key
	}
	return keys
}

func (q Query) Len() int { return len(q.args) }

// Values converts the query to [url.Values]. Ordering is lost.
func (q Query) Values() url.Values {
	v := make(url.Values, len(q.args))
	for _, a := range q.args {
		v.Add(a.key, a.value)
	}
	return v
}

// Encode renders the query in insertion order as a URL query string.
func (q Query) Encode() string {
	var sb strings.Builder
	for i, a := range q.args {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(a.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(a.value))
	}
	return sb.String()
}

func formatArg(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	case int:
		return strconv.Itoa(v), true
	case *int:
		if v == nil {
			return "", false
		}
		return strconv.Itoa(*v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case *int64:
		if v == nil {
			return "", false
		}
		return strconv.FormatInt(*v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case *uint64:
		if v == nil {
			return "", false
		}
		return strconv.FormatUint(*v, 10), true
	case bool:
		return strconv.FormatBool(v), true
	case *bool:
		if v == nil {
			return "", false
		}
		return strconv.FormatBool(*v), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprint(v), true
	}
}
