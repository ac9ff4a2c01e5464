package qrformat

import "strings"

const upperhex = "0123456789ABCDEF"

// escapeComponent percent-encodes s the way URI components are escaped in
// browsers: letters, digits and -_.!~*'() are kept.
func escapeComponent(s string) string {
	return escape(s, func(c byte) bool {
		switch c {
		case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
			return true
		}
		return isAlnum(c)
	}, false)
}

// escapeForm encodes s as an application/x-www-form-urlencoded value:
// letters, digits and *-._ are kept, space becomes '+'.
func escapeForm(s string) string {
	return escape(s, func(c byte) bool {
		switch c {
		case '*', '-', '.', '_':
			return true
		}
		return isAlnum(c)
	}, true)
}

func escape(s string, keep func(byte) bool, spacePlus bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case keep(c):
			b.WriteByte(c)
		case c == ' ' && spacePlus:
			b.WriteByte('+')
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		}
	}
	return b.String()
}

func isAlnum(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// query is an insertion-ordered list of form parameters
type query struct {
	keys   []string
	values []string
}

func (q *query) set(key, value string) {
	for i, k := range q.keys {
		if k == key {
			q.values[i] = value
			return
		}
	}
	q.keys = append(q.keys, key)
	q.values = append(q.values, value)
}

// setIf adds the parameter only when value is non-empty
func (q *query) setIf(key, value string) {
	if value != "" {
		q.set(key, value)
	}
}

func (q *query) empty() bool {
	return len(q.keys) == 0
}

func (q *query) encode() string {
	var b strings.Builder
	for i, k := range q.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escapeForm(k))
		b.WriteByte('=')
		b.WriteString(escapeForm(q.values[i]))
	}
	return b.String()
}
