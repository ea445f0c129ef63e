package db

import (
	"strconv"
	"strings"
)

// Rebind rewrites the '?' placeholders of query into the bind syntax of
// driverName. Queries are written once, sqlite-style; postgres needs $1..$n.
// Placeholders inside single-quoted literals are left alone.
func Rebind(driverName, query string) string {
	if driverName != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
