package domain

import "strings"

// Property is one key=value pair of a ManagementName.
type Property struct {
	Key   string
	Value string
}

// ManagementName is the structured identifier an object is published under.
// Its string form is the lookup key used by inspection tools, so property order is significant.
type ManagementName struct {
	Domain     string
	Properties []Property

	// literal holds caller-supplied identifier text that must be reproduced verbatim.
	literal string
}

// NewLiteralManagementName wraps an already formed identifier.
// The domain and properties are parsed on a best-effort basis; String returns text unchanged.
func NewLiteralManagementName(text string) ManagementName {
	name := ManagementName{literal: text}

	domainPart, props, ok := strings.Cut(text, ":")
	if !ok {
		name.Domain = text
		return name
	}
	name.Domain = domainPart

	for prop := range strings.SplitSeq(props, ",") {
		key, value, _ := strings.Cut(prop, "=")
		name.Properties = append(name.Properties, Property{Key: key, Value: value})
	}

	return name
}

// IsLiteral reports whether the name was supplied verbatim by the caller.
func (n ManagementName) IsLiteral() bool {
	return n.literal != ""
}

// Get returns the value of the first property with the given key.
func (n ManagementName) Get(key string) (string, bool) {
	for _, p := range n.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// String serializes the name as domain:key=value,key=value.
func (n ManagementName) String() string {
	if n.literal != "" {
		return n.literal
	}

	var b strings.Builder
	b.WriteString(n.Domain)
	b.WriteByte(':')
	for i, p := range n.Properties {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	return b.String()
}
