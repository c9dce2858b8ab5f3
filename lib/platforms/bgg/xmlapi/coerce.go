package xmlapi

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// parseLeadingInt reads an optional sign followed by decimal digits from the
// start of s, anything after the digits is ignored. It fails when there are
// no digits or the value does not fit in bitSize bits.
func parseLeadingInt(s string, bitSize int) (int64, bool) {
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}

	value, err := strconv.ParseInt(s[:end], 10, bitSize)
	if err != nil {
		return 0, false
	}
	return value, true
}

func parseFloat(s string) (float64, bool) {
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// attrs is the attribute set of a single element, lookups are a linear scan
// by local name since elements only ever carry a handful of attributes.
type attrs []xml.Attr

func (a attrs) str(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}
	return "", false
}

// is reports whether the attribute is present with exactly the given value.
func (a attrs) is(name, value string) bool {
	v, ok := a.str(name)
	return ok && v == value
}

// coercer turns raw attribute and text values into numbers. A value that
// cannot be coerced never fails the document, it is reported so that it can
// be told apart from a missing field.
type coercer struct {
	report func(tag, attr, raw string)
}

// intAttr sets *field from the named attribute. The field is left unchanged
// when the attribute is absent or malformed.
func (c coercer) intAttr(tag string, a attrs, name string, field *int) {
	raw, ok := a.str(name)
	if !ok {
		return
	}
	value, ok := parseLeadingInt(raw, 32)
	if !ok {
		c.report(tag, name, raw)
		return
	}
	*field = int(value)
}

// int64Value returns the named attribute, ok is false when it is absent or
// malformed.
func (c coercer) int64Value(tag string, a attrs, name string) (int64, bool) {
	raw, ok := a.str(name)
	if !ok {
		return 0, false
	}
	value, ok := parseLeadingInt(raw, 64)
	if !ok {
		c.report(tag, name, raw)
		return 0, false
	}
	return value, true
}

func (c coercer) int64Attr(tag string, a attrs, name string, field *int64) {
	if value, ok := c.int64Value(tag, a, name); ok {
		*field = value
	}
}

func (c coercer) floatAttr(tag string, a attrs, name string, field *float64) {
	raw, ok := a.str(name)
	if !ok {
		return
	}
	value, ok := parseFloat(raw)
	if !ok {
		c.report(tag, name, raw)
		return
	}
	*field = value
}

// intText sets *field from the inner text of an element, malformed text sets
// it to 0.
func (c coercer) intText(tag string, text string, field *int) {
	value, ok := parseLeadingInt(strings.TrimSpace(text), 32)
	if !ok {
		c.report(tag, "", text)
	}
	*field = int(value)
}

func (c coercer) floatText(tag string, text string, field *float64) {
	value, ok := parseFloat(strings.TrimSpace(text))
	if !ok {
		c.report(tag, "", text)
	}
	*field = value
}
