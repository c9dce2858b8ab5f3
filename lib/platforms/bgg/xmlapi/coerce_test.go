package xmlapi

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLeadingInt(t *testing.T) {
	testCases := []struct {
		input string
		value int64
		ok    bool
	}{
		{input: "2007", value: 2007, ok: true},
		{input: "-3", value: -3, ok: true},
		{input: "+4", value: 4, ok: true},
		{input: "60 minutes", value: 60, ok: true},
		{input: "12.5", value: 12, ok: true},
		{input: "abc"},
		{input: ""},
		{input: "-"},
		{input: " 5"},
		{input: "99999999999"},
	}

	for _, test := range testCases {
		value, ok := parseLeadingInt(test.input, 32)
		require.Equal(t, test.ok, ok, test.input)
		require.Equal(t, test.value, value, test.input)
	}

	value, ok := parseLeadingInt("99999999999", 64)
	require.True(t, ok)
	require.Equal(t, int64(99999999999), value)
}

type coercion struct {
	tag, attr, raw string
}

func recordingCoercer() (coercer, *[]coercion) {
	var failures []coercion
	return coercer{
		report: func(tag, attr, raw string) {
			failures = append(failures, coercion{tag, attr, raw})
		},
	}, &failures
}

func TestCoercerAttributes(t *testing.T) {
	c, failures := recordingCoercer()
	a := attrs{
		{Name: xml.Name{Local: "value"}, Value: "abc"},
		{Name: xml.Name{Local: "weight"}, Value: "2.25"},
	}

	field := 7
	c.intAttr("minplayers", a, "value", &field)
	require.Equal(t, 7, field)

	c.intAttr("minplayers", a, "missing", &field)
	require.Equal(t, 7, field)

	weight := 0.0
	c.floatAttr("averageweight", a, "weight", &weight)
	require.Equal(t, 2.25, weight)

	c.floatAttr("averageweight", a, "value", &weight)
	require.Equal(t, 2.25, weight)

	require.Equal(t, []coercion{
		{"minplayers", "value", "abc"},
		{"averageweight", "value", "abc"},
	}, *failures)
}

func TestCoercerText(t *testing.T) {
	c, failures := recordingCoercer()

	field := 7
	c.intText("age", "\n\t12\n", &field)
	require.Equal(t, 12, field)

	c.intText("age", "twelve", &field)
	require.Equal(t, 0, field)

	rating := 1.5
	c.floatText("average", "n/a", &rating)
	require.Equal(t, 0.0, rating)

	require.Len(t, *failures, 2)
}
