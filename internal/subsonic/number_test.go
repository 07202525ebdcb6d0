package subsonic

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLenientUint(t *testing.T) {
	tt := []struct {
		name string
		text string
		want uint64
		ok   bool
	}{
		{name: "integer", text: "42", want: 42, ok: true},
		{name: "zero", text: "0", want: 0, ok: true},
		{name: "leading zeros", text: "007", want: 7, ok: true},
		{name: "max", text: "18446744073709551615", want: 18446744073709551615, ok: true},
		{name: "overflow", text: "18446744073709551616"},
		{name: "negative", text: "-1"},
		{name: "plus sign", text: "+1"},
		{name: "fraction", text: "1.0"},
		{name: "exponent", text: "1e3"},
		{name: "letters", text: "abc"},
		{name: "empty", text: ""},
		{name: "whitespace", text: " 1"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseLenientUint("id", tc.text)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
				return
			}

			var malformed *MalformedError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, "id", malformed.Field)
			assert.Equal(t, tc.text, malformed.Raw)
		})
	}
}

func TestNumber(t *testing.T) {
	t.Run("Quoted And Bare Agree", func(t *testing.T) {
		var quoted, bare number
		require.NoError(t, json.Unmarshal([]byte(`"12"`), &quoted))
		require.NoError(t, json.Unmarshal([]byte(`12`), &bare))
		assert.Equal(t, quoted, bare)
	})

	t.Run("Null Leaves It Unset", func(t *testing.T) {
		var n number
		require.NoError(t, json.Unmarshal([]byte(`null`), &n))
		assert.False(t, n.set)

		out, err := json.Marshal(n)
		require.NoError(t, err)
		assert.Equal(t, "null", string(out))
	})

	t.Run("Optional Zero Is Absent", func(t *testing.T) {
		assert.Nil(t, optNum(0))
		require.NotNil(t, optNum(3))
		assert.Equal(t, "3", optNum(3).text)
	})

	t.Run("Coercer Keeps First Error", func(t *testing.T) {
		var c coercer
		c.required("id", number{text: "x", set: true})
		c.required("albumCount", number{})
		c.optional("year", &number{text: "y", set: true})

		var malformed *MalformedError
		require.True(t, errors.As(c.err, &malformed))
		assert.Equal(t, "id", malformed.Field)
	})
}

func TestList(t *testing.T) {
	type item struct {
		ID int `json:"id"`
	}

	tt := []struct {
		name string
		raw  string
		want []item
	}{
		{name: "array", raw: `[{"id":1},{"id":2}]`, want: []item{{ID: 1}, {ID: 2}}},
		{name: "single object", raw: `{"id":3}`, want: []item{{ID: 3}}},
		{name: "empty array", raw: `[]`, want: nil},
		{name: "null", raw: `null`, want: nil},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			var l list[item]
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &l))
			assert.Equal(t, tc.want, l.items())
		})
	}
}
