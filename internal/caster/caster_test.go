package caster

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eggshell/pkg/shelltypes"
)

func TestCastScalars(t *testing.T) {
	tests := []struct {
		name     string
		typ      *shelltypes.Type
		raw      string
		expected any
	}{
		{"untyped keeps token", nil, "42", "42"},
		{"string keeps token", shelltypes.String(), "[1, 2]", "[1, 2]"},
		{"int", shelltypes.Int(), "42", 42},
		{"negative int", shelltypes.Int(), "-3", -3},
		{"int from float truncates", shelltypes.Int(), "3.9", 3},
		{"int from negative float truncates toward zero", shelltypes.Int(), "-3.9", -3},
		{"int from bool", shelltypes.Int(), "True", 1},
		{"int from float at min int", shelltypes.Int(), "-9223372036854775808.0", math.MinInt64},
		{"int from quoted digits", shelltypes.Int(), "' 7 '", 7},
		{"float", shelltypes.Float(), "2.5", 2.5},
		{"float from int", shelltypes.Float(), "2", 2.0},
		{"float from text", shelltypes.Float(), "inf", math.Inf(1)},
		{"bool true literal", shelltypes.Bool(), "True", true},
		{"bool false literal", shelltypes.Bool(), "False", false},
		{"bool lowercase false", shelltypes.Bool(), "false", false},
		{"bool zero", shelltypes.Bool(), "0", false},
		{"bool zero float", shelltypes.Bool(), "0.0", false},
		{"bool empty quoted", shelltypes.Bool(), `""`, false},
		{"bool empty list", shelltypes.Bool(), "[]", false},
		{"bool empty map", shelltypes.Bool(), "{}", false},
		{"bool null", shelltypes.Bool(), "None", false},
		{"bool non-literal text", shelltypes.Bool(), "yes", true},
		{"bool empty token", shelltypes.Bool(), "", false},
		{"bool quoted False is a non-empty string", shelltypes.Bool(), `"False"`, true},
		{"optional null", shelltypes.Optional(shelltypes.Int()), "None", nil},
		{"optional null lowercase", shelltypes.Optional(shelltypes.Int()), "null", nil},
		{"optional value", shelltypes.Optional(shelltypes.Int()), "5", 5},
		{"optional string", shelltypes.Optional(shelltypes.String()), "nil", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Cast(tt.typ, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestCastContainers(t *testing.T) {
	t.Run("list of int", func(t *testing.T) {
		v, err := Cast(shelltypes.ListOf(shelltypes.Int()), "[1, 2.5, True]")
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 1}, v)
	})

	t.Run("list of string renders non strings", func(t *testing.T) {
		v, err := Cast(shelltypes.ListOf(shelltypes.String()), "['a', 1, None]")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "1", "None"}, v)
	})

	t.Run("list of bool uses truthiness of elements", func(t *testing.T) {
		v, err := Cast(shelltypes.ListOf(shelltypes.Bool()), `["False", "", 0, 1, []]`)
		require.NoError(t, err)
		assert.Equal(t, []bool{true, false, false, true, false}, v)
	})

	t.Run("list of optional int", func(t *testing.T) {
		v, err := Cast(shelltypes.ListOf(shelltypes.Optional(shelltypes.Int())), "[1, None, 3]")
		require.NoError(t, err)
		assert.Equal(t, []any{1, nil, 3}, v)
	})

	t.Run("nested lists", func(t *testing.T) {
		v, err := Cast(shelltypes.ListOf(shelltypes.ListOf(shelltypes.Float())), "[[1], [2, 3.5], []]")
		require.NoError(t, err)
		assert.Equal(t, [][]float64{{1}, {2, 3.5}, {}}, v)
	})

	t.Run("map of string to int", func(t *testing.T) {
		v, err := Cast(shelltypes.MapOf(shelltypes.String(), shelltypes.Int()), `{"a": 1, "b": "2", "a": 3}`)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"a": 3, "b": 2}, v)
	})

	t.Run("map with int keys", func(t *testing.T) {
		v, err := Cast(shelltypes.MapOf(shelltypes.Int(), shelltypes.ListOf(shelltypes.Int())), `{1: [1], "2": []}`)
		require.NoError(t, err)
		assert.Equal(t, map[int][]int{1: {1}, 2: {}}, v)
	})

	t.Run("optional list", func(t *testing.T) {
		v, err := Cast(shelltypes.Optional(shelltypes.ListOf(shelltypes.Int())), "[]")
		require.NoError(t, err)
		assert.Equal(t, []int{}, v)
	})
}

func TestCastCustom(t *testing.T) {
	upper := shelltypes.Custom("upper", reflect.TypeOf(""), func(raw string) (any, error) {
		if raw == "" {
			return nil, errors.New("empty")
		}
		return strings.ToUpper(raw), nil
	})

	v, err := Cast(upper, "abc")
	require.NoError(t, err)
	assert.Equal(t, "ABC", v)

	v, err = Cast(shelltypes.ListOf(upper), "['x', 'y']")
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y"}, v)

	_, err = Cast(upper, "")
	var castErr *CastError
	require.ErrorAs(t, err, &castErr)
	assert.Equal(t, "upper", castErr.Type)

	untyped := shelltypes.Custom("pair", nil, func(raw string) (any, error) {
		return strings.Split(raw, ":"), nil
	})
	v, err = Cast(shelltypes.ListOf(untyped), "['a:b']")
	require.NoError(t, err)
	assert.Equal(t, []any{[]string{"a", "b"}}, v)
}

func TestCastErrors(t *testing.T) {
	tests := []struct {
		name string
		typ  *shelltypes.Type
		raw  string
	}{
		{"int from word", shelltypes.Int(), "two"},
		{"int from list", shelltypes.Int(), "[1]"},
		{"float from word", shelltypes.Float(), "abc"},
		{"list from scalar", shelltypes.ListOf(shelltypes.Int()), "5"},
		{"list from text", shelltypes.ListOf(shelltypes.Int()), "1,2"},
		{"list with bad element", shelltypes.ListOf(shelltypes.Int()), "[1, 'x']"},
		{"list with null for int", shelltypes.ListOf(shelltypes.Int()), "[None]"},
		{"map from list", shelltypes.MapOf(shelltypes.String(), shelltypes.Int()), "[1]"},
		{"map with bad value", shelltypes.MapOf(shelltypes.String(), shelltypes.Int()), "{'a': 'b'}"},
		{"optional with bad value", shelltypes.Optional(shelltypes.Int()), "x"},
		{"int from overflowing exponent", shelltypes.Int(), "1e400"},
		{"int from float just past max int", shelltypes.Int(), "9223372036854775808.0"},
		{"int from max int exponent", shelltypes.Int(), "9.223372036854775807e18"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Cast(tt.typ, tt.raw)
			require.Error(t, err)
			var castErr *CastError
			require.ErrorAs(t, err, &castErr)
			assert.Equal(t, tt.raw, castErr.Token)
			assert.Equal(t, tt.typ.String(), castErr.Type)
		})
	}
}

func TestCastIdempotence(t *testing.T) {
	tests := []struct {
		typ    *shelltypes.Type
		tokens []string
	}{
		{shelltypes.Int(), []string{"0", "17", "-4", "3.99", "True", "'8'"}},
		{shelltypes.Float(), []string{"0", "2.5", "-1e-3", "7", "1e21", "nan"}},
		{shelltypes.Bool(), []string{"True", "False", "0", "1", "yes", "", "[]", `"False"`}},
		{shelltypes.String(), []string{"", "hello", "with space", "[1, 2]", "'quoted'"}},
		{shelltypes.ListOf(shelltypes.Int()), []string{"[]", "[1, 2.5]"}},
		{shelltypes.MapOf(shelltypes.String(), shelltypes.Bool()), []string{`{"b": 0, "a": 1}`}},
	}

	for _, tt := range tests {
		for _, token := range tt.tokens {
			t.Run(tt.typ.String()+"/"+token, func(t *testing.T) {
				first, err := Cast(tt.typ, token)
				require.NoError(t, err)
				second, err := Cast(tt.typ, Format(first))
				require.NoError(t, err)
				if f, ok := first.(float64); ok && math.IsNaN(f) {
					assert.True(t, math.IsNaN(second.(float64)))
					return
				}
				assert.Equal(t, first, second)
			})
		}
	}
}

func TestGoType(t *testing.T) {
	assert.Equal(t, reflect.TypeOf(""), GoType(nil))
	assert.Equal(t, reflect.TypeOf([]int{}), GoType(shelltypes.ListOf(shelltypes.Int())))
	assert.Equal(t, reflect.TypeOf(map[string][]bool{}), GoType(shelltypes.MapOf(shelltypes.String(), shelltypes.ListOf(shelltypes.Bool()))))
	assert.Equal(t, reflect.TypeOf([]any{}), GoType(shelltypes.ListOf(shelltypes.Optional(shelltypes.Float()))))
}

func TestMustCast(t *testing.T) {
	assert.Equal(t, 3, MustCast(shelltypes.Int(), "3"))
	assert.Panics(t, func() { MustCast(shelltypes.Int(), "three") })
}
