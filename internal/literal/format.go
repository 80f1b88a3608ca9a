package literal

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Format renders v in the literal grammar so that Parse(Format(v)) yields an
// equivalent value. Typed Go slices and maps are accepted as well as parsed values;
// Go maps are rendered with keys in sorted order.
func Format(v any) string {
	var b strings.Builder
	write(&b, v)
	return b.String()
}

func write(b *strings.Builder, v any) {
	switch x := v.(type) {
	case nil:
		b.WriteString("None")
	case bool:
		if x {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case int:
		b.WriteString(strconv.Itoa(x))
	case float64:
		b.WriteString(FormatFloat(x))
	case string:
		b.WriteString(strconv.Quote(x))
	case *Map:
		b.WriteByte('{')
		for i, e := range x.entries {
			if i > 0 {
				b.WriteString(", ")
			}
			write(b, e.Key)
			b.WriteString(": ")
			write(b, e.Value)
		}
		b.WriteByte('}')
	default:
		writeReflect(b, reflect.ValueOf(v))
	}
}

func writeReflect(b *strings.Builder, rv reflect.Value) {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			b.WriteString("[]")
			return
		}
		b.WriteByte('[')
		for i := 0; i < rv.Len(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			write(b, rv.Index(i).Interface())
		}
		b.WriteByte(']')
	case reflect.Map:
		keys := rv.MapKeys()
		rendered := make([]string, len(keys))
		order := make([]int, len(keys))
		for i, k := range keys {
			rendered[i] = Format(k.Interface())
			order[i] = i
		}
		sort.Slice(order, func(a, c int) bool { return rendered[order[a]] < rendered[order[c]] })
		b.WriteByte('{')
		for n, i := range order {
			if n > 0 {
				b.WriteString(", ")
			}
			b.WriteString(rendered[i])
			b.WriteString(": ")
			write(b, rv.MapIndex(keys[i]).Interface())
		}
		b.WriteByte('}')
	case reflect.Interface, reflect.Pointer:
		if rv.IsNil() {
			b.WriteString("None")
			return
		}
		write(b, rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.WriteString(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		b.WriteString(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32:
		b.WriteString(FormatFloat(rv.Float()))
	case reflect.Invalid:
		b.WriteString("None")
	default:
		b.WriteString(strconv.Quote(fmt.Sprint(rv.Interface())))
	}
}

// FormatFloat renders f so that it always reads back as a float.
func FormatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
