// Package aioesphomeapi contains the wire message registry for the ESPHome
// native API: one Go struct per message defined by the upstream
// aioesphomeapi/esphome protobuf schema, plus a small reflection-driven
// codec that encodes/decodes them on the protocol-buffers wire format.
//
// There is no protoc toolchain available in this environment, so these
// types are not generated by protoc-gen-go the way the upstream project
// generates them. Instead each field carries a `pb:"<number>,<kind>"` tag
// and Marshal/Unmarshal walk the struct with reflection, delegating the
// actual varint/fixed32/length-delimited wire mechanics to
// google.golang.org/protobuf/encoding/protowire. This keeps every message
// wire-compatible with a real protobuf parser without requiring code
// generation.
package aioesphomeapi

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"google.golang.org/protobuf/encoding/protowire"
)

// Message is implemented by every type in the registry. It exists purely to
// document intent; any addressable struct with `pb` tags satisfies it via
// Marshal/Unmarshal below.
type Message interface{}

type fieldKind int

const (
	kindVarint fieldKind = iota // bool, enum, uint32/int32 field, as a non-negative varint
	kindFloat                   // float32, fixed32 wire type
	kindString                  // string, length-delimited
	kindBytes                   // []byte, length-delimited
)

type fieldInfo struct {
	num      protowire.Number
	kind     fieldKind
	index    int
	repeated bool
}

var fieldCache sync.Map // reflect.Type -> []fieldInfo

func fieldsOf(t reflect.Type) []fieldInfo {
	if v, ok := fieldCache.Load(t); ok {
		return v.([]fieldInfo)
	}
	var infos []fieldInfo
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("pb")
		if tag == "" {
			continue
		}
		parts := strings.Split(tag, ",")
		num, err := strconv.Atoi(parts[0])
		if err != nil {
			panic(fmt.Sprintf("aioesphomeapi: bad pb tag on %s.%s: %s", t.Name(), sf.Name, tag))
		}
		kindName := parts[1]
		repeated := strings.HasPrefix(kindName, "rep_")
		kindName = strings.TrimPrefix(kindName, "rep_")
		var k fieldKind
		switch kindName {
		case "varint":
			k = kindVarint
		case "float":
			k = kindFloat
		case "string":
			k = kindString
		case "bytes":
			k = kindBytes
		default:
			panic("aioesphomeapi: unknown pb kind " + kindName)
		}
		infos = append(infos, fieldInfo{num: protowire.Number(num), kind: k, index: i, repeated: repeated})
	}
	fieldCache.Store(t, infos)
	return infos
}

// Marshal encodes a message in the registry to its protobuf wire form.
func Marshal(m Message) ([]byte, error) {
	v := reflect.ValueOf(m)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()
	var b []byte
	for _, fi := range fieldsOf(t) {
		fv := v.Field(fi.index)
		if fi.repeated {
			for i := 0; i < fv.Len(); i++ {
				b = appendScalar(b, fi.num, fi.kind, fv.Index(i))
			}
			continue
		}
		if isZero(fv) {
			continue
		}
		b = appendScalar(b, fi.num, fi.kind, fv)
	}
	return b, nil
}

func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Bool:
		return !v.Bool()
	case reflect.String:
		return v.String() == ""
	case reflect.Slice:
		return v.Len() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	default:
		return v.Uint() == 0
	}
}

func appendScalar(b []byte, num protowire.Number, k fieldKind, v reflect.Value) []byte {
	switch k {
	case kindVarint:
		var u uint64
		switch v.Kind() {
		case reflect.Bool:
			if v.Bool() {
				u = 1
			}
		case reflect.Int32, reflect.Int64, reflect.Int:
			u = uint64(v.Int())
		default:
			u = v.Uint()
		}
		b = protowire.AppendTag(b, num, protowire.VarintType)
		b = protowire.AppendVarint(b, u)
	case kindFloat:
		b = protowire.AppendTag(b, num, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, math.Float32bits(float32(v.Float())))
	case kindString:
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendString(b, v.String())
	case kindBytes:
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendBytes(b, v.Bytes())
	}
	return b
}

// Unmarshal decodes protobuf wire bytes into a message in the registry.
// Unknown field numbers are skipped, matching upstream forward-compat
// behavior: new fields from newer clients don't break older servers.
func Unmarshal(data []byte, m Message) error {
	v := reflect.ValueOf(m)
	if v.Kind() != reflect.Ptr {
		return fmt.Errorf("aioesphomeapi: Unmarshal requires a pointer, got %T", m)
	}
	v = v.Elem()
	t := v.Type()
	byNum := map[protowire.Number]fieldInfo{}
	for _, fi := range fieldsOf(t) {
		byNum[fi.num] = fi
	}

	for len(data) > 0 {
		num, wt, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]

		fi, known := byNum[num]
		if !known {
			m := protowire.ConsumeFieldValue(num, wt, data)
			if m < 0 {
				return protowire.ParseError(m)
			}
			data = data[m:]
			continue
		}

		fv := v.Field(fi.index)
		switch wt {
		case protowire.VarintType:
			val, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
			setVarint(fv, fi, val)
		case protowire.Fixed32Type:
			val, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
			setScalar(fv, fi, math.Float32frombits(val))
		case protowire.BytesType:
			val, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
			setBytes(fv, fi, val)
		default:
			m := protowire.ConsumeFieldValue(num, wt, data)
			if m < 0 {
				return protowire.ParseError(m)
			}
			data = data[m:]
		}
	}
	return nil
}

func setVarint(fv reflect.Value, fi fieldInfo, val uint64) {
	target := fv
	if fi.repeated {
		target = reflect.New(fv.Type().Elem()).Elem()
	}
	switch target.Kind() {
	case reflect.Bool:
		target.SetBool(val != 0)
	case reflect.Int32, reflect.Int64, reflect.Int:
		target.SetInt(int64(val))
	default:
		target.SetUint(val)
	}
	if fi.repeated {
		fv.Set(reflect.Append(fv, target))
	}
}

func setScalar(fv reflect.Value, fi fieldInfo, val float32) {
	if fi.repeated {
		fv.Set(reflect.Append(fv, reflect.ValueOf(val).Convert(fv.Type().Elem())))
		return
	}
	fv.SetFloat(float64(val))
}

func setBytes(fv reflect.Value, fi fieldInfo, val []byte) {
	if fi.kind == kindString {
		if fi.repeated {
			fv.Set(reflect.Append(fv, reflect.ValueOf(string(val))))
			return
		}
		fv.SetString(string(val))
		return
	}
	if fi.repeated {
		fv.Set(reflect.Append(fv, reflect.ValueOf(append([]byte(nil), val...))))
		return
	}
	fv.SetBytes(append([]byte(nil), val...))
}
