package service

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
)

const maxTopK = math.MaxInt32

var decimalInt = regexp.MustCompile(`^[+-]?[0-9]+$`)

// ParseTopK accepts integer numbers, integral floats (JSON numbers) and
// base-10 digit strings. Booleans, fractions and empty strings are rejected.
func ParseTopK(field string, raw any) (int, error) {
	reject := func() (int, error) {
		return 0, inputError(field, fmt.Sprintf("not an integer: %#v", raw))
	}

	switch v := raw.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		n, err := cast.ToInt64E(v)
		if err != nil || n > maxTopK || n < -maxTopK {
			return reject()
		}
		return int(n), nil
	case float32:
		return ParseTopK(field, float64(v))
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > maxTopK {
			return reject()
		}
		return int(v), nil
	case string:
		s := strings.TrimSpace(v)
		if !decimalInt.MatchString(s) {
			return reject()
		}
		n, err := strconv.Atoi(s)
		if err != nil || n > maxTopK || n < -maxTopK {
			return reject()
		}
		return n, nil
	default:
		return reject()
	}
}

// topKHook routes every value decoded into an int through ParseTopK.
func topKHook(field string) mapstructure.DecodeHookFuncKind {
	return func(_ reflect.Kind, to reflect.Kind, data any) (any, error) {
		if to != reflect.Int {
			return data, nil
		}
		return ParseTopK(field, data)
	}
}
