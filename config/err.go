package config

import (
	"github.com/ezrec/lc3/translate"
)

var f = translate.From

// ErrConfigType is a setting of the wrong Starlark type.
type ErrConfigType struct {
	Name string
	Type string
}

func (err ErrConfigType) Error() string {
	return f("%v: unexpected type %v", err.Name, err.Type)
}

// ErrConfigRange is a setting outside its valid range.
type ErrConfigRange struct {
	Name  string
	Value string
}

func (err ErrConfigRange) Error() string {
	return f("%v: %v out of range", err.Name, err.Value)
}
