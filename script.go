// SPDX-License-Identifier: EPL-2.0

package granular

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	lua "github.com/yuin/gopher-lua"
)

// presetGlobal is the table a script edits.
const presetGlobal = "preset"

var scriptLibs = []struct {
	name string
	open lua.LGFunction
}{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// LoadScript runs a Lua preset. The script sees a global table named
// preset holding DefaultConfig in the same shape as a JSON preset and
// edits it in place:
//
//	preset.mode = "cloud"
//	preset.grains = 4 * 8
//	preset.chord = {0, 4, 7}
//	preset.lfo.depth = math.floor(preset.sample_rate / 100)
//
// The result goes through the same decoding and validation as
// LoadConfig, so unknown keys are rejected. Only the base, table, string
// and math libraries are available and file loading is removed.
// Cancelling ctx stops a running script.
func LoadScript(ctx context.Context, r io.Reader, name string) (Config, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	for _, lib := range scriptLibs {
		err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.open), NRet: 0, Protect: true}, lua.LString(lib.name))
		if err != nil {
			return Config{}, fmt.Errorf("opening lua %q library: %w", lib.name, err)
		}
	}
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)

	def, err := json.Marshal(DefaultConfig())
	if err != nil {
		return Config{}, fmt.Errorf("encoding defaults: %w", err)
	}
	var tree any
	if err := json.Unmarshal(def, &tree); err != nil {
		return Config{}, fmt.Errorf("encoding defaults: %w", err)
	}
	L.SetGlobal(presetGlobal, toLua(L, tree))

	fn, err := L.Load(r, name)
	if err != nil {
		return Config{}, fmt.Errorf("%w: script %s: %w", ErrInvalidConfig, name, err)
	}

	L.SetContext(ctx)
	L.Push(fn)
	if err := L.PCall(0, 0, nil); err != nil {
		return Config{}, fmt.Errorf("%w: script %s: %w", ErrInvalidConfig, name, err)
	}

	tbl, ok := L.GetGlobal(presetGlobal).(*lua.LTable)
	if !ok {
		return Config{}, fmt.Errorf("%w: script %s: %s is a %s, not a table",
			ErrInvalidConfig, name, presetGlobal, L.GetGlobal(presetGlobal).Type())
	}

	v, err := fromLua(tbl)
	if err != nil {
		return Config{}, fmt.Errorf("%w: script %s: %w", ErrInvalidConfig, name, err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return Config{}, fmt.Errorf("%w: script %s: %w", ErrInvalidConfig, name, err)
	}

	return LoadConfig(bytes.NewReader(data))
}

func toLua(L *lua.LState, v any) lua.LValue {
	switch v := v.(type) {
	case map[string]any:
		t := L.NewTable()
		for k, e := range v {
			t.RawSetString(k, toLua(L, e))
		}
		return t
	case []any:
		t := L.NewTable()
		for _, e := range v {
			t.Append(toLua(L, e))
		}
		return t
	case string:
		return lua.LString(v)
	case float64:
		return lua.LNumber(v)
	case bool:
		return lua.LBool(v)
	}
	return lua.LNil
}

// fromLua converts a script value back to the JSON tree. A table with
// only integer keys is a list; an empty table is null.
func fromLua(v lua.LValue) (any, error) {
	switch v := v.(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LBool:
		return bool(v), nil
	case lua.LNumber:
		return float64(v), nil
	case lua.LString:
		return string(v), nil
	case *lua.LTable:
		return tableFromLua(v)
	}
	return nil, fmt.Errorf("unsupported %s value", v.Type())
}

func tableFromLua(t *lua.LTable) (any, error) {
	var (
		fields = map[string]any{}
		keyed  int
		listed int
		err    error
	)
	t.ForEach(func(k, e lua.LValue) {
		if err != nil {
			return
		}
		switch k := k.(type) {
		case lua.LString:
			keyed++
			var fv any
			if fv, err = fromLua(e); err == nil {
				fields[string(k)] = fv
			}
		case lua.LNumber:
			listed++
		default:
			err = fmt.Errorf("unsupported %s key", k.Type())
		}
	})

	switch {
	case err != nil:
		return nil, err
	case keyed > 0 && listed > 0:
		return nil, errors.New("table mixes list and named entries")
	case keyed > 0:
		return fields, nil
	case listed == 0:
		return nil, nil
	}

	n := t.Len()
	if n != listed {
		return nil, errors.New("list has holes")
	}
	list := make([]any, n)
	for i := range n {
		if list[i], err = fromLua(t.RawGetInt(i + 1)); err != nil {
			return nil, err
		}
	}
	return list, nil
}
