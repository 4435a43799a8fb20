package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/macroport/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// isExprDefined checks if an HCL expression was actually present in the
// source. gohcl fills omitted optional expression fields with a zero-width
// placeholder, so a nil check is not enough.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	return r.End.Byte > r.Start.Byte
}

// decodeOverrides evaluates an `overrides = { NAME = value }` attribute.
// Values may be numbers, bools or strings; each becomes symbol text.
func decodeOverrides(ctx context.Context, expr hcl.Expression) (map[string]cty.Value, error) {
	logger := ctxlog.FromContext(ctx)
	if !isExprDefined(expr) {
		return nil, nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid overrides: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("overrides must be an object, got %s", ty.FriendlyName())
	}

	out := make(map[string]cty.Value, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		name := k.AsString()
		text, err := ToSymbolValue(v)
		if err != nil {
			return nil, fmt.Errorf("override %s: %w", name, err)
		}
		if !v.Type().Equals(cty.String) {
			logger.Debug("Implicitly converted override value.", "name", name, "from", v.Type().FriendlyName())
		}
		out[name] = text
	}
	return out, nil
}

// ToSymbolValue converts a known primitive value to the string form the
// symbol table compares against.
func ToSymbolValue(v cty.Value) (cty.Value, error) {
	if !v.IsWhollyKnown() || v.IsNull() {
		return cty.NilVal, fmt.Errorf("value must be known and not null")
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return cty.NilVal, fmt.Errorf("cannot convert %s to string: %w", v.Type().FriendlyName(), err)
	}
	return s, nil
}
