package engine

import "github.com/emberlang/ember/internal/keys"

// ToPrimitive implements the abstract ToPrimitive operation (spec.md
// §4.3): primitives pass through unchanged; an object tries valueOf
// then toString (hint "default"), calling whichever is the first
// callable function found, per the classic ES3 coercion order.
func (f *Frame) ToPrimitive(v Value) Value {
	if !v.IsObject() {
		return v
	}
	o := v.AsObject()
	for _, name := range [2]string{"valueOf", "toString"} {
		if fn := f.lookupMethod(o, name); fn != nil {
			result, err := f.CallFunction(fn, v, nil)
			if err == nil && !result.IsObject() {
				return result
			}
		}
	}
	return Undefined()
}

func (f *Frame) lookupMethod(o *Object, name string) *Function {
	slot, _ := o.Resolve(keys.Intern(name))
	if slot == nil || slot.isAccessor() {
		return nil
	}
	if !slot.value.IsObject() {
		return nil
	}
	fo := slot.value.AsObject()
	fn, _ := fo.Extra.(*Function)
	return fn
}

// ToStringValue implements the full abstract ToString, including the
// object branch ToGoString (convert.go) deliberately leaves out.
func (f *Frame) ToStringValue(v Value) string {
	if v.IsObject() {
		return ToGoString(f.ToPrimitive(v))
	}
	return ToGoString(v)
}

// ToNumberOf implements the full abstract ToNumber.
func ToNumberOf(f *Frame, v Value) float64 {
	if v.IsObject() {
		return ToNumberPrimitive(f.ToPrimitive(v))
	}
	return ToNumberPrimitive(v)
}

// ToBooleanOf exists only for symmetry with ToNumberOf/ToStringValue;
// ToBoolean never needs the frame since it never invokes script code.
func ToBooleanOf(f *Frame, v Value) bool { return ToBoolean(v) }
