package exploration

import (
	"errors"
	"fmt"
)

// ParamType names the object type a parameter holds.
type ParamType string

// ParamTypeUnicodeString is the only parameter type explorations may declare.
const ParamTypeUnicodeString ParamType = "UnicodeString"

// ErrUnknownParamType is returned for obj_type values other than the known
// parameter types.
var ErrUnknownParamType = errors.New("unknown parameter type")

// ParamSpec declares a lesson parameter.
type ParamSpec struct {
	ObjType ParamType `yaml:"obj_type" json:"obj_type"`
}

// DefaultParamSpec returns a spec of the default parameter type.
func DefaultParamSpec() ParamSpec {
	return ParamSpec{ObjType: ParamTypeUnicodeString}
}

// ParamSpecFromBackendDict decodes {"obj_type": "..."}.
func ParamSpecFromBackendDict(d map[string]any) (ParamSpec, error) {
	name, _ := d["obj_type"].(string)
	spec := ParamSpec{ObjType: ParamType(name)}
	if err := spec.Validate(); err != nil {
		return ParamSpec{}, err
	}
	return spec, nil
}

// ToBackendDict encodes the spec in its backend form.
func (p ParamSpec) ToBackendDict() map[string]any {
	return map[string]any{"obj_type": string(p.ObjType)}
}

// Validate reports whether the spec names a known type.
func (p ParamSpec) Validate() error {
	switch p.ObjType {
	case ParamTypeUnicodeString:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownParamType, p.ObjType)
}
