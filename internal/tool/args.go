package tool

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Validator is implemented by request types that check themselves after decoding.
type Validator interface {
	Validate() error
}

// DecodeArgs decodes the model-supplied argument map into a typed request.
//
// Numbers arrive from the backend as float64, so weak typing is enabled for
// scalar conversions. Unknown keys and missing required keys (per the
// declaration's schema) are rejected, as a call with a bad signature would be.
func DecodeArgs[Req any](decl Declaration, args map[string]any) (Req, error) {
	var req Req
	name := decl.Name

	if decl.Parameters != nil {
		for _, key := range decl.Parameters.Required {
			if _, ok := args[key]; !ok {
				return req, &ArgumentError{Tool: name, Cause: fmt.Errorf("missing required argument %q", key)}
			}
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &req,
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return req, fmt.Errorf("%s: failed to build argument decoder: %w", name, err)
	}

	if err := decoder.Decode(args); err != nil {
		return req, &ArgumentError{Tool: name, Cause: err}
	}

	if v, ok := any(&req).(Validator); ok {
		if err := v.Validate(); err != nil {
			return req, &ArgumentError{Tool: name, Cause: err}
		}
	}

	return req, nil
}

// ArgumentError is returned when a tool call's arguments cannot be decoded
// into the tool's request type.
type ArgumentError struct {
	Tool  string
	Cause error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for tool %q: %v", e.Tool, e.Cause)
}

func (e *ArgumentError) Unwrap() error {
	return e.Cause
}
