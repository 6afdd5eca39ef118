package llm

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var compiledSchemas sync.Map // Schema.Name -> *jsonschema.Schema

// checkAnswer validates raw against s. A nil schema accepts anything.
func checkAnswer(provider string, s *Schema, raw json.RawMessage) error {
	if s == nil {
		return nil
	}
	invalid := func(err error) error {
		return &Error{Kind: KindInvalidResponse, Provider: provider, Content: raw, Err: err}
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return invalid(fmt.Errorf("answer is not JSON: %w", err))
	}
	compiled, err := compileSchema(s)
	if err != nil {
		return invalid(err)
	}
	if err := compiled.Validate(doc); err != nil {
		return invalid(err)
	}
	return nil
}

func compileSchema(s *Schema) (*jsonschema.Schema, error) {
	if v, ok := compiledSchemas.Load(s.Name); ok {
		return v.(*jsonschema.Schema), nil
	}

	// The compiler wants plain JSON values, not Go literals like []string.
	b, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("encode schema %q: %w", s.Name, err)
	}
	var def any
	if err := json.Unmarshal(b, &def); err != nil {
		return nil, fmt.Errorf("decode schema %q: %w", s.Name, err)
	}

	url := "mem://llm/" + s.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("load schema %q: %w", s.Name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", s.Name, err)
	}
	compiledSchemas.Store(s.Name, compiled)
	return compiled, nil
}
