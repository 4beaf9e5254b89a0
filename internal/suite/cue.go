package suite

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaCUE []byte

// cueSuite mirrors the #Suite schema for decoding.
type cueSuite struct {
	Cases []cueCase `json:"cases"`
}

type cueCase struct {
	UseCase  string `json:"useCase"`
	TestCase string `json:"testCase"`
	Base     string `json:"base"`
	Update   string `json:"update"`
	Validate string `json:"validate"`
	Expected bool   `json:"expected"`
}

// LoadCUE reads a CUE suite file, unifies it with the embedded #Suite
// schema (which supplies defaults and value constraints), and decodes the
// result. Schema violations surface as load errors with CUE positions.
func LoadCUE(path string) ([]CaseTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite: %w", err)
	}

	ctx := cuecontext.New()

	schemaVal := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if err := schemaVal.Err(); err != nil {
		return nil, fmt.Errorf("compile embedded schema: %w", err)
	}
	suiteDef := schemaVal.LookupPath(cue.ParsePath("#Suite"))
	if err := suiteDef.Err(); err != nil {
		return nil, fmt.Errorf("lookup #Suite: %w", err)
	}

	fileVal := ctx.CompileBytes(data, cue.Filename(path))
	if err := fileVal.Err(); err != nil {
		return nil, fmt.Errorf("suite %s: %w", path, err)
	}

	unified := suiteDef.Unify(fileVal)
	if err := unified.Validate(cue.Concrete(true), cue.Final()); err != nil {
		return nil, fmt.Errorf("suite %s: schema validation: %w", path, err)
	}

	var decoded cueSuite
	if err := unified.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("suite %s: decode: %w", path, err)
	}

	templates := make([]CaseTemplate, 0, len(decoded.Cases))
	for _, c := range decoded.Cases {
		templates = append(templates, CaseTemplate{
			UseCaseID:    c.UseCase,
			TestCaseID:   c.TestCase,
			BaseMessage:  c.Base,
			UpdateSpec:   c.Update,
			ValidateSpec: c.Validate,
			Expected:     c.Expected,
		})
	}
	return templates, nil
}
