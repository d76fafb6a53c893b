// Package scenariofile reads release scenario tables from YAML.
package scenariofile

import (
	"os"

	"github.com/alignedworks/cvx/internal/domain"
	"gopkg.in/yaml.v3"
)

// Load reads a scenario table such as:
//
//	cycles: 4
//	defaults:
//	  tokens: 100000
//	  prior_work: 10
//	scenarios:
//	  - name: slow
//	    rate: 5
//	  - name: fast
//	    rate: 20
func Load(path string) (Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Table{}, &domain.OpError{
			Op:   "scenariofile.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}
	return Parse(path, b)
}

func Parse(path string, b []byte) (Table, error) {
	var dto yamlTable
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return Table{}, &domain.OpError{
			Op:   "scenariofile.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}
	return mapTable(path, dto)
}
