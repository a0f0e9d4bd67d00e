package catalog

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/logsense/internal/model"
)

// LoadCustomPatterns reads caller-supplied detector patterns from a YAML file:
//
//	patterns:
//	  - name: employee_id
//	    regex: 'EMP-\d{6}'
func LoadCustomPatterns(path string) ([]model.CustomPattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read patterns %s", path)
	}

	var wrapper struct {
		Patterns []model.CustomPattern `yaml:"patterns"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "catalog: parse patterns")
	}

	var out []model.CustomPattern
	for _, p := range wrapper.Patterns {
		if p.Name == "" || p.Regex == "" {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
