// Package yaml parses CI workflow configuration files.
package yaml

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// workflow mirrors the parts of a GitHub Actions workflow (and the
// GitLab/generic equivalents) relevant to matrix detection. Unknown keys
// are ignored.
type workflow struct {
	Jobs map[string]workflowJob `yaml:"jobs"`
}

type workflowJob struct {
	Strategy struct {
		Matrix map[string]yaml.Node `yaml:"matrix"`
	} `yaml:"strategy"`
}

// matrixKeys are the axis names CI systems use for interpreter versions.
var matrixKeys = []string{"python-version", "python_version", "python"}

// HasMultiPythonMatrix reports whether any job's strategy matrix lists
// more than one Python version. Parse failures are reported so the
// caller can decide whether a broken workflow still counts.
func HasMultiPythonMatrix(data []byte) (bool, error) {
	var wf workflow
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return false, fmt.Errorf("failed to parse workflow: %w", err)
	}
	for _, job := range wf.Jobs {
		for _, key := range matrixKeys {
			node, ok := job.Strategy.Matrix[key]
			if !ok {
				continue
			}
			var versions []string
			if err := node.Decode(&versions); err != nil {
				// Scalars and version numbers both appear in the wild.
				var loose []interface{}
				if err := node.Decode(&loose); err != nil {
					continue
				}
				if len(loose) > 1 {
					return true, nil
				}
				continue
			}
			if len(versions) > 1 {
				return true, nil
			}
		}
	}
	return false, nil
}
