package yaml

import "testing"

func TestHasMultiPythonMatrix(t *testing.T) {
	tests := []struct {
		name     string
		workflow string
		want     bool
	}{
		{
			name: "string versions",
			workflow: `
name: CI
jobs:
  test:
    runs-on: ubuntu-latest
    strategy:
      matrix:
        python-version: ["3.10", "3.11", "3.12"]
    steps: []
`,
			want: true,
		},
		{
			name: "numeric versions",
			workflow: `
jobs:
  test:
    strategy:
      matrix:
        python-version: [3.11, 3.12]
`,
			want: true,
		},
		{
			name: "single version",
			workflow: `
jobs:
  test:
    strategy:
      matrix:
        python-version: ["3.12"]
`,
			want: false,
		},
		{
			name: "no matrix",
			workflow: `
jobs:
  test:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
`,
			want: false,
		},
		{
			name: "underscore axis name",
			workflow: `
jobs:
  test:
    strategy:
      matrix:
        python_version: ["3.11", "3.12"]
`,
			want: true,
		},
		{
			name: "matrix over os only",
			workflow: `
jobs:
  test:
    strategy:
      matrix:
        os: [ubuntu-latest, macos-latest]
`,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HasMultiPythonMatrix([]byte(tt.workflow))
			if err != nil {
				t.Fatalf("HasMultiPythonMatrix() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("HasMultiPythonMatrix() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasMultiPythonMatrixMalformed(t *testing.T) {
	if _, err := HasMultiPythonMatrix([]byte("jobs: [unclosed")); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}
