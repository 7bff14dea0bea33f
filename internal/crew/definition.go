package crew

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed crew.yaml
var defaultDefinition []byte

type Agent struct {
	Role      string `yaml:"role"`
	Goal      string `yaml:"goal"`
	Backstory string `yaml:"backstory"`
}

func (a Agent) systemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s.\n", a.Role)
	fmt.Fprintf(&b, "Your goal: %s\n", a.Goal)
	if a.Backstory != "" {
		fmt.Fprintf(&b, "Background: %s\n", a.Backstory)
	}
	b.WriteString("Work only from the information given and answer in English.")
	return b.String()
}

type Task struct {
	Name           string `yaml:"name"`
	Agent          string `yaml:"agent"`
	Description    string `yaml:"description"`
	ExpectedOutput string `yaml:"expected_output"`

	tmpl *template.Template
}

type Definition struct {
	Agents map[string]Agent `yaml:"agents"`
	Tasks  []Task           `yaml:"tasks"`
}

func DefaultDefinition() (*Definition, error) {
	return ParseDefinition(defaultDefinition)
}

// ParseDefinition decodes a crew file and compiles every task description.
// Each task must name a declared agent.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse crew definition: %w", err)
	}
	if len(def.Tasks) == 0 {
		return nil, errors.New("crew definition has no tasks")
	}

	seen := make(map[string]bool, len(def.Tasks))
	for i := range def.Tasks {
		task := &def.Tasks[i]
		if task.Name == "" {
			return nil, fmt.Errorf("task %d has no name", i)
		}
		if seen[task.Name] {
			return nil, fmt.Errorf("duplicate task %q", task.Name)
		}
		seen[task.Name] = true

		if _, ok := def.Agents[task.Agent]; !ok {
			return nil, fmt.Errorf("task %q references unknown agent %q", task.Name, task.Agent)
		}

		tmpl, err := template.New(task.Name).Option("missingkey=error").Parse(task.Description)
		if err != nil {
			return nil, fmt.Errorf("task %q description: %w", task.Name, err)
		}
		task.tmpl = tmpl
	}

	return &def, nil
}

func (t Task) render(in Input, previous []TaskOutput) (string, error) {
	var b strings.Builder
	if err := t.tmpl.Execute(&b, in); err != nil {
		return "", err
	}

	if t.ExpectedOutput != "" {
		b.WriteString("\n\nExpected output: ")
		b.WriteString(t.ExpectedOutput)
	}

	if len(previous) > 0 {
		b.WriteString("\n\nContext from previous tasks:")
		for _, out := range previous {
			fmt.Fprintf(&b, "\n\n### %s (%s)\n%s", out.Agent, out.Task, out.Output)
		}
	}

	return b.String(), nil
}
