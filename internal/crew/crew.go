// Package crew runs the trip planning agents. A crew is a fixed, ordered list
// of tasks; each task is answered by one agent and sees every earlier answer.
package crew

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"tripplanner/pkg/utils"
)

var ErrEmptyOutput = errors.New("agent returned an empty answer")

// Input holds the four formatted strings a crew is built from.
type Input struct {
	Origin    string
	Cities    string
	DateRange string
	Interests string
}

type TaskOutput struct {
	Task   string
	Agent  string
	Output string
}

// Runner produces a plan text for one trip.
type Runner interface {
	Run(ctx context.Context, in Input) (string, error)
}

type Crew struct {
	def    *Definition
	llm    utils.TextGenerationClientInterface
	logger *zap.Logger
}

func New(def *Definition, llm utils.TextGenerationClientInterface, logger *zap.Logger) *Crew {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Crew{
		def:    def,
		llm:    llm,
		logger: logger.Named("crew"),
	}
}

// Run executes the tasks in order and returns the last task's answer.
func (c *Crew) Run(ctx context.Context, in Input) (string, error) {
	outputs := make([]TaskOutput, 0, len(c.def.Tasks))

	for _, task := range c.def.Tasks {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("task %s: %w", task.Name, err)
		}

		agent := c.def.Agents[task.Agent]
		prompt, err := task.render(in, outputs)
		if err != nil {
			return "", fmt.Errorf("task %s: render: %w", task.Name, err)
		}

		started := time.Now()
		answer, err := c.llm.GenerateText(ctx, agent.systemPrompt(), prompt)
		if err != nil {
			return "", fmt.Errorf("task %s: %w", task.Name, err)
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			return "", fmt.Errorf("task %s: %w", task.Name, ErrEmptyOutput)
		}

		c.logger.Info("task completed",
			zap.String("task", task.Name),
			zap.String("agent", agent.Role),
			zap.Duration("took", time.Since(started)),
			zap.Int("chars", len(answer)))

		outputs = append(outputs, TaskOutput{Task: task.Name, Agent: agent.Role, Output: answer})
	}

	return outputs[len(outputs)-1].Output, nil
}
