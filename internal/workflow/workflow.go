// Package workflow runs named lists of steps and keeps an execution history.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/logger"
)

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

var ErrNotFound = errors.New("workflow not found")

// Step is one unit of work. Run returns a short human-readable output.
type Step struct {
	Name string
	Run  func(ctx context.Context) (string, error)
}

// StepResult records how a step ended.
type StepResult struct {
	Name   string `json:"step_name"`
	Status string `json:"status"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Execution is one run of a workflow.
type Execution struct {
	ID         string        `json:"execution_id"`
	WorkflowID string        `json:"workflow_id"`
	Input      any           `json:"input_data,omitempty"`
	Results    []StepResult  `json:"results"`
	Status     string        `json:"status"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
}

type definition struct {
	name  string
	steps []Step
}

type Orchestrator struct {
	mu        sync.Mutex
	workflows map[string]definition
	history   []Execution
	logger    *zap.Logger
}

func NewOrchestrator(log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		workflows: make(map[string]definition),
		logger:    logger.Component(log, "workflow"),
	}
}

// Create registers a workflow and returns its id.
func (o *Orchestrator) Create(name string, steps []Step) string {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := fmt.Sprintf("workflow_%d", len(o.workflows)+1)
	o.workflows[id] = definition{name: name, steps: append([]Step(nil), steps...)}
	return id
}

// Execute runs the steps of workflow id in order. The first failing step
// stops the run; the remaining steps are reported as skipped. The returned
// error is the failing step's error.
func (o *Orchestrator) Execute(ctx context.Context, id string, input any) (*Execution, error) {
	o.mu.Lock()
	def, ok := o.workflows[id]
	execID := fmt.Sprintf("exec_%d", len(o.history)+1)
	o.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}

	exec := Execution{ID: execID, WorkflowID: id, Input: input, Status: StatusCompleted, StartedAt: time.Now()}
	log := o.logger.With(zap.String("workflow", def.name), zap.String("execution_id", execID))

	var runErr error
	for _, step := range def.steps {
		if runErr != nil {
			exec.Results = append(exec.Results, StepResult{Name: step.Name, Status: StatusSkipped})
			continue
		}

		if err := ctx.Err(); err != nil {
			runErr = err
		} else {
			var out string
			out, runErr = step.Run(ctx)
			if runErr == nil {
				exec.Results = append(exec.Results, StepResult{Name: step.Name, Status: StatusCompleted, Output: out})
				log.Info("step completed", zap.String("name", step.Name), zap.String("output", out))
				continue
			}
		}

		exec.Status = StatusFailed
		exec.Results = append(exec.Results, StepResult{Name: step.Name, Status: StatusFailed, Error: runErr.Error()})
		log.Error("step failed", zap.String("name", step.Name), zap.Error(runErr))
		runErr = fmt.Errorf("%s: %w", step.Name, runErr)
	}
	exec.Duration = time.Since(exec.StartedAt)

	o.mu.Lock()
	o.history = append(o.history, exec)
	o.mu.Unlock()

	return &exec, runErr
}

// History returns every execution so far, oldest first.
func (o *Orchestrator) History() []Execution {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Execution(nil), o.history...)
}
