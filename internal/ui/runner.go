package ui

import (
	"fmt"
	"io"
	"os"
	"time"
)

// RunnerConfig describes a multi-step command.
type RunnerConfig struct {
	Title     string    // e.g., "Describe Image"
	Command   string    // e.g., "sketchui upload login.png"
	Params    []Detail  // Shown in the header
	StepNames []string  // One per step
	Hints     []string  // Shown when the operation fails
	Output    io.Writer // Default os.Stdout
}

// Operation does the work of a command and reports steps through onStep.
// The returned details are added to the success box.
type Operation func(onStep StepCallback) ([]Detail, error)

// Runner prints the header, each finished step and a final result box.
type Runner struct {
	config   RunnerConfig
	progress *Progress
	out      io.Writer
	width    int
}

// NewRunner creates a runner sized to the terminal.
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	width := GetTerminalWidth()
	return &Runner{
		config:   config,
		progress: NewProgress("", config.StepNames).SetWidth(width),
		out:      config.Output,
		width:    width,
	}
}

// Progress returns the step tracker.
func (r *Runner) Progress() *Progress {
	return r.progress
}

// Run executes op and returns its error.
func (r *Runner) Run(op Operation) error {
	start := time.Now()

	header := NewHeader(r.config.Title, r.config.Command, r.config.Params).SetWidth(r.width)
	_, _ = fmt.Fprintln(r.out, header.Render())
	_, _ = fmt.Fprintln(r.out)

	details, err := op(r.onStep)
	duration := time.Since(start).Round(time.Millisecond)
	_, _ = fmt.Fprintln(r.out)

	if err != nil {
		result := NewFailureResult(r.config.Title+" failed", err, r.config.Hints).SetWidth(r.width)
		result.AddDetail("Duration", duration.String())
		_, _ = fmt.Fprintln(r.out, result.Render())
		return err
	}

	result := NewSuccessResult(r.config.Title+" complete", details).SetWidth(r.width)
	result.AddDetail("Duration", duration.String())
	_, _ = fmt.Fprintln(r.out, result.Render())
	return nil
}

func (r *Runner) onStep(stepNumber int, name string, status StepStatus, message string) {
	if stepNumber < 1 || stepNumber > len(r.progress.Steps) {
		return
	}
	if name != "" {
		r.progress.Steps[stepNumber-1].Name = name
	}
	r.progress.UpdateStep(stepNumber, status, message)

	line := r.progress.renderStepLine(r.progress.Steps[stepNumber-1])
	switch status {
	case StepComplete, StepFailed, StepSkipped:
		_, _ = fmt.Fprintln(r.out, line)
	case StepRunning:
		// Overwritten when the step finishes
		_, _ = fmt.Fprint(r.out, line+"\r")
	}
}
