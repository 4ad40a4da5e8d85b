// Package client runs the Taskwarrior command line as the dashboard's task
// repository.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/stephenmfriend/taskpane/task"
)

// ErrInvalidUUID is returned when an update targets something that is not a
// task uuid. Taskwarrior would otherwise read it as a filter and modify every
// match.
var ErrInvalidUUID = errors.New("invalid task uuid")

// Runner executes a command and returns its output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// CommandError is a Taskwarrior invocation that failed.
type CommandError struct {
	Args     []string
	ExitCode int
	Message  string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("task error (exit %d): %s", e.ExitCode, e.Message)
}

// Client talks to Taskwarrior.
type Client struct {
	bin    string
	filter []string
	runner Runner
}

// Option configures a Client.
type Option func(*Client)

// WithFilter limits exports to tasks matching filter, e.g. "project:web".
func WithFilter(filter string) Option {
	return func(c *Client) { c.filter = strings.Fields(filter) }
}

// WithRunner replaces the command runner.
func WithRunner(r Runner) Option {
	return func(c *Client) { c.runner = r }
}

// NewClient creates a client for the given task binary.
func NewClient(bin string, opts ...Option) *Client {
	if bin == "" {
		bin = "task"
	}
	c := &Client{bin: bin, runner: ExecRunner{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// baseArgs keep Taskwarrior from prompting.
var baseArgs = []string{"rc.confirmation=off", "rc.hooks=off", "rc.json.array=on"}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	full := append(append([]string(nil), baseArgs...), args...)
	stdout, stderr, err := c.runner.Run(ctx, c.bin, full...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		cmdErr := &CommandError{Args: full, ExitCode: -1, Message: strings.TrimSpace(string(stderr))}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		}
		if cmdErr.Message == "" {
			cmdErr.Message = err.Error()
		}
		return nil, cmdErr
	}
	return stdout, nil
}

// Export returns every task matching the client filter.
func (c *Client) Export(ctx context.Context) ([]task.Task, error) {
	args := append(append([]string(nil), c.filter...), "export")
	out, err := c.run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to export tasks: %w", err)
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, nil
	}

	var tasks []task.Task
	if err := json.Unmarshal(out, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode export: %w", err)
	}
	return tasks, nil
}

var uuidPattern = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// Create adds a task and returns its uuid.
func (c *Client) Create(ctx context.Context, dto task.CreateDTO) (string, error) {
	if strings.TrimSpace(dto.Description) == "" {
		return "", errors.New("failed to create task: description is required")
	}

	out, err := c.run(ctx, AddArgs(dto)...)
	if err != nil {
		return "", fmt.Errorf("failed to create task: %w", err)
	}

	match := uuidPattern.Find(out)
	if match == nil {
		return "", fmt.Errorf("failed to create task: no uuid in output %q", strings.TrimSpace(string(out)))
	}
	id, err := uuid.ParseBytes(match)
	if err != nil {
		return "", fmt.Errorf("failed to create task: %w", err)
	}
	return id.String(), nil
}

// Update applies a partial update to the task with the given uuid. An empty
// update is a no-op.
func (c *Client) Update(ctx context.Context, id string, u task.UpdateDTO) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("failed to update task %q: %w", id, ErrInvalidUUID)
	}
	if u.IsEmpty() {
		return nil
	}
	if _, err := c.run(ctx, ModifyArgs(parsed.String(), u)...); err != nil {
		return fmt.Errorf("failed to update task %s: %w", task.ShortUUID(id), err)
	}
	return nil
}

// AddArgs builds the arguments of a "task add" call. The description goes
// after "--" so Taskwarrior does not parse it for attributes.
func AddArgs(dto task.CreateDTO) []string {
	args := []string{"rc.verbose=new-uuid", "add"}
	args = appendAttr(args, "project", dto.Project)
	args = appendAttr(args, "priority", dto.Priority)
	args = appendAttr(args, "due", dto.Due)
	args = appendAttr(args, "recur", dto.Recur)
	args = appendAttr(args, "depends", dto.Depends)
	for _, tag := range dto.Tags {
		args = append(args, "+"+tag)
	}
	return append(args, "--", strings.TrimSpace(dto.Description))
}

// ModifyArgs builds the arguments of a "task <uuid> modify" call. Pointers
// to the empty string clear the attribute.
func ModifyArgs(id string, u task.UpdateDTO) []string {
	args := []string{id, "modify"}
	if u.Project != nil {
		args = append(args, "project:"+*u.Project)
	}
	if u.Priority != nil {
		args = append(args, "priority:"+*u.Priority)
	}
	if u.Due != nil {
		args = append(args, "due:"+*u.Due)
	}
	if u.Tags != nil {
		args = append(args, "tags:"+strings.Join(*u.Tags, ","))
	}
	if u.Description != nil && strings.TrimSpace(*u.Description) != "" {
		args = append(args, "--", strings.TrimSpace(*u.Description))
	}
	return args
}

func appendAttr(args []string, name, value string) []string {
	if value = strings.TrimSpace(value); value == "" {
		return args
	}
	return append(args, name+":"+value)
}
