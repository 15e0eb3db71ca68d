// Where: internal/hooks/types.go
// What: Payload shapes accepted by the host extension points.
// Why: Validate plugin contributions once, at registration time.
package hooks

import (
	"context"
	"io"
	"io/fs"
)

// Patch is a text payload inserted into a rendered file at a named point.
type Patch struct {
	Name    string `validate:"required"`
	Content string
}

// ConfigEntry is a single key/value contribution to one configuration tier.
type ConfigEntry struct {
	Key   string `validate:"required,configkey"`
	Value any
}

// InitTask is a script run inside Service during the init job.
type InitTask struct {
	Service string `validate:"required"`
	Script  string
}

// BuildImage describes an image built from a context directory inside the
// rendered environment. Tag may reference configuration values.
type BuildImage struct {
	Name    string   `validate:"required"`
	Context []string `validate:"required,min=1,dive,required"`
	Tag     string   `validate:"required"`
	Args    []string `validate:"dive,required"`
}

// ImageRef names an image to pull or push.
type ImageRef struct {
	Name string `validate:"required"`
	Tag  string `validate:"required"`
}

// TemplateRoot is a search root for template paths contributed by a plugin.
type TemplateRoot struct {
	Name string `validate:"required"`
	FS   fs.FS  `validate:"-"`
}

// TemplateTarget renders Source (relative to the template roots) into
// Destination/Source inside the environment directory.
type TemplateTarget struct {
	Source      string `validate:"required"`
	Destination string `validate:"required"`
}

// Task is one shell command run inside a service container.
type Task struct {
	Service string
	Command string
}

// Job is a named set of tasks exposed through the "do" command.
type Job struct {
	Name string `validate:"required"`
	Help string
	Run  func(args []string) ([]Task, error) `validate:"required"`
}

// Command is a host-side CLI command contributed by a plugin.
type Command struct {
	Name string `validate:"required"`
	Help string
	Run  func(ctx context.Context, args []string, out io.Writer) error `validate:"required"`
}
