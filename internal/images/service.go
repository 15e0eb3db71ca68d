// Where: internal/images/service.go
// What: Build, pull, and push the images declared in the registry.
// Why: Turn image descriptors into Docker daemon calls.
package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/poruru-code/legacyfrontends/internal/env"
	"github.com/poruru-code/legacyfrontends/internal/hooks"
)

// ErrUnknownImage is returned when a requested name matches no descriptor.
var ErrUnknownImage = errors.New("unknown image")

var errNoClient = errors.New("docker client is nil")

// AllImages selects every descriptor.
const AllImages = "all"

// TagRenderer renders templated image tags.
type TagRenderer interface {
	RenderString(name, text string) (string, error)
}

// Service runs image operations for one project root.
type Service struct {
	client   DockerClient
	registry *hooks.Registry
	renderer TagRenderer
	root     string
	out      io.Writer
	logger   *slog.Logger
}

// NewService wires a service. out receives the daemon progress stream.
func NewService(
	client DockerClient,
	reg *hooks.Registry,
	renderer TagRenderer,
	root string,
	out io.Writer,
	logger *slog.Logger,
) *Service {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{client: client, registry: reg, renderer: renderer, root: root, out: out, logger: logger}
}

// BuildOptions adjusts every build of one invocation.
type BuildOptions struct {
	NoCache bool
}

// Build builds the selected images from their rendered contexts.
func (s *Service) Build(ctx context.Context, names []string, opts BuildOptions) error {
	selected, err := selectImages(s.registry.ImagesBuild.Items(), func(b hooks.BuildImage) string { return b.Name }, names)
	if err != nil {
		return err
	}
	if len(selected) > 0 && s.client == nil {
		return errNoClient
	}
	for _, desc := range selected {
		if err := ctx.Err(); err != nil {
			return err
		}
		tag, err := s.renderer.RenderString("tag:"+desc.Name, desc.Tag)
		if err != nil {
			return err
		}
		options := build.ImageBuildOptions{
			Tags:       []string{tag},
			Dockerfile: "Dockerfile",
			Remove:     true,
			NoCache:    opts.NoCache,
		}
		if err := applyBuildArgs(&options, desc.Args); err != nil {
			return fmt.Errorf("image %s: %w", desc.Name, err)
		}
		contextDir := filepath.Join(append([]string{env.Dir(s.root)}, desc.Context...)...)
		buildContext, err := contextTar(contextDir)
		if err != nil {
			return fmt.Errorf("image %s: %w", desc.Name, err)
		}

		s.logger.Info("building image", "image", desc.Name, "tag", tag, "context", contextDir)
		resp, err := s.client.ImageBuild(ctx, buildContext, options)
		if err != nil {
			return fmt.Errorf("build image %s: %w", desc.Name, err)
		}
		err = s.stream(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("build image %s: %w", desc.Name, err)
		}
	}
	return nil
}

// Pull pulls the selected images.
func (s *Service) Pull(ctx context.Context, names []string) error {
	return s.transfer(ctx, s.registry.ImagesPull.Items(), names, "pull", func(ref string) (io.ReadCloser, error) {
		return s.client.ImagePull(ctx, ref, image.PullOptions{})
	})
}

// Push pushes the selected images with the credentials stored for each
// image's registry.
func (s *Service) Push(ctx context.Context, names []string) error {
	return s.transfer(ctx, s.registry.ImagesPush.Items(), names, "push", func(ref string) (io.ReadCloser, error) {
		auth, err := registryAuth(ref)
		if err != nil {
			return nil, err
		}
		return s.client.ImagePush(ctx, ref, image.PushOptions{RegistryAuth: auth})
	})
}

func (s *Service) transfer(
	ctx context.Context,
	refs []hooks.ImageRef,
	names []string,
	verb string,
	call func(ref string) (io.ReadCloser, error),
) error {
	selected, err := selectImages(refs, func(r hooks.ImageRef) string { return r.Name }, names)
	if err != nil {
		return err
	}
	if len(selected) > 0 && s.client == nil {
		return errNoClient
	}
	for _, ref := range selected {
		if err := ctx.Err(); err != nil {
			return err
		}
		tag, err := s.renderer.RenderString("tag:"+ref.Name, ref.Tag)
		if err != nil {
			return err
		}
		s.logger.Info(verb+"ing image", "image", ref.Name, "tag", tag)
		body, err := call(tag)
		if err != nil {
			return fmt.Errorf("%s image %s: %w", verb, ref.Name, err)
		}
		err = s.stream(body)
		body.Close()
		if err != nil {
			return fmt.Errorf("%s image %s: %w", verb, ref.Name, err)
		}
	}
	return nil
}

func (s *Service) stream(body io.Reader) error {
	return jsonmessage.DisplayJSONMessagesStream(body, s.out, 0, false, nil)
}

// selectImages returns the items whose name is requested. No names, or
// "all", selects everything.
func selectImages[T any](items []T, name func(T) string, names []string) ([]T, error) {
	if len(names) == 0 || slices.Contains(names, AllImages) {
		return items, nil
	}
	var selected []T
	for _, want := range names {
		found := false
		for _, item := range items {
			if name(item) == want {
				selected = append(selected, item)
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrUnknownImage, want)
		}
	}
	return selected, nil
}
