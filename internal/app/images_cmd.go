// Where: internal/app/images_cmd.go
// What: images build / pull / push commands.
// Why: Run the image descriptors registered by plugins against the Docker daemon.
package app

import (
	"context"
	"io"

	"github.com/poruru-code/legacyfrontends/internal/env"
	"github.com/poruru-code/legacyfrontends/internal/images"
	"github.com/poruru-code/legacyfrontends/internal/ui"
)

type (
	ImagesCmd struct {
		Build ImagesBuildCmd `cmd:"" help:"Build images"`
		Pull  ImagesPullCmd  `cmd:"" help:"Pull images"`
		Push  ImagesPushCmd  `cmd:"" help:"Push images"`
	}
	ImagesBuildCmd struct {
		Names   []string `arg:"" optional:"" help:"Image names (default: all)"`
		NoCache bool     `name:"no-cache" help:"Do not use cache when building images"`
	}
	ImagesPullCmd struct {
		Names []string `arg:"" optional:"" help:"Image names (default: all)"`
	}
	ImagesPushCmd struct {
		Names []string `arg:"" optional:"" help:"Image names (default: all)"`
	}
)

func runImagesBuild(ctx context.Context, cli CLI, deps Dependencies, console *ui.Console) int {
	s, err := openSession(cli, deps)
	if err != nil {
		return exitWithError(console, err)
	}
	renderer, _, err := s.renderer(cli)
	if err != nil {
		return exitWithError(console, err)
	}
	if _, err := s.saveEnv(renderer); err != nil {
		return exitWithError(console, err)
	}
	svc, closer, err := newImageService(s, deps, renderer, s.registry.ImagesBuild.Len() > 0)
	if err != nil {
		return exitWithError(console, err)
	}
	defer closer()

	opts := images.BuildOptions{NoCache: cli.Images.Build.NoCache}
	if err := svc.Build(ctx, cli.Images.Build.Names, opts); err != nil {
		return exitWithError(console, err)
	}
	console.Success("Images built")
	return 0
}

func runImagesPull(ctx context.Context, cli CLI, deps Dependencies, console *ui.Console) int {
	return transferImages(ctx, cli, deps, console, "pull")
}

func runImagesPush(ctx context.Context, cli CLI, deps Dependencies, console *ui.Console) int {
	return transferImages(ctx, cli, deps, console, "push")
}

func transferImages(ctx context.Context, cli CLI, deps Dependencies, console *ui.Console, verb string) int {
	s, err := openSession(cli, deps)
	if err != nil {
		return exitWithError(console, err)
	}
	renderer, _, err := s.renderer(cli)
	if err != nil {
		return exitWithError(console, err)
	}

	needed := s.registry.ImagesPull.Len() > 0
	names := cli.Images.Pull.Names
	if verb == "push" {
		needed = s.registry.ImagesPush.Len() > 0
		names = cli.Images.Push.Names
	}
	svc, closer, err := newImageService(s, deps, renderer, needed)
	if err != nil {
		return exitWithError(console, err)
	}
	defer closer()

	if verb == "push" {
		err = svc.Push(ctx, names)
	} else {
		err = svc.Pull(ctx, names)
	}
	if err != nil {
		return exitWithError(console, err)
	}
	console.Success("Images " + verb + "ed")
	return 0
}

// newImageService connects to the daemon only when descriptors exist.
func newImageService(s *session, deps Dependencies, renderer *env.Renderer, needed bool) (*images.Service, func(), error) {
	closer := func() {}
	var client images.DockerClient
	if needed {
		c, err := deps.NewDockerClient()
		if err != nil {
			return nil, nil, err
		}
		if cl, ok := c.(io.Closer); ok {
			closer = func() { _ = cl.Close() }
		}
		client = c
	}
	return images.NewService(client, s.registry, renderer, s.root, deps.Out, s.logger), closer, nil
}
