// Docker-backed runner: executes ansible-galaxy inside a disposable container
// with the checkout bind-mounted, for hosts without an ansible install.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	containertypes "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	dockerclient "github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/peaqe/orion-utils/internal/core/logger"
	"github.com/peaqe/orion-utils/pkg/errs"
)

// workspaceMount is where the build checkout appears inside the container.
const workspaceMount = "/workspace"

// Docker runs commands inside an ephemeral container.
type Docker struct {
	docker *dockerclient.Client
	image  string
	log    *logger.Logger
}

// NewDocker creates a Docker runner against the local daemon.
func NewDocker(host, img string, log *logger.Logger) (*Docker, error) {
	if log == nil {
		log = logger.Nop()
	}
	opts := []dockerclient.Opt{
		dockerclient.WithAPIVersionNegotiation(),
	}
	if host != "" {
		opts = append(opts, dockerclient.WithHost(host))
	} else {
		opts = append(opts, dockerclient.FromEnv)
	}

	dc, err := dockerclient.NewClientWithOpts(opts...)
	if err != nil {
		return nil, errs.Wrap(err, errs.ErrRunnerContainer, "runner.docker.client")
	}
	return &Docker{docker: dc, image: img, log: log}, nil
}

func (d *Docker) Kind() string { return "docker" }

// Ping verifies Docker daemon connectivity.
func (d *Docker) Ping(ctx context.Context) error {
	_, err := d.docker.Ping(ctx)
	return err
}

// Close releases the Docker API client resources.
func (d *Docker) Close() error {
	return d.docker.Close()
}

// PullImage pulls the runner image and streams progress to the logger.
func (d *Docker) PullImage(ctx context.Context) error {
	d.log.Info("pulling runner image", "image", d.image)
	rc, err := d.docker.ImagePull(ctx, d.image, image.PullOptions{})
	if err != nil {
		return errs.Wrap(err, errs.ErrRunnerContainer, "runner.docker.pull").WithResource(d.image)
	}
	defer rc.Close()

	dec := json.NewDecoder(rc)
	for {
		var msg struct {
			Status   string `json:"status"`
			Progress string `json:"progress"`
			Error    string `json:"error"`
		}
		if err := dec.Decode(&msg); err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		if msg.Error != "" {
			return errs.Newf(errs.ErrRunnerContainer, "runner.docker.pull", "%s", msg.Error)
		}
		if msg.Status != "" {
			d.log.Debug("pull", "status", msg.Status, "progress", msg.Progress)
		}
	}
	return nil
}

// Run executes argv inside a fresh container with workdir mounted at
// /workspace. The container is removed when the command finishes.
func (d *Docker) Run(ctx context.Context, workdir string, argv []string, stdout, stderr io.Writer) error {
	if len(argv) == 0 {
		return errs.Newf(errs.ErrRunnerExec, "runner.docker", "empty command")
	}

	containerCfg := &containertypes.Config{
		Image:      d.image,
		Cmd:        argv,
		WorkingDir: workspaceMount,
		Labels:     map[string]string{"orion.build": "1"},
	}
	hostCfg := &containertypes.HostConfig{
		Binds:      []string{workdir + ":" + workspaceMount},
		AutoRemove: false, // removed explicitly after logs are drained
	}

	resp, err := d.docker.ContainerCreate(ctx, containerCfg, hostCfg, nil, nil, "")
	if err != nil {
		return errs.Wrap(err, errs.ErrRunnerContainer, "runner.docker.create").WithResource(d.image)
	}
	defer func() {
		_ = d.docker.ContainerRemove(context.Background(), resp.ID, containertypes.RemoveOptions{Force: true})
	}()

	if err := d.docker.ContainerStart(ctx, resp.ID, containertypes.StartOptions{}); err != nil {
		return errs.Wrap(err, errs.ErrRunnerContainer, "runner.docker.start").WithResource(shortID(resp.ID))
	}
	d.log.Info("build container started", "id", shortID(resp.ID), "image", d.image)

	waitCh, errCh := d.docker.ContainerWait(ctx, resp.ID, containertypes.WaitConditionNotRunning)

	var exitCode int64
	select {
	case res := <-waitCh:
		if res.Error != nil {
			return errs.Newf(errs.ErrRunnerContainer, "runner.docker.wait", "%s", res.Error.Message)
		}
		exitCode = res.StatusCode
	case err := <-errCh:
		return errs.Wrap(err, errs.ErrRunnerContainer, "runner.docker.wait")
	case <-ctx.Done():
		return ctx.Err()
	}

	// Drain logs into the caller's writers. The stream is multiplexed.
	rc, err := d.docker.ContainerLogs(ctx, resp.ID, containertypes.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil {
		return errs.Wrap(err, errs.ErrRunnerContainer, "runner.docker.logs").WithResource(shortID(resp.ID))
	}
	defer rc.Close()
	if _, err := stdcopy.StdCopy(stdout, stderr, rc); err != nil {
		return errs.Wrap(err, errs.ErrRunnerContainer, "runner.docker.logs.copy")
	}

	if exitCode != 0 {
		return errs.Newf(errs.ErrRunnerExec, "runner.docker.run",
			"command exited with status %d", exitCode).WithResource(fmt.Sprint(argv))
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
