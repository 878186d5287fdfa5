package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/motionmatching/internal/config"
	"github.com/zeusync/motionmatching/internal/core/debugdraw"
	"github.com/zeusync/motionmatching/internal/core/features"
	"github.com/zeusync/motionmatching/internal/core/motion"
	"github.com/zeusync/motionmatching/internal/core/observability/log"
	"github.com/zeusync/motionmatching/internal/core/posedata"
	"github.com/zeusync/motionmatching/internal/core/skeleton"
	"github.com/zeusync/motionmatching/internal/core/spatial"
	"github.com/zeusync/motionmatching/internal/injector"
)

type computeOptions struct {
	skeletonPath string
	clipPath     string
	times        []float64
	step         float64
	relativeTo   string
	debugListen  string
}

type frameOutput struct {
	Clip       string                    `yaml:"clip"`
	ClipID     string                    `yaml:"clip_id"`
	Time       float64                   `yaml:"time"`
	RelativeTo string                    `yaml:"relative_to"`
	Joints     map[string]spatial.VecDoc `yaml:"joints"`
	Data       *posedata.JointVelocities `yaml:"data"`
}

func newComputeCommand(loadApp func() (*injector.App, error)) *cobra.Command {
	var opts computeOptions

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute joint velocities of a clip at the given times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			return runCompute(cmd, app, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.skeletonPath, "skeleton", "", "skeleton YAML file")
	flags.StringVar(&opts.clipPath, "clip", "", "clip YAML file")
	flags.Float64SliceVar(&opts.times, "at", nil, "sample times in seconds")
	flags.Float64Var(&opts.step, "step", 0, "sample the whole clip every step seconds")
	flags.StringVar(&opts.relativeTo, "relative-to", "", "reference joint name (default: motion extraction joint)")
	flags.StringVar(&opts.debugListen, "debug-listen", "", "serve debug velocity lines over websocket on this address (default: debug.listen from config)")
	_ = cmd.MarkFlagRequired("skeleton")
	_ = cmd.MarkFlagRequired("clip")
	cmd.MarkFlagsMutuallyExclusive("at", "step")

	return cmd
}

func runCompute(cmd *cobra.Command, app *injector.App, opts computeOptions) error {
	s, frames, err := computeFrames(cmd.Context(), app, opts)
	if err != nil {
		return err
	}
	if err := writeFrames(cmd.OutOrStdout(), s, frames); err != nil {
		return err
	}

	addr := listenAddress(opts.debugListen, app.Config)
	if addr == "" {
		return nil
	}
	return serveDebug(cmd.Context(), app, addr, frames)
}

// computeFrames loads the skeleton and clip named by opts and extracts one
// velocity frame per requested time.
func computeFrames(ctx context.Context, app *injector.App, opts computeOptions) (*skeleton.Skeleton, []features.Frame, error) {
	s, err := skeleton.LoadFile(opts.skeletonPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load skeleton: %w", err)
	}
	clip, err := motion.LoadClipFile(opts.clipPath, s)
	if err != nil {
		return nil, nil, fmt.Errorf("load clip: %w", err)
	}

	relativeTo := skeleton.InvalidIndex
	if opts.relativeTo != "" {
		i, ok := s.JointIndex(opts.relativeTo)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", skeleton.ErrUnknownJoint, opts.relativeTo)
		}
		relativeTo = i
	}

	times := opts.times
	if opts.step > 0 {
		times = features.UniformTimes(clip.Duration(), opts.step)
	}
	if len(times) == 0 {
		return nil, nil, errors.New("no sample times: pass --at or --step")
	}

	inst := motion.NewInstance(clip, skeleton.NewInstance(s))
	results, err := app.Extractor.Extract(ctx, []features.Job{{
		Motion:     inst,
		Times:      times,
		RelativeTo: relativeTo,
	}})
	if err != nil {
		return nil, nil, err
	}
	return s, results[0], nil
}

func writeFrames(w io.Writer, s *skeleton.Skeleton, frames []features.Frame) error {
	out := make([]frameOutput, 0, len(frames))
	for _, f := range frames {
		vel := f.Snapshot.Velocities()
		joints := make(map[string]spatial.VecDoc, s.NumJoints())
		for j, v := range vel.Velocities() {
			joints[s.Joint(j).Name] = spatial.NewVecDoc(v)
		}
		out = append(out, frameOutput{
			Clip:       f.ClipName,
			ClipID:     f.ClipID.String(),
			Time:       f.Time,
			RelativeTo: s.Joint(vel.RelativeToJointIndex()).Name,
			Joints:     joints,
			Data:       vel,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

// listenAddress prefers the flag over the config file.
func listenAddress(flag string, cfg config.Config) string {
	if flag != "" {
		return flag
	}
	return cfg.Debug.Listen
}

// drawFrames draws the velocity lines of every frame, scaled by
// debug.velocity_scale.
func drawFrames(display debugdraw.Display, frames []features.Frame, cfg config.Config) {
	for _, f := range frames {
		f.Snapshot.DebugDrawScaled(display, debugdraw.Yellow, cfg.Debug.VelocityScale)
	}
}

// serveDebug streams the velocity lines of every frame to websocket viewers
// until interrupted.
func serveDebug(ctx context.Context, app *injector.App, addr string, frames []features.Frame) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	stream := debugdraw.NewStream(app.Logger)
	defer stream.Close()

	mux := http.NewServeMux()
	mux.Handle("/debug/velocities", stream.Handler())
	mux.HandleFunc("/debug/flush", func(w http.ResponseWriter, _ *http.Request) {
		drawFrames(stream, frames, app.Config)
		if err := stream.Flush(); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: mux}
	app.Logger.Info("serving debug velocities", log.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}
	return srv.Close()
}
