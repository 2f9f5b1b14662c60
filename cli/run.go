package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/matt-g-everett/ledease/api"
	"github.com/matt-g-everett/ledease/frame"
	"github.com/matt-g-everett/ledease/stream"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Config string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Stream animations to the LED controller",
		Long: `Stream animation frames over MQTT until interrupted.

Commands are accepted on the MQTT control topic and on POST /command.

Example:
  ledease run --config config.yaml
  ledease run --config config.yaml --env .env.local -v`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStreamer(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "config.yaml", "YAML config file")

	return cmd
}

func runStreamer(opts *RunOptions, cmd *cobra.Command) error {
	log := newLogger(opts.Verbose, cmd.ErrOrStderr())
	mqtt.ERROR = slog.NewLogLogger(log.Handler(), slog.LevelError)

	if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", opts.EnvFile, err)
	}

	config, err := stream.LoadConfig(opts.Config)
	if err != nil {
		return err
	}
	log.Info("config loaded", "path", opts.Config, "broker", config.Mqtt.URL, "pixels", config.Pixels, "frameRate", config.FrameRate)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := frame.NewLoop(log)
	controller, err := stream.NewController(loop, config, newAnimations(config), log)
	if err != nil {
		return err
	}
	defer controller.Destroy()

	var streamer *stream.Streamer
	options := mqtt.NewClientOptions().
		AddBroker(config.Mqtt.URL).
		SetClientID(config.Mqtt.ClientID + "-" + uuid.NewString()[:8]).
		SetUsername(config.Mqtt.Username).
		SetPassword(config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(func(mqtt.Client) {
			log.Info("connected", "broker", config.Mqtt.URL)
			if err := streamer.Subscribe(); err != nil {
				log.Error("subscribe", "err", err)
			}
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warn("connection lost", "err", err)
		})
	client := mqtt.NewClient(options)
	streamer = stream.NewStreamer(config, client, loop, controller, log)

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect %s: %w", config.Mqtt.URL, token.Error())
	}
	defer client.Disconnect(250)

	apiErrC := make(chan error, 1)
	if config.Listen != "" {
		a := api.NewApi(streamer, config.StaticDir, log)
		streamer.OnState(a.Publish)
		a.Publish(controller.State())
		go func() { apiErrC <- a.Serve(ctx, config.Listen) }()
	}

	runErrC := make(chan error, 1)
	go func() { runErrC <- streamer.Run(ctx) }()

	select {
	case err = <-apiErrC:
		stop()
		<-runErrC
	case err = <-runErrC:
		stop()
		if config.Listen != "" {
			if apiErr := <-apiErrC; apiErr != nil {
				log.Error("api", "err", apiErr)
			}
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("shutting down")
	return nil
}

func newAnimations(config stream.Config) []stream.Animation {
	peak, _ := colorful.Hex("#808080")
	back, _ := colorful.Hex("#000005")
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	return []stream.Animation{
		stream.NewTwinkle(config.Pixels, config.Pixels/8, peak, back, r),
		stream.NewGradientTrail(config.Pixels, stream.RainbowGradient, 180, 0.03),
	}
}
