package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/matt-g-everett/ledease/frame"
)

// Broker is the part of mqtt.Client the Streamer uses.
type Broker interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
}

// Streamer that streams RGB data frames to an ledrx device.
type Streamer struct {
	config     Config
	broker     Broker
	loop       *frame.Loop
	controller *Controller
	log        *slog.Logger

	lastCycle float64
	onState   []func(State)
}

// NewStreamer creates an instance of a Streamer. The controller must be driven
// by loop.
func NewStreamer(config Config, broker Broker, loop *frame.Loop, controller *Controller, log *slog.Logger) *Streamer {
	if log == nil {
		log = slog.Default()
	}

	s := new(Streamer)
	s.config = config
	s.broker = broker
	s.loop = loop
	s.controller = controller
	s.log = log

	controller.OnState(s.handleState)
	return s
}

// OnState registers fn to receive controller states on the loop goroutine.
// Call before Run.
func (s *Streamer) OnState(fn func(State)) {
	s.onState = append(s.onState, fn)
}

// Subscribe listens for commands on the control topic.
func (s *Streamer) Subscribe() error {
	topic := s.config.Mqtt.Topics.Control
	if topic == "" {
		return nil
	}

	token := s.broker.Subscribe(topic, 1, s.handleControl)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", topic, token.Error())
	}
	s.log.Info("subscribed", "topic", topic)
	return nil
}

// Post queues cmd for the controller. Safe for concurrent use.
func (s *Streamer) Post(cmd Command) {
	s.loop.Post(func() {
		if err := s.controller.Apply(cmd); err != nil {
			s.log.Warn("command rejected", "err", err)
		}
	})
}

// SendFrame renders a frame and publishes it over MQTT.
func (s *Streamer) SendFrame(nowMs float64) error {
	f := s.controller.CalculateFrame(nowMs)
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}

	token := s.broker.Publish(s.config.Mqtt.Topics.Stream, 0, false, b)
	if !token.WaitTimeout(s.config.FrameInterval()) {
		return errors.New("publish frame: timed out")
	}
	return token.Error()
}

// Run sends frames at the configured frame rate until ctx is done, cycling
// animations every CycleSeconds.
func (s *Streamer) Run(ctx context.Context) error {
	return s.loop.Run(ctx, s.config.FrameInterval(), s.onFrame)
}

func (s *Streamer) onFrame(nowMs float64) {
	if s.config.CycleSeconds > 0 && nowMs-s.lastCycle >= s.config.CycleSeconds*1000 {
		s.lastCycle = nowMs
		s.controller.Next()
	}

	if err := s.SendFrame(nowMs); err != nil {
		s.log.Warn("frame dropped", "err", err)
	}
}

func (s *Streamer) handleControl(client mqtt.Client, msg mqtt.Message) {
	s.log.Debug("control message", "id", msg.MessageID(), "topic", msg.Topic(), "payload", string(msg.Payload()))

	cmd, err := DecodeCommand(msg.Payload())
	if err != nil {
		s.log.Warn("invalid control message", "err", err)
		return
	}
	s.Post(cmd)
}

func (s *Streamer) handleState(state State) {
	for _, fn := range s.onState {
		fn(state)
	}

	topic := s.config.Mqtt.Topics.State
	if topic == "" {
		return
	}
	b, err := json.Marshal(state)
	if err != nil {
		s.log.Error("encode state", "err", err)
		return
	}
	// Not waited on: this runs on the frame loop.
	s.broker.Publish(topic, 0, true, b)
}
