package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/navstack/internal/logging"
	backend "github.com/redis/go-redis/v9"
)

// LinkSource implements ports.LinkSource over Redis, so a URL opened on any
// replica reaches the listeners of every replica.
//
// The launch URL is a key consumed by the first InitialURL call. Live events
// travel on a pub/sub channel; a URL published while no replica listens is
// queued in a list and handed to the next subscriber.
type LinkSource struct {
	client *backend.Client
	prefix string
	logger *slog.Logger
}

// LinkOption configures a LinkSource.
type LinkOption func(*LinkSource)

// WithLinkLogger configures the structured logger.
func WithLinkLogger(logger *slog.Logger) LinkOption {
	return func(s *LinkSource) {
		s.logger = logger
	}
}

// NewLinkSource creates a link source under prefix.
func NewLinkSource(client *backend.Client, prefix string, opts ...LinkOption) *LinkSource {
	s := &LinkSource{client: client, prefix: prefix, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// openScript publishes a URL, queueing it when nobody receives it.
const openScript = `
local receivers = redis.call("PUBLISH", KEYS[1], ARGV[1])
if receivers == 0 then
	redis.call("RPUSH", KEYS[2], ARGV[1])
end
return receivers
`

func (s *LinkSource) launchKey() string { return s.prefix + "launch_url" }
func (s *LinkSource) channel() string   { return s.prefix + "links" }
func (s *LinkSource) heldKey() string   { return s.prefix + "held_urls" }

// SetLaunchURL records the URL the app was started with.
func (s *LinkSource) SetLaunchURL(ctx context.Context, url string) error {
	return s.client.Set(ctx, s.launchKey(), url, 0).Err()
}

// InitialURL consumes the launch URL. It returns "" when none is pending.
func (s *LinkSource) InitialURL(ctx context.Context) (string, error) {
	url, err := s.client.GetDel(ctx, s.launchKey()).Result()
	if errors.Is(err, backend.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read launch url: %w", err)
	}
	return url, nil
}

// Open publishes a "URL opened" event.
func (s *LinkSource) Open(ctx context.Context, url string) error {
	receivers, err := s.client.Eval(ctx, openScript, []string{s.channel(), s.heldKey()}, url).Int64()
	if err != nil {
		return fmt.Errorf("failed to publish url: %w", err)
	}
	if receivers == 0 {
		s.logger.Debug("holding url until a listener subscribes", "url", url)
	}
	return nil
}

// takeHeld pops every queued URL, oldest first.
func (s *LinkSource) takeHeld(ctx context.Context) ([]string, error) {
	var urls *backend.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		urls = pipe.LRange(ctx, s.heldKey(), 0, -1)
		pipe.Del(ctx, s.heldKey())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return urls.Val(), nil
}

// Subscribe delivers every published URL to handler until the returned function is called.
// The subscription is confirmed, and queued URLs are delivered, before Subscribe
// returns. Unsubscribing does not wait for an in-flight handler call.
func (s *LinkSource) Subscribe(handler func(url string)) func() {
	ctx, cancel := context.WithCancel(context.Background())
	pubsub := s.client.Subscribe(ctx, s.channel())
	if _, err := pubsub.Receive(ctx); err != nil {
		s.logger.Warn("failed to subscribe to links", "channel", s.channel(), "err", err)
	}

	held, err := s.takeHeld(ctx)
	if err != nil {
		s.logger.Warn("failed to read held urls", "key", s.heldKey(), "err", err)
	}
	for _, url := range held {
		handler(url)
	}

	go func() {
		for msg := range pubsub.Channel() {
			handler(msg.Payload)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			if err := pubsub.Close(); err != nil {
				s.logger.Debug("failed to close link subscription", "err", err)
			}
		})
	}
}
