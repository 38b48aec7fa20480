package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// envelope mirrors the hub message written on /ws/{topic}.
type envelope struct {
	ID    string          `json:"id"`
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data"`
}

// Stream is an open push subscription. Updates is closed when the
// connection ends; the cause, if any, is sent on Errors first.
type Stream[T any] struct {
	Updates <-chan T
	Errors  <-chan error
}

// Subscribe opens the WebSocket stream of topic below baseURL and decodes
// every message into T. The stream is not reopened once it ends.
func Subscribe[T any](ctx context.Context, dialer *websocket.Dialer, baseURL, topic string) (*Stream[T], error) {
	endpoint, err := streamURL(baseURL, topic)
	if err != nil {
		return nil, err
	}
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}

	updates := make(chan T)
	errs := make(chan error, 1)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	go func() {
		defer close(updates)
		defer conn.Close()
		for {
			var msg envelope
			if err := conn.ReadJSON(&msg); err != nil {
				if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					errs <- fmt.Errorf("stream %s: %w", topic, err)
				}
				return
			}
			var v T
			if err := json.Unmarshal(msg.Data, &v); err != nil {
				errs <- fmt.Errorf("stream %s: decode: %w", topic, err)
				return
			}
			select {
			case updates <- v:
			case <-ctx.Done():
				return
			}
		}
	}()

	return &Stream[T]{Updates: updates, Errors: errs}, nil
}

func streamURL(baseURL, topic string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("parse api base: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path += "/ws/" + topic
	return u.String(), nil
}
