package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func receive(t *testing.T, sub *Subscriber) Message {
	t.Helper()
	select {
	case msg, ok := <-sub.Send:
		require.True(t, ok, "subscriber channel closed")
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func TestHub_PublishDeliversInOrder(t *testing.T) {
	hub := NewHub(16, zaptest.NewLogger(t))
	defer hub.Close()

	sub, err := hub.Subscribe(TopicSpaceships)
	require.NoError(t, err)

	hub.Publish(TopicSpaceships, "first")
	hub.Publish(TopicSpaceships, "second")
	hub.Publish(TopicRepairmen, "other topic")
	hub.Publish(TopicSpaceships, "third")

	assert.Equal(t, "first", receive(t, sub).Data)
	assert.Equal(t, "second", receive(t, sub).Data)
	msg := receive(t, sub)
	assert.Equal(t, "third", msg.Data)
	assert.Equal(t, TopicSpaceships, msg.Topic)
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestHub_EverySubscriberGetsTheMessage(t *testing.T) {
	hub := NewHub(16, zaptest.NewLogger(t))
	defer hub.Close()

	a, err := hub.Subscribe(TopicRepairmen)
	require.NoError(t, err)
	b, err := hub.Subscribe(TopicRepairmen)
	require.NoError(t, err)
	assert.Equal(t, 2, hub.SubscriberCount(TopicRepairmen))

	hub.Publish(TopicRepairmen, 42)

	assert.Equal(t, 42, receive(t, a).Data)
	assert.Equal(t, 42, receive(t, b).Data)
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub(4, zaptest.NewLogger(t))
	defer hub.Close()

	sub, err := hub.Subscribe(TopicPing)
	require.NoError(t, err)
	hub.Unsubscribe(sub)

	_, ok := <-sub.Send
	assert.False(t, ok)
	assert.Equal(t, 0, hub.SubscriberCount(TopicPing))

	// A second unsubscribe is a no-op.
	hub.Unsubscribe(sub)
}

func TestHub_SlowSubscriberDoesNotBlockPublishers(t *testing.T) {
	hub := NewHub(1, zap.NewNop())
	defer hub.Close()

	sub, err := hub.Subscribe(TopicMaintenanceRequests)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		for _, v := range []string{"a", "b", "c", "d", "e"} {
			hub.Publish(TopicMaintenanceRequests, v)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}

	assert.Equal(t, "a", receive(t, sub).Data)

	hub.Publish(TopicMaintenanceRequests, "z")
	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-sub.Send:
			if msg.Data == "z" {
				return
			}
		case <-deadline:
			t.Fatal("subscriber never recovered after drops")
		}
	}
}

func TestHub_CloseEndsSubscriptions(t *testing.T) {
	hub := NewHub(4, zap.NewNop())

	sub, err := hub.Subscribe(TopicSpaceships)
	require.NoError(t, err)

	hub.Close()
	hub.Close()

	_, ok := <-sub.Send
	assert.False(t, ok)

	_, err = hub.Subscribe(TopicSpaceships)
	assert.ErrorIs(t, err, ErrHubClosed)

	// Publishing to and leaving a stopped hub must not hang.
	hub.Publish(TopicSpaceships, "late")
	hub.Unsubscribe(sub)
	assert.Equal(t, 0, hub.SubscriberCount(TopicSpaceships))
}

func TestKnownTopic(t *testing.T) {
	for _, topic := range []string{TopicSpaceships, TopicRepairmen, TopicMaintenanceRequests, TopicPing} {
		assert.True(t, KnownTopic(topic), topic)
	}
	assert.False(t, KnownTopic("engines"))
	assert.False(t, KnownTopic(""))
}

func TestServeSSE_StreamsPublishedEntities(t *testing.T) {
	hub := NewHub(16, zap.NewNop())
	defer hub.Close()

	router := gin.New()
	router.GET("/spaceships/updates/stream", hub.ServeSSE(TopicSpaceships))
	srv := httptest.NewServer(router)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/spaceships/updates/stream", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	hub.Publish(TopicSpaceships, map[string]any{"serialNumber": "SN-1", "name": "Aurora"})

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	timeout := time.After(3 * time.Second)
	for {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "stream ended before data arrived")
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			var ship map[string]any
			require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(strings.TrimPrefix(line, "data:"))), &ship))
			assert.Equal(t, "SN-1", ship["serialNumber"])
			assert.Equal(t, "Aurora", ship["name"])
			return
		case <-timeout:
			t.Fatal("timed out waiting for SSE data")
		}
	}
}

func TestServeWS_ForwardsTopicMessages(t *testing.T) {
	hub := NewHub(16, zap.NewNop())
	defer hub.Close()

	router := gin.New()
	router.GET("/ws/:topic", hub.ServeWS)
	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + TopicRepairmen
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.SubscriberCount(TopicRepairmen) == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.Publish(TopicRepairmen, map[string]any{"id": 7, "name": "Ripley"})

	var got struct {
		Topic string         `json:"topic"`
		Data  map[string]any `json:"data"`
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, TopicRepairmen, got.Topic)
	assert.Equal(t, "Ripley", got.Data["name"])

	conn.Close()
	require.Eventually(t, func() bool {
		return hub.SubscriberCount(TopicRepairmen) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServeWS_UnknownTopic(t *testing.T) {
	hub := NewHub(16, zap.NewNop())
	defer hub.Close()

	router := gin.New()
	router.GET("/ws/:topic", hub.ServeWS)
	srv := httptest.NewServer(router)
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/engines", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	data   []any
}

func (p *recordingPublisher) Publish(topic string, data any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.data = append(p.data, data)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.topics)
}

func TestHeartbeat_PublishesPong(t *testing.T) {
	pub := &recordingPublisher{}
	hb, err := NewHeartbeat(pub, "@every 1s", zap.NewNop())
	require.NoError(t, err)

	hb.Start()
	require.Eventually(t, func() bool { return pub.count() >= 1 }, 3*time.Second, 50*time.Millisecond)
	hb.Stop()

	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.Equal(t, TopicPing, pub.topics[0])
	assert.Equal(t, PongPayload, pub.data[0])
}

func TestHeartbeat_InvalidSchedule(t *testing.T) {
	_, err := NewHeartbeat(&recordingPublisher{}, "every now and then", zap.NewNop())
	assert.Error(t, err)
}
