package kafka

import (
	"reflect"
	"testing"

	"dishfeed/internal/feed"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")
	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error without brokers")
	}

	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("KAFKA_TOPIC_FEED_EVENTS", "")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.FeedEventsTopic != "feed-events" {
		t.Errorf("Expected default topic, got %q", cfg.FeedEventsTopic)
	}
	if !cfg.EnableIdempotence || cfg.Acks != "all" {
		t.Errorf("Expected idempotent producer with acks=all, got %+v", cfg)
	}
	if want := []string{"kafka-1:9092", "kafka-2:9092"}; !reflect.DeepEqual(cfg.GetBrokersList(), want) {
		t.Errorf("Expected %v, got %v", want, cfg.GetBrokersList())
	}
}

func TestMessage(t *testing.T) {
	p := &Producer{config: &Config{FeedEventsTopic: "feed-events"}}

	msg, err := p.message(feedEvent())
	if err != nil {
		t.Fatalf("message failed: %v", err)
	}
	if *msg.TopicPartition.Topic != "feed-events" {
		t.Errorf("Expected feed-events topic, got %q", *msg.TopicPartition.Topic)
	}
	if string(msg.Key) != "7" {
		t.Errorf("Expected post id key, got %q", msg.Key)
	}
	if len(msg.Headers) != 2 || string(msg.Headers[0].Value) != "post_liked" {
		t.Errorf("Unexpected headers %v", msg.Headers)
	}
}

func feedEvent() feed.Event {
	return feed.NewEvent(feed.EventPostLiked, 7, "ana", map[string]any{"like_count": 3})
}
