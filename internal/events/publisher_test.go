package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestNewEvent(t *testing.T) {
	event := NewEvent(ClassCreated, ClassEventData{ClassID: 7, TeacherID: "t1", ActorID: "admin"})

	if event.ID == "" {
		t.Error("Event ID should not be empty")
	}
	if event.Source != "educonnect" {
		t.Errorf("Expected source 'educonnect', got '%s'", event.Source)
	}
	if event.Version != "1.0" {
		t.Errorf("Expected version '1.0', got '%s'", event.Version)
	}
	if event.Timestamp.IsZero() {
		t.Error("Event timestamp should not be zero")
	}
}

func TestWatermillPublisher_InProcess(t *testing.T) {
	publisher, pubSub := NewInProcessEventPublisher("educonnect", testLogger())
	defer publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	topic := publisher.Topic(SubmissionGraded)
	if topic != "educonnect.submission.graded" {
		t.Fatalf("Topic() = %s", topic)
	}

	messages, err := pubSub.Subscribe(ctx, topic)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	grade := 87.5
	sent := NewEvent(SubmissionGraded, SubmissionEventData{AssignmentID: 1, StudentID: "s1", Status: "graded", Grade: &grade})
	if err := publisher.Publish(ctx, sent); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case msg := <-messages:
		msg.Ack()
		if msg.UUID != sent.ID {
			t.Errorf("message UUID = %s, want %s", msg.UUID, sent.ID)
		}
		if got := msg.Metadata.Get("event_type"); got != string(SubmissionGraded) {
			t.Errorf("event_type metadata = %s", got)
		}
		var received Event
		if err := json.Unmarshal(msg.Payload, &received); err != nil {
			t.Fatalf("payload is not an event: %v", err)
		}
		if received.Type != SubmissionGraded {
			t.Errorf("received type = %s", received.Type)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}
}

func TestMockEventPublisher(t *testing.T) {
	mock := NewMockEventPublisher(testLogger())
	ctx := context.Background()

	_ = mock.Publish(ctx, NewEvent(UserCreated, UserEventData{UserID: "u1"}))
	_ = mock.Publish(ctx, NewEvent(UserDeleted, UserEventData{UserID: "u1"}))

	if got := len(mock.GetPublishedEvents()); got != 2 {
		t.Fatalf("Expected 2 events, got %d", got)
	}
	if got := len(mock.EventsOfType(UserDeleted)); got != 1 {
		t.Errorf("Expected 1 user.deleted event, got %d", got)
	}

	mock.FailWith(errors.New("broker down"))
	if err := mock.Publish(ctx, NewEvent(UserCreated, nil)); err == nil {
		t.Error("Publish() should fail after FailWith")
	}

	mock.ClearEvents()
	if got := len(mock.GetPublishedEvents()); got != 0 {
		t.Errorf("Expected 0 events after ClearEvents, got %d", got)
	}
}
