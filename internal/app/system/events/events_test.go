package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dalemusser/devhub/internal/domain/models"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func testProfile() models.Profile {
	return models.Profile{ID: primitive.NewObjectID(), User: primitive.NewObjectID(), Handle: "jdoe"}
}

func TestNew(t *testing.T) {
	p := testProfile()
	a := New(ProfileCreated, p)
	b := New(ProfileCreated, p)

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected unique ids, got %q and %q", a.ID, b.ID)
	}
	if a.ProfileID != p.ID.Hex() || a.UserID != p.User.Hex() || a.Handle != "jdoe" {
		t.Errorf("event fields = %+v", a)
	}
	if a.OccurredAt.IsZero() {
		t.Error("expected OccurredAt to be set")
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	pub := &KafkaPublisher{w: w, log: zap.NewNop()}
	e := New(ProfileUpdated, testProfile())

	if err := pub.Publish(context.Background(), e); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != e.ProfileID {
		t.Errorf("key = %q, want profile id", msg.Key)
	}
	var decoded Event
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("value is not JSON: %v", err)
	}
	if decoded.ID != e.ID || decoded.Type != ProfileUpdated {
		t.Errorf("decoded = %+v", decoded)
	}

	if err := pub.Close(); err != nil || !w.closed {
		t.Errorf("Close = %v, closed = %v", err, w.closed)
	}
}

func TestKafkaPublisher_PropagatesWriteError(t *testing.T) {
	boom := errors.New("broker down")
	pub := &KafkaPublisher{w: &fakeWriter{err: boom}, log: zap.NewNop()}

	if err := pub.Publish(context.Background(), New(ProfileDeleted, testProfile())); !errors.Is(err, boom) {
		t.Errorf("expected write error, got %v", err)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	_ = r.Publish(context.Background(), New(ProfileCreated, testProfile()))
	_ = r.Publish(context.Background(), New(ProfileDeleted, testProfile()))

	got := r.Events()
	if len(got) != 2 || got[0].Type != ProfileCreated || got[1].Type != ProfileDeleted {
		t.Errorf("recorded = %+v", got)
	}
}
