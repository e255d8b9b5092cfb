package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeSource struct {
	due []DueReminder
	err error
}

func (f *fakeSource) FindDue(ctx context.Context, date, clock string) ([]DueReminder, error) {
	return f.due, f.err
}

type capturingPublisher struct {
	published []ReminderNotification
	err       error
}

func (c *capturingPublisher) Publish(n ReminderNotification) error {
	if c.err != nil {
		return c.err
	}
	c.published = append(c.published, n)
	return nil
}

func TestScheduler_PublishesDueReminders(t *testing.T) {
	source := &fakeSource{due: []DueReminder{
		{UserID: "u1", MedicationID: "m1", MedicationName: "Aspirin", Dosage: "100mg", Time: "09:00", SlotIndex: 0, Language: "en"},
		{UserID: "u2", MedicationID: "m2", MedicationName: "Parol", Dosage: "500mg", Time: "09:00", SlotIndex: 1, Language: "tr"},
	}}
	pub := &capturingPublisher{}
	s := NewScheduler(source, pub, zap.NewNop())

	s.tick(context.Background(), time.Now())

	assert.Len(t, pub.published, 2)
	assert.Equal(t, "u1", pub.published[0].UserID)
	assert.Contains(t, pub.published[0].Body, "Aspirin")
	assert.Equal(t, "Medication Reminder", pub.published[0].Title)
	assert.Equal(t, "İlaç Hatırlatıcı", pub.published[1].Title)
}

func TestScheduler_SourceErrorPublishesNothing(t *testing.T) {
	source := &fakeSource{err: errors.New("db down")}
	pub := &capturingPublisher{}
	s := NewScheduler(source, pub, zap.NewNop())

	s.tick(context.Background(), time.Now())

	assert.Empty(t, pub.published)
}

func TestScheduler_PublishErrorDoesNotStopBatch(t *testing.T) {
	source := &fakeSource{due: []DueReminder{{UserID: "u1", MedicationName: "A"}}}
	pub := &capturingPublisher{err: errors.New("broker down")}
	s := NewScheduler(source, pub, zap.NewNop())

	// Must not panic or abort.
	s.tick(context.Background(), time.Now())
	assert.Empty(t, pub.published)
}
