package notification

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-registry/internal/model"
)

type sentMail struct {
	to, subject, content string
}

type fakeEmail struct {
	sent []sentMail
}

func (f *fakeEmail) SendCustom(_ context.Context, to, subject, content string) error {
	f.sent = append(f.sent, sentMail{to, subject, content})
	return nil
}

func TestPublishAppointmentEvents(t *testing.T) {
	mail := &fakeEmail{}
	svc := NewService(mail, "desk@example.com")

	payload, err := json.Marshal(model.AppointmentEvent{
		DateTime:    "2025-01-10 09:00",
		DoctorName:  "John Smith",
		PatientName: "Alice Smith",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Publish(context.Background(), model.EventAppointmentScheduled, json.RawMessage(payload)))
	require.NoError(t, svc.Publish(context.Background(), model.EventAppointmentCancelled, json.RawMessage(payload)))

	require.Len(t, mail.sent, 2)
	assert.Equal(t, "desk@example.com", mail.sent[0].to)
	assert.Equal(t, "Appointment scheduled: 2025-01-10 09:00", mail.sent[0].subject)
	assert.Contains(t, mail.sent[0].content, "Doctor:  John Smith")
	assert.Equal(t, "Appointment cancelled: 2025-01-10 09:00", mail.sent[1].subject)
}

func TestPublishVisitCard(t *testing.T) {
	mail := &fakeEmail{}
	svc := NewService(mail, "desk@example.com")

	require.NoError(t, svc.Publish(context.Background(), model.EventVisitCardCreated, model.VisitCardEvent{
		DoctorName:  "Sarah Lee",
		PatientName: "Bob Johnson",
		DateTime:    "2025-01-10 10:00",
		Diagnosis:   "Sprained ankle",
	}))

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "Visit card: Bob Johnson", mail.sent[0].subject)
	assert.Contains(t, mail.sent[0].content, "Diagnosis: Sprained ankle")
}

func TestPublishIgnoresOtherEvents(t *testing.T) {
	mail := &fakeEmail{}
	svc := NewService(mail, "desk@example.com")

	require.NoError(t, svc.Publish(context.Background(), model.EventPatientRegistered, json.RawMessage(`{}`)))
	assert.Empty(t, mail.sent)

	assert.Error(t, svc.Publish(context.Background(), model.EventAppointmentScheduled, json.RawMessage(`not json`)))
}
