package notifier

import (
	"context"
	"errors"
	c "medremind/internal/core/domain/common"
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/logging"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/reminder"
	"medremind/internal/core/domain/user"
	voicegateway "medremind/internal/implementations/voice_gateway"
	"time"
)

type VoiceCaller interface {
	PlaceCall(ctx context.Context, call voicegateway.Call) (string, error)
}

type MissedDoseMailer interface {
	SendMissedDose(
		ctx context.Context,
		cg user.Caregiver,
		u user.User,
		m medication.Medication,
		scheduledAt time.Time,
	) error
}

// Notifier calls users through the voice gateway. Caregivers get a call and,
// when they have an address and a mailer is configured, an e-mail.
type Notifier struct {
	log    logging.Logger
	voice  VoiceCaller
	mailer c.Optional[MissedDoseMailer]
}

func New(log logging.Logger, voice VoiceCaller, mailer c.Optional[MissedDoseMailer]) *Notifier {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if voice == nil {
		panic(e.NewNilArgumentError("voice"))
	}
	if mailer.IsPresent && mailer.Value == nil {
		panic(e.NewNilArgumentError("mailer"))
	}
	return &Notifier{log: log, voice: voice, mailer: mailer}
}

func (n *Notifier) SendReminder(
	ctx context.Context,
	u user.User,
	m medication.Medication,
	r reminder.Reminder,
) error {
	dispatchID, err := n.voice.PlaceCall(ctx, voicegateway.Call{
		Kind:           voicegateway.KindReminder,
		PhoneNumber:    string(u.PhoneNumber),
		ReminderID:     int64(r.ID),
		Attempt:        r.AttemptCount,
		RecipientName:  u.Name,
		PatientName:    u.Name,
		MedicationName: m.Name,
		Dosage:         m.Dosage,
		Instructions:   m.Instructions.Value,
		ScheduledAt:    r.ScheduledAt,
	})
	if err != nil {
		return err
	}
	n.log.Info(
		ctx,
		"Reminder call has been placed.",
		logging.Entry("reminderID", r.ID),
		logging.Entry("attempt", r.AttemptCount),
		logging.Entry("dispatchID", dispatchID),
	)
	return nil
}

func (n *Notifier) NotifyCaregiver(
	ctx context.Context,
	cg user.Caregiver,
	u user.User,
	m medication.Medication,
	scheduledAt time.Time,
) error {
	dispatchID, callErr := n.voice.PlaceCall(ctx, voicegateway.Call{
		Kind:           voicegateway.KindCaregiverAlert,
		PhoneNumber:    string(cg.PhoneNumber),
		RecipientName:  cg.Name,
		PatientName:    u.Name,
		MedicationName: m.Name,
		Dosage:         m.Dosage,
		ScheduledAt:    scheduledAt,
	})
	if callErr == nil {
		n.log.Info(
			ctx,
			"Caregiver call has been placed.",
			logging.Entry("caregiverID", cg.ID),
			logging.Entry("dispatchID", dispatchID),
		)
	}

	if !n.mailer.IsPresent || !cg.Email.IsPresent {
		return callErr
	}
	mailErr := n.mailer.Value.SendMissedDose(ctx, cg, u, m, scheduledAt)
	if mailErr == nil {
		n.log.Info(ctx, "Caregiver e-mail has been sent.", logging.Entry("caregiverID", cg.ID))
		if callErr != nil {
			n.log.Warning(
				ctx,
				"Caregiver could not be called, reached by e-mail only.",
				logging.Entry("err", callErr),
				logging.Entry("caregiverID", cg.ID),
			)
		}
		return nil
	}
	if callErr == nil {
		n.log.Warning(
			ctx,
			"Caregiver e-mail could not be sent, reached by call only.",
			logging.Entry("err", mailErr),
			logging.Entry("caregiverID", cg.ID),
		)
		return nil
	}
	return errors.Join(callErr, mailErr)
}
