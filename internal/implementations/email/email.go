package email

import (
	"context"
	"encoding/json"
	"errors"
	"medremind/internal/core/domain/medication"
	"medremind/internal/core/domain/user"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

var ErrCaregiverHasNoEmail = errors.New("caregiver email is not defined")

type SESClient interface {
	SendTemplatedEmail(
		ctx context.Context,
		params *ses.SendTemplatedEmailInput,
		optFns ...func(*ses.Options),
	) (*ses.SendTemplatedEmailOutput, error)
}

type EmailSender struct {
	ses SESClient
	// This address must be verified with Amazon SES.
	sender            string
	caregiverTemplate string
}

func NewEmailSender(awsConfig aws.Config, sender string, caregiverTemplate string) *EmailSender {
	return NewEmailSenderWithClient(ses.NewFromConfig(awsConfig), sender, caregiverTemplate)
}

func NewEmailSenderWithClient(client SESClient, sender string, caregiverTemplate string) *EmailSender {
	return &EmailSender{
		ses:               client,
		sender:            sender,
		caregiverTemplate: caregiverTemplate,
	}
}

// SendMissedDose tells a caregiver that the user did not confirm a dose.
func (s *EmailSender) SendMissedDose(
	ctx context.Context,
	cg user.Caregiver,
	u user.User,
	m medication.Medication,
	scheduledAt time.Time,
) error {
	if !cg.Email.IsPresent {
		return ErrCaregiverHasNoEmail
	}

	templateParamsBytes, err := json.Marshal(
		missedDoseTemplateParams{
			CaregiverName:  cg.Name,
			PatientName:    u.Name,
			MedicationName: m.Name,
			Dosage:         m.Dosage,
			ScheduledAt:    scheduledAt.In(u.Location(time.UTC)).Format("Mon, 02 Jan 2006 15:04 MST"),
		},
	)
	if err != nil {
		return err
	}
	templateParams := string(templateParamsBytes)

	email := string(cg.Email.Value)
	_, err = s.ses.SendTemplatedEmail(
		ctx,
		&ses.SendTemplatedEmailInput{
			Source: &s.sender,
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{email},
			},
			Template:     &s.caregiverTemplate,
			TemplateData: &templateParams,
		},
	)
	return err
}

type missedDoseTemplateParams struct {
	CaregiverName  string `json:"caregiverName"`
	PatientName    string `json:"patientName"`
	MedicationName string `json:"medicationName"`
	Dosage         string `json:"dosage"`
	ScheduledAt    string `json:"scheduledAt"`
}
