package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSES struct {
	in  *ses.SendEmailInput
	err error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestTemplateRenderer_ConferenceConfirmation(t *testing.T) {
	r := NewTemplateRenderer()
	subject, html, text, err := r.Render("conference_confirmation", &domain.ConferenceConfirmationEmailData{
		Email:          "grace@example.com",
		ConferenceName: "Go <Day>",
		ConferenceKey:  "abc123",
	})
	require.NoError(t, err)
	assert.Equal(t, `Your conference "Go <Day>" has been created`, subject)
	assert.Contains(t, html, "Go &lt;Day&gt;")
	assert.Contains(t, html, "abc123")
	assert.Contains(t, text, "Conference key: abc123")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	_, _, _, err := NewTemplateRenderer().Render("missing", nil)
	require.Error(t, err)
}

func TestSESMailer_Send(t *testing.T) {
	client := &fakeSES{}
	m := newSESMailer(client, "noreply@example.com", "Conference Central", discardLogger())

	require.NoError(t, m.Send("grace@example.com", "Hello", "<p>hi</p>", ""))
	require.NotNil(t, client.in)
	assert.Equal(t, "Conference Central <noreply@example.com>", aws.ToString(client.in.Source))
	assert.Equal(t, []string{"grace@example.com"}, client.in.Destination.ToAddresses)
	assert.Equal(t, "Hello", aws.ToString(client.in.Message.Subject.Data))
	require.NotNil(t, client.in.Message.Body.Html)
	assert.Nil(t, client.in.Message.Body.Text)

	client.err = errors.New("throttled")
	require.ErrorContains(t, m.Send("grace@example.com", "Hello", "", "hi"), "throttled")
}

func TestNewMailer_FallsBackToNoop(t *testing.T) {
	for _, provider := range []string{"noop", "carrier-pigeon"} {
		m := NewMailer(MailerConfig{Provider: provider}, discardLogger())
		_, ok := m.(*noopMailer)
		assert.True(t, ok, provider)
		assert.NoError(t, m.Send("a@example.com", "s", "", "t"))
	}
}
