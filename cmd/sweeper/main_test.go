package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"

	"conferencecentral/internal/domain"
)

type stubRefresher struct {
	domain.Refresher
	calls int
	err   error
}

func (s *stubRefresher) RefreshAnnouncement(context.Context) (string, error) {
	s.calls++
	return "Last chance to attend! The following conferences are nearly sold out: A", s.err
}

func TestHandler_Handle(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ok := &stubRefresher{}
	h := &handler{refresher: ok, logger: logger}
	assert.NoError(t, h.Handle(context.Background(), events.CloudWatchEvent{ID: "e1"}))
	assert.Equal(t, 1, ok.calls)

	failing := &stubRefresher{err: errors.New("db down")}
	h = &handler{refresher: failing, logger: logger}
	assert.EqualError(t, h.Handle(context.Background(), events.CloudWatchEvent{ID: "e2"}), "db down")
}
