package hub_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rewatch/internal/adapters/hub"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/rewatch/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func TestHub_DeliversInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := mocks.NewMockSink(ctrl)
	second := mocks.NewMockSink(ctrl)

	event := domain.Event{Type: domain.EventCreated, Path: "/a"}
	gomock.InOrder(
		first.EXPECT().Emit(gomock.Any(), event).Return(nil),
		second.EXPECT().Emit(gomock.Any(), event).Return(nil),
	)

	h := hub.New()
	h.Subscribe("first", first)
	h.Subscribe("second", second)

	require.NoError(t, h.Emit(context.Background(), event))
	assert.Equal(t, 2, h.Len())
}

func TestHub_IsolatesFailures(t *testing.T) {
	diskFull := errors.New("disk full")
	var delivered []domain.Event

	h := hub.New()
	h.Subscribe("journal", ports.SinkFunc(func(context.Context, domain.Event) error {
		return diskFull
	}))
	h.Subscribe("printer", ports.SinkFunc(func(_ context.Context, ev domain.Event) error {
		delivered = append(delivered, ev)
		return nil
	}))

	err := h.Emit(context.Background(), domain.Event{Type: domain.EventDeleted, Path: "/a"})
	require.Error(t, err)
	assert.ErrorIs(t, err, diskFull)
	assert.ErrorContains(t, err, domain.ErrSubscriberFailed.Error())
	assert.Len(t, delivered, 1)
}

func TestHub_RecoversPanickingSubscriber(t *testing.T) {
	var delivered []domain.Event

	h := hub.New()
	h.Subscribe("plugin", ports.SinkFunc(func(context.Context, domain.Event) error {
		panic("nil map write")
	}))
	h.Subscribe("printer", ports.SinkFunc(func(_ context.Context, ev domain.Event) error {
		delivered = append(delivered, ev)
		return nil
	}))

	var err error
	require.NotPanics(t, func() {
		err = h.Emit(context.Background(), domain.Event{Type: domain.EventCreated, Path: "/a"})
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrSubscriberFailed.Error())
	assert.ErrorContains(t, err, "subscriber panicked")
	assert.Len(t, delivered, 1)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "plugin", zErr.Metadata()["subscriber"])
}

func TestHub_Empty(t *testing.T) {
	h := hub.New()
	assert.NoError(t, h.Emit(context.Background(), domain.Event{}))
}
