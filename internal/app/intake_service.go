package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pipemene/bluehome-os/internal/core/media"
	"github.com/pipemene/bluehome-os/internal/core/order"
	"github.com/pipemene/bluehome-os/internal/ports/primary"
	"github.com/pipemene/bluehome-os/internal/ports/secondary"
)

// MaxIntakePhotos caps the photos attached to a new request.
const MaxIntakePhotos = 2

// IntakeServiceImpl implements the IntakeService interface.
type IntakeServiceImpl struct {
	orders   secondary.OrderGateway
	notifier secondary.NotifyGateway
	uploads  *UploadResolver
	logger   zerolog.Logger
}

// NewIntakeService creates a new IntakeService with injected dependencies.
func NewIntakeService(
	orders secondary.OrderGateway,
	notifier secondary.NotifyGateway,
	uploads *UploadResolver,
	logger zerolog.Logger,
) *IntakeServiceImpl {
	return &IntakeServiceImpl{
		orders:   orders,
		notifier: notifier,
		uploads:  uploads,
		logger:   logger,
	}
}

// Submit validates and files a new work order.
func (s *IntakeServiceImpl) Submit(ctx context.Context, req primary.IntakeRequest) (*primary.IntakeResponse, error) {
	if err := order.ValidateIntake(order.IntakeContext{
		Code:        req.Code,
		Name:        req.Name,
		Phone:       req.Phone,
		Description: req.Description,
	}); err != nil {
		return nil, err
	}
	kind, err := order.ParseRequestType(req.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", order.ErrValidation, err)
	}

	resp := &primary.IntakeResponse{}

	// Extra photos are dropped silently.
	photos := req.Photos
	if len(photos) > MaxIntakePhotos {
		photos = photos[:MaxIntakePhotos]
	}
	images := make([]media.Ref, 0, len(photos))
	for _, f := range photos {
		ref := s.uploads.Resolve(ctx, f, false)
		if ref.IsInline() {
			resp.PhotosInline++
		}
		images = append(images, ref)
	}
	resp.PhotosUploaded = len(images)

	var video *media.Ref
	if len(req.Videos) > 0 {
		ref := s.uploads.Resolve(ctx, req.Videos[0], false)
		resp.VideoInline = ref.IsInline()
		video = &ref
	}

	radicado, err := s.orders.Create(ctx, order.Intake{
		Code:        req.Code,
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Type:        kind,
		Description: req.Description,
		Images:      images,
		Video:       video,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	resp.Radicado = radicado
	s.logger.Info().Str("radicado", radicado).Int("photos", len(images)).Bool("video", video != nil).Msg("order created")

	if n := req.Notify; n != nil && n.APIKey != "" && n.UserID != "" && s.notifier != nil {
		err := s.notifier.Notify(ctx, secondary.NotifyRequest{
			Text:   fmt.Sprintf("Nueva orden %s registrada", radicado),
			UserID: n.UserID,
			APIKey: n.APIKey,
		})
		if err != nil {
			s.logger.Debug().Err(err).Str("radicado", radicado).Msg("notification dropped")
		} else {
			resp.Notified = true
		}
	}

	return resp, nil
}

var _ primary.IntakeService = (*IntakeServiceImpl)(nil)
