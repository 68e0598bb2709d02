package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pipemene/bluehome-os/internal/core/media"
	"github.com/pipemene/bluehome-os/internal/ports/secondary"
)

// UploadResolver turns local files into media references. It prefers a
// direct upload to a pre-signed URL and degrades to an inline data URL on
// any failure. Callers only ever see which variant came back.
type UploadResolver struct {
	uploads secondary.UploadGateway
	logger  zerolog.Logger
}

// NewUploadResolver creates an UploadResolver. A nil gateway always inlines.
func NewUploadResolver(uploads secondary.UploadGateway, logger zerolog.Logger) *UploadResolver {
	return &UploadResolver{uploads: uploads, logger: logger}
}

// Resolve uploads f and returns its reference. It never fails.
func (r *UploadResolver) Resolve(ctx context.Context, f media.File, withAuth bool) media.Ref {
	if url, ok := r.Publish(ctx, f, withAuth); ok {
		return media.FromURL(url)
	}
	return media.FromInline(media.EncodeDataURL(f.ContentType, f.Data))
}

// Publish performs the direct upload only and reports whether it succeeded.
func (r *UploadResolver) Publish(ctx context.Context, f media.File, withAuth bool) (string, bool) {
	log := r.logger.With().Str("file", f.Name).Str("content_type", f.ContentType).Logger()
	if r.uploads == nil {
		log.Warn().Msg("no upload gateway configured; using inline data")
		return "", false
	}

	grant, err := r.uploads.RequestUpload(ctx, f.ContentType, withAuth)
	if err != nil {
		log.Warn().Err(err).Msg("upload url request failed; using inline data")
		return "", false
	}
	if grant == nil || grant.UploadURL == "" || grant.PublicURL == "" {
		log.Warn().Msg("no upload url granted; using inline data")
		return "", false
	}
	if err := r.uploads.Put(ctx, grant.UploadURL, f.ContentType, f.Data); err != nil {
		log.Warn().Err(err).Msg("direct upload failed; using inline data")
		return "", false
	}

	log.Debug().Str("public_url", grant.PublicURL).Msg("uploaded")
	return grant.PublicURL, true
}
