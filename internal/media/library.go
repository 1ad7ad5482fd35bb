package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/Shivam1272/backend-revision/internal/apperr"
	"github.com/Shivam1272/backend-revision/internal/logging"
	"github.com/Shivam1272/backend-revision/internal/models"
)

// sniffLen is how much of an upload is inspected to detect its content type.
const sniffLen = 3072

// ErrUnsupportedMedia indicates an upload that is neither the expected image nor video type.
var ErrUnsupportedMedia = fmt.Errorf("%w: unsupported media type", apperr.ErrInvalidInput)

// File is an upload received from a client.
type File struct {
	Name   string
	Size   int64
	Reader io.Reader
}

// ObjectStore hosts uploaded objects and returns their public location.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// DurationProber reports the playback length, in seconds, of a hosted video.
type DurationProber interface {
	Probe(ctx context.Context, url string) (float64, error)
}

// Library uploads media to an ObjectStore and releases it again when records go away.
type Library struct {
	store   ObjectStore
	prober  DurationProber
	janitor *Janitor
}

// NewLibrary constructs a Library. prober and janitor are optional; without a janitor
// releases happen inline.
func NewLibrary(store ObjectStore, prober DurationProber, janitor *Janitor) *Library {
	return &Library{store: store, prober: prober, janitor: janitor}
}

// Upload stores file under folder after checking that its content is of the wanted kind.
// Store failures are reported as apperr.ErrUpstream. A video whose duration cannot be
// probed is still accepted with a zero duration.
func (l *Library) Upload(ctx context.Context, folder string, want models.MediaKind, file File) (models.MediaAsset, error) {
	if file.Reader == nil {
		return models.MediaAsset{}, fmt.Errorf("%w: %s file is required", apperr.ErrInvalidInput, want)
	}
	if l.store == nil {
		return models.MediaAsset{}, fmt.Errorf("%w: media store not configured", apperr.ErrUpstream)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file.Reader, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return models.MediaAsset{}, fmt.Errorf("%w: read upload: %v", apperr.ErrInvalidInput, err)
	}
	if n == 0 {
		return models.MediaAsset{}, fmt.Errorf("%w: %s file is empty", apperr.ErrInvalidInput, want)
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	kind, ok := kindOf(detected.String())
	if !ok || kind != want {
		return models.MediaAsset{}, fmt.Errorf("%w: got %s, want %s", ErrUnsupportedMedia, detected.String(), want)
	}

	key := path.Join(strings.Trim(folder, "/"), uuid.NewString()+detected.Extension())
	body := io.MultiReader(bytes.NewReader(head), file.Reader)

	location, err := l.store.Put(ctx, key, body, file.Size, detected.String())
	if err != nil {
		return models.MediaAsset{}, fmt.Errorf("%w: store %s: %w", apperr.ErrUpstream, key, err)
	}

	asset := models.MediaAsset{ID: key, URL: location, Kind: kind}

	if kind == models.MediaKindVideo && l.prober != nil {
		duration, err := l.prober.Probe(ctx, location)
		if err != nil {
			logging.FromContext(ctx).Warn("probe video duration", "key", key, "error", err)
		} else {
			asset.Duration = duration
		}
	}

	return asset, nil
}

// Delete removes asset from the store synchronously.
func (l *Library) Delete(ctx context.Context, asset models.MediaAsset) error {
	if asset.ID == "" {
		return nil
	}
	if err := l.store.Delete(ctx, asset.ID); err != nil {
		return fmt.Errorf("%w: delete %s: %w", apperr.ErrUpstream, asset.ID, err)
	}
	return nil
}

// Release schedules best-effort deletion of asset. Failures are logged, never returned.
func (l *Library) Release(ctx context.Context, asset models.MediaAsset) {
	if asset.ID == "" {
		return
	}

	if l.janitor != nil {
		err := l.janitor.Enqueue(asset)
		if err == nil {
			return
		}
		logging.FromContext(ctx).Warn("janitor rejected media release, deleting inline", "key", asset.ID, "error", err)
	}

	if err := l.Delete(context.WithoutCancel(ctx), asset); err != nil {
		logging.FromContext(ctx).Warn("release media", "key", asset.ID, "kind", asset.Kind, "error", err)
	}
}

func kindOf(contentType string) (models.MediaKind, bool) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.MediaKindImage, true
	case strings.HasPrefix(contentType, "video/"):
		return models.MediaKindVideo, true
	default:
		return "", false
	}
}
