package usecase

import (
	"context"

	"qiitawatch/internal/domain/ports"
)

// ImageState is one view state of an asynchronously loaded image.
type ImageState struct {
	Kind ViewKind
	// Data holds the downloaded bytes for ViewAppeared. It is nil when the
	// download failed and the placeholder should be shown.
	Data []byte
}

// AsyncImage downloads one image and reports progress as view states.
type AsyncImage struct {
	screen
	images ports.ImageFetcher
	url    string
	stream *Stream[ImageState]
}

// NewAsyncImage creates a loader for rawURL and emits its initial placeholder state.
func NewAsyncImage(rawURL string, images ports.ImageFetcher, logger ports.Logger) *AsyncImage {
	a := &AsyncImage{
		screen: newScreen("async_image", logger, nil),
		images: images,
		url:    rawURL,
		stream: NewStream[ImageState](),
	}
	a.stream.Emit(ImageState{Kind: ViewInitial})
	return a
}

// States returns the view states emitted by the loader.
func (a *AsyncImage) States() <-chan ImageState {
	return a.stream.States()
}

// Load downloads the image. A URL that cannot be parsed yields the placeholder without a request.
func (a *AsyncImage) Load(ctx context.Context) {
	a.debug(ctx, "start image download", "url", a.url)
	a.stream.Emit(ImageState{Kind: ViewLoading})

	if !openableURL(a.url) {
		a.warn(ctx, "invalid image url", "url", a.url)
		a.stream.Emit(ImageState{Kind: ViewAppeared})
		return
	}

	data, err := a.images.Download(ctx, a.url)
	if err != nil {
		a.error(ctx, "failed to download image", "url", a.url, "error", err)
		a.stream.Emit(ImageState{Kind: ViewAppeared})
		return
	}
	a.stream.Emit(ImageState{Kind: ViewAppeared, Data: data})
}

// Close closes the state stream.
func (a *AsyncImage) Close() {
	a.stream.Close()
}

