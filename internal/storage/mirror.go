package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/ignatzorin/odyssey-backend/internal/pkg/httpx"
	"github.com/ignatzorin/odyssey-backend/internal/pkg/retry"
)

const serviceName = "storage"

// MirroredObject - копия внешней картинки в нашем хранилище.
type MirroredObject struct {
	Filename string
	Key      string
	URL      string
	Bytes    int64
}

// Mirror скачивает картинку по внешней ссылке и кладёт её в ObjectStore.
type Mirror struct {
	store      ObjectStore
	httpClient *http.Client
	pathPrefix string
	maxBytes   int64
	policy     retry.Policy

	now   func() time.Time
	newID func() uuid.UUID
}

// NewMirror создаёт экземпляр. pathPrefix - каталог внутри хранилища.
func NewMirror(store ObjectStore, pathPrefix string, maxUploadMB int64, policy retry.Policy) *Mirror {
	return &Mirror{
		store:      store,
		httpClient: &http.Client{},
		pathPrefix: pathPrefix,
		maxBytes:   maxUploadMB * 1024 * 1024,
		policy:     policy,
		now:        time.Now,
		newID:      uuid.New,
	}
}

// MirrorFromURL копирует картинку. Имя файла: <YYYYMMDD>-<unix>.<uuid>.<ext>.
func (m *Mirror) MirrorFromURL(ctx context.Context, srcURL string) (MirroredObject, error) {
	return retry.Do(ctx, m.policy, serviceName, func(ctx context.Context) (MirroredObject, error) {
		data, err := m.download(ctx, srcURL)
		if err != nil {
			return MirroredObject{}, err
		}

		kind, err := filetype.Match(data)
		if err != nil || !filetype.IsImage(data) {
			return MirroredObject{}, fmt.Errorf("storage: по ссылке не картинка (%s)", kind.MIME.Value)
		}

		filename := m.filename(kind.Extension)
		key := filename
		if m.pathPrefix != "" {
			key = m.pathPrefix + "/" + filename
		}

		url, err := m.store.Put(ctx, key, kind.MIME.Value, data)
		if err != nil {
			return MirroredObject{}, err
		}

		return MirroredObject{Filename: filename, Key: key, URL: url, Bytes: int64(len(data))}, nil
	})
}

func (m *Mirror) filename(ext string) string {
	now := m.now().UTC()
	return now.Format("20060102") + "-" + strconv.FormatInt(now.Unix(), 10) + "." + m.newID().String() + "." + ext
}

func (m *Mirror) download(ctx context.Context, srcURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &httpx.StatusError{Service: serviceName, Code: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, m.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("storage: ошибка чтения картинки: %w", err)
	}
	if int64(len(data)) > m.maxBytes {
		return nil, fmt.Errorf("storage: размер файла превышает лимит %d байт", m.maxBytes)
	}
	return data, nil
}
