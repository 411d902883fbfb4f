package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jhs/backend/internal/storage"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func multipartFile(t *testing.T, filename, contentType string, data []byte) UploadInput {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	file, header, err := req.FormFile("image")
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })
	return UploadInput{File: file, Header: header}
}

func newUploadFixture(t *testing.T) (*UploadService, *storage.DiskStore) {
	t.Helper()
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	return NewUploadService(store, testConfig(), nopLog), store
}

func TestUploadStoresImage(t *testing.T) {
	svc, store := newUploadFixture(t)

	image, err := svc.Upload(context.Background(), multipartFile(t, "site photo 1.png", "image/png", pngBytes))
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{13}-[0-9a-f]{10}-site_photo_1\.png$`), image.Filename)
	assert.Equal(t, "png", image.Format)

	rc, info, err := store.Open(context.Background(), image.Filename)
	require.NoError(t, err)
	defer rc.Close()
	stored, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, stored)
	assert.EqualValues(t, len(pngBytes), info.Size)
}

func TestUploadRejectsNonImages(t *testing.T) {
	svc, _ := newUploadFixture(t)

	_, err := svc.Upload(context.Background(), multipartFile(t, "notes.txt", "text/plain", []byte("hello")))
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = svc.Upload(context.Background(), multipartFile(t, "fake.png", "image/png", []byte("plain text")))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestUploadRejectsLargeFiles(t *testing.T) {
	svc, _ := newUploadFixture(t)
	svc.cfg.Uploads.MaxBytes = 8

	_, err := svc.Upload(context.Background(), multipartFile(t, "big.png", "image/png", pngBytes))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestUploadSanitizesSVG(t *testing.T) {
	svc, store := newUploadFixture(t)
	doc := []byte(`<svg xmlns="http://www.w3.org/2000/svg" onload="alert(1)"><script>alert(2)</script><rect/></svg>`)

	image, err := svc.Upload(context.Background(), multipartFile(t, "logo.svg", "image/svg+xml", doc))
	require.NoError(t, err)

	rc, _, err := store.Open(context.Background(), image.Filename)
	require.NoError(t, err)
	defer rc.Close()
	stored, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.NotContains(t, string(stored), "script")
	assert.NotContains(t, string(stored), "onload")
	assert.Contains(t, string(stored), "<rect/>")
}

func TestUploadWithoutFile(t *testing.T) {
	svc, _ := newUploadFixture(t)
	_, err := svc.Upload(context.Background(), UploadInput{})
	assert.ErrorIs(t, err, ErrNoFile)
}

func TestBuildFilenameStripsDirectories(t *testing.T) {
	svc, _ := newUploadFixture(t)
	name := svc.buildFilename(`..\..\etc\my  pic.jpeg`, "jpg")
	assert.Regexp(t, `^\d+-[0-9a-f]{10}-my_pic\.jpg$`, name)

	name = svc.buildFilename(".htaccess", "png")
	assert.Regexp(t, `^\d+-[0-9a-f]{10}-image\.png$`, name)
}

func TestUploadNameUsesDetectedExtension(t *testing.T) {
	svc, store := newUploadFixture(t)
	gif := []byte("GIF89a\x01\x00\x01\x00;<script>alert(document.domain)</script>")

	image, err := svc.Upload(context.Background(), multipartFile(t, "evil.html", "image/gif", gif))
	require.NoError(t, err)
	assert.Regexp(t, `-evil\.gif$`, image.Filename)
	assert.Equal(t, "image/gif", image.MIME)

	rc, info, err := store.Open(context.Background(), image.Filename)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "image/gif", info.ContentType)
}
