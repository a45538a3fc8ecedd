package services

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/Kartik1014/Rentit/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type part struct {
	filename    string
	contentType string
	body        string
}

func formFiles(t *testing.T, parts ...part) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="files"; filename="`+p.filename+`"`)
		h.Set("Content-Type", p.contentType)
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write([]byte(p.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["files"]
}

func TestObjectName(t *testing.T) {
	name := ObjectName("../My Beach House.JPG")

	assert.True(t, strings.HasSuffix(name, "_my-beach-house.jpg"), name)
	assert.NotContains(t, name, "/")
	assert.NotEqual(t, name, ObjectName("../My Beach House.JPG"))
	assert.True(t, strings.HasSuffix(ObjectName("???.png"), "_image.png"))
}

func TestUploadFetchDelete(t *testing.T) {
	f := newFixture(t)

	files := formFiles(t,
		part{"front.png", "image/png", "png-bytes"},
		part{"empty.png", "image/png", ""},
	)

	uploaded, err := f.svc.Images.Upload(f.ctx, files)
	require.NoError(t, err)
	require.Len(t, uploaded, 1)
	assert.Equal(t, ImageURLPrefix+uploaded[0].Filename, uploaded[0].URL)
	assert.EqualValues(t, len("png-bytes"), uploaded[0].Size)
	assert.Equal(t, "image/png", uploaded[0].ContentType)

	obj, err := f.svc.Images.Fetch(f.ctx, uploaded[0].Filename)
	require.NoError(t, err)
	body, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	require.NoError(t, obj.Body.Close())
	assert.Equal(t, "png-bytes", string(body))

	require.NoError(t, f.svc.Images.Delete(f.ctx, uploaded[0].Filename))

	_, err = f.svc.Images.Fetch(f.ctx, uploaded[0].Filename)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUploadRejections(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Images.Upload(f.ctx, formFiles(t, part{"notes.txt", "text/plain", "hello"}))
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.svc.Images.Upload(f.ctx, formFiles(t, part{"empty.png", "image/png", ""}))
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.svc.Images.Upload(f.ctx, nil)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestImageNamesAreChecked(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Images.Fetch(f.ctx, "../secret")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	err = f.svc.Images.Delete(f.ctx, "a/b.png")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
