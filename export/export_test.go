package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingFS struct {
	writes   []WriteFileOptions
	uriCalls []GetURIOptions
	uri      string
	writeErr error
	uriErr   error
}

func (r *recordingFS) WriteFile(_ context.Context, opts WriteFileOptions) error {
	r.writes = append(r.writes, opts)
	return r.writeErr
}

func (r *recordingFS) GetURI(_ context.Context, opts GetURIOptions) (string, error) {
	r.uriCalls = append(r.uriCalls, opts)
	return r.uri, r.uriErr
}

type recordingSharer struct {
	shares []ShareOptions
	err    error
}

func (r *recordingSharer) Share(_ context.Context, opts ShareOptions) error {
	r.shares = append(r.shares, opts)
	return r.err
}

var fixedNow = time.UnixMilli(1700000000123)

func TestFilenameSanitizedForAnyExtension(t *testing.T) {
	safe := regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
	for _, ext := range []string{"pdf", "svg", "dxf", "tar gz", "../../etc", "ملف", "a/b\\c", ""} {
		name := Filename(ext, fixedNow)
		assert.Regexp(t, safe, name, "ext %q", ext)
		assert.True(t, strings.HasPrefix(name, "led_design_1700000000123."), name)
	}
	assert.Equal(t, "led_design_1700000000123.pdf", Filename("pdf", fixedNow))
	assert.Equal(t, "a_b_c", Sanitize("a / b\\c"))
}

func TestFilenameCollidesWithinMillisecond(t *testing.T) {
	assert.Equal(t, Filename("svg", fixedNow), Filename("svg", fixedNow))
}

func TestEncodeBase64MatchesOneShot(t *testing.T) {
	data := make([]byte, 3*base64ChunkSize+17)
	for i := range data {
		data[i] = byte(i * 7)
	}
	assert.Equal(t, base64.StdEncoding.EncodeToString(data), encodeBase64(data))
	assert.Equal(t, "", encodeBase64(nil))
}

func TestBrowserDeliverySetsAttachment(t *testing.T) {
	rec := httptest.NewRecorder()
	sink := NewSink(PlatformFunc(func() bool { return false }), BrowserDelivery{W: rec}, nil, WithClock(func() time.Time { return fixedNow }))

	name, err := sink.ExportPDFFile(context.Background(), []byte("%PDF-1.7 test"))
	require.NoError(t, err)
	assert.Equal(t, "led_design_1700000000123.pdf", name)
	assert.Equal(t, `attachment; filename="led_design_1700000000123.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "13", rec.Header().Get("Content-Length"))
	assert.Equal(t, "%PDF-1.7 test", rec.Body.String())
}

func TestBrowserDeliveryText(t *testing.T) {
	rec := httptest.NewRecorder()
	sink := NewSink(nil, BrowserDelivery{W: rec}, nil, WithClock(func() time.Time { return fixedNow }))

	_, err := sink.ExportTextFile(context.Background(), "<svg/>", "svg")
	require.NoError(t, err)
	assert.Equal(t, ContentTypeText, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".svg")
}

func TestTypedTextPayloadKeepsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	sink := NewSink(nil, BrowserDelivery{W: rec}, nil, WithClock(func() time.Time { return fixedNow }))

	_, err := sink.Deliver(context.Background(), TypedTextPayload("0\nEOF\n", "application/dxf"), "dxf")
	require.NoError(t, err)
	assert.Equal(t, "application/dxf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "0\nEOF\n", rec.Body.String())

	p := TypedTextPayload("x", "")
	assert.Equal(t, KindText, p.Kind())
	assert.Equal(t, ContentTypeText, p.ContentType())
}

func TestNativePDFWritesDecodableBase64(t *testing.T) {
	pdf := bytes.Repeat([]byte{0x25, 0x50, 0x44, 0x46, 0x00, 0xff}, 20000)
	fs := &recordingFS{uri: "file:///docs/x.pdf"}
	sh := &recordingSharer{}
	sink := NewSink(PlatformFunc(func() bool { return true }), nil, NativeDelivery{FS: fs, Sharer: sh}, WithClock(func() time.Time { return fixedNow }))

	name, err := sink.ExportPDFFile(context.Background(), pdf)
	require.NoError(t, err)
	require.Len(t, fs.writes, 1)

	w := fs.writes[0]
	assert.Equal(t, name, w.Path)
	assert.Equal(t, Documents, w.Directory)
	assert.Equal(t, EncodingNone, w.Encoding)
	assert.True(t, w.Recursive)
	decoded, err := base64.StdEncoding.DecodeString(w.Data)
	require.NoError(t, err)
	assert.Equal(t, pdf, decoded)

	require.Len(t, fs.uriCalls, 1)
	assert.Equal(t, GetURIOptions{Path: name, Directory: Documents}, fs.uriCalls[0])
	require.Len(t, sh.shares, 1)
	assert.Equal(t, ShareOptions{Title: name, URL: "file:///docs/x.pdf", DialogTitle: ShareDialogTitle}, sh.shares[0])
}

func TestNativeTextWrittenAsUTF8(t *testing.T) {
	fs := &recordingFS{uri: "u"}
	sink := NewSink(PlatformFunc(func() bool { return true }), nil, NativeDelivery{FS: fs, Sharer: &recordingSharer{}})

	_, err := sink.ExportTextFile(context.Background(), "0\nSECTION\n", "dxf")
	require.NoError(t, err)
	require.Len(t, fs.writes, 1)
	assert.Equal(t, "0\nSECTION\n", fs.writes[0].Data)
	assert.Equal(t, EncodingUTF8, fs.writes[0].Encoding)
}

func TestNativeErrorsReturnedUnmodified(t *testing.T) {
	writeErr := errors.New("disk full")
	fs := &recordingFS{writeErr: writeErr}
	sh := &recordingSharer{}
	sink := NewSink(PlatformFunc(func() bool { return true }), nil, NativeDelivery{FS: fs, Sharer: sh})

	_, err := sink.ExportPDFFile(context.Background(), []byte("x"))
	assert.Same(t, writeErr, err)
	assert.Empty(t, fs.uriCalls)
	assert.Empty(t, sh.shares)

	uriErr := errors.New("no uri")
	fs = &recordingFS{uriErr: uriErr}
	sink = NewSink(PlatformFunc(func() bool { return true }), nil, NativeDelivery{FS: fs, Sharer: sh})
	_, err = sink.ExportTextFile(context.Background(), "x", "svg")
	assert.Same(t, uriErr, err)
	assert.Empty(t, sh.shares)

	shareErr := errors.New("share cancelled")
	sink = NewSink(PlatformFunc(func() bool { return true }), nil, NativeDelivery{FS: &recordingFS{}, Sharer: &recordingSharer{err: shareErr}})
	_, err = sink.ExportTextFile(context.Background(), "x", "svg")
	assert.Same(t, shareErr, err)
}

func TestLocalFilesystemRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fs := NewLocalFilesystem(filepath.Join(dir, "docs"), "")
	ctx := context.Background()

	err := fs.WriteFile(ctx, WriteFileOptions{
		Path:      "a.pdf",
		Data:      base64.StdEncoding.EncodeToString([]byte{1, 2, 3}),
		Directory: Documents,
		Recursive: true,
	})
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(dir, "docs", "a.pdf"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)

	uri, err := fs.GetURI(ctx, GetURIOptions{Path: "a.pdf", Directory: Documents})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "file://"), uri)
	assert.True(t, strings.HasSuffix(uri, "/docs/a.pdf"), uri)
}

func TestLocalFilesystemBaseURLAndEscapes(t *testing.T) {
	dir := t.TempDir()
	fs := NewLocalFilesystem(dir, "http://localhost:8080/api/documents/")
	ctx := context.Background()

	require.NoError(t, fs.WriteFile(ctx, WriteFileOptions{Path: "../../x.svg", Data: "<svg/>", Directory: Documents, Encoding: EncodingUTF8}))
	_, err := os.Stat(filepath.Join(dir, "x.svg"))
	require.NoError(t, err)

	uri, err := fs.GetURI(ctx, GetURIOptions{Path: "x.svg", Directory: Documents})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/documents/x.svg", uri)

	err = fs.WriteFile(ctx, WriteFileOptions{Path: "x", Directory: "CACHE", Encoding: EncodingUTF8})
	assert.ErrorIs(t, err, ErrUnknownDirectory)
}

func TestCommandSharerRequiresCommand(t *testing.T) {
	err := CommandSharer{}.Share(context.Background(), ShareOptions{URL: "u"})
	assert.Error(t, err)
	assert.Equal(t, []string{"xdg-open", "${url}"}, ParseCommand("xdg-open  ${url}").Args)
}

func TestLogSharerNeverFails(t *testing.T) {
	assert.NoError(t, LogSharer{}.Share(context.Background(), ShareOptions{Title: "t"}))
}
