package upload

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/gin-gonic/gin"

	"progresslog-api/internal/shared/apperr"
	"progresslog-api/internal/shared/metrics"
	"progresslog-api/internal/shared/server/respond"
	"progresslog-api/internal/shared/storage/object/local"
	"progresslog-api/internal/shared/telemetry"
	"progresslog-api/internal/shared/util"
)

const (
	DefaultMaxFileSize int64 = 10 << 20
	DefaultMaxFiles          = 5

	maxFieldSize = 1 << 20
	sniffLen     = 3072

	msgInvalidType = "Invalid file type. Allowed types: images, videos, PDF, and Office documents."
	msgTooLarge    = "File size exceeds maximum limit"
)

// File is an accepted upload as stored on disk.
type File struct {
	FieldName    string `json:"fieldName"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	StorageName  string `json:"storageName"`
	Path         string `json:"-"`
	URL          string `json:"url"`
}

type Options struct {
	Dir         string
	URLPrefix   string
	MaxFileSize int64
	MaxFiles    int
	Sniff       bool
	Metrics     *metrics.Metrics
}

// Intake streams multipart uploads into a single local directory.
type Intake struct {
	store       *local.Store
	urlPrefix   string
	maxFileSize int64
	maxFiles    int
	sniff       bool
	metrics     *metrics.Metrics
}

// New creates the upload directory and returns an intake writing into it.
func New(opts Options) (*Intake, error) {
	store, err := local.New(opts.Dir)
	if err != nil {
		return nil, err
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = DefaultMaxFiles
	}
	if opts.URLPrefix == "" {
		opts.URLPrefix = "/uploads"
	}
	return &Intake{
		store:       store,
		urlPrefix:   opts.URLPrefix,
		maxFileSize: opts.MaxFileSize,
		maxFiles:    opts.MaxFiles,
		sniff:       opts.Sniff,
		metrics:     opts.Metrics,
	}, nil
}

// Store is the directory files are written to.
func (in *Intake) Store() *local.Store { return in.store }

// Dir is the upload root on disk.
func (in *Intake) Dir() string { return in.store.Root() }

// URLPrefix is the public path the upload root is served under.
func (in *Intake) URLPrefix() string { return in.urlPrefix }

// Single accepts at most one file under field.
func (in *Intake) Single(field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		in.handle(c, field, 1, true)
	}
}

// Multiple accepts up to maxCount files under field; maxCount <= 0 uses the
// configured default.
func (in *Intake) Multiple(field string, maxCount int) gin.HandlerFunc {
	if maxCount <= 0 {
		maxCount = in.maxFiles
	}
	return func(c *gin.Context) {
		in.handle(c, field, maxCount, false)
	}
}

func (in *Intake) handle(c *gin.Context, field string, maxCount int, single bool) {
	reader, err := c.Request.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		c.Next()
		return
	}
	if err != nil {
		in.reject(c, nil, uploadError(err))
		return
	}

	ctx := c.Request.Context()
	var stored []File
	fields := url.Values{}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			in.reject(c, stored, uploadError(err))
			return
		}

		if part.FileName() == "" {
			value, err := readField(part)
			part.Close()
			if err != nil {
				in.reject(c, stored, uploadError(err))
				return
			}
			fields.Add(part.FormName(), value)
			continue
		}

		if part.FormName() != field {
			part.Close()
			in.reject(c, stored, uploadError(errors.New("Unexpected field")))
			return
		}

		if len(stored) == maxCount {
			in.reject(c, stored, in.overflow(part, maxCount, single))
			return
		}

		f, err := in.store1(ctx, field, part)
		part.Close()
		if err != nil {
			in.reject(c, stored, err)
			return
		}
		stored = append(stored, f)
	}

	c.Request.PostForm = fields
	c.Request.MultipartForm = &multipart.Form{Value: fields, File: map[string][]*multipart.FileHeader{}}

	for _, f := range stored {
		in.metrics.FileStored(f.Size)
	}
	if single {
		if len(stored) == 1 {
			c.Set(fileKey, stored[0])
		}
	} else {
		c.Set(filesKey, stored)
	}
	c.Set(fieldsKey, fields)
	c.Next()
}

// overflow classifies a part beyond maxCount, keeping type and size ahead of count.
func (in *Intake) overflow(part *multipart.Part, maxCount int, single bool) *apperr.Error {
	defer part.Close()
	if !AllowedType(part.Header.Get("Content-Type")) {
		return apperr.New(apperr.KindInvalidFileType, msgInvalidType)
	}
	n, err := io.Copy(io.Discard, io.LimitReader(part, in.maxFileSize+1))
	if err != nil {
		return uploadError(err)
	}
	if n > in.maxFileSize {
		return apperr.New(apperr.KindFileTooLarge, msgTooLarge)
	}
	if single {
		return uploadError(errors.New("Unexpected field"))
	}
	return apperr.New(apperr.KindTooManyFiles, fmt.Sprintf("Maximum %d files allowed", maxCount))
}

func (in *Intake) store1(ctx context.Context, field string, part *multipart.Part) (File, error) {
	declared := mediaType(part.Header.Get("Content-Type"))
	if !AllowedType(declared) {
		return File{}, apperr.New(apperr.KindInvalidFileType, msgInvalidType)
	}

	var body io.Reader = part
	if in.sniff {
		br := bufio.NewReaderSize(part, sniffLen)
		head, err := br.Peek(sniffLen)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
			return File{}, uploadError(err)
		}
		if !contentMatches(declared, head) {
			return File{}, apperr.New(apperr.KindInvalidFileType, msgInvalidType)
		}
		body = br
	}

	name := StorageName(field, part.FileName())
	size, err := in.store.Put(ctx, name, &limitReader{r: body, remaining: in.maxFileSize})
	if err != nil {
		if errors.Is(err, errTooLarge) {
			return File{}, apperr.New(apperr.KindFileTooLarge, msgTooLarge)
		}
		return File{}, uploadError(err)
	}
	full, _ := in.store.Path(name)
	return File{
		FieldName:    field,
		OriginalName: part.FileName(),
		MimeType:     declared,
		Size:         size,
		StorageName:  name,
		Path:         full,
		URL:          path.Join(in.urlPrefix, name),
	}, nil
}

// reject removes everything stored so far and writes the error envelope.
func (in *Intake) reject(c *gin.Context, stored []File, err error) {
	in.Discard(c.Request.Context(), stored)

	e, ok := apperr.As(err)
	if !ok {
		e = uploadError(err)
	}
	in.metrics.UploadRejected(string(e.Kind))
	telemetry.FromContext(c).Warn("upload.rejected", map[string]any{
		"code":  string(e.Kind),
		"cause": errorCause(e),
		"files": len(stored),
	})
	respond.Fail(c, e, false)
}

// Discard deletes stored files; used when a later step fails after intake.
func (in *Intake) Discard(ctx context.Context, files []File) {
	ctx = context.WithoutCancel(ctx)
	for _, f := range files {
		_ = in.store.Remove(ctx, f.StorageName)
	}
}

// StorageName builds "<field>-<unix nanos>-<random><ext>".
func StorageName(field, original string) string {
	return fmt.Sprintf("%s-%d-%d%s", field, time.Now().UnixNano(), rand.Int64N(1e9), util.FileExt(original))
}

func uploadError(cause error) *apperr.Error {
	return apperr.Wrap(apperr.KindUpload, "Upload error: "+cause.Error(), cause)
}

func errorCause(e *apperr.Error) string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Message
}

func readField(part *multipart.Part) (string, error) {
	b, err := io.ReadAll(io.LimitReader(part, maxFieldSize+1))
	if err != nil {
		return "", err
	}
	if len(b) > maxFieldSize {
		return "", errors.New("Field value too long")
	}
	return string(b), nil
}

var errTooLarge = errors.New("file too large")

// limitReader fails with errTooLarge once more than remaining bytes are read.
type limitReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return 0, errTooLarge
	}
	return n, err
}
