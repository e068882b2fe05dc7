package ginserver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	photoFilesField         = "fotosFiles"
	maxPhotoFiles           = 8
	maxPhotoSizeBytes int64 = 5 << 20
	// multipart bodies carry up to maxPhotoFiles photos plus the form fields.
	maxAdminBodyBytes = maxPhotoFiles*maxPhotoSizeBytes + maxJSONBodyBytes
)

// PhotoUploader stores an uploaded photo and returns the URL clients use to fetch it.
type PhotoUploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

func sanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		name = "foto"
	}
	return unsafeFileChars.ReplaceAllString(name, "_")
}

// photoObjectName prefixes the sanitized client name with the upload time in
// milliseconds and the file's position in the form, so repeated client names
// in one request get distinct keys.
func photoObjectName(now time.Time, index int, original string) string {
	return fmt.Sprintf("%d_%d_%s", now.UnixMilli(), index, sanitizeFileName(original))
}

func isAllowedImageType(contentType string) bool {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/webp", "image/gif":
		return true
	default:
		return false
	}
}

type photoFile struct {
	name        string
	contentType string
	data        []byte
}

// readPhotos checks every file before anything is stored so a bad file
// rejects the whole form.
func readPhotos(files []*multipart.FileHeader) ([]photoFile, *FieldErrors) {
	if len(files) == 0 {
		return nil, nil
	}
	invalid := func(msg string) *FieldErrors {
		out := newFieldErrors(msgInvalidData)
		out.add("fotos", msg)
		return out
	}
	if len(files) > maxPhotoFiles {
		return nil, invalid(fmt.Sprintf("Envie no maximo %d fotos.", maxPhotoFiles))
	}
	out := make([]photoFile, 0, len(files))
	for _, header := range files {
		if header.Size > maxPhotoSizeBytes {
			return nil, invalid(fmt.Sprintf("Cada foto deve ter no maximo %d MB.", maxPhotoSizeBytes>>20))
		}
		file, err := header.Open()
		if err != nil {
			return nil, invalid("Nao foi possivel ler a foto enviada.")
		}
		data, err := io.ReadAll(io.LimitReader(file, maxPhotoSizeBytes+1))
		file.Close()
		if err != nil {
			return nil, invalid("Nao foi possivel ler a foto enviada.")
		}
		if len(data) == 0 {
			return nil, invalid("A foto enviada esta vazia.")
		}
		if int64(len(data)) > maxPhotoSizeBytes {
			return nil, invalid(fmt.Sprintf("Cada foto deve ter no maximo %d MB.", maxPhotoSizeBytes>>20))
		}
		contentType := http.DetectContentType(data)
		if !isAllowedImageType(contentType) {
			return nil, invalid("Envie apenas imagens JPEG, PNG, WEBP ou GIF.")
		}
		out = append(out, photoFile{name: header.Filename, contentType: contentType, data: data})
	}
	return out, nil
}

func storePhotos(ctx context.Context, uploader PhotoUploader, now time.Time, photos []photoFile) ([]string, error) {
	urls := make([]string, 0, len(photos))
	for i, p := range photos {
		url, err := uploader.Upload(ctx, photoObjectName(now, i, p.name), bytes.NewReader(p.data), p.contentType)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", p.name, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}
