// Package supplier скачивает и разбирает прайс поставщика с остатками.
package supplier

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
	"github.com/athebyme/gomarket-stocksync/pkg/interfaces"
)

const (
	// DefaultURL архив с остатками timeworld
	DefaultURL = "https://timeworld.ru/upload/files/ostatki.zip"
	// DefaultFileName имя таблицы внутри архива
	DefaultFileName = "ostatki.xls"
	// DefaultHeaderRow строка заголовков (с нуля), выше нее шапка прайса
	DefaultHeaderRow = 17

	maxArchiveSize = 256 << 20
)

var (
	ErrSheetNotFound = fmt.Errorf("%w: spreadsheet not found in archive", models.ErrParse)
	ErrArchive       = fmt.Errorf("%w: archive", models.ErrParse)
	ErrFeedTooLarge  = fmt.Errorf("%w: feed exceeds size limit", ErrArchive)
)

// FetchError неуспешный HTTP статус при скачивании прайса
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("supplier feed %s: unexpected status %d", e.URL, e.StatusCode)
}

// HTTPStatus возвращает код ответа
func (e *FetchError) HTTPStatus() int {
	return e.StatusCode
}

// Config настройки скачивания прайса
type Config struct {
	URL        string
	FileName   string
	ExtractDir string
	// HeaderRow nil означает DefaultHeaderRow, явный 0 соответствует первой строке
	HeaderRow *int
	Columns   models.Columns
}

func (c *Config) applyDefaults() {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.FileName == "" {
		c.FileName = DefaultFileName
	}
	if c.ExtractDir == "" {
		c.ExtractDir = "."
	}
	if c.HeaderRow == nil {
		row := DefaultHeaderRow
		c.HeaderRow = &row
	}
	if c.Columns == (models.Columns{}) {
		c.Columns = models.DefaultColumns
	}
}

// Fetcher скачивает архив, распаковывает таблицу, читает ее и удаляет файл
type Fetcher struct {
	cfg       Config
	headerRow int
	maxSize   int64
	client    *http.Client
	reader    SheetReader
	logger    interfaces.LoggerPort
}

// NewFetcher создает Fetcher. Если client nil, используется http.DefaultClient.
func NewFetcher(cfg Config, client *http.Client, reader SheetReader, logger interfaces.LoggerPort) *Fetcher {
	cfg.applyDefaults()
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{
		cfg:       cfg,
		headerRow: *cfg.HeaderRow,
		maxSize:   maxArchiveSize,
		client:    client,
		reader:    reader,
		logger:    logger,
	}
}

// Fetch возвращает записи прайса. Распакованный файл удаляется на любом пути выхода.
func (f *Fetcher) Fetch(ctx context.Context) ([]models.SupplierRecord, error) {
	archive, err := f.download(ctx)
	if err != nil {
		return nil, err
	}

	path, err := f.extract(archive)
	if err != nil {
		return nil, err
	}
	defer f.remove(ctx, path)

	rows, err := f.reader.ReadRows(path)
	if err != nil {
		return nil, fmt.Errorf("read supplier sheet: %w", err)
	}

	records, err := RecordsFromRows(rows, f.headerRow, f.cfg.Columns)
	if err != nil {
		return nil, fmt.Errorf("parse supplier sheet: %w", err)
	}

	f.logger.InfoWithContext(ctx, "Прайс поставщика загружен",
		interfaces.LogField{Key: "records", Value: len(records)},
		interfaces.LogField{Key: "url", Value: f.cfg.URL},
	)

	return records, nil
}

func (f *Fetcher) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download supplier feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: f.cfg.URL, StatusCode: resp.StatusCode}
	}

	// лишний байт отличает файл ровно в лимит от обрезанного
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read supplier feed: %w", err)
	}
	if int64(len(data)) > f.maxSize {
		return nil, fmt.Errorf("%w: more than %d bytes from %s", ErrFeedTooLarge, f.maxSize, f.cfg.URL)
	}
	return data, nil
}

// extract пишет таблицу из архива в ExtractDir и возвращает путь к файлу
func (f *Fetcher) extract(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrArchive, err)
	}

	member, err := f.findSheet(zr)
	if err != nil {
		return "", err
	}

	src, err := member.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", ErrArchive, member.Name, err)
	}
	defer src.Close()

	// только базовое имя, пути внутри архива игнорируются
	path := filepath.Join(f.cfg.ExtractDir, filepath.Base(member.Name))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("%w: extract %s: %w", ErrArchive, member.Name, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	return path, nil
}

func (f *Fetcher) findSheet(zr *zip.Reader) (*zip.File, error) {
	var candidates []*zip.File
	for _, file := range zr.File {
		if file.FileInfo().IsDir() {
			continue
		}
		if filepath.Base(file.Name) == f.cfg.FileName {
			return file, nil
		}
		if strings.EqualFold(filepath.Ext(file.Name), ".xls") {
			candidates = append(candidates, file)
		}
	}

	if len(candidates) == 1 {
		return candidates[0], nil
	}
	return nil, fmt.Errorf("%w: want %s, found %d .xls files", ErrSheetNotFound, f.cfg.FileName, len(candidates))
}

func (f *Fetcher) remove(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		f.logger.WarnWithContext(ctx, "Не удалось удалить распакованный прайс",
			interfaces.LogField{Key: "path", Value: path},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
	}
}
