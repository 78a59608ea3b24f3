package supplier

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/athebyme/gomarket-stocksync/internal/adapters/logger"
	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubReader проверяет, что файл распакован, и отдает заранее заданные строки
type stubReader struct {
	rows    [][]string
	err     error
	content []byte
	path    string
}

func (s *stubReader) ReadRows(path string) ([][]string, error) {
	s.path = path
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s.content = data
	return s.rows, s.err
}

func zipArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func feedServer(t *testing.T, status int, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func sheetRows() [][]string {
	rows := make([][]string, DefaultHeaderRow)
	rows[0] = []string{"Остатки на складе"}
	rows = append(rows,
		[]string{"Код", "Наименование", "Количество", "Цена"},
		[]string{"1001", "Casio A", "5", "5'990.00 руб."},
		[]string{"1002", "Casio B", ">10", "199.99 руб."},
		[]string{"", "", "", ""},
		[]string{"1003.0", "Casio C", "1"},
	)
	return rows
}

func TestFetcher_Fetch(t *testing.T) {
	dir := t.TempDir()
	srv := feedServer(t, http.StatusOK, zipArchive(t, map[string]string{"ostatki.xls": "xls-bytes"}))
	reader := &stubReader{rows: sheetRows()}

	f := NewFetcher(Config{URL: srv.URL, ExtractDir: dir}, srv.Client(), reader, logger.NewNopLogger())

	records, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "ostatki.xls"), reader.path)
	assert.Equal(t, "xls-bytes", string(reader.content))
	assert.NoFileExists(t, reader.path)

	require.Len(t, records, 3)
	assert.Equal(t, "1001", records[0].Code)
	assert.Equal(t, "5", records[0].Quantity)
	assert.Equal(t, "5'990.00 руб.", records[0].Price)
	assert.Equal(t, "Casio A", records[0].Fields["Наименование"])
	assert.Equal(t, ">10", records[1].Quantity)
	assert.Equal(t, "1003", records[2].Code)
	assert.Equal(t, "", records[2].Price)
	assert.True(t, records[2].HasPrice)
}

func TestFetcher_RemovesFileWhenParsingFails(t *testing.T) {
	dir := t.TempDir()
	srv := feedServer(t, http.StatusOK, zipArchive(t, map[string]string{"ostatki.xls": "broken"}))
	reader := &stubReader{err: errors.New("corrupt workbook")}

	f := NewFetcher(Config{URL: srv.URL, ExtractDir: dir}, srv.Client(), reader, logger.NewNopLogger())

	_, err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "ostatki.xls"))
}

func TestFetcher_RemovesFileWhenHeaderMissing(t *testing.T) {
	dir := t.TempDir()
	srv := feedServer(t, http.StatusOK, zipArchive(t, map[string]string{"ostatki.xls": "x"}))
	reader := &stubReader{rows: [][]string{{"Код"}}}

	f := NewFetcher(Config{URL: srv.URL, ExtractDir: dir}, srv.Client(), reader, logger.NewNopLogger())

	_, err := f.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrHeaderNotFound)
	assert.ErrorIs(t, err, models.ErrParse)
	assert.NoFileExists(t, filepath.Join(dir, "ostatki.xls"))
}

func TestFetcher_NonSuccessStatus(t *testing.T) {
	srv := feedServer(t, http.StatusNotFound, nil)

	f := NewFetcher(Config{URL: srv.URL, ExtractDir: t.TempDir()}, srv.Client(), &stubReader{}, logger.NewNopLogger())

	_, err := f.Fetch(context.Background())
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.HTTPStatus())
}

func TestFetcher_SingleXLSWithOtherName(t *testing.T) {
	dir := t.TempDir()
	srv := feedServer(t, http.StatusOK, zipArchive(t, map[string]string{
		"nested/remains-2024.xls": "x",
		"readme.txt":              "hello",
	}))
	reader := &stubReader{rows: sheetRows()}

	f := NewFetcher(Config{URL: srv.URL, ExtractDir: dir}, srv.Client(), reader, logger.NewNopLogger())

	_, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "remains-2024.xls"), reader.path)
}

func TestFetcher_SheetNotFound(t *testing.T) {
	srv := feedServer(t, http.StatusOK, zipArchive(t, map[string]string{"a.xls": "x", "b.xls": "y"}))

	f := NewFetcher(Config{URL: srv.URL, ExtractDir: t.TempDir()}, srv.Client(), &stubReader{}, logger.NewNopLogger())

	_, err := f.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestFetcher_NotAZip(t *testing.T) {
	srv := feedServer(t, http.StatusOK, []byte("<html>maintenance</html>"))

	f := NewFetcher(Config{URL: srv.URL, ExtractDir: t.TempDir()}, srv.Client(), &stubReader{}, logger.NewNopLogger())

	_, err := f.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrArchive)
}

func TestFetcher_HeaderRowDefault(t *testing.T) {
	f := NewFetcher(Config{URL: "http://feed"}, nil, &stubReader{}, logger.NewNopLogger())
	assert.Equal(t, DefaultHeaderRow, f.headerRow)
}

func TestFetcher_ExplicitZeroHeaderRow(t *testing.T) {
	dir := t.TempDir()
	srv := feedServer(t, http.StatusOK, zipArchive(t, map[string]string{"ostatki.xls": "x"}))
	reader := &stubReader{rows: [][]string{
		{"Код", "Количество", "Цена"},
		{"7", ">10", "100.00 руб."},
	}}

	headerRow := 0
	f := NewFetcher(Config{URL: srv.URL, ExtractDir: dir, HeaderRow: &headerRow}, srv.Client(), reader, logger.NewNopLogger())

	records, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "7", records[0].Code)
	assert.Equal(t, ">10", records[0].Quantity)
}

func TestFetcher_FeedTooLarge(t *testing.T) {
	archive := zipArchive(t, map[string]string{"ostatki.xls": "x"})
	srv := feedServer(t, http.StatusOK, archive)

	f := NewFetcher(Config{URL: srv.URL, ExtractDir: t.TempDir()}, srv.Client(), &stubReader{}, logger.NewNopLogger())
	f.maxSize = int64(len(archive)) - 1

	_, err := f.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrFeedTooLarge)
	assert.ErrorIs(t, err, ErrArchive)
	assert.ErrorIs(t, err, models.ErrParse)
}

func TestFetcher_FeedAtSizeLimit(t *testing.T) {
	archive := zipArchive(t, map[string]string{"ostatki.xls": "x"})
	srv := feedServer(t, http.StatusOK, archive)

	f := NewFetcher(Config{URL: srv.URL, ExtractDir: t.TempDir()}, srv.Client(), &stubReader{}, logger.NewNopLogger())
	f.maxSize = int64(len(archive))

	data, err := f.download(context.Background())
	require.NoError(t, err)
	assert.Equal(t, archive, data)
}
