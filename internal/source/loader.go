package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrDataUnavailable marks a source that is missing, unreachable, or corrupt.
// It is fatal for the run: the caller surfaces the message and stops rendering.
var ErrDataUnavailable = errors.New("data source unavailable")

const fetchTimeout = 30 * time.Second

// Load reads the dataset at src, which may be a local path or an HTTP(S) URL.
// The format is chosen by file extension: .csv (default), .xlsx, .parquet.
func Load(ctx context.Context, src string) (*RawTable, error) {
	data, name, err := readSource(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, err)
	}

	var table *RawTable
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		table, err = parseXLSX(data)
	case ".parquet":
		table, err = parseParquet(data)
	default:
		table, err = parseCSV(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %s", ErrDataUnavailable, name, err)
	}
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no data rows", ErrDataUnavailable, src)
	}
	return table, nil
}

// readSource returns the raw bytes and a name usable for extension sniffing.
func readSource(ctx context.Context, src string) ([]byte, string, error) {
	if u, err := url.Parse(src); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		data, err := fetch(ctx, src)
		if err != nil {
			return nil, "", err
		}
		return data, u.Path, nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, "", err
	}
	return data, src, nil
}

func fetch(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: status %s", rawURL, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
