package service

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/lshigami/Quokka/config"
	"github.com/rs/zerolog/log"
)

// FileFetcher resolves a material file reference to a local path. Remote
// references are downloaded to a temporary file the caller must delete;
// IsTemporary reports whether cleanup is needed.
type FileFetcher interface {
	FetchToLocalFile(fileRef string) (localPath string, temporary bool, err error)
	DeleteLocalFile(localPath string)
}

type localFileFetcher struct {
	uploadsDir string
	httpClient *http.Client
}

func NewFileFetcher(cfg *config.Config) FileFetcher {
	return &localFileFetcher{
		uploadsDir: cfg.UploadsDir,
		httpClient: http.DefaultClient,
	}
}

// FetchToLocalFile supports three reference shapes: an http(s) URL downloaded
// to a temp file, an absolute path used as-is, and a path resolved against the
// uploads root.
func (f *localFileFetcher) FetchToLocalFile(fileRef string) (string, bool, error) {
	if strings.HasPrefix(fileRef, "http://") || strings.HasPrefix(fileRef, "https://") {
		path, err := f.download(fileRef)
		return path, true, err
	}
	if filepath.IsAbs(fileRef) {
		return fileRef, false, nil
	}
	return filepath.Join(f.uploadsDir, fileRef), false, nil
}

func (f *localFileFetcher) DeleteLocalFile(localPath string) {
	if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", localPath).Msg("Failed to delete temporary file")
	}
}

// download streams the remote blob to a temp file that keeps the original
// extension so the extraction dispatch still works.
func (f *localFileFetcher) download(url string) (string, error) {
	resp, err := f.httpClient.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch material from URL %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch material (status %d) from URL %s", resp.StatusCode, url)
	}

	ext := filepath.Ext(strings.SplitN(filepath.Base(url), "?", 2)[0])
	tmp, err := os.CreateTemp("", "material-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to download material from %s: %w", url, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to finalize temp file: %w", err)
	}

	log.Debug().Str("url", url).Str("path", tmp.Name()).Msg("Downloaded remote material")
	return tmp.Name(), nil
}
