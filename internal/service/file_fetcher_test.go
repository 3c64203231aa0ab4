package service

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestFetcher(uploadsDir string) *localFileFetcher {
	return &localFileFetcher{uploadsDir: uploadsDir, httpClient: http.DefaultClient}
}

func TestFetchToLocalFileRelativePath(t *testing.T) {
	f := newTestFetcher("/srv/uploads")

	path, temporary, err := f.FetchToLocalFile("course-1/syllabus.pdf")
	if err != nil {
		t.Fatalf("FetchToLocalFile: %v", err)
	}
	if temporary {
		t.Fatalf("local file flagged temporary")
	}
	if path != filepath.Join("/srv/uploads", "course-1/syllabus.pdf") {
		t.Fatalf("resolved path: got %q", path)
	}
}

func TestFetchToLocalFileAbsolutePath(t *testing.T) {
	f := newTestFetcher("/srv/uploads")

	path, temporary, err := f.FetchToLocalFile("/data/materials/intro.docx")
	if err != nil {
		t.Fatalf("FetchToLocalFile: %v", err)
	}
	if temporary || path != "/data/materials/intro.docx" {
		t.Fatalf("absolute path handling: path=%q temporary=%v", path, temporary)
	}
}

func TestFetchToLocalFileDownloadsRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("remote material body"))
	}))
	defer server.Close()

	f := newTestFetcher(t.TempDir())
	path, temporary, err := f.FetchToLocalFile(server.URL + "/files/lecture.pdf?token=abc")
	if err != nil {
		t.Fatalf("FetchToLocalFile: %v", err)
	}
	defer os.Remove(path)

	if !temporary {
		t.Fatalf("downloaded file not flagged temporary")
	}
	// The extension survives so the extraction dispatch still works.
	if !strings.HasSuffix(path, ".pdf") {
		t.Fatalf("extension lost: %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "remote material body" {
		t.Fatalf("downloaded content: got %q", data)
	}
}

func TestFetchToLocalFileRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := newTestFetcher(t.TempDir())
	if _, _, err := f.FetchToLocalFile(server.URL + "/missing.pdf"); err == nil {
		t.Fatalf("want error for missing remote file")
	}
}

func TestDeleteLocalFile(t *testing.T) {
	f := newTestFetcher(t.TempDir())
	path := filepath.Join(t.TempDir(), "temp.pdf")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f.DeleteLocalFile(path)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file not deleted: %v", err)
	}
	// Deleting again is a no-op, not a panic.
	f.DeleteLocalFile(path)
}
