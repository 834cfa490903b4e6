// Package arxiv retrieves a paper's LaTeX source from arxiv.org and
// unpacks it into a local paper directory. It is a thin I/O collaborator;
// all parsing happens in texindex.
package arxiv

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DefaultBaseURL is the arXiv source endpoint.
const DefaultBaseURL = "https://arxiv.org"

// userAgent is required by arXiv; anonymous requests are rejected.
const userAgent = "Mozilla/5.0 (arxdex reading assistant)"

var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`arxiv\.org/(?:abs|src|pdf)/(\d+\.\d+)`),
	regexp.MustCompile(`arxiv\.org/(?:abs|src|pdf)/([a-z-]+/\d+)`),
	regexp.MustCompile(`^(\d+\.\d+)$`),
	regexp.MustCompile(`^([a-z-]+/\d+)$`),
}

// ParseID extracts an arXiv identifier from a raw ID or an abs/src/pdf URL.
func ParseID(identifier string) (string, error) {
	s := strings.TrimSpace(identifier)
	for _, p := range idPatterns {
		if m := p.FindStringSubmatch(s); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("cannot parse arXiv ID from %q", identifier)
}

// PaperDirName converts an ID to a filesystem-safe directory name.
// Old-style IDs contain a slash (hep-th/9901001).
func PaperDirName(id string) string {
	return strings.ReplaceAll(id, "/", "_")
}

// Client downloads and unpacks arXiv source archives.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client against baseURL (DefaultBaseURL in
// production; tests point it at a local server).
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 2 * time.Minute},
	}
}

// Fetch downloads the source archive for id into
// <outputDir>/<paper>/source.tar.gz and returns the archive path.
func (c *Client) Fetch(id, outputDir string) (string, error) {
	paperDir := filepath.Join(outputDir, PaperDirName(id))
	if err := os.MkdirAll(paperDir, 0o755); err != nil {
		return "", err
	}

	url := c.baseURL + "/src/" + id
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: status %s", url, resp.Status)
	}

	archivePath := filepath.Join(paperDir, "source.tar.gz")
	f, err := os.Create(archivePath)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("saving archive: %w", err)
	}
	return archivePath, nil
}

// Extract unpacks an archive into <paperDir>/src. arXiv serves three
// shapes: a gzipped tarball, a single gzipped .tex file, or rarely a
// plain .tex file. All three land as files under src/.
func Extract(archivePath, paperDir string) (string, error) {
	srcDir := filepath.Join(paperDir, "src")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		return "", err
	}

	data, err := os.ReadFile(archivePath)
	if err != nil {
		return "", err
	}

	if err := extractTarGz(data, srcDir); err == nil {
		return srcDir, nil
	}
	if content, err := gunzip(data); err == nil {
		if err := os.WriteFile(filepath.Join(srcDir, "main.tex"), content, 0o644); err != nil {
			return "", err
		}
		return srcDir, nil
	}
	// Not compressed at all; assume a bare tex file.
	if err := os.WriteFile(filepath.Join(srcDir, "main.tex"), data, 0o644); err != nil {
		return "", err
	}
	return srcDir, nil
}

func extractTarGz(data []byte, dest string) error {
	gz, err := gzip.NewReader(strings.NewReader(string(data)))
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	extracted := 0
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		name := filepath.Clean(filepath.FromSlash(hdr.Name))
		if strings.HasPrefix(name, "..") || filepath.IsAbs(name) {
			continue
		}
		target := filepath.Join(dest, name)
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			out, err := os.Create(target)
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return err
			}
			out.Close()
			extracted++
		}
	}
	if extracted == 0 {
		return errors.New("empty tarball")
	}
	return nil
}

func gunzip(data []byte) ([]byte, error) {
	gz, err := gzip.NewReader(strings.NewReader(string(data)))
	if err != nil {
		return nil, err
	}
	defer gz.Close()
	return io.ReadAll(gz)
}

// WriteMetadata records the ID and resolved main file so later runs can
// break root ties without rescanning.
func WriteMetadata(paperDir, id, mainTex string) error {
	content := fmt.Sprintf("arxiv_id: %s\nmain_tex: %s\n", id, mainTex)
	return os.WriteFile(filepath.Join(paperDir, "metadata.txt"), []byte(content), 0o644)
}

// ReadMetadata returns the declared main tex path from metadata.txt,
// relative to the paper dir. Missing metadata is not an error.
func ReadMetadata(paperDir string) (id, mainTex string) {
	data, err := os.ReadFile(filepath.Join(paperDir, "metadata.txt"))
	if err != nil {
		return "", ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		if v, ok := strings.CutPrefix(line, "arxiv_id:"); ok {
			id = strings.TrimSpace(v)
		}
		if v, ok := strings.CutPrefix(line, "main_tex:"); ok {
			mainTex = strings.TrimSpace(v)
		}
	}
	return id, mainTex
}
