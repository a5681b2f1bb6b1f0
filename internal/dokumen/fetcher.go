package dokumen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// batas ukuran unduhan foto, melindungi renderer dari berkas liar.
const maksUkuranGambar = 10 << 20

// PengambilGambar mengambil isi gambar dari sebuah ref (path /uploads/... atau
// URL absolut).
type PengambilGambar interface {
	Ambil(ctx context.Context, ref string) ([]byte, error)
}

// HTTPPengambil mengambil gambar lewat HTTP. Ref relatif diresolusikan
// terhadap base URL aplikasi, sama seperti yang tersimpan di database.
type HTTPPengambil struct {
	client  *http.Client
	baseURL string
}

func NewHTTPPengambil(baseURL string) *HTTPPengambil {
	return &HTTPPengambil{
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (p *HTTPPengambil) Ambil(ctx context.Context, ref string) ([]byte, error) {
	url := ref
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		if !strings.HasPrefix(ref, "/") {
			ref = "/" + ref
		}
		url = p.baseURL + ref
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dokumen: gambar %s mengembalikan status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maksUkuranGambar))
	if err != nil {
		return nil, err
	}
	return data, nil
}
