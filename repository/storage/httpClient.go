package storagerepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"gamehub/util/httpx"

	"github.com/google/uuid"
)

type httpRepo struct {
	cloudName    string
	uploadPreset string
	client       *http.Client
}

// NewHTTP talks to a Cloudinary-compatible unsigned upload endpoint.
func NewHTTP(cloudName, uploadPreset string) Repo {
	return &httpRepo{cloudName: cloudName, uploadPreset: uploadPreset, client: httpx.Client()}
}

func (r *httpRepo) Upload(ctx context.Context, filename string, contentType string, body io.Reader) (string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		defer pw.Close()
		_ = mw.WriteField("upload_preset", r.uploadPreset)
		_ = mw.WriteField("public_id", uuid.NewString())
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, body); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	url := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/auto/upload", r.cloudName)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("storage upload failed: %s", resp.Status)
	}

	var out struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.SecureURL == "" && out.URL == "" {
		return "", errors.New("storage: empty file url in response")
	}
	if out.SecureURL != "" {
		return out.SecureURL, nil
	}
	return out.URL, nil
}
