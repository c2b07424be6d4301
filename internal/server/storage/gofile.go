package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
)

const gofileAPIBase = "https://api.gofile.io"

// GofileStorage uploads files to the Gofile hosting service. Each upload is
// routed to a store server picked by the Gofile API and yields a public
// download page.
type GofileStorage struct {
	token   string
	apiBase string
	client  *http.Client

	// uploadURL builds the upload endpoint for a store server; swapped in
	// tests.
	uploadURL func(server string) string
}

func NewGofileStorage(token string) *GofileStorage {
	return &GofileStorage{
		token:   token,
		apiBase: gofileAPIBase,
		client:  &http.Client{},
		uploadURL: func(server string) string {
			return fmt.Sprintf("https://%s.gofile.io/contents/uploadfile", server)
		},
	}
}

type gofileResponse struct {
	Status string `json:"status"`
	Data   struct {
		Servers []struct {
			Name string `json:"name"`
		} `json:"servers"`
		DownloadPage string `json:"downloadPage"`
	} `json:"data"`
}

func (g *GofileStorage) pickServer(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiBase+"/servers", nil)
	if err != nil {
		return "", err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("listing gofile servers: %w", err)
	}
	defer resp.Body.Close()

	var parsed gofileResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding gofile server list: %w", err)
	}

	if parsed.Status != "ok" || len(parsed.Data.Servers) == 0 {
		return "", fmt.Errorf("gofile reported no available servers (status %q)", parsed.Status)
	}

	return parsed.Data.Servers[0].Name, nil
}

func (g *GofileStorage) Upload(ctx context.Context, localPath string, name string, contentType string) (string, error) {
	server, err := g.pickServer(ctx)
	if err != nil {
		return "", err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// The body is streamed through a pipe so large files never sit in
	// memory whole.
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		var werr error
		defer func() { pw.CloseWithError(werr) }()

		if g.token != "" {
			if werr = mw.WriteField("token", g.token); werr != nil {
				return
			}
		}

		part, err := mw.CreateFormFile("file", name)
		if err != nil {
			werr = err
			return
		}
		if _, err := io.Copy(part, f); err != nil {
			werr = err
			return
		}
		werr = mw.Close()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.uploadURL(server), pr)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading %s to gofile: %w", name, err)
	}
	defer resp.Body.Close()

	var parsed gofileResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding gofile upload response: %w", err)
	}

	if parsed.Status != "ok" || parsed.Data.DownloadPage == "" {
		return "", fmt.Errorf("gofile upload failed (status %q)", parsed.Status)
	}

	return parsed.Data.DownloadPage, nil
}
