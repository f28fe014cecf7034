package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/notedock/notedock/internal/config"
	"github.com/notedock/notedock/internal/server"
)

// controlClient talks to a running shell's control API.
type controlClient struct {
	baseURL string
	hc      *http.Client
}

// newControlClient builds a client from the --control-url flag, falling
// back to the address configured in the base directory's config.toml.
func newControlClient(flags ControlFlags) (*controlClient, error) {
	url := flags.URL
	if url == "" {
		derived, err := controlURLFromConfig()
		if err != nil {
			return nil, err
		}
		url = derived
	}
	timeout := flags.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &controlClient{
		baseURL: strings.TrimRight(url, "/"),
		hc:      &http.Client{Timeout: timeout},
	}, nil
}

func controlURLFromConfig() (string, error) {
	log := discardLogger()
	baseDir, err := config.ResolveBaseDir(log)
	if err != nil {
		return "", err
	}
	cfg, err := config.Load(baseDir)
	if err != nil {
		return "", err
	}
	return "http://" + cfg.Control.Listen + cfg.Control.BasePath, nil
}

func (c *controlClient) post(path string) error {
	resp, err := c.hc.Post(c.baseURL+path, "application/json", nil)
	if err != nil {
		return fmt.Errorf("is the shell running? %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return nil
}

func (c *controlClient) status() (server.Status, error) {
	var st server.Status
	resp, err := c.hc.Get(c.baseURL + "/status")
	if err != nil {
		return st, fmt.Errorf("is the shell running? %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return st, decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("decode status: %w", err)
	}
	return st, nil
}

func decodeError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(b, &e) == nil && e.Error != "" {
		return fmt.Errorf("control API: %s", e.Error)
	}
	return fmt.Errorf("control API: unexpected status %d", resp.StatusCode)
}
