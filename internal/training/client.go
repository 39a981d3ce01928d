// Package training talks to a model training service over HTTP. The
// service owns the GPU work; the editor only starts jobs, polls their
// progress, and manages the resulting model files.
package training

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Status reports the state of the current training job.
type Status struct {
	IsTraining  bool    `json:"is_training"`
	Progress    float64 `json:"progress"`
	Message     string  `json:"message"`
	Epoch       int     `json:"epoch"`
	TotalEpochs int     `json:"total_epochs"`
}

// Params configures a training run.
type Params struct {
	BaseModel string
	Epochs    int
	BatchSize int
}

// DefaultParams returns the standard training configuration.
func DefaultParams() Params {
	return Params{Epochs: 100, BatchSize: 16}
}

// Client is an HTTP client for the training service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// ListModels returns the model names the service has available.
func (c *Client) ListModels() ([]string, error) {
	resp, err := c.http.Get(c.baseURL + "/api/models")
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list models: unexpected status %s", resp.Status)
	}

	var out struct {
		Models []string `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode model list: %w", err)
	}
	return out.Models, nil
}

// Start kicks off a training run.
func (c *Client) Start(p Params) error {
	if p.Epochs < 1 {
		p.Epochs = 100
	}
	if p.BatchSize < 1 {
		p.BatchSize = 16
	}
	form := url.Values{
		"base_model": {p.BaseModel},
		"epochs":     {strconv.Itoa(p.Epochs)},
		"batch_size": {strconv.Itoa(p.BatchSize)},
	}
	resp, err := c.http.PostForm(c.baseURL+"/api/train-model", form)
	if err != nil {
		return fmt.Errorf("failed to start training: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("start training: unexpected status %s", resp.Status)
	}
	return nil
}

// Status fetches the current training status.
func (c *Client) Status() (Status, error) {
	resp, err := c.http.Get(c.baseURL + "/api/training-status")
	if err != nil {
		return Status{}, fmt.Errorf("failed to fetch training status: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Status{}, fmt.Errorf("training status: unexpected status %s", resp.Status)
	}

	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return Status{}, fmt.Errorf("failed to decode training status: %w", err)
	}
	return st, nil
}

// Cancel asks the service to stop the current training run.
func (c *Client) Cancel() error {
	resp, err := c.http.Post(c.baseURL+"/api/cancel-training", "", nil)
	if err != nil {
		return fmt.Errorf("failed to cancel training: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cancel training: unexpected status %s", resp.Status)
	}
	return nil
}

// DeleteModel removes a model from the service.
func (c *Client) DeleteModel(name string) error {
	req, err := http.NewRequest(http.MethodDelete,
		c.baseURL+"/api/delete-model?name="+url.QueryEscape(name), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete model %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("delete model %s: unexpected status %s", name, resp.Status)
	}
	return nil
}

// DownloadModel saves a model's weights to the given path.
func (c *Client) DownloadModel(name, dest string) error {
	form := url.Values{"name": {name}}
	resp, err := c.http.PostForm(c.baseURL+"/api/download-model", form)
	if err != nil {
		return fmt.Errorf("failed to download model %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download model %s: unexpected status %s", name, resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}
