package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to the model runtime co-located with the agent. The runtime
// owns the actual weights; the agent only reports residency and relays
// scheduler commands.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type ModelsResponse struct {
	Data []struct {
		ID             string  `json:"id"`
		VRAMUsageMB    float64 `json:"vram_usage_mb"`
		LoadedAtUnixMs int64   `json:"loaded_at_unix_ms"`
	} `json:"data"`
}

func (c *Client) GetModels(ctx context.Context) (*ModelsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/models", nil)
	if err != nil {
		return nil, err
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return nil, fmt.Errorf("models status=%d", res.StatusCode)
	}
	var out ModelsResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

type unloadReq struct {
	Model string `json:"model"`
}

func (c *Client) UnloadModel(ctx context.Context, modelID string) error {
	body, _ := json.Marshal(unloadReq{Model: modelID})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/models/unload", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return fmt.Errorf("unload status=%d", res.StatusCode)
	}
	return nil
}

type transferReq struct {
	Model         string `json:"model"`
	TargetMachine string `json:"target_machine"`
	Priority      string `json:"priority"`
}

// TransferModel asks the runtime to hand a model over to another machine's
// runtime. The runtime moves the weights; completion shows up as residency
// changes in subsequent status reports.
func (c *Client) TransferModel(ctx context.Context, modelID, targetMachine, priority string) error {
	body, _ := json.Marshal(transferReq{Model: modelID, TargetMachine: targetMachine, Priority: priority})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/models/transfer", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return fmt.Errorf("transfer status=%d", res.StatusCode)
	}
	return nil
}

func (c *Client) ClearCache(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/cache/clear", nil)
	if err != nil {
		return err
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return fmt.Errorf("cache clear status=%d", res.StatusCode)
	}
	return nil
}
