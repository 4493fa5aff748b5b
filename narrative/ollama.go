// narrative/ollama.go
package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fablecraft/taleserver/apperror"
	"github.com/fablecraft/taleserver/models"
)

// OllamaClient talks to an Ollama server's /api/generate endpoint. It
// implements game.Collaborator.
type OllamaClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaClient builds a client for the given server and model. timeout
// bounds each generation call; there is no retry.
func NewOllamaClient(baseURL, model string, timeout time.Duration) *OllamaClient {
	return &OllamaClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Model     string         `json:"model"`
	Prompt    string         `json:"prompt"`
	Stream    bool           `json:"stream"`
	Options   map[string]any `json:"options"`
	KeepAlive int            `json:"keep_alive"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (c *OllamaClient) GenerateInitialStory(ctx context.Context, scenario string, players []models.Player) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a text adventure game master. The scenario is: %s. The players are:\n", scenario)
	for _, p := range players {
		fmt.Fprintf(&b, "- %s the %s\n", p.Name, p.Class)
	}
	b.WriteString("Describe the starting situation to the players. ")
	b.WriteString("Let the players choose their actions freely, without giving options.")

	return c.generate(ctx, b.String())
}

func (c *OllamaClient) ProcessTurn(ctx context.Context, contextText string, players []models.Player, actions []models.Action) (string, error) {
	byID := make(map[string]models.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Current game state: %s\n\n", contextText)
	for _, action := range actions {
		if p, ok := byID[action.PlayerID]; ok {
			fmt.Fprintf(&b, "%s the %s wants to: %s\n", p.Name, p.Class, action.Text)
		}
	}
	b.WriteString("\nUpdate the game state based on the players' actions, describing it from the players' ")
	b.WriteString("perspective. Act the role of any non-player characters as needed. ")
	b.WriteString("Keep the story engaging and coherent. Keep the plot challenging, ")
	b.WriteString("acting as any antagonists or obstacles the players may face.")

	return c.generate(ctx, b.String())
}

func (c *OllamaClient) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:     c.model,
		Prompt:    prompt,
		Stream:    false,
		Options:   map[string]any{"num_ctx": 16384},
		KeepAlive: 360,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", apperror.ErrNarrativeUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", apperror.ErrNarrativeUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperror.ErrNarrativeUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d", apperror.ErrNarrativeUnavailable, resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", apperror.ErrNarrativeUnavailable, err)
	}
	return out.Response, nil
}
