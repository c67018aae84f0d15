// Package gemini implements the content provider against the Gemini
// generateContent REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/superawesomeme/La-Palabra-Negra/internal/dependencies/random"
	"github.com/superawesomeme/La-Palabra-Negra/internal/model"
	"github.com/superawesomeme/La-Palabra-Negra/internal/provider"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Config holds Gemini connection settings
type Config struct {
	// APIKey is the Gemini API key (required)
	APIKey string
	// Model is the model name (e.g. gemini-2.5-flash)
	Model string
	// BaseURL overrides the API endpoint, mainly for tests
	BaseURL string
	// HTTPClient overrides the HTTP client, mainly for tests
	HTTPClient *http.Client
}

// DefaultConfig returns sensible defaults for the Gemini client
func DefaultConfig() Config {
	return Config{
		Model: "gemini-2.5-flash",
	}
}

// Client is a ContentProvider backed by the Gemini API
type Client struct {
	cfg    Config
	random random.Random
}

// New creates a new Gemini client
func New(cfg Config, rnd random.Random) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultConfig().Model
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{cfg: cfg, random: rnd}
}

// Ensure Client implements the interface
var _ provider.ContentProvider = (*Client)(nil)

// schema mirrors the subset of the Gemini response schema format we use
type schema struct {
	Type       string            `json:"type"`
	Properties map[string]schema `json:"properties,omitempty"`
	Required   []string          `json:"required,omitempty"`
}

// roundSchema constrains round generation output
var roundSchema = schema{
	Type: "OBJECT",
	Properties: map[string]schema{
		"category":      {Type: "STRING"},
		"forbiddenWord": {Type: "STRING"},
	},
	Required: []string{"category", "forbiddenWord"},
}

// judgmentSchema constrains guess evaluation output
var judgmentSchema = schema{
	Type: "OBJECT",
	Properties: map[string]schema{
		"isValid":         {Type: "BOOLEAN"},
		"isForbidden":     {Type: "BOOLEAN"},
		"reason":          {Type: "STRING"},
		"normalizedGuess": {Type: "STRING"},
	},
	Required: []string{"isValid", "isForbidden", "reason", "normalizedGuess"},
}

// GenerateRound picks one of the candidate themes and asks Gemini for a
// category prompt plus its most obvious answer
func (c *Client) GenerateRound(ctx context.Context, themes []string) (*model.RoundContent, error) {
	theme := c.random.Pick(themes)

	prompt := fmt.Sprintf(`Genera una ronda para el juego "La Palabra Negra" basada en el tema: %q.

Reglas:
1. "category": Usa el tema proporcionado literalmente o con una variación muy ligera para que suene natural como pregunta de juego.
2. "forbiddenWord": Debe ser la respuesta más obvia, común o cliché para esa categoría en ESPAÑA (Español Peninsular).
3. El idioma debe ser ESPAÑOL.

Salida JSON estricta.`, theme)

	var payload struct {
		Category      string `json:"category"`
		ForbiddenWord string `json:"forbiddenWord"`
	}
	if err := c.generate(ctx, prompt, roundSchema, 1.0, &payload); err != nil {
		return nil, &provider.Error{Op: "generate_round", Err: err}
	}

	payload.Category = strings.TrimSpace(payload.Category)
	payload.ForbiddenWord = strings.TrimSpace(payload.ForbiddenWord)
	if payload.Category == "" || payload.ForbiddenWord == "" {
		return nil, &provider.Error{Op: "generate_round", Err: provider.ErrMalformedResponse}
	}

	return &model.RoundContent{
		Category:      payload.Category,
		ForbiddenWord: payload.ForbiddenWord,
	}, nil
}

// EvaluateGuess asks Gemini to judge one guess
func (c *Client) EvaluateGuess(ctx context.Context, category, forbiddenWord, guess string) (*model.Judgment, error) {
	prompt := fmt.Sprintf(`Estás arbitrando un juego llamado "La Palabra Negra".

Datos del juego:
Categoría: %q
Palabra Negra (Prohibida): %q
Respuesta del Usuario: %q

Tu tarea es evaluar la respuesta del usuario.

Reglas de evaluación:
1. "isValid": ¿La respuesta del usuario pertenece lógicamente a la categoría? (True/False)
2. "isForbidden": ¿Es la respuesta del usuario semánticamente igual o muy similar a la "Palabra Negra"?
   (Ejemplo: "La manzana" == "Manzana", "Manzanas" == "Manzana", "Automóvil" == "Coche"). Si es así, True.
3. "normalizedGuess": La palabra del usuario limpia (sin artículos, singular/plural normalizado).
4. "reason": Breve explicación en español.

Devuelve JSON.`, category, forbiddenWord, guess)

	var payload struct {
		IsValid         bool   `json:"isValid"`
		IsForbidden     bool   `json:"isForbidden"`
		Reason          string `json:"reason"`
		NormalizedGuess string `json:"normalizedGuess"`
	}
	if err := c.generate(ctx, prompt, judgmentSchema, 0.1, &payload); err != nil {
		return nil, &provider.Error{Op: "evaluate_guess", Err: err}
	}

	return &model.Judgment{
		ValidForCategory: payload.IsValid,
		MatchesForbidden: payload.IsForbidden,
		NormalizedGuess:  strings.TrimSpace(payload.NormalizedGuess),
		Explanation:      strings.TrimSpace(payload.Reason),
	}, nil
}

// generate performs one generateContent call and decodes the JSON text
// of the first candidate into out
func (c *Client) generate(ctx context.Context, prompt string, outSchema schema, temperature float64, out any) error {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return fmt.Errorf("api key is required")
	}

	requestBody, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"temperature":      temperature,
			"responseMimeType": "application/json",
			"responseSchema":   outSchema,
		},
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimSuffix(c.cfg.BaseURL, "/"), c.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(requestBody))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// The key is sent only as a header and never echoed in errors
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	res, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return fmt.Errorf("request status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var envelope struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	text := ""
	for _, cand := range envelope.Candidates {
		for _, part := range cand.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				text = part.Text
				break
			}
		}
		if text != "" {
			break
		}
	}
	if text == "" {
		return fmt.Errorf("%w: no candidate text", provider.ErrMalformedResponse)
	}

	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("%w: %v", provider.ErrMalformedResponse, err)
	}
	return nil
}
