// Package alquran fetches tajweed-annotated text and recitation audio from
// the api.alquran.cloud service.
package alquran

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/cesargomez89/tajikquran/internal/constants"
	"github.com/cesargomez89/tajikquran/internal/domain"
	"github.com/cesargomez89/tajikquran/internal/httpclient"
)

// Provider is the upstream content source.
type Provider interface {
	AyahTajweed(ctx context.Context, ref string) (json.RawMessage, error)
	SurahTajweed(ctx context.Context, number int) (json.RawMessage, error)
	AyahAudio(ctx context.Context, ref string) (string, error)
}

type Config struct {
	BaseURL        string
	APIKey         string
	TajweedEdition string
	AudioEdition   string
	Timeout        time.Duration
	MinInterval    time.Duration
	RetryOptions   []httpclient.Option
}

type Client struct {
	http           *resty.Client
	tajweedEdition string
	audioEdition   string
}

// envelope is the common response wrapper.
type envelope struct {
	Code   int             `json:"code"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.DefaultAlQuranURL
	}
	if cfg.TajweedEdition == "" {
		cfg.TajweedEdition = constants.DefaultTajweedEdition
	}
	if cfg.AudioEdition == "" {
		cfg.AudioEdition = constants.DefaultAudioEdition
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = constants.DefaultHTTPTimeout
	}

	hc := httpclient.NewClient(cfg.Timeout, cfg.MinInterval, cfg.RetryOptions...)
	rc := resty.NewWithClient(hc).
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Accept", constants.MimeTypeJSON)
	if cfg.APIKey != "" {
		rc.SetHeader("X-API-Key", cfg.APIKey)
	}

	return &Client{
		http:           rc,
		tajweedEdition: cfg.TajweedEdition,
		audioEdition:   cfg.AudioEdition,
	}
}

// AyahTajweed returns the upstream JSON for one verse in the tajweed edition.
func (c *Client) AyahTajweed(ctx context.Context, ref string) (json.RawMessage, error) {
	return c.getRaw(ctx, "/ayah/{ref}/{edition}", map[string]string{"ref": ref, "edition": c.tajweedEdition})
}

// SurahTajweed returns the upstream JSON for a whole surah in the tajweed edition.
func (c *Client) SurahTajweed(ctx context.Context, number int) (json.RawMessage, error) {
	return c.getRaw(ctx, "/surah/{number}/{edition}", map[string]string{"number": fmt.Sprint(number), "edition": c.tajweedEdition})
}

// AyahAudio resolves the recitation URL of one verse.
func (c *Client) AyahAudio(ctx context.Context, ref string) (string, error) {
	raw, err := c.getRaw(ctx, "/ayah/{ref}/{edition}", map[string]string{"ref": ref, "edition": c.audioEdition})
	if err != nil {
		return "", err
	}
	env, err := decode(raw)
	if err != nil {
		return "", err
	}
	var data struct {
		Audio string `json:"audio"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return "", fmt.Errorf("%w: failed to decode audio for %s: %v", domain.ErrUpstream, ref, err)
	}
	if data.Audio == "" {
		return "", fmt.Errorf("%w: no audio for %s in edition %s", domain.ErrUpstream, ref, c.audioEdition)
	}
	return data.Audio, nil
}

// getRaw fetches a path and checks both the HTTP status and the envelope code.
func (c *Client) getRaw(ctx context.Context, path string, params map[string]string) (json.RawMessage, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetPathParams(params).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("%w: request %s failed: %v", domain.ErrUpstream, path, err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrUpstream, res.Request.URL, res.StatusCode())
	}

	body := res.Body()
	env, err := decode(body)
	if err != nil {
		return nil, err
	}
	if env.Code != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned code %d (%s)", domain.ErrUpstream, res.Request.URL, env.Code, env.Status)
	}
	return json.RawMessage(body), nil
}

func decode(body []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return envelope{}, fmt.Errorf("%w: invalid response body: %v", domain.ErrUpstream, err)
	}
	return env, nil
}

// AyahText extracts data.text from an ayah response.
func AyahText(raw json.RawMessage) (string, error) {
	env, err := decode(raw)
	if err != nil {
		return "", err
	}
	var data struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return "", fmt.Errorf("%w: failed to decode ayah text: %v", domain.ErrUpstream, err)
	}
	if data.Text == "" {
		return "", fmt.Errorf("%w: ayah response has no text", domain.ErrUpstream)
	}
	return data.Text, nil
}
