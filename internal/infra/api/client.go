// File: internal/infra/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/capgarrick/deepfake-detector/internal/domain"
	"github.com/capgarrick/deepfake-detector/internal/domain/model"
	"github.com/capgarrick/deepfake-detector/internal/domain/ports/adapter"
	"github.com/capgarrick/deepfake-detector/internal/infra/metrics"
)

// Compile-time assurance the client satisfies both ports
var (
	_ adapter.AssistantServiceAdapter = (*Client)(nil)
	_ adapter.DetectionServiceAdapter = (*Client)(nil)
)

// Client talks to the DeepGuard backend over its JSON API. Chat calls and
// uploads run on separate http.Clients because uploads need a much longer
// timeout.
type Client struct {
	base   string
	http   *http.Client
	upload *http.Client
	log    *zerolog.Logger
}

func NewClient(base string, timeout, uploadTimeout time.Duration, logger *zerolog.Logger) (*Client, error) {
	if base == "" {
		return nil, errors.New("api base url empty")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if uploadTimeout <= 0 {
		uploadTimeout = 3 * time.Minute
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		http:   &http.Client{Timeout: timeout},
		upload: &http.Client{Timeout: uploadTimeout},
		log:    logger,
	}, nil
}

// Welcome fetches the one-time greeting. success=false counts as a service
// rejection so the caller falls back to its canned copy.
func (c *Client) Welcome(ctx context.Context) (adapter.Greeting, error) {
	g, err := c.welcome(ctx)
	if err != nil {
		metrics.IncWelcomeFetch("error")
	} else {
		metrics.IncWelcomeFetch("ok")
	}
	return g, err
}

func (c *Client) welcome(ctx context.Context) (adapter.Greeting, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/chat/welcome", nil)
	if err != nil {
		return adapter.Greeting{}, fmt.Errorf("welcome: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return adapter.Greeting{}, fmt.Errorf("welcome: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return adapter.Greeting{}, serviceError(resp)
	}
	var payload struct {
		Success     bool     `json:"success"`
		Message     string   `json:"message"`
		Suggestions []string `json:"suggestions"`
		Error       string   `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return adapter.Greeting{}, &domain.ServiceError{Status: resp.StatusCode, Detail: "malformed welcome payload"}
	}
	if !payload.Success {
		return adapter.Greeting{}, &domain.ServiceError{Status: resp.StatusCode, Detail: payload.Error}
	}
	return adapter.Greeting{Message: payload.Message, Suggestions: payload.Suggestions}, nil
}

// Send submits one chat turn.
func (c *Client) Send(ctx context.Context, message string) (adapter.Reply, error) {
	start := time.Now()
	r, err := c.send(ctx, message)
	metrics.ObserveChatTurn(outcomeOf(err), time.Since(start).Milliseconds())
	return r, err
}

func (c *Client) send(ctx context.Context, message string) (adapter.Reply, error) {
	body, _ := json.Marshal(struct {
		Message string `json:"message"`
	}{Message: message})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return adapter.Reply{}, fmt.Errorf("chat: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return adapter.Reply{}, fmt.Errorf("chat: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return adapter.Reply{}, serviceError(resp)
	}
	var payload struct {
		Success     bool     `json:"success"`
		Response    string   `json:"response"`
		Suggestions []string `json:"suggestions"`
		Error       string   `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return adapter.Reply{}, &domain.ServiceError{Status: resp.StatusCode, Detail: "malformed chat payload"}
	}
	if !payload.Success {
		return adapter.Reply{}, &domain.ServiceError{Status: resp.StatusCode, Detail: payload.Error}
	}
	return adapter.Reply{Text: payload.Response, Suggestions: payload.Suggestions}, nil
}

// Tips fetches the quick safety reminders. Only the bot front-end uses
// these; callers fall back to fixed copy on any failure.
func (c *Client) Tips(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/chat/tips", nil)
	if err != nil {
		return nil, fmt.Errorf("tips: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tips: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, serviceError(resp)
	}
	var payload struct {
		Success bool     `json:"success"`
		Tips    []string `json:"tips"`
		Error   string   `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &domain.ServiceError{Status: resp.StatusCode, Detail: "malformed tips payload"}
	}
	if !payload.Success {
		return nil, &domain.ServiceError{Status: resp.StatusCode, Detail: payload.Error}
	}
	return payload.Tips, nil
}

var analyzeRoutes = map[model.AnalysisType]string{
	model.AnalysisFull:  "/api/analyze/full",
	model.AnalysisVideo: "/api/analyze/video",
	model.AnalysisAudio: "/api/analyze/audio",
}

// Analyze streams the candidate as a multipart upload under the fixed field
// name "file" and normalizes whatever shape the backend answers with.
func (c *Client) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error) {
	route, ok := analyzeRoutes[req.Type]
	if !ok {
		return nil, domain.ErrInvalidArgument
	}
	start := time.Now()
	res, err := c.analyze(ctx, route, req)
	metrics.ObserveAnalysis(string(req.Type), err == nil, time.Since(start).Milliseconds(), req.Candidate.SizeBytes)
	return res, err
}

func (c *Client) analyze(ctx context.Context, route string, req model.AnalysisRequest) (*model.AnalysisResult, error) {
	f, err := os.Open(req.Candidate.Path)
	if err != nil {
		return nil, fmt.Errorf("analyze: open upload: %w", err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", req.Candidate.Name)
		if err == nil {
			_, err = io.Copy(part, f)
		}
		if cerr := mw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+route, pr)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	c.log.Debug().Str("route", route).Str("file", req.Candidate.Name).Msg("Uploading for analysis")
	resp, err := c.upload.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, serviceError(resp)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("analyze: read response: %w", err)
	}
	return NormalizeResult(raw)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsServiceError(err):
		return "rejected"
	default:
		return "unreachable"
	}
}

// serviceError drains a bounded slice of the body looking for a
// server-supplied detail string.
func serviceError(resp *http.Response) error {
	var payload struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	_ = json.Unmarshal(b, &payload)
	detail := payload.Error
	if detail == "" {
		detail = payload.Detail
	}
	return &domain.ServiceError{Status: resp.StatusCode, Detail: detail}
}
