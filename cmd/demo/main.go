// File: cmd/demo/main.go
//
// Headless walkthrough of the whole stack: an in-process stub backend, the
// real HTTP adapter, both controllers, and console presenters printing the
// transcript. Useful as a smoke test when no terminal or bot token is around.
package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/capgarrick/deepfake-detector/internal/application"
	"github.com/capgarrick/deepfake-detector/internal/config"
	"github.com/capgarrick/deepfake-detector/internal/domain/model"
	"github.com/capgarrick/deepfake-detector/internal/format"
	"github.com/capgarrick/deepfake-detector/internal/infra/api"
	"github.com/capgarrick/deepfake-detector/internal/infra/stub"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quiet := zerolog.Nop()

	// 1. Start the stub backend on a loopback port
	sessions := stub.NewSessionStore(30*time.Minute, &quiet)
	backend := stub.NewServer(stub.NewGuardBot(), stub.NewAnalyzer(), sessions, nil, nil, &quiet)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	server := &http.Server{Handler: backend.Routes()}
	go func() { _ = server.Serve(ln) }()
	defer server.Close()
	base := "http://" + ln.Addr().String()
	log.Printf("stub backend on %s", base)

	// 2. Wire the controllers with console presenters and fast pacing
	apiClient, err := api.NewClient(base, 10*time.Second, 30*time.Second, &quiet)
	if err != nil {
		log.Fatalf("api client: %v", err)
	}
	cfg := &config.Config{}
	cfg.Chat.MaxMessageLen = 500
	cfg.Analysis.StageDelay = 50 * time.Millisecond
	cfg.Analysis.SettleDelay = 50 * time.Millisecond
	cfg.Analysis.NoticeTTL = time.Minute
	views := application.Views{Chat: &consoleChat{}, Analysis: &consoleAnalysis{}}
	client := application.NewClient(apiClient, api.NewLimitedDetector(apiClient, 2), views, cfg, &quiet)

	// 3. Open the chat and ask a question
	client.Chat.Open(ctx)
	if err := client.Chat.Submit(ctx, "What is a deepfake?"); err != nil {
		log.Fatalf("submit: %v", err)
	}
	if err := client.Chat.Submit(ctx, "How to detect them?"); err != nil {
		log.Fatalf("submit: %v", err)
	}

	// 4. Try a file the validator must refuse
	_ = client.Analysis.Select(ctx, "/tmp/holiday.zip", "application/zip", 4096)

	// 5. Select a clip and run the analysis
	clip := writeSampleClip()
	defer os.Remove(clip)
	if err := client.Analysis.Select(ctx, clip, "video/mp4", 2048); err != nil {
		log.Fatalf("select: %v", err)
	}
	if err := client.Analysis.SetType(model.AnalysisVideo); err != nil {
		log.Fatalf("set type: %v", err)
	}
	if err := client.Analysis.Analyze(ctx); err != nil {
		log.Fatalf("analyze: %v", err)
	}

	// 6. Back to a clean slate
	if err := client.Analysis.Reset(); err != nil {
		log.Fatalf("reset: %v", err)
	}
	client.Chat.Close()
	log.Printf("demo finished: %d chat messages", len(client.Chat.Snapshot().Messages))
}

func writeSampleClip() string {
	f, err := os.CreateTemp("", "demo-*.mp4")
	if err != nil {
		log.Fatalf("temp clip: %v", err)
	}
	if _, err := f.Write([]byte("not really mpeg4")); err != nil {
		log.Fatalf("temp clip: %v", err)
	}
	_ = f.Close()
	return f.Name()
}

// consoleChat narrates assistant events.
type consoleChat struct{}

func (consoleChat) SessionOpened(history []model.ChatMessage) {
	log.Printf("[chat] opened, %d message(s) restored", len(history))
}
func (consoleChat) SessionClosed() { log.Printf("[chat] closed") }
func (consoleChat) MessageAppended(m model.ChatMessage) {
	who := "guardbot"
	if m.Role == model.RoleUser {
		who = "you"
	}
	log.Printf("[chat] %s: %s", who, format.Sanitize(m.Content))
}
func (consoleChat) TypingStarted() { log.Printf("[chat] guardbot is typing...") }
func (consoleChat) TypingStopped() {}
func (consoleChat) ShowSuggestions(items []string) {
	log.Printf("[chat] suggestions: %v", items)
}
func (consoleChat) ClearSuggestions() {}

// consoleAnalysis narrates workflow events.
type consoleAnalysis struct{}

func (consoleAnalysis) CandidateSelected(c model.UploadCandidate, chosen model.AnalysisType) {
	log.Printf("[analysis] selected %s (%s, %s), pipeline %s", c.Name, c.Kind, format.Bytes(c.SizeBytes), chosen)
}
func (consoleAnalysis) CandidateCleared() { log.Printf("[analysis] selection cleared") }
func (consoleAnalysis) Progress(stage model.ProgressStage) {
	log.Printf("[analysis] %3d%% %s", stage.Percent, stage.Label)
}
func (consoleAnalysis) ResultReady(r model.AnalysisResult) {
	log.Printf("[analysis] verdict: %s (authenticity %.0f%%, confidence %.0f%%)",
		r.Verdict.Label(), r.AuthenticityScore, r.Confidence)
	for _, d := range r.Details {
		log.Printf("[analysis]   %-18s %.0f", d.Label, d.Value)
	}
	for _, ind := range r.Indicators {
		log.Printf("[analysis]   indicator: %s", ind)
	}
}
func (consoleAnalysis) WorkflowReset()     { log.Printf("[analysis] workflow reset") }
func (consoleAnalysis) Notify(text string) { log.Printf("[analysis] notice: %s", text) }
func (consoleAnalysis) DismissNotice()     {}
