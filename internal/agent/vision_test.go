package agent

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
)

type fakeVisionClient struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeVisionClient) AnalyzeImage(ctx context.Context, imageBytes []byte, userPrompt, systemPrompt string) (string, error) {
	f.prompts = append(f.prompts, userPrompt)
	return f.response, f.err
}

func (f *fakeVisionClient) ModelName() string { return "gemini-2.0-flash" }

var testImage = base64.StdEncoding.EncodeToString([]byte("fake jpeg bytes"))

func TestProcessNormalFrame(t *testing.T) {
	client := &fakeVisionClient{
		response: `{"incident": false, "type": "normal", "severity": "low", "confidence": 95, "reasoning": "empty hallway", "subjects": [], "recommended_actions": []}`,
	}
	a := NewVisionAgent(client, VisionAgentOptions{ConfidenceThreshold: 70})

	got := a.Process(context.Background(), testImage, 1)
	if got.Incident {
		t.Fatalf("normal frame must not be an incident")
	}
	if got.Type != "normal" || got.Confidence != 95 {
		t.Fatalf("unexpected assessment: %+v", got)
	}
}

func TestProcessGatesLowConfidence(t *testing.T) {
	client := &fakeVisionClient{
		response: `{"incident": true, "type": "intrusion", "severity": "high", "confidence": 65, "reasoning": "maybe a person"}`,
	}
	a := NewVisionAgent(client, VisionAgentOptions{ConfidenceThreshold: 70})

	got := a.Process(context.Background(), testImage, 1)
	if got.Incident {
		t.Fatalf("confidence 65 below threshold must gate the incident")
	}
}

func TestProcessHandlesFencedJSON(t *testing.T) {
	client := &fakeVisionClient{
		response: "```json\n{\"incident\": true, \"type\": \"theft\", \"severity\": \"high\", \"confidence\": 88, \"reasoning\": \"person taking package\"}\n```",
	}
	a := NewVisionAgent(client, VisionAgentOptions{})

	got := a.Process(context.Background(), testImage, 1)
	if !got.Incident || got.Type != "theft" {
		t.Fatalf("fenced JSON must parse: %+v", got)
	}
}

func TestProcessBadImage(t *testing.T) {
	a := NewVisionAgent(&fakeVisionClient{}, VisionAgentOptions{})

	got := a.Process(context.Background(), "", 1)
	if got.Incident || got.Type != "error" {
		t.Fatalf("bad image must yield default assessment: %+v", got)
	}
	if !strings.Contains(got.Reasoning, "Image Error") {
		t.Fatalf("reasoning = %q, want image error cause", got.Reasoning)
	}
}

func TestProcessDataURIPrefix(t *testing.T) {
	client := &fakeVisionClient{
		response: `{"incident": false, "type": "normal", "severity": "low", "confidence": 90, "reasoning": "ok"}`,
	}
	a := NewVisionAgent(client, VisionAgentOptions{})

	got := a.Process(context.Background(), "data:image/jpeg;base64,"+testImage, 1)
	if got.Type != "normal" {
		t.Fatalf("data URI payload must decode, got %+v", got)
	}
}

func TestProcessUpstreamErrorClassification(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED"), "quota"},
		{errors.New("rpc error: code = 503 UNAVAILABLE"), "unavailable"},
		{errors.New("401 UNAUTHENTICATED"), "authentication"},
	}

	for _, tc := range cases {
		a := NewVisionAgent(&fakeVisionClient{err: tc.err}, VisionAgentOptions{})
		got := a.Process(context.Background(), testImage, 1)
		if got.Incident {
			t.Fatalf("upstream failure must not be an incident")
		}
		if !strings.Contains(strings.ToLower(got.Reasoning), tc.want) {
			t.Fatalf("reasoning %q must mention %q", got.Reasoning, tc.want)
		}
	}
}

func TestFrameHistoryWindow(t *testing.T) {
	client := &fakeVisionClient{
		response: `{"incident": false, "type": "normal", "severity": "low", "confidence": 90, "reasoning": "ok"}`,
	}
	a := NewVisionAgent(client, VisionAgentOptions{})

	for i := 1; i <= 15; i++ {
		a.Process(context.Background(), testImage, i)
	}

	// 16번째 호출의 프롬프트에는 직전 10개 프레임만 있어야 한다
	a.Process(context.Background(), testImage, 16)
	lastPrompt := client.prompts[len(client.prompts)-1]

	if strings.Contains(lastPrompt, "Frame 5:") {
		t.Fatalf("frame 5 must have been evicted from the history window")
	}
	for i := 6; i <= 15; i++ {
		if !strings.Contains(lastPrompt, fmt.Sprintf("Frame %d:", i)) {
			t.Fatalf("frame %d missing from temporal context", i)
		}
	}
}

func TestStatsTracksErrors(t *testing.T) {
	a := NewVisionAgent(&fakeVisionClient{err: errors.New("boom")}, VisionAgentOptions{})
	a.Process(context.Background(), testImage, 1)

	stats := a.Stats()
	if stats.TotalCalls != 1 || stats.TotalErrors != 1 {
		t.Fatalf("stats = %+v, want 1 call / 1 error", stats)
	}
	if stats.Agent != "VisionAgent" {
		t.Fatalf("agent name = %q", stats.Agent)
	}
}
