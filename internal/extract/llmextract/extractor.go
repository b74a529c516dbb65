// Package llmextract recovers structured task lists from a generative
// model's free-text answers.
//
// The [Adapter] builds a structured-extraction prompt (optionally carrying
// the team roster as context), invokes an injected [llm.Provider], and
// recovers a strict task array from the unstructured (and possibly
// malformed) response via the repair pipeline in repair.go.
//
// The adapter performs no internal retries: a failed completion call or an
// unrecoverable response propagates to the caller, who may retry or fall
// back to the heuristic extractor. There is no partial-results contract:
// either every task from one response is returned, or none.
package llmextract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/taskmill/taskmill/internal/roster"
	"github.com/taskmill/taskmill/internal/task"
	"github.com/taskmill/taskmill/pkg/provider/llm"
)

const (
	defaultTemperature = 0.2
	defaultMaxTokens   = 2048
)

// ErrServiceUnavailable reports that the completion service was unreachable
// or returned no usable text. Match with errors.Is.
var ErrServiceUnavailable = errors.New("completion service unavailable")

// MalformedResponseError reports that the model answered but no JSON could
// be recovered even after repair. Raw preserves the complete model output
// for offline diagnosis; this is the only place raw model output is
// retained.
type MalformedResponseError struct {
	Raw string
}

func (e *MalformedResponseError) Error() string {
	return "llmextract: no JSON task array could be recovered from model response"
}

// promptTemplate is the fixed instruction set for structured extraction.
// The anchor date and transcript are appended at call time.
const promptTemplate = `You are a meeting-transcript analyst. Extract every actionable task from the transcript below.

Extraction rules:
- Direct assignments ("Sarah, can you...", "told Mike to...") become tasks assigned to the named person.
- First-person commitments ("I'll handle...", "I can take...") become tasks assigned to the speaker.
- Explicit deadlines ("by Friday", "by March 6", "tomorrow", "end of day") become the task's due date.
- Implied work ("the docs are outdated") becomes an inferred task; mark it "inferred": true.
- Priority: "high" for urgent/blocking work or near deadlines, "low" for nice-to-haves, otherwise "medium".
- Optional work ("if possible", "nice to have") gets "optional": true.
- Do not invent tasks that have no basis in the transcript.

Today's date is %s. Resolve relative dates against it and format due dates as YYYY-MM-DD.

Respond with ONLY a JSON object in this exact format (no markdown, no prose):
{
  "tasks": [
    {"title": "...", "description": "...", "assignee": "...", "priority": "low|medium|high", "dueDate": "YYYY-MM-DD", "optional": false, "inferred": false, "confidence": "low|medium|high", "sourceText": "..."}
  ]
}

Omit assignee and dueDate when the transcript names neither.`

// optionalTitleRe detects optionality wording inside a task title.
var optionalTitleRe = regexp.MustCompile(`(?i)\b(optional|nice to have|if possible|later|future)\b`)

// optionalPrefix is prepended (exactly once) to titles of optional tasks.
const optionalPrefix = "(optional)"

// modelResponse is the expected top-level JSON structure of the model reply.
type modelResponse struct {
	Tasks []modelTask `json:"tasks"`
}

// modelTask mirrors one task object in the reply. Every field is tolerant:
// the normalizer coerces invalid values downstream.
type modelTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Assignee    string `json:"assignee"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
	Optional    bool   `json:"optional"`
	Inferred    bool   `json:"inferred"`
	Confidence  string `json:"confidence"`
	SourceText  string `json:"sourceText"`
}

// Option is a functional option for configuring an [Adapter].
type Option func(*Adapter)

// WithTemperature sets the model sampling temperature. Lower values produce
// more deterministic extraction. Default: 0.2.
func WithTemperature(temp float64) Option {
	return func(a *Adapter) {
		a.temperature = temp
	}
}

// WithMaxTokens caps the completion length. Default: 2048.
func WithMaxTokens(n int) Option {
	return func(a *Adapter) {
		a.maxTokens = n
	}
}

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// Adapter extracts tasks from transcripts through an [llm.Provider].
// The provider is injected at construction time, so tests can substitute a
// double. Safe for concurrent use.
type Adapter struct {
	provider    llm.Provider
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

// New returns an [Adapter] backed by the given provider.
func New(provider llm.Provider, opts ...Option) *Adapter {
	a := &Adapter{
		provider:    provider,
		temperature: defaultTemperature,
		maxTokens:   defaultMaxTokens,
		logger:      slog.Default(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Model returns the backing provider's model identifier.
func (a *Adapter) Model() string {
	return a.provider.Model()
}

// Extract sends transcript to the model and returns the recovered candidate
// tasks. members, when non-empty, is included in the prompt so the model can
// spell assignees the way the roster does. today anchors relative dates.
//
// Returns an error wrapping [ErrServiceUnavailable] when the completion call
// fails or yields no text, and a [*MalformedResponseError] when no JSON
// survives the repair pipeline.
func (a *Adapter) Extract(ctx context.Context, transcript string, members []roster.Member, today time.Time) ([]task.Candidate, error) {
	req := llm.CompletionRequest{
		SystemPrompt: fmt.Sprintf(promptTemplate, today.Format("2006-01-02")),
		Temperature:  a.temperature,
		MaxTokens:    a.maxTokens,
		Messages: []llm.Message{
			{Role: "user", Content: a.buildUserMessage(transcript, members)},
		},
	}

	resp, err := a.provider.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("llmextract: %w: %v", ErrServiceUnavailable, err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		return nil, fmt.Errorf("llmextract: %w: model returned no text", ErrServiceUnavailable)
	}

	parsed, err := a.recover(resp.Content)
	if err != nil {
		return nil, err
	}

	candidates := make([]task.Candidate, 0, len(parsed.Tasks))
	for _, mt := range parsed.Tasks {
		candidates = append(candidates, toCandidate(mt))
	}
	return candidates, nil
}

// buildUserMessage assembles the transcript message, prefixed with the
// roster-context clause when a non-empty roster is supplied.
func (a *Adapter) buildUserMessage(transcript string, members []roster.Member) string {
	var sb strings.Builder

	if len(members) > 0 {
		sb.WriteString("Team members available for assignment: ")
		for i, m := range members {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(m.DisplayLabel())
		}
		sb.WriteString(". Use these exact names for assignees when they match.\n\n")
	}

	sb.WriteString("Transcript:\n")
	sb.WriteString(transcript)
	return sb.String()
}

// recover applies the response-recovery steps in order until one yields a
// parseable payload: fence stripping, balanced-object extraction, a direct
// parse, and exactly one re-parse after the textual repair pipeline.
func (a *Adapter) recover(raw string) (*modelResponse, error) {
	cleaned := StripFences(raw)

	obj, found := ExtractObject(cleaned)
	if !found {
		a.logMalformed(raw)
		return nil, &MalformedResponseError{Raw: raw}
	}

	var r modelResponse
	if err := json.Unmarshal([]byte(obj), &r); err == nil {
		return &r, nil
	}

	repaired := Repair(obj)
	if err := json.Unmarshal([]byte(repaired), &r); err != nil {
		a.logMalformed(raw)
		return nil, &MalformedResponseError{Raw: raw}
	}
	return &r, nil
}

// logMalformed records the complete raw response for offline diagnosis.
func (a *Adapter) logMalformed(raw string) {
	a.logger.Error("model response could not be parsed as a task array",
		"model", a.provider.Model(),
		"raw_response", raw,
	)
}

// toCandidate converts one parsed model task into a candidate, applying the
// optionality heuristic: an explicit optional flag or optionality wording in
// the title prefixes the title with "(optional)" exactly once and forces
// priority to low unless the model explicitly supplied a priority.
func toCandidate(mt modelTask) task.Candidate {
	c := task.Candidate{
		Title:       strings.TrimSpace(mt.Title),
		Description: mt.Description,
		Assignee:    mt.Assignee,
		Priority:    mt.Priority,
		DueDate:     mt.DueDate,
		Confidence:  mt.Confidence,
		SourceText:  mt.SourceText,
		Inferred:    mt.Inferred,
		Optional:    mt.Optional,
	}

	if c.Optional || optionalTitleRe.MatchString(c.Title) {
		c.Optional = true
		if !strings.HasPrefix(c.Title, optionalPrefix) {
			c.Title = optionalPrefix + " " + c.Title
		}
		if !task.Priority(c.Priority).IsValid() {
			c.Priority = string(task.PriorityLow)
		}
	}

	return c
}
