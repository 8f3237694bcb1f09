package advisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"FlowShift/pkg/config"
	"FlowShift/pkg/logger"
)

const (
	AnalyzeFallback = "Error analyzing EA code. Please check your API key."
	ChatFallback    = "Something went wrong in the transmission."

	analyzeSystem = "You are an expert MQL5 algorithmic trading developer. Provide concise, professional technical advice."
	chatSystem    = "You are an AI specialized in trading algorithms and MetaTrader 5 (MQL5). Help the user debug, refine, or understand their strategy."
	chatContext   = "Context: This is an MQL5 EA bot based on Price Action and SHI Channels."
)

// AnalyzePrompt builds the strategy review request for code.
func AnalyzePrompt(code string) string {
	return "Analyze the following MQL5 Expert Advisor code and provide a brief summary of its strategy, strengths, and potential risks. \n\nCode:\n" + code
}

// ChatPrompt builds a question about code.
func ChatPrompt(message, code string) string {
	return fmt.Sprintf("%s\n\nUser Question: %s\n\nEA Code for Reference:\n%s", chatContext, message, code)
}

// Generator produces model text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt, system string) (string, error)
}

type Recorder interface {
	RecordAdvisor(op, result string)
	RecordLatency(op string, seconds float64)
}

// Advisor asks the language model about the robot. Every failure collapses
// into a fixed fallback reply; callers never see an error.
type Advisor struct {
	gen     Generator
	breaker *gobreaker.CircuitBreaker
	log     *logger.Logger
	rec     Recorder
}

// New wires a Gemini-backed advisor from config.
func New(cfg *config.Config, log *logger.Logger, rec Recorder) *Advisor {
	return NewWithGenerator(NewGeminiClient(cfg), cfg, log, rec)
}

func NewWithGenerator(gen Generator, cfg *config.Config, log *logger.Logger, rec Recorder) *Advisor {
	if log == nil {
		log = logger.Nop()
	}
	failures := cfg.Advisor.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	st := gobreaker.Settings{
		Name:    "gemini",
		Timeout: cfg.Advisor.BreakerOpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("advisor breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	}
	return &Advisor{
		gen:     gen,
		breaker: gobreaker.NewCircuitBreaker(st),
		log:     log,
		rec:     rec,
	}
}

// Analyze returns a short review of the robot source.
func (a *Advisor) Analyze(ctx context.Context, code string) string {
	return a.ask(ctx, "analyze", AnalyzePrompt(code), analyzeSystem, AnalyzeFallback)
}

// Converse answers a user question with the source as context.
func (a *Advisor) Converse(ctx context.Context, message, code string) string {
	return a.ask(ctx, "chat", ChatPrompt(message, code), chatSystem, ChatFallback)
}

// State reports the breaker state.
func (a *Advisor) State() string {
	return a.breaker.State().String()
}

func (a *Advisor) ask(ctx context.Context, op, prompt, system, fallback string) string {
	start := time.Now()
	out, err := a.breaker.Execute(func() (interface{}, error) {
		return a.gen.Generate(ctx, prompt, system)
	})
	if a.rec != nil {
		a.rec.RecordLatency("advisor_"+op, time.Since(start).Seconds())
	}
	if err != nil {
		a.log.Error("advisor "+op+" failed", logger.Error(err))
		a.record(op, resultOf(err))
		return fallback
	}
	a.record(op, "ok")
	return out.(string)
}

func (a *Advisor) record(op, result string) {
	if a.rec != nil {
		a.rec.RecordAdvisor(op, result)
	}
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "open"
	case errors.Is(err, ErrMissingAPIKey):
		return "no_key"
	default:
		return "error"
	}
}
