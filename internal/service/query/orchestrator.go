package query

import (
	"context"
	"log"

	"github.com/shopvoice/backend/internal/model/catalog"
	"github.com/shopvoice/backend/internal/model/search"
	"github.com/shopvoice/backend/internal/service/ai"
	searchsvc "github.com/shopvoice/backend/internal/service/search"
	"github.com/shopvoice/backend/internal/service/session"
)

// resetMessage is the fixed confirmation returned for reset turns.
const resetMessage = "Search reset successfully"

// Parser is the narrow contract of the query-parsing collaborator.
type Parser interface {
	ParseQuery(ctx context.Context, query string, prev search.Filter) (ai.Result, error)
}

// Synthesizer is the narrow contract of the speech collaborator. It returns
// the artifact id under which the rendered audio can be fetched.
type Synthesizer interface {
	SynthesizeSummary(ctx context.Context, sessionID, text string) (string, error)
}

// TurnResult is the full per-turn response contract.
type TurnResult struct {
	SessionID string            `json:"sessionId"`
	Message   string            `json:"message"`
	Filters   search.Filter     `json:"filters"`
	Products  []catalog.Product `json:"products"`
	AudioURL  string            `json:"audioUrl"`
}

// Orchestrator runs the per-turn state machine: resolve session, parse,
// reset-or-merge, filter, summarize, synthesize. Collaborator failures
// degrade the turn instead of failing it; only the transport layer can
// reject a request.
type Orchestrator struct {
	sessions *session.Service
	catalog  catalog.Store
	parser   Parser
	synth    Synthesizer
}

// New wires the orchestrator. parser and synth may be nil when the matching
// collaborator is not configured; the turn loop degrades accordingly.
func New(sessions *session.Service, store catalog.Store, parser Parser, synth Synthesizer) *Orchestrator {
	return &Orchestrator{
		sessions: sessions,
		catalog:  store,
		parser:   parser,
		synth:    synth,
	}
}

// HandleTurn processes one conversational query. It never fails: a broken
// parse degrades to "no new information" and a broken synthesis yields an
// empty audio reference.
func (o *Orchestrator) HandleTurn(ctx context.Context, candidateSessionID, query string) TurnResult {
	sess := o.sessions.Resolve(candidateSessionID)

	// Parse outside any session lock; the collaborator call is high-latency.
	parsed := o.parse(ctx, query, sess.LastFilters)

	if parsed.Reset {
		o.sessions.Reset(sess.ID)
		return TurnResult{
			SessionID: sess.ID,
			Message:   resetMessage,
			Filters:   search.Filter{},
			Products:  o.catalog.List(),
			AudioURL:  o.synthesize(ctx, sess.ID, resetMessage),
		}
	}

	merged, ok := o.sessions.CommitTurn(sess.ID, query, parsed.Partial)
	if !ok {
		// Resolve just returned this id and sessions are never deleted.
		log.Printf("[search] session %s vanished mid-turn", sess.ID)
		merged = searchsvc.Merge(sess.LastFilters, parsed.Partial)
	}

	results := searchsvc.Apply(o.catalog.List(), merged)
	summary := searchsvc.Summarize(len(results), merged)

	return TurnResult{
		SessionID: sess.ID,
		Message:   summary,
		Filters:   merged,
		Products:  results,
		AudioURL:  o.synthesize(ctx, sess.ID, summary),
	}
}

// parse invokes the collaborator, degrading any failure to the empty partial
// so the turn proceeds with whatever filters the session already had.
func (o *Orchestrator) parse(ctx context.Context, query string, prev search.Filter) ai.Result {
	if o.parser == nil {
		if ai.IsResetQuery(query) {
			return ai.Result{Reset: true}
		}
		return ai.Result{}
	}

	result, err := o.parser.ParseQuery(ctx, query, prev)
	if err != nil {
		log.Printf("[search] parse failed, continuing with existing filters: %v", err)
		return ai.Result{}
	}
	return result
}

// synthesize returns the audio path for the summary, or "" when synthesis is
// unavailable or fails; audio is supplementary to the text payload.
func (o *Orchestrator) synthesize(ctx context.Context, sessionID, text string) string {
	if o.synth == nil {
		return ""
	}

	artifactID, err := o.synth.SynthesizeSummary(ctx, sessionID, text)
	if err != nil {
		log.Printf("[search] synthesis failed for session %s: %v", sessionID, err)
		return ""
	}

	return "/api/audio/" + artifactID
}
