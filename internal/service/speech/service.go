package speech

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shopvoice/backend/internal/artifact"
	"github.com/shopvoice/backend/internal/model/speech"
)

// Service turns summary text into a retrievable audio artifact. Each session
// holds at most one valid artifact: synthesizing a new summary supersedes the
// previous one in the store.
type Service struct {
	config    *speech.Config
	ttsClient *VolcengineTTSClient
	artifacts *artifact.Store
}

// NewService creates the synthesis service backed by the volcengine client.
func NewService(config *speech.Config, artifacts *artifact.Store) *Service {
	return &Service{
		config:    config,
		ttsClient: NewVolcengineTTSClient(config),
		artifacts: artifacts,
	}
}

// SynthesizeSummary renders text for the session and stores the result,
// returning the artifact id to serve it under.
func (s *Service) SynthesizeSummary(ctx context.Context, sessionID, text string) (string, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.config.Timeout)*time.Second)
		defer cancel()
	}

	resp, err := s.ttsClient.Synthesize(ctx, &speech.TTSRequest{
		SessionID: sessionID,
		Text:      text,
		Voice:     s.config.TTSVoice,
		Language:  s.config.TTSLanguage,
	})
	if err != nil {
		return "", fmt.Errorf("failed to synthesize summary: %w", err)
	}

	artifactID := fmt.Sprintf("%s_%s.%s", sessionID, uuid.NewString(), resp.Format)
	s.artifacts.Replace(sessionID, artifactID, resp.AudioData)

	return artifactID, nil
}

// Artifact returns the stored audio bytes for an artifact id.
func (s *Service) Artifact(artifactID string) ([]byte, error) {
	return s.artifacts.Get(artifactID)
}
