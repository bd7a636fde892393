package speech

import "time"

// Config holds the synthesis collaborator's credentials and voice defaults.
type Config struct {
	AppID       string  `json:"appId"`
	AccessToken string  `json:"accessToken"`
	TTSVoice    string  `json:"ttsVoice"`
	TTSSpeed    float32 `json:"ttsSpeed"`
	TTSVolume   float32 `json:"ttsVolume"`
	TTSLanguage string  `json:"ttsLanguage"`
	Timeout     int     `json:"timeout"` // seconds
}

// TTSRequest asks for one synthesized utterance.
type TTSRequest struct {
	SessionID string  `json:"sessionId"`
	Text      string  `json:"text"`
	Voice     string  `json:"voice"`
	Speed     float32 `json:"speed"`
	Volume    float32 `json:"volume"`
	Format    string  `json:"format"`
	Language  string  `json:"language"`
}

// TTSResponse carries the synthesized audio for one request.
type TTSResponse struct {
	SessionID string    `json:"sessionId"`
	AudioData []byte    `json:"-"`
	Duration  int64     `json:"duration"` // milliseconds
	Format    string    `json:"format"`
	RequestID string    `json:"requestId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
