package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/shopvoice/backend/internal/model/speech"
)

const ttsEndpoint = "wss://openspeech.bytedance.com/api/v3/tts/unidirectional/stream"

// defaultVoice is an English big-TTS speaker; summaries are English text.
const defaultVoice = "en_female_amy_jupiter_bigtts"

// VolcengineTTSClient synthesizes speech over volcengine's binary websocket
// protocol.
type VolcengineTTSClient struct {
	config *speech.Config
	dialer *websocket.Dialer
}

// NewVolcengineTTSClient creates a TTS client bound to the supplied config.
func NewVolcengineTTSClient(config *speech.Config) *VolcengineTTSClient {
	return &VolcengineTTSClient{
		config: config,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 30 * time.Second,
		},
	}
}

type ttsServerMessage struct {
	ReqID    string `json:"reqid"`
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Sequence int    `json:"sequence"`
	Data     string `json:"data"`
	Addition struct {
		Duration string `json:"duration,omitempty"`
	} `json:"addition,omitempty"`
}

type volcengineTTSRequest struct {
	User struct {
		UID string `json:"uid"`
	} `json:"user"`
	ReqParams struct {
		Speaker     string                   `json:"speaker"`
		Text        string                   `json:"text"`
		AudioParams volcengineTTSAudioParams `json:"audio_params"`
		Language    string                   `json:"language,omitempty"`
	} `json:"req_params"`
}

type volcengineTTSAudioParams struct {
	Format      string  `json:"format"`
	SampleRate  int     `json:"sample_rate"`
	SpeedRatio  float32 `json:"speed_ratio,omitempty"`
	VolumeRatio float32 `json:"volume_ratio,omitempty"`
}

// Synthesize renders sentence text into audio over the websocket protocol.
func (c *VolcengineTTSClient) Synthesize(ctx context.Context, req *speech.TTSRequest) (*speech.TTSResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("TTS text is empty")
	}

	appID, token, err := resolveCredentials(c.config)
	if err != nil {
		return nil, err
	}

	connectID := uuid.NewString()

	header := http.Header{}
	header.Set("X-Api-App-Key", appID)
	header.Set("X-Api-Access-Key", token)
	header.Set("X-Api-Resource-Id", resolveResourceID(c.resolveVoice(req.Voice)))
	header.Set("X-Api-Connect-Id", connectID)

	conn, resp, err := c.dialer.DialContext(ctx, ttsEndpoint, header)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to TTS websocket: %w", err)
	}
	defer conn.Close()

	if resp != nil {
		if logid := resp.Header.Get("X-Tt-Logid"); logid != "" {
			log.Printf("[tts] connected with logid: %s", logid)
		}
	}

	payload, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal TTS request: %w", err)
	}

	frame, err := EncodeMessage(NewFullClientRequest(payload, NoCompression))
	if err != nil {
		return nil, fmt.Errorf("failed to encode TTS frame: %w", err)
	}

	if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		return nil, fmt.Errorf("failed to send TTS request: %w", err)
	}

	return c.collectAudio(ctx, conn, req, connectID)
}

// collectAudio drains server frames into an audio buffer until the stream is
// finalized by event or sequence marker.
func (c *VolcengineTTSClient) collectAudio(ctx context.Context, conn *websocket.Conn, req *speech.TTSRequest, connectID string) (*speech.TTSResponse, error) {
	var (
		audioBuffer bytes.Buffer
		reqID       string
		duration    int64
	)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("failed to read TTS response: %w", err)
		}

		msg, err := DecodeMessage(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode TTS frame: %w", err)
		}

		switch msg.Header.MessageType {
		case ErrorMessage:
			payload, derr := DecompressPayload(msg.Payload, msg.Header.CompressionMethod)
			if derr != nil {
				return nil, fmt.Errorf("TTS error frame decode failed: %w", derr)
			}
			return nil, fmt.Errorf("TTS error %d: %s", msg.ErrorCode, string(payload))

		case AudioOnlyServerResponse:
			chunk, derr := DecompressPayload(msg.Payload, msg.Header.CompressionMethod)
			if derr != nil {
				return nil, fmt.Errorf("failed to decompress audio chunk: %w", derr)
			}
			audioBuffer.Write(chunk)

		case FullServerResponse:
			payload, derr := DecompressPayload(msg.Payload, msg.Header.CompressionMethod)
			if derr != nil {
				return nil, fmt.Errorf("failed to decompress TTS response payload: %w", derr)
			}

			var serverResp ttsServerMessage
			if len(payload) > 0 {
				if uerr := json.Unmarshal(payload, &serverResp); uerr != nil {
					log.Printf("[tts] failed to unmarshal response payload: %v", uerr)
				} else {
					if serverResp.Code != 0 && serverResp.Code != 3000 {
						return nil, fmt.Errorf("TTS API error %d: %s", serverResp.Code, serverResp.Message)
					}
					if serverResp.ReqID != "" {
						reqID = serverResp.ReqID
					}
					if serverResp.Addition.Duration != "" {
						if parsed, perr := strconv.ParseInt(serverResp.Addition.Duration, 10, 64); perr == nil {
							duration = parsed
						}
					}
					if serverResp.Data != "" {
						chunk, berr := base64.StdEncoding.DecodeString(serverResp.Data)
						if berr != nil {
							return nil, fmt.Errorf("failed to decode base64 audio chunk: %w", berr)
						}
						audioBuffer.Write(chunk)
					}
				}
			}

			finalizedByEvent := msg.Header.MessageFlags&WithEvent == WithEvent && msg.EventType == EventTypeSessionFinished
			if finalizedByEvent || msg.IsLastPacket() || serverResp.Sequence < 0 {
				if audioBuffer.Len() == 0 {
					return nil, fmt.Errorf("TTS audio is empty")
				}
				if reqID == "" {
					reqID = connectID
				}
				return &speech.TTSResponse{
					SessionID: req.SessionID,
					AudioData: audioBuffer.Bytes(),
					Duration:  duration,
					Format:    resolveFormat(req.Format),
					RequestID: reqID,
					CreatedAt: time.Now(),
				}, nil
			}

		default:
			log.Printf("[tts] unexpected frame type: %d", msg.Header.MessageType)
		}
	}
}

func (c *VolcengineTTSClient) buildRequest(req *speech.TTSRequest) *volcengineTTSRequest {
	ttsReq := &volcengineTTSRequest{}

	uid := strings.TrimSpace(req.SessionID)
	if uid == "" {
		uid = uuid.NewString()
	}
	ttsReq.User.UID = uid

	ttsReq.ReqParams.Speaker = c.resolveVoice(req.Voice)
	ttsReq.ReqParams.Text = req.Text
	ttsReq.ReqParams.AudioParams.Format = resolveFormat(req.Format)
	ttsReq.ReqParams.AudioParams.SampleRate = 24000

	speed := req.Speed
	if speed <= 0 {
		speed = c.config.TTSSpeed
	}
	if speed > 0 && speed != 1.0 {
		ttsReq.ReqParams.AudioParams.SpeedRatio = speed
	}

	volume := req.Volume
	if volume <= 0 {
		volume = c.config.TTSVolume
	}
	if volume > 0 && volume != 1.0 {
		ttsReq.ReqParams.AudioParams.VolumeRatio = volume
	}

	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = strings.TrimSpace(c.config.TTSLanguage)
	}
	if language != "" {
		ttsReq.ReqParams.Language = language
	}

	return ttsReq
}

func (c *VolcengineTTSClient) resolveVoice(requested string) string {
	if v := strings.TrimSpace(requested); v != "" {
		return v
	}
	if v := strings.TrimSpace(c.config.TTSVoice); v != "" {
		return v
	}
	return defaultVoice
}

// resolveResourceID maps a speaker family to its volcengine resource id.
func resolveResourceID(voice string) string {
	const (
		defaultResource = "volc.service_type.10029"
		megaResource    = "volc.megatts.default"
		seedResource    = "seed-tts-2.0"
	)

	if strings.HasPrefix(voice, "S_") {
		return megaResource
	}

	normalized := strings.ToLower(voice)
	for _, hint := range []string{"bigtts", "seed", "megatts", "jupiter", "venus", "uranus", "mars"} {
		if strings.Contains(normalized, hint) {
			return seedResource
		}
	}

	return defaultResource
}

// resolveFormat normalizes the requested container; the service always serves
// mp3, and wav requests collapse to it.
func resolveFormat(format string) string {
	f := strings.TrimSpace(format)
	if f == "" || f == "wav" {
		return "mp3"
	}
	return f
}
