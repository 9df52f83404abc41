package api

import (
	"bytes"
	"context"
)

// Transcript is the whisper transcription of one uploaded audio chunk.
type Transcript struct {
	Text     string  `json:"text"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// Transcribe uploads a recorded audio chunk for server-side transcription.
// Used by the HTTP voice transport when the dashboard is accessed remotely.
func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeType string) (*Transcript, error) {
	if mimeType == "" {
		mimeType = "audio/wav"
	}
	b, err := c.doRaw(ctx, "POST", "/api/whisper/transcribe", mimeType, bytes.NewReader(audio))
	if err != nil {
		return nil, err
	}
	var t Transcript
	if err := decodeLoose(b, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Synthesize converts reply text to audio for playback.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := encodeJSON(map[string]string{"text": text})
	if err != nil {
		return nil, err
	}
	return c.doRaw(ctx, "POST", "/api/tts/synthesize", "application/json", body)
}

// VoiceSession is the bootstrap for a realtime voice conversation.
type VoiceSession struct {
	ConversationID string `json:"conversationId"`
	RoomURL        string `json:"roomUrl,omitempty"`
	RoomToken      string `json:"roomToken,omitempty"`
}

// StartConversation asks the backend to open a voice session. The response
// carries room credentials when the realtime transport is available.
func (c *Client) StartConversation(ctx context.Context, deviceID string) (*VoiceSession, error) {
	var vs VoiceSession
	in := map[string]string{"deviceId": deviceID}
	if err := c.doJSON(ctx, "POST", "/api/voice/start-conversation", nil, in, &vs); err != nil {
		return nil, err
	}
	return &vs, nil
}

// SendChat posts a typed chat message and returns the assistant reply.
func (c *Client) SendChat(ctx context.Context, conversationID, message string) (string, error) {
	var resp struct {
		Reply string `json:"reply"`
	}
	in := map[string]string{"conversationId": conversationID, "message": message}
	if err := c.doJSON(ctx, "POST", "/api/voice/chat", nil, in, &resp); err != nil {
		return "", err
	}
	return resp.Reply, nil
}
