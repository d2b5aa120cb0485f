// Package player is the client-side runtime for quiz attempts: a REST
// client for the room control surface, a websocket subscriber for the
// push channel, the per-question countdown, the attempt runner, and
// the reconciliation poller that restores correctness when push
// delivery cannot be trusted.
package player

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quizroom-backend/internal/models"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// APIError is a non-2xx response from the room service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// RoomMembership is the response to creating or joining a room.
type RoomMembership struct {
	RoomCode      string               `json:"roomCode"`
	ParticipantID string               `json:"participantId"`
	QuizID        string               `json:"quizId"`
	Status        string               `json:"status"`
	Participants  []models.Participant `json:"participants"`
}

// RoomSnapshot is the authoritative room state.
type RoomSnapshot struct {
	RoomCode     string               `json:"roomCode"`
	QuizID       string               `json:"quizId"`
	Status       string               `json:"status"`
	Participants []models.Participant `json:"participants"`
	StartedAt    *time.Time           `json:"startedAt,omitempty"`
	CompletedAt  *time.Time           `json:"completedAt,omitempty"`
}

// Finished reports whether the quiz is over from this snapshot:
// either the room reached completed or every participant finished.
func (s *RoomSnapshot) Finished() bool {
	if s.Status == models.RoomStatusCompleted {
		return true
	}
	if len(s.Participants) == 0 {
		return false
	}
	for _, p := range s.Participants {
		if !p.Finished {
			return false
		}
	}
	return true
}

type SubmitOutcome struct {
	Success      bool                 `json:"success"`
	AllFinished  bool                 `json:"allFinished"`
	Participants []models.Participant `json:"participants"`
}

func (c *Client) CreateRoom(ctx context.Context, quizID, hostName string) (*RoomMembership, error) {
	var out RoomMembership
	err := c.do(ctx, http.MethodPost, "/api/v1/rooms",
		map[string]string{"quizId": quizID, "hostName": hostName}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) JoinRoom(ctx context.Context, code, playerName string) (*RoomMembership, error) {
	var out RoomMembership
	err := c.do(ctx, http.MethodPost, "/api/v1/rooms/join",
		map[string]string{"roomCode": code, "playerName": playerName}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetRoom(ctx context.Context, code string) (*RoomSnapshot, error) {
	var out RoomSnapshot
	if err := c.do(ctx, http.MethodGet, "/api/v1/rooms/"+code, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) StartQuiz(ctx context.Context, code, participantID string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/rooms/"+code+"/start",
		map[string]string{"participantId": participantID}, nil)
}

func (c *Client) SubmitResult(ctx context.Context, code, participantID string, score, correct, total int) (*SubmitOutcome, error) {
	var out SubmitOutcome
	err := c.do(ctx, http.MethodPost, "/api/v1/rooms/"+code+"/submit", map[string]any{
		"participantId":  participantID,
		"score":          score,
		"correctAnswers": correct,
		"totalQuestions": total,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LeaveRoom(ctx context.Context, code, participantID string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/rooms/"+code+"/leave",
		map[string]string{"participantId": participantID}, nil)
}

func (c *Client) GetQuiz(ctx context.Context, quizID string) (*models.Quiz, error) {
	var out models.Quiz
	if err := c.do(ctx, http.MethodGet, "/api/v1/quizzes/"+quizID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
