package handlers

import (
	"net/http"
	"time"

	"quizroom-backend/internal/models"
	"quizroom-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	roomService *services.RoomService
}

func NewRoomHandler(roomService *services.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

type CreateRoomRequest struct {
	QuizID   string `json:"quizId" binding:"required" example:"Q1"`
	HostName string `json:"hostName" binding:"required" example:"Alice"`
}

type JoinRoomRequest struct {
	RoomCode   string `json:"roomCode" binding:"required" example:"AB3X9K"`
	PlayerName string `json:"playerName" binding:"required" example:"Bob"`
}

type StartQuizRequest struct {
	ParticipantID string `json:"participantId" binding:"required"`
}

type SubmitResultRequest struct {
	ParticipantID  string `json:"participantId" binding:"required"`
	Score          int    `json:"score"`
	CorrectAnswers int    `json:"correctAnswers"`
	TotalQuestions int    `json:"totalQuestions"`
}

type LeaveRoomRequest struct {
	ParticipantID string `json:"participantId" binding:"required"`
}

// RoomResponse echoes room membership back to the participant that
// created or joined it.
type RoomResponse struct {
	RoomCode      string               `json:"roomCode"`
	ParticipantID string               `json:"participantId"`
	QuizID        string               `json:"quizId"`
	Status        string               `json:"status"`
	Participants  []models.Participant `json:"participants"`
}

// RoomSnapshot is the authoritative state the reconciliation poller
// reads.
type RoomSnapshot struct {
	RoomCode     string               `json:"roomCode"`
	QuizID       string               `json:"quizId"`
	Status       string               `json:"status"`
	Participants []models.Participant `json:"participants"`
	StartedAt    *time.Time           `json:"startedAt,omitempty"`
	CompletedAt  *time.Time           `json:"completedAt,omitempty"`
}

type StartQuizResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

type SubmitResultResponse struct {
	Success      bool                 `json:"success"`
	AllFinished  bool                 `json:"allFinished"`
	Participants []models.Participant `json:"participants"`
}

// CreateRoom godoc
// @Summary      Create a room
// @Description  Create a waiting room for a quiz with the caller as host
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        request body CreateRoomRequest true "Quiz and host name"
// @Success      201 {object} RoomResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/rooms [post]
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), req.QuizID, req.HostName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, RoomResponse{
		RoomCode:      room.Code,
		ParticipantID: room.HostID,
		QuizID:        room.QuizID,
		Status:        room.Status,
		Participants:  room.Participants,
	})
}

// JoinRoom godoc
// @Summary      Join a room
// @Description  Join a waiting room by code; 404 once the quiz has started
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        request body JoinRoomRequest true "Room code and player name"
// @Success      200 {object} RoomResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/rooms/join [post]
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	var req JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	room, participantID, err := h.roomService.JoinRoom(c.Request.Context(), req.RoomCode, req.PlayerName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, RoomResponse{
		RoomCode:      room.Code,
		ParticipantID: participantID,
		QuizID:        room.QuizID,
		Status:        room.Status,
		Participants:  room.Participants,
	})
}

// GetRoom godoc
// @Summary      Get room state
// @Description  Authoritative room snapshot; polled by clients that cannot trust the push channel
// @Tags         rooms
// @Produce      json
// @Param        code path string true "Room code"
// @Success      200 {object} RoomSnapshot
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/rooms/{code} [get]
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.roomService.GetRoom(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, RoomSnapshot{
		RoomCode:     room.Code,
		QuizID:       room.QuizID,
		Status:       room.Status,
		Participants: room.Participants,
		StartedAt:    room.StartedAt,
		CompletedAt:  room.CompletedAt,
	})
}

// StartQuiz godoc
// @Summary      Start the quiz
// @Description  Host-only transition from waiting to active
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        code path string true "Room code"
// @Param        request body StartQuizRequest true "Requesting participant"
// @Success      200 {object} StartQuizResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/rooms/{code}/start [post]
func (h *RoomHandler) StartQuiz(c *gin.Context) {
	var req StartQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	room, err := h.roomService.StartQuiz(c.Request.Context(), c.Param("code"), req.ParticipantID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StartQuizResponse{Success: true, Status: room.Status})
}

// SubmitResult godoc
// @Summary      Submit a result
// @Description  Mark the participant finished; completes the room when everyone has
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        code path string true "Room code"
// @Param        request body SubmitResultRequest true "Result fields"
// @Success      200 {object} SubmitResultResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/rooms/{code}/submit [post]
func (h *RoomHandler) SubmitResult(c *gin.Context) {
	var req SubmitResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	room, allFinished, err := h.roomService.SubmitResult(
		c.Request.Context(), c.Param("code"), req.ParticipantID,
		req.Score, req.CorrectAnswers, req.TotalQuestions,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SubmitResultResponse{
		Success:      true,
		AllFinished:  allFinished,
		Participants: room.Participants,
	})
}

// LeaveRoom godoc
// @Summary      Leave a room
// @Description  Remove the participant; leaving an absent id is a no-op
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        code path string true "Room code"
// @Param        request body LeaveRoomRequest true "Leaving participant"
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/rooms/{code}/leave [post]
func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	var req LeaveRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.roomService.LeaveRoom(c.Request.Context(), c.Param("code"), req.ParticipantID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
