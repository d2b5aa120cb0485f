package handlers

import (
	"net/http"

	"quizroom-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizService *services.QuizService
}

func NewQuizHandler(quizService *services.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// SoloAttemptRequest maps question index to the selected option index;
// omitted indexes count as unanswered.
type SoloAttemptRequest struct {
	Answers map[int]int `json:"answers"`
}

// GetQuiz godoc
// @Summary      Get quiz content
// @Description  Ordered question list plus scoring configuration; read-only
// @Tags         quizzes
// @Produce      json
// @Param        id path string true "Quiz ID"
// @Success      200 {object} models.Quiz
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quiz, err := h.quizService.GetQuiz(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// ScoreSoloAttempt godoc
// @Summary      Score a solo attempt
// @Description  Evaluate answers with the quiz's negative-marking factor; nothing is stored
// @Tags         quizzes
// @Accept       json
// @Produce      json
// @Param        id path string true "Quiz ID"
// @Param        request body SoloAttemptRequest true "Selected options by question index"
// @Success      200 {object} services.AttemptResult
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id}/attempts [post]
func (h *QuizHandler) ScoreSoloAttempt(c *gin.Context) {
	var req SoloAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.quizService.ScoreSoloAttempt(c.Request.Context(), c.Param("id"), req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
