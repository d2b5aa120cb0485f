package models

import "time"

type Room struct {
	Code         string        `bson:"code" json:"roomCode"`
	QuizID       string        `bson:"quiz_id" json:"quizId"`
	HostID       string        `bson:"host_id" json:"hostId"`
	Status       string        `bson:"status" json:"status"`
	Participants []Participant `bson:"participants" json:"participants"`
	CreatedAt    time.Time     `bson:"created_at" json:"createdAt"`
	StartedAt    *time.Time    `bson:"started_at,omitempty" json:"startedAt,omitempty"`
	CompletedAt  *time.Time    `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
}

const (
	RoomStatusWaiting   = "waiting"
	RoomStatusActive    = "active"
	RoomStatusCompleted = "completed"
)

type Participant struct {
	ParticipantID  string     `bson:"participant_id" json:"participantId"`
	DisplayName    string     `bson:"display_name" json:"displayName"`
	IsHost         bool       `bson:"is_host" json:"isHost"`
	Score          int        `bson:"score" json:"score"`
	CorrectAnswers int        `bson:"correct_answers" json:"correctAnswers"`
	TotalQuestions int        `bson:"total_questions,omitempty" json:"totalQuestions,omitempty"`
	Finished       bool       `bson:"finished" json:"finished"`
	JoinedAt       time.Time  `bson:"joined_at" json:"joinedAt"`
	FinishedAt     *time.Time `bson:"finished_at,omitempty" json:"finishedAt,omitempty"`
}

// Host returns the room's host participant, or nil if the host has left.
func (r *Room) Host() *Participant {
	for i := range r.Participants {
		if r.Participants[i].IsHost {
			return &r.Participants[i]
		}
	}
	return nil
}

// AllFinished reports whether every current participant has finished.
// An empty participant list counts as finished so a room whose last
// member submits and then leaves cannot get stuck in active.
func (r *Room) AllFinished() bool {
	for i := range r.Participants {
		if !r.Participants[i].Finished {
			return false
		}
	}
	return true
}
