package domain

import (
	"encoding/json"
	"time"
)

// TeacherAvatar records a generated avatar for a teacher. It overrides the built-in avatar reference.
type TeacherAvatar struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TeacherID TeacherID `json:"teacher_id" gorm:"size:32;uniqueIndex"`
	Name      string    `json:"name" gorm:"size:64"`
	URL       string    `json:"url" gorm:"size:1024"`
	Source    string    `json:"source" gorm:"size:1024"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AvatarPrompt is the image prompt for one teacher.
type AvatarPrompt struct {
	TeacherID TeacherID
	Name      string
	Prompt    string
}

type AvatarResult struct {
	TeacherID TeacherID     `json:"teacher_id"`
	Name      string        `json:"name"`
	URL       string        `json:"url"`
	Took      time.Duration `json:"took"`
	Retried   bool          `json:"retried"`
	Err       error         `json:"-"`
}

// Prediction is the subset of a Replicate prediction we read.
type Prediction struct {
	ID     string           `json:"id"`
	Status string           `json:"status"`
	Output PredictionOutput `json:"output"`
	Error  string           `json:"error"`
}

// PredictionOutput accepts both a single URL and a list of URLs.
type PredictionOutput []string

func (o *PredictionOutput) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		if one != "" {
			*o = PredictionOutput{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*o = many
	return nil
}
