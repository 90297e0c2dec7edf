package model

// Setting is one row of the key/value settings store. Values are JSON
// documents owned by whatever feature registered the key.
type Setting struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `gorm:"not null" json:"value"`
}

func (Setting) TableName() string {
	return "settings"
}

// Well-known settings keys.
const (
	SettingKeyIntervalPolicy    = "review_intervals"
	SettingKeyReviewPreferences = "review_preferences"
)

// ReviewPreferences are the read-only toggles the session engine consumes.
type ReviewPreferences struct {
	AutoShuffleReview bool `json:"autoShuffleReview"`
	ShowKeyboardHints bool `json:"showKeyboardHints"`
}

func DefaultReviewPreferences() ReviewPreferences {
	return ReviewPreferences{
		AutoShuffleReview: false,
		ShowKeyboardHints: true,
	}
}
