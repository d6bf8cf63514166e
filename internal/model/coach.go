package model

import "time"

// CoachEntry is one coach parsed from a directory document. Only lines that
// contain both an email and the substring "coach" produce entries.
type CoachEntry struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Phone     string `json:"phone,omitempty"`
	FullLine  string `json:"full_line"`
	Role      string `json:"role"`
}

// VerificationStatus is the identity-review outcome for a claimed profile.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationInReview VerificationStatus = "in_review"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// SocialMedia holds profile social links, empty until the coach claims the
// profile and fills them in.
type SocialMedia struct {
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
	LinkedIn  string `json:"linkedin"`
}

// CoachProfile is the canonical claimable profile record. It is the only
// artifact of a run intended for durable storage; the claim-state fields are
// mutated later by the external claiming workflow, never here.
type CoachProfile struct {
	Username       string   `json:"username"`
	DisplayName    string   `json:"displayName"`
	Email          string   `json:"email"`
	PhoneNumber    string   `json:"phoneNumber,omitempty"`
	Bio            string   `json:"bio"`
	Sports         []string `json:"sports"`
	Role           string   `json:"role"`
	Experience     int      `json:"experience"`
	Certifications []string `json:"certifications"`
	HourlyRate     float64  `json:"hourlyRate"`
	Location       string   `json:"location"`
	Organization   string   `json:"organization"`
	SourceURL      string   `json:"sourceUrl"`
	Availability   []string `json:"availability"`
	Specialties    []string `json:"specialties"`
	Languages      []string `json:"languages"`
	Gender         string   `json:"gender"`
	AgeGroup       []string `json:"ageGroup"`

	AverageRating     float64     `json:"averageRating"`
	TotalReviews      int         `json:"totalReviews"`
	IsVerified        bool        `json:"isVerified"`
	IsPublic          bool        `json:"isPublic"`
	HasActiveServices bool        `json:"hasActiveServices"`
	ProfileImage      string      `json:"profileImage"`
	Website           string      `json:"website"`
	SocialMedia       SocialMedia `json:"socialMedia"`
	ProfileCompleted  bool        `json:"profileCompleted"`

	IsClaimed          bool               `json:"isClaimed"`
	UserID             string             `json:"userId,omitempty"`
	ClaimedAt          *time.Time         `json:"claimedAt,omitempty"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UpsertStatus is the outcome of writing a profile to the store.
type UpsertStatus string

const (
	UpsertCreated UpsertStatus = "created"
	UpsertUpdated UpsertStatus = "updated"
	// UpsertSkipped means an existing profile is claimed and was left alone.
	UpsertSkipped UpsertStatus = "skipped"
)

// UploadSummary reports the outcome of an upsert batch.
type UploadSummary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}
